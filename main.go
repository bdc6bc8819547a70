package main

import (
	"os"

	"github.com/weatherpls/weatherpls/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
