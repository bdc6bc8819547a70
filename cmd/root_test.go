package cmd

import (
	"errors"
	"testing"

	"github.com/weatherpls/weatherpls/internal/report"
)

func resetModeFlags() {
	flagNow, flagToday, flagWeek, flagHourly = false, false, false, false
}

func TestSelectModeDefaultsToNow(t *testing.T) {
	resetModeFlags()

	mode, err := selectMode()
	if err != nil {
		t.Fatalf("selectMode returned error: %v", err)
	}
	if mode != report.ModeNow {
		t.Errorf("expected now, got %s", mode)
	}
}

func TestSelectModeSingleFlag(t *testing.T) {
	cases := []struct {
		set  *bool
		want report.Mode
	}{
		{&flagNow, report.ModeNow},
		{&flagToday, report.ModeToday},
		{&flagWeek, report.ModeWeek},
		{&flagHourly, report.ModeHourly},
	}

	for _, tc := range cases {
		resetModeFlags()
		*tc.set = true

		mode, err := selectMode()
		if err != nil {
			t.Fatalf("selectMode(%s) returned error: %v", tc.want, err)
		}
		if mode != tc.want {
			t.Errorf("expected %s, got %s", tc.want, mode)
		}
	}
}

func TestSelectModeRejectsMultipleFlags(t *testing.T) {
	resetModeFlags()
	flagToday = true
	flagHourly = true

	_, err := selectMode()
	if !errors.Is(err, report.ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}
