package report

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// compassPoints are the 16 points of the compass rose, clockwise from north.
var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// beaufortScale maps a minimum wind speed in mph to its Beaufort
// description, in ascending order.
var beaufortScale = []struct {
	minSpeed    float64
	description string
}{
	{1, "Light air"},
	{4, "Light breeze"},
	{8, "Gentle breeze"},
	{13, "Moderate breeze"},
	{19, "Fresh breeze"},
	{25, "Strong breeze"},
	{32, "Near gale"},
	{39, "Gale"},
	{47, "Strong gale"},
	{55, "Whole gale"},
	{64, "Storm force"},
	{75, "Hurricane force"},
}

func mpsToMPH(speed float64) float64 {
	return math.Round(speed*2.237*100) / 100
}

// compassHeading buckets a bearing in degrees into a compass point name.
func compassHeading(degrees float64) string {
	idx := int(math.Mod(degrees+11.25, 360) / 22.5)
	return compassPoints[idx]
}

func beaufortDescription(windSpeed float64) string {
	description := "Calm"
	for _, step := range beaufortScale {
		if windSpeed < step.minSpeed {
			break
		}
		description = step.description
	}
	return description
}

// tempText renders a temperature, deferring to the feels-like value when it
// is noticeably hotter than the measured one.
func tempText(temp, feelsLike int) string {
	if feelsLike-temp > 3 {
		return fmt.Sprintf("Feels like %d°", feelsLike)
	}
	return fmt.Sprintf("%d°", temp)
}

// windText describes wind strength and, above a crawl, its direction.
// Speeds are converted to mph unless already imperial.
func windText(speed, degrees float64, units string) string {
	if units != "imperial" {
		speed = mpsToMPH(speed)
	}
	description := beaufortDescription(speed)
	if speed < 1 {
		return description
	}
	return description + ", " + compassHeading(degrees)
}

func ordinal(n int) string {
	if rem := n % 100; rem >= 11 && rem <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// clockTime formats a unix timestamp as a 12-hour H:MM time.
func clockTime(ts int64) string {
	t := time.Unix(ts, 0)
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d", hour, t.Minute())
}

// longDate formats a unix timestamp as e.g. "Monday, June 1st".
func longDate(ts int64) string {
	t := time.Unix(ts, 0)
	return fmt.Sprintf("%s, %s %s", t.Weekday(), t.Month(), ordinal(t.Day()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func popText(pop float64) string {
	return fmt.Sprintf("%d%% chance of precipitation", int(pop*100))
}

// center pads s with spaces on both sides to the given width, the extra
// space going right, matching how the columns have always lined up.
func center(s string, width int) string {
	margin := width - len([]rune(s))
	if margin <= 0 {
		return s
	}
	left := margin / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}
