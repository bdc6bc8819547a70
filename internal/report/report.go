// Package report renders One Call forecast data as printable text. All
// functions are pure: same payload and mode in, same text out.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weatherpls/weatherpls/internal/weather"
)

// ErrInvalidMode is returned for an unknown or ambiguous output mode.
var ErrInvalidMode = errors.New("invalid output mode")

// Mode selects the forecast window to render.
type Mode string

const (
	ModeNow    Mode = "now"
	ModeToday  Mode = "today"
	ModeWeek   Mode = "week"
	ModeHourly Mode = "hourly"
)

// hourlyWindow caps the hourly table at one day ahead.
const hourlyWindow = 24

// Repeat markers for hourly table cells whose value carries over from the
// previous hour: continueMark for the middle of a run, repeatMark for its end.
const (
	repeatMark   = "↓"
	continueMark = "╎"
)

// Render maps a forecast payload and mode to printable text. Malformed or
// empty payload sections are reported in the output, never as an error.
func Render(mode Mode, location string, data *weather.OneCallResponse, units string) (string, error) {
	if data == nil {
		return "No forecast data available.", nil
	}
	switch mode {
	case ModeNow:
		return Current(location, data.Current, units), nil
	case ModeToday:
		return Today(data.Daily), nil
	case ModeWeek:
		return Week(location, data.Daily, units), nil
	case ModeHourly:
		return Hourly(location, data.Hourly, units), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// Current renders a single line of current conditions.
func Current(location string, current weather.Conditions, units string) string {
	desc := capitalize(current.Description())
	if desc == "" {
		desc = "No conditions reported"
	}
	return fmt.Sprintf("Currently in %s: %s | %s | %d%% humid | %s",
		location,
		desc,
		tempText(int(current.Temp), int(current.FeelsLike)),
		current.Humidity,
		windText(current.WindSpeed, current.WindDeg, units))
}

// Today renders the first daily entry with highs, lows and sun times.
func Today(daily []weather.DailyForecast) string {
	if len(daily) == 0 {
		return "No daily forecast data available."
	}
	day := daily[0]

	var b strings.Builder
	fmt.Fprintf(&b, "Forecast for %s:\n", longDate(day.Dt))
	fmt.Fprintf(&b, "  %s, %s | %d%% humidity | %s\n",
		capitalize(day.Description()),
		tempText(int(day.Temp.Day), int(day.FeelsLike.Day)),
		day.Humidity,
		beaufortDescription(mpsToMPH(day.WindSpeed)))
	fmt.Fprintf(&b, "  %s\n", popText(day.Pop))
	fmt.Fprintf(&b, "  High of %d°, low of %d°\n", int(day.Temp.Max), int(day.Temp.Min))
	fmt.Fprintf(&b, "  Sunrise at %s, sunset at %s", clockTime(day.Sunrise), clockTime(day.Sunset))
	return b.String()
}

// Week renders one padded line per day in the daily forecast.
func Week(location string, daily []weather.DailyForecast, units string) string {
	if len(daily) == 0 {
		return "No daily forecast data available."
	}

	rows := make([]row, 0, len(daily))
	for _, day := range daily {
		rows = append(rows, row{
			longDate(day.Dt),
			capitalize(day.Description()),
			tempText(int(day.Temp.Day), int(day.FeelsLike.Day)),
			fmt.Sprintf("%d%% humidity", day.Humidity),
			beaufortDescription(mpsToMPH(day.WindSpeed)),
			popText(day.Pop),
		})
	}
	padColumns(rows)

	var b strings.Builder
	fmt.Fprintf(&b, "The next week in %s:\n", location)
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %s | %s | %s | %s | %s\n", r[0], r[1], r[2], r[3], r[4], r[5])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Hourly renders the next 24 hours as an aligned table. Values repeated
// from the previous hour collapse into continuity markers.
func Hourly(location string, hourly []weather.Conditions, units string) string {
	if len(hourly) == 0 {
		return "No hourly forecast data available."
	}
	if len(hourly) > hourlyWindow {
		hourly = hourly[:hourlyWindow]
	}

	rows := make([]row, 0, len(hourly))
	for _, hour := range hourly {
		rows = append(rows, row{
			clockTime(hour.Dt),
			capitalize(hour.Description()),
			tempText(int(hour.Temp), int(hour.FeelsLike)),
			fmt.Sprintf("%d%% humidity", hour.Humidity),
			windText(hour.WindSpeed, hour.WindDeg, units),
			popText(hour.Pop),
		})
	}
	markRepeats(rows)
	padColumns(rows)

	var b strings.Builder
	fmt.Fprintf(&b, "Next %d hours in %s:\n", len(rows), location)
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s | %s | %s | %s | %s | %s\n", r[0], r[1], r[2], r[3], r[4], r[5])
	}
	return strings.TrimRight(b.String(), "\n")
}

// row columns: time/date, description, temperature, humidity, wind, pop.
type row [6]string

// markRepeats replaces values that repeat from the previous row with
// continuity markers. Temperature and humidity stay verbatim; a glanceable
// number matters more there than a shorter line.
func markRepeats(rows []row) {
	const (
		tempCol     = 2
		humidityCol = 3
	)

	if len(rows) < 2 {
		return
	}

	last := rows[0]
	for i := 1; i < len(rows); i++ {
		for col := range rows[i] {
			if col == tempCol || col == humidityCol {
				continue
			}
			if rows[i][col] == last[col] {
				rows[i][col] = repeatMark
			} else {
				last[col] = rows[i][col]
			}
		}
	}

	// All but the last marker in a run indicate continuation.
	for i := 0; i < len(rows)-1; i++ {
		for col := range rows[i] {
			if rows[i][col] == repeatMark && rows[i+1][col] == repeatMark {
				rows[i][col] = continueMark
			}
		}
	}
}

// padColumns centers every cell to the width of its column's widest value.
func padColumns(rows []row) {
	var widths [6]int
	for _, r := range rows {
		for col, cell := range r {
			if n := len([]rune(cell)); n > widths[col] {
				widths[col] = n
			}
		}
	}
	for i := range rows {
		for col := range rows[i] {
			rows[i][col] = center(rows[i][col], widths[col])
		}
	}
}
