package weather

// OneCallResponse is the OpenWeatherMap One Call payload, trimmed to the
// fields the reports consume. Unknown fields are dropped on decode but
// survive round-trips through the cache, which stores the raw bytes.
type OneCallResponse struct {
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Timezone string          `json:"timezone"`
	Current  Conditions      `json:"current"`
	Hourly   []Conditions    `json:"hourly"`
	Daily    []DailyForecast `json:"daily"`
	Alerts   []Alert         `json:"alerts,omitempty"`
}

// Conditions describes one observation: the current moment or one hour.
type Conditions struct {
	Dt        int64       `json:"dt"`
	Temp      float64     `json:"temp"`
	FeelsLike float64     `json:"feels_like"`
	Humidity  int         `json:"humidity"`
	WindSpeed float64     `json:"wind_speed"`
	WindDeg   float64     `json:"wind_deg"`
	Pop       float64     `json:"pop"`
	Weather   []Condition `json:"weather"`
}

// DailyForecast is one day in the daily forecast block.
type DailyForecast struct {
	Dt        int64       `json:"dt"`
	Sunrise   int64       `json:"sunrise"`
	Sunset    int64       `json:"sunset"`
	Temp      DailyTemp   `json:"temp"`
	FeelsLike DailyTemp   `json:"feels_like"`
	Humidity  int         `json:"humidity"`
	WindSpeed float64     `json:"wind_speed"`
	WindDeg   float64     `json:"wind_deg"`
	Pop       float64     `json:"pop"`
	Weather   []Condition `json:"weather"`
}

type DailyTemp struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
}

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type Alert struct {
	SenderName  string `json:"sender_name"`
	Event       string `json:"event"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Description string `json:"description"`
}

// Description returns the primary weather description, or empty when the
// upstream payload is malformed.
func (c Conditions) Description() string {
	if len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Description
}

func (d DailyForecast) Description() string {
	if len(d.Weather) == 0 {
		return ""
	}
	return d.Weather[0].Description
}
