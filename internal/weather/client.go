// Package weather fetches forecast data from the OpenWeatherMap One Call API.
package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/weatherpls/weatherpls/internal/config"
)

var (
	// ErrWeatherFetch marks an unreachable upstream or a non-success status.
	ErrWeatherFetch = errors.New("weather fetch failed")
	// ErrMissingAPIKey is reported before any network call is attempted.
	ErrMissingAPIKey = errors.New("weather API key is not configured")
)

type Client struct {
	client *resty.Client
	apiKey string
}

func NewClient(cfg config.WeatherConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", "weatherpls/1.0").
		SetTimeout(time.Duration(cfg.Timeout) * time.Second)

	return &Client{
		client: client,
		apiKey: cfg.APIKey,
	}
}

// Forecast fetches the full One Call payload (current, hourly, daily,
// alerts) for the coordinates. The raw body is returned alongside the
// decoded struct so callers can cache exactly what the API sent.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, units string) (*OneCallResponse, []byte, error) {
	if c.apiKey == "" {
		return nil, nil, ErrMissingAPIKey
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%f", lat),
			"lon":   fmt.Sprintf("%f", lon),
			"appid": c.apiKey,
			"units": units,
		}).
		Get("/onecall")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrWeatherFetch, err)
	}
	if resp.IsError() {
		return nil, nil, fmt.Errorf("%w: unexpected status %d", ErrWeatherFetch, resp.StatusCode())
	}

	body := resp.Body()
	data, err := Decode(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrWeatherFetch, err)
	}

	return data, body, nil
}
