// Package geocode resolves place names to coordinates and back using the
// OpenStreetMap Nominatim API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/weatherpls/weatherpls/internal/config"
)

// ErrLocationNotFound is returned when the geocoder has no match for a query.
var ErrLocationNotFound = errors.New("location not found")

// Place is a resolved location. Immutable once returned.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type Client struct {
	client *resty.Client
}

func NewClient(cfg config.GeocodeConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second)

	return &Client{client: client}
}

// nominatimPlace covers both the /search array items and the /reverse
// object. Coordinates arrive as strings in jsonv2.
type nominatimPlace struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search forward-geocodes a free-text location string. An empty result set
// maps to ErrLocationNotFound.
func (c *Client) Search(ctx context.Context, query string) (Place, error) {
	var results []nominatimPlace

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "jsonv2",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return Place{}, fmt.Errorf("geocode search: %w", err)
	}
	if resp.IsError() {
		return Place{}, fmt.Errorf("geocode search: unexpected status %d", resp.StatusCode())
	}

	if len(results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
	}

	return toPlace(results[0])
}

// Reverse looks up a display name for coordinates, matching the original
// city-level zoom.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	var result nominatimPlace

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    fmt.Sprintf("%f", lat),
			"lon":    fmt.Sprintf("%f", lon),
			"zoom":   "10",
			"format": "jsonv2",
		}).
		SetResult(&result).
		Get("/reverse")
	if err != nil {
		return Place{}, fmt.Errorf("geocode reverse: %w", err)
	}
	if resp.IsError() {
		return Place{}, fmt.Errorf("geocode reverse: unexpected status %d", resp.StatusCode())
	}

	if result.Name == "" && result.DisplayName == "" {
		return Place{}, fmt.Errorf("%w: %.4f,%.4f", ErrLocationNotFound, lat, lon)
	}

	place, err := toPlace(result)
	if err != nil {
		// Reverse lookups already have exact coordinates, keep them.
		place = Place{Name: placeName(result), Lat: lat, Lon: lon}
	}
	return place, nil
}

func toPlace(p nominatimPlace) (Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}
	return Place{Name: placeName(p), Lat: lat, Lon: lon}, nil
}

func placeName(p nominatimPlace) string {
	if p.Name != "" {
		return p.Name
	}
	return p.DisplayName
}
