// Package forecast orchestrates the report pipeline: resolve the location,
// serve the forecast from cache when fresh, fetch and store it otherwise.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/weatherpls/weatherpls/internal/geocode"
	"github.com/weatherpls/weatherpls/internal/report"
	"github.com/weatherpls/weatherpls/internal/weather"
	"github.com/weatherpls/weatherpls/pkg/telemetry"
)

// Geocoder resolves place names to coordinates and back.
type Geocoder interface {
	Search(ctx context.Context, query string) (geocode.Place, error)
	Reverse(ctx context.Context, lat, lon float64) (geocode.Place, error)
}

// WeatherClient fetches a forecast payload for coordinates.
type WeatherClient interface {
	Forecast(ctx context.Context, lat, lon float64, units string) (*weather.OneCallResponse, []byte, error)
}

// Cache stores raw API payloads under string keys with TTL freshness.
type Cache interface {
	Get(key string) (json.RawMessage, bool)
	Put(key string, payload json.RawMessage) error
}

// Request is one CLI invocation's worth of parameters. Location takes
// precedence; with no location text the coordinates are used directly.
type Request struct {
	Location string
	Lat      float64
	Lon      float64
	Mode     report.Mode
	NoCache  bool
}

type Service struct {
	geocoder     Geocoder
	weather      WeatherClient
	weatherCache Cache
	geocodeCache Cache
	units        string
	logger       *zap.Logger
	tele         *telemetry.Telemetry
}

func NewService(
	geocoder Geocoder,
	weatherClient WeatherClient,
	weatherCache, geocodeCache Cache,
	units string,
	logger *zap.Logger,
	tele *telemetry.Telemetry,
) *Service {
	return &Service{
		geocoder:     geocoder,
		weather:      weatherClient,
		weatherCache: weatherCache,
		geocodeCache: geocodeCache,
		units:        units,
		logger:       logger,
		tele:         tele,
	}
}

// Run executes the full pipeline and returns the rendered report.
func (s *Service) Run(ctx context.Context, req Request) (string, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecast.Run")
	defer span.End()

	span.SetAttributes(
		attribute.String("mode", string(req.Mode)),
		attribute.String("location", req.Location),
	)

	place, err := s.resolvePlace(ctx, req)
	if err != nil {
		return "", err
	}

	s.logger.Debug("location resolved",
		zap.String("place", place.Name),
		zap.Float64("lat", place.Lat),
		zap.Float64("lon", place.Lon))

	data, err := s.forecastData(ctx, place, req)
	if err != nil {
		return "", err
	}

	return report.Render(req.Mode, place.Name, data, s.units)
}

// resolvePlace turns the request into a named coordinate pair, consulting
// the geocode cache before the network.
func (s *Service) resolvePlace(ctx context.Context, req Request) (geocode.Place, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecast.resolvePlace")
	defer span.End()

	var key string
	if req.Location != "" {
		key = "q:" + strings.ToLower(strings.Join(strings.Fields(req.Location), " "))
	} else {
		key = fmt.Sprintf("rev:%.2f,%.2f", req.Lat, req.Lon)
	}

	if !req.NoCache {
		if payload, ok := s.geocodeCache.Get(key); ok {
			var place geocode.Place
			if err := json.Unmarshal(payload, &place); err == nil {
				s.logger.Debug("geocode cache hit", zap.String("key", key))
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return place, nil
			}
			s.logger.Warn("discarding undecodable geocode cache entry", zap.String("key", key))
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	var (
		place geocode.Place
		err   error
	)
	if req.Location != "" {
		place, err = s.geocoder.Search(ctx, req.Location)
	} else {
		place, err = s.geocoder.Reverse(ctx, req.Lat, req.Lon)
	}
	if err != nil {
		return geocode.Place{}, err
	}

	if payload, merr := json.Marshal(place); merr == nil {
		if perr := s.geocodeCache.Put(key, payload); perr != nil {
			s.logger.Warn("failed to store geocode cache entry", zap.Error(perr))
		}
	}

	return place, nil
}

// forecastData returns the One Call payload for the place, fresh from cache
// or fetched and stored. Cache problems degrade to a miss.
func (s *Service) forecastData(ctx context.Context, place geocode.Place, req Request) (*weather.OneCallResponse, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecast.forecastData")
	defer span.End()

	key := CacheKey(place.Lat, place.Lon, s.units, req.Mode)

	if !req.NoCache {
		if payload, ok := s.weatherCache.Get(key); ok {
			data, err := weather.Decode(payload)
			if err == nil {
				s.logger.Debug("weather cache hit", zap.String("key", key))
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return data, nil
			}
			s.logger.Warn("discarding undecodable weather cache entry",
				zap.String("key", key),
				zap.Error(err))
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	s.logger.Info("cache miss, fetching forecast",
		zap.String("key", key),
		zap.Float64("lat", place.Lat),
		zap.Float64("lon", place.Lon))

	data, body, err := s.weather.Forecast(ctx, place.Lat, place.Lon, s.units)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	if err := s.weatherCache.Put(key, body); err != nil {
		s.logger.Warn("failed to store weather cache entry",
			zap.String("key", key),
			zap.Error(err))
	}

	span.SetAttributes(attribute.Bool("success", true))
	return data, nil
}

// CacheKey builds the weather cache key from coordinates rounded to two
// decimals (~1.1 km), the units, and the requested mode.
func CacheKey(lat, lon float64, units string, mode report.Mode) string {
	return fmt.Sprintf("%.2f,%.2f,%s,%s", lat, lon, units, mode)
}
