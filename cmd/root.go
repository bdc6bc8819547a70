package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/weatherpls/weatherpls/internal/cache"
	"github.com/weatherpls/weatherpls/internal/config"
	"github.com/weatherpls/weatherpls/internal/forecast"
	"github.com/weatherpls/weatherpls/internal/geocode"
	"github.com/weatherpls/weatherpls/internal/report"
	"github.com/weatherpls/weatherpls/internal/weather"
	"github.com/weatherpls/weatherpls/pkg/logger"
	"github.com/weatherpls/weatherpls/pkg/telemetry"
)

var (
	log  *zap.Logger
	tele *telemetry.Telemetry
)

var (
	configPath string

	flagNow    bool
	flagToday  bool
	flagWeek   bool
	flagHourly bool

	flagLat     float64
	flagLon     float64
	flagUnits   string
	flagNoCache bool
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weatherpls [location]",
		Short: "Weather reports in your terminal",
		Long: `Fetches and displays a weather forecast for a place name or coordinates.
Responses are cached locally so repeated calls within the freshness window
skip the network. Uses OpenWeatherMap for weather data and OpenStreetMap
Nominatim for geocoding.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices()
		},
		RunE:          runReport,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.Flags().BoolVar(&flagNow, "now", false, "current conditions (default)")
	cmd.Flags().BoolVar(&flagToday, "today", false, "today's forecast")
	cmd.Flags().BoolVar(&flagWeek, "week", false, "daily forecast for the next week")
	cmd.Flags().BoolVar(&flagHourly, "hourly", false, "hour-by-hour forecast for the next 24 hours")

	cmd.Flags().Float64Var(&flagLat, "lat", 0, "latitude, skips forward geocoding")
	cmd.Flags().Float64Var(&flagLon, "lon", 0, "longitude, skips forward geocoding")
	cmd.Flags().StringVarP(&flagUnits, "units", "u", "", "units: imperial, metric or standard (default from config)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass cached responses and refetch")

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	err := rootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func initializeServices() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Warn("failed to initialize telemetry", zap.Error(err))
		tele = &telemetry.Telemetry{}
	}

	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	defer func() {
		_ = tele.Shutdown(cmd.Context())
		_ = log.Sync()
	}()

	mode, err := selectMode()
	if err != nil {
		return err
	}

	units := cfg.Weather.Units
	if cmd.Flags().Changed("units") {
		units = flagUnits
	}
	switch units {
	case "imperial", "metric", "standard":
	default:
		return fmt.Errorf("unknown units %q, want imperial, metric or standard", units)
	}

	req := forecast.Request{Mode: mode, NoCache: flagNoCache}
	if len(args) > 0 {
		req.Location = strings.Join(args, " ")
	} else {
		req.Lat, req.Lon = cfg.Weather.DefaultLat, cfg.Weather.DefaultLon
		if cmd.Flags().Changed("lat") {
			req.Lat = flagLat
		}
		if cmd.Flags().Changed("lon") {
			req.Lon = flagLon
		}
	}

	log.Debug("starting report",
		zap.String("mode", string(mode)),
		zap.String("location", req.Location),
		zap.String("units", units))

	cacheDir := resolveCacheDir(cfg.Cache.Dir)
	weatherCache := cache.New(
		filepath.Join(cacheDir, "weather.json"),
		time.Duration(cfg.Cache.WeatherTTL)*time.Second,
		cfg.Cache.MaxEntries,
		log)
	geocodeCache := cache.New(
		filepath.Join(cacheDir, "geocode.json"),
		time.Duration(cfg.Cache.GeocodeTTL)*time.Second,
		cfg.Cache.MaxEntries,
		log)

	svc := forecast.NewService(
		geocode.NewClient(cfg.Geocode),
		weather.NewClient(cfg.Weather),
		weatherCache,
		geocodeCache,
		units,
		log,
		tele)

	out, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// selectMode enforces the mutual exclusivity of the mode flags. No flag
// means current conditions.
func selectMode() (report.Mode, error) {
	var (
		mode  = report.ModeNow
		count int
	)
	for _, pick := range []struct {
		set  bool
		mode report.Mode
	}{
		{flagNow, report.ModeNow},
		{flagToday, report.ModeToday},
		{flagWeek, report.ModeWeek},
		{flagHourly, report.ModeHourly},
	} {
		if pick.set {
			mode = pick.mode
			count++
		}
	}
	if count > 1 {
		return "", fmt.Errorf("%w: pick one of --now, --today, --week, --hourly", report.ErrInvalidMode)
	}
	return mode, nil
}

func resolveCacheDir(configured string) string {
	if configured != "" {
		return configured
	}
	base, err := os.UserCacheDir()
	if err != nil {
		log.Warn("no user cache dir, using temp dir", zap.Error(err))
		base = os.TempDir()
	}
	return filepath.Join(base, "weatherpls")
}
