package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"histomap/internal/app"
	"histomap/internal/config"
	"histomap/internal/logging"
)

func main() {
	mode := flag.String("mode", "discover", "discover | quiz | onthisday | bot")
	lat := flag.Float64("lat", 48.8566, "latitude of the discovery point")
	lon := flag.Float64("lon", 2.3522, "longitude of the discovery point")
	radius := flag.Int("radius", 0, "search radius in meters (0 = config default)")
	difficulty := flag.String("difficulty", "hard", "quiz difficulty: easy | hard")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application start failed", "error", err)
		os.Exit(1)
	}

	runErr := application.Run(ctx, app.RunOptions{
		Mode:       *mode,
		Lat:        *lat,
		Lon:        *lon,
		Radius:     *radius,
		Difficulty: *difficulty,
	})
	if closeErr := application.Close(); closeErr != nil {
		logger.Warn("close store", "error", closeErr)
	}
	if runErr != nil {
		logger.Error("application stopped", "error", runErr)
		os.Exit(1)
	}
}
