package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HBDK/Tilted/internal/config"
	"github.com/HBDK/Tilted/internal/sensor"
	"github.com/HBDK/Tilted/internal/transport"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(configPath); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	if cfg.Sensor.Target == "" {
		return fmt.Errorf("sensor.target is required")
	}
	if cfg.Sensor.DeviceID == 0 {
		return fmt.Errorf("sensor.device_id is required")
	}

	var sampler sensor.Sampler
	if cfg.Sensor.CSVFile != "" {
		sampler, err = sensor.NewCSVSampler(cfg.Sensor.CSVFile)
		if err != nil {
			return fmt.Errorf("load sample trace: %w", err)
		}
	} else {
		sampler = sensor.NewDriftSampler(time.Now().UnixNano())
	}

	sender, err := transport.DialUDP(cfg.Sensor.Target)
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}

	s := sensor.New(cfg.Sensor.DeviceID, cfg.Sensor.Name, cfg.Sensor.Interval, cfg.Sensor.Samples, sampler, sender)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("sensor starting",
		"name", cfg.Sensor.Name,
		"target", cfg.Sensor.Target,
		"interval", cfg.Sensor.Interval)
	return s.Run(ctx)
}
