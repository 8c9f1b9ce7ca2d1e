package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/HBDK/Tilted/internal/config"
	"github.com/HBDK/Tilted/internal/gateway"
	"github.com/HBDK/Tilted/internal/transport"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(configPath); err != nil {
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

	g, err := buildGateway(cfg.Gateway)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("gateway starting",
		"name", cfg.Gateway.Name,
		"listen", cfg.Gateway.Listen,
		"serial", cfg.Gateway.Serial.Port,
		"forward", cfg.Gateway.ForwardURL)
	return g.Run(ctx)
}

func buildGateway(cfg config.GatewayConfig) (*gateway.Gateway, error) {
	g := &gateway.Gateway{
		Receiver: gateway.NewReceiver(cfg.Polynomial),
	}

	if cfg.Listen != "" {
		g.Listeners = append(g.Listeners, &transport.UDPListener{Addr: cfg.Listen})
	}
	if cfg.Serial.Port != "" {
		g.Listeners = append(g.Listeners, &transport.SerialListener{
			Port: cfg.Serial.Port,
			Baud: cfg.Serial.Baud,
		})
	}
	if len(g.Listeners) == 0 {
		return nil, fmt.Errorf("no listeners configured: set gateway.listen or gateway.serial.port")
	}

	if cfg.ForwardURL != "" {
		// A fresh ID per boot is enough: the server keys gateways by the
		// (id, name) pair and the name is the stable half.
		g.Forward = gateway.NewForwarder(cfg.ForwardURL, "gateway-"+uuid.NewString(), cfg.Name)
	}
	if cfg.Influx.URL != "" {
		g.Influx = gateway.NewInfluxWriter(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
	}
	return g, nil
}
