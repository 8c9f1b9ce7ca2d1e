package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/HBDK/Tilted/internal/config"
	"github.com/HBDK/Tilted/internal/db"
	"github.com/HBDK/Tilted/internal/output"
)

func main() {
	var configPath string
	var outJSON string
	var outCSV string
	var sensorID string
	var since time.Duration
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&outJSON, "json", "", "path to write JSON export (optional)")
	flag.StringVar(&outCSV, "csv", "", "path to write CSV export (optional)")
	flag.StringVar(&sensorID, "sensor", "", "export a single sensor (default: all)")
	flag.DurationVar(&since, "since", 0, "export window, e.g. 168h (default: everything)")
	flag.Parse()

	if outJSON == "" && outCSV == "" {
		log.Fatalf("no output specified: set --json and/or --csv")
	}

	if err := run(configPath, outJSON, outCSV, sensorID, since); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, outJSON, outCSV, sensorID string, since time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	d, err := db.Open(cfg.Server.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer d.Close()

	ctx := context.Background()

	sensors := []string{sensorID}
	if sensorID == "" {
		sensors, err = d.ListSensors(ctx)
		if err != nil {
			return fmt.Errorf("list sensors: %w", err)
		}
	}

	end := time.Now().UnixMilli()
	var start int64
	if since > 0 {
		start = time.Now().Add(-since).UnixMilli()
	}

	series := make([]db.SensorData, 0, len(sensors))
	for _, sid := range sensors {
		data, err := d.SensorReadings(ctx, sid, start, end)
		if err != nil {
			return fmt.Errorf("read sensor %s: %w", sid, err)
		}
		series = append(series, data)
	}

	if outJSON != "" {
		if err := output.WriteJSON(outJSON, series); err != nil {
			return err
		}
		log.Printf("wrote %s", outJSON)
	}
	if outCSV != "" {
		if err := output.WriteCSV(outCSV, series); err != nil {
			return err
		}
		log.Printf("wrote %s", outCSV)
	}
	return nil
}
