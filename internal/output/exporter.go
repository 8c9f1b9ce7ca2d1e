// Package output exports stored sensor series to JSON or CSV files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/HBDK/Tilted/internal/db"
)

// WriteJSON writes sensor series to a JSON file with pretty formatting.
func WriteJSON(path string, series []db.SensorData) error {
	b, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteCSV flattens sensor series and writes to a CSV file.
// Columns: sensor_id,gateway_id,gateway_name,timestamp,gravity,tilt,temp,aux_temp,volt,interval,rssi
func WriteCSV(path string, series []db.SensorData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"sensor_id", "gateway_id", "gateway_name", "timestamp", "gravity", "tilt", "temp", "aux_temp", "volt", "interval", "rssi"}
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range series {
		for _, p := range s.DataPoints {
			rec := []string{
				s.SensorID,
				s.GatewayID,
				s.GatewayName,
				timeToRFC3339(p.Timestamp),
				fmtFloat(p.Gravity),
				fmtFloat(p.Tilt),
				fmtFloat(p.Temp),
				fmtFloat(p.AuxTemp),
				fmtFloat(p.Volt),
				fmtInt(p.Interval),
				fmtInt(p.Rssi),
			}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

// Absent values export as empty cells, never as zeros.
func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func timeToRFC3339(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(time.RFC3339Nano)
}
