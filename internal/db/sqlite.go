// Package db persists ingested readings in SQLite behind a small query API.
package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/HBDK/Tilted/internal/model"
	"github.com/HBDK/Tilted/pkg/reading"
)

// DB wraps the sqlite connection.
type DB struct {
	ORM *gorm.DB
}

// Open opens the SQLite database using GORM and runs migrations.
func Open(path string) (*DB, error) {
	g, err := openORM(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrateORM(g); err != nil {
		_ = closeORM(g)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &DB{ORM: g}, nil
}

func (d *DB) Close() error { return closeORM(d.ORM) }

// SaveReading stores one reading, creating the sensor and gateway rows on
// first sight. The whole insert is transactional so a failure leaves no
// orphaned identity rows.
func (d *DB) SaveReading(ctx context.Context, sensorID, gatewayID, gatewayName string, ts time.Time, r reading.Reading) error {
	return d.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sensor := model.Sensor{SensorID: sensorID}
		if err := tx.Where(&model.Sensor{SensorID: sensorID}).FirstOrCreate(&sensor).Error; err != nil {
			return fmt.Errorf("sensor lookup: %w", err)
		}

		gw := model.Gateway{GatewayID: gatewayID, GatewayName: gatewayName}
		if err := tx.Where(&model.Gateway{GatewayID: gatewayID, GatewayName: gatewayName}).FirstOrCreate(&gw).Error; err != nil {
			return fmt.Errorf("gateway lookup: %w", err)
		}

		row := model.ReadingRow{
			Timestamp: ts,
			SensorID:  sensor.ID,
			GatewayID: gw.ID,
			Gravity:   r.Gravity,
			Tilt:      r.Angle,
			Temp:      r.Temp,
			AuxTemp:   r.AuxTemp,
			Volt:      r.Battery,
			Interval:  r.Interval,
			Rssi:      r.Rssi,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert reading: %w", err)
		}
		return nil
	})
}

// ListSensors returns all known sensor names, ordered.
func (d *DB) ListSensors(ctx context.Context) ([]string, error) {
	var sensors []model.Sensor
	if err := d.ORM.WithContext(ctx).Order("sensor_id").Find(&sensors).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(sensors))
	for _, s := range sensors {
		out = append(out, s.SensorID)
	}
	return out, nil
}

// DataPoint is one reading prepared for frontend visualization. Timestamps
// are Unix milliseconds, matching the dashboard API.
type DataPoint struct {
	Timestamp int64    `json:"timestamp"`
	Gravity   *float64 `json:"gravity,omitempty"`
	Tilt      *float64 `json:"tilt,omitempty"`
	Temp      *float64 `json:"temp,omitempty"`
	AuxTemp   *float64 `json:"aux_temp,omitempty"`
	Volt      *float64 `json:"volt,omitempty"`
	Interval  *int     `json:"interval,omitempty"`
	Rssi      *int     `json:"rssi,omitempty"`
}

// SensorData is the complete windowed series for one sensor.
type SensorData struct {
	SensorID    string      `json:"sensorId"`
	GatewayID   string      `json:"gatewayId"`
	GatewayName string      `json:"gatewayName"`
	DataPoints  []DataPoint `json:"dataPoints"`
}

// SensorReadings returns the readings for a sensor within [start, end], both
// Unix milliseconds, in ascending time order.
func (d *DB) SensorReadings(ctx context.Context, sensorID string, start, end int64) (SensorData, error) {
	out := SensorData{SensorID: sensorID, DataPoints: []DataPoint{}}

	var rows []model.ReadingRow
	err := d.ORM.WithContext(ctx).
		Joins("Sensor").Joins("Gateway").
		Where("\"Sensor\".sensor_id = ? AND timestamp >= ? AND timestamp <= ?",
			sensorID, time.UnixMilli(start), time.UnixMilli(end)).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		if out.GatewayID == "" {
			out.GatewayID = row.Gateway.GatewayID
			out.GatewayName = row.Gateway.GatewayName
		}
		out.DataPoints = append(out.DataPoints, DataPoint{
			Timestamp: row.Timestamp.UnixMilli(),
			Gravity:   row.Gravity,
			Tilt:      row.Tilt,
			Temp:      row.Temp,
			AuxTemp:   row.AuxTemp,
			Volt:      row.Volt,
			Interval:  row.Interval,
			Rssi:      row.Rssi,
		})
	}
	return out, nil
}

// LatestReading is the newest stored row for one sensor, for exports and the
// latest endpoint.
type LatestReading struct {
	SensorID    string `json:"sensorId"`
	GatewayID   string `json:"gatewayId"`
	GatewayName string `json:"gatewayName"`
	DataPoint
}

// LatestReadings returns, per sensor, the newest reading by timestamp.
func (d *DB) LatestReadings(ctx context.Context) ([]LatestReading, error) {
	sensors, err := d.ListSensors(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LatestReading, 0, len(sensors))
	for _, sid := range sensors {
		var row model.ReadingRow
		err := d.ORM.WithContext(ctx).
			Joins("Sensor").Joins("Gateway").
			Where("\"Sensor\".sensor_id = ?", sid).
			Order("timestamp DESC").
			First(&row).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, LatestReading{
			SensorID:    sid,
			GatewayID:   row.Gateway.GatewayID,
			GatewayName: row.Gateway.GatewayName,
			DataPoint: DataPoint{
				Timestamp: row.Timestamp.UnixMilli(),
				Gravity:   row.Gravity,
				Tilt:      row.Tilt,
				Temp:      row.Temp,
				AuxTemp:   row.AuxTemp,
				Volt:      row.Volt,
				Interval:  row.Interval,
				Rssi:      row.Rssi,
			},
		})
	}
	return out, nil
}
