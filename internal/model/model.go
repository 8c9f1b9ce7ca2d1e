// Package model defines the persisted schema for the ingestion server:
// sensors and gateways are normalized out, readings reference both. Value
// columns are nullable so an absent measurement is stored as NULL, never as a
// fake zero.
package model

import "time"

// Sensor is one known sending device, keyed by its wire name.
type Sensor struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement"`
	SensorID string `gorm:"column:sensor_id;uniqueIndex"`
}

func (Sensor) TableName() string { return "sensors" }

// Gateway is one known forwarding device. The (id, name) pair is unique: the
// same box renamed counts as a new gateway, matching how dashboards label it.
type Gateway struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	GatewayID   string `gorm:"column:gateway_id;uniqueIndex:idx_gateway_identity"`
	GatewayName string `gorm:"column:gateway_name;uniqueIndex:idx_gateway_identity"`
}

func (Gateway) TableName() string { return "gateways" }

// ReadingRow is one ingested reading, time-series style.
type ReadingRow struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"column:timestamp;index"`
	SensorID  uint      `gorm:"column:sensor_id;index"`
	GatewayID uint      `gorm:"column:gateway_id"`

	Gravity  *float64 `gorm:"column:gravity"`
	Tilt     *float64 `gorm:"column:tilt"`
	Temp     *float64 `gorm:"column:temp"`
	AuxTemp  *float64 `gorm:"column:aux_temp"`
	Volt     *float64 `gorm:"column:volt"`
	Interval *int     `gorm:"column:interval"`
	Rssi     *int     `gorm:"column:rssi"`

	Sensor  Sensor  `gorm:"foreignKey:SensorID;references:ID"`
	Gateway Gateway `gorm:"foreignKey:GatewayID;references:ID"`
}

func (ReadingRow) TableName() string { return "readings" }
