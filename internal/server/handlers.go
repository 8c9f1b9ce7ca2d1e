package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HBDK/Tilted/internal/db"
	"github.com/HBDK/Tilted/pkg/reading"
)

// Envelope is the structured ingestion payload: one reading plus the identity
// of the gateway that relayed it. Value fields are pointers so an absent
// measurement is stored as NULL.
type Envelope struct {
	Reading     EnvelopeReading `json:"reading"`
	GatewayID   string          `json:"gatewayId"`
	GatewayName string          `json:"gatewayName"`
}

type EnvelopeReading struct {
	SensorID string   `json:"sensorId"`
	Gravity  *float64 `json:"gravity,omitempty"`
	Tilt     *float64 `json:"tilt,omitempty"`
	Temp     *float64 `json:"temp,omitempty"`
	AuxTemp  *float64 `json:"aux_temp,omitempty"`
	Volt     *float64 `json:"volt,omitempty"`
	Interval *int     `json:"interval,omitempty"`
	Rssi     *int     `json:"rssi,omitempty"`
}

func (e EnvelopeReading) toReading() reading.Reading {
	return reading.Reading{
		Name:     e.SensorID,
		Gravity:  e.Gravity,
		Angle:    e.Tilt,
		Temp:     e.Temp,
		AuxTemp:  e.AuxTemp,
		Battery:  e.Volt,
		Interval: e.Interval,
		Rssi:     e.Rssi,
	}
}

// handleEnvelope ingests the structured payload.
func (s *Server) handleEnvelope(c echo.Context) error {
	var env Envelope
	if err := c.Bind(&env); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}
	if env.Reading.SensorID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sensorId is required"})
	}

	if err := s.ingest(c.Request().Context(), env); err != nil {
		slog.Error("store reading", "sensor", env.Reading.SensorID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "error": "failed to store reading"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// handlePublish ingests the raw gateway reading JSON, so a gateway's forward
// URL can point straight at this server. Gateway identity rides in headers
// with the remote address as fallback.
func (s *Server) handlePublish(c echo.Context) error {
	var r reading.Reading
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid gateway payload"})
	}
	if r.Name == "" {
		r.Name = "unknown"
	}

	gatewayID := c.Request().Header.Get("X-Gateway-ID")
	gatewayName := c.Request().Header.Get("X-Gateway-Name")
	if gatewayID == "" {
		gatewayID = c.Request().RemoteAddr
	}
	if gatewayName == "" {
		gatewayName = gatewayID
	}

	env := Envelope{
		Reading: EnvelopeReading{
			SensorID: r.Name,
			Gravity:  r.Gravity,
			Tilt:     r.Angle,
			Temp:     r.Temp,
			AuxTemp:  r.AuxTemp,
			Volt:     r.Battery,
			Interval: r.Interval,
			Rssi:     r.Rssi,
		},
		GatewayID:   gatewayID,
		GatewayName: gatewayName,
	}
	if err := s.ingest(c.Request().Context(), env); err != nil {
		slog.Error("store gateway payload", "sensor", r.Name, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "error": "failed to store reading"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ingest persists one reading, refreshes the latest cache and kicks off the
// optional onward forward.
func (s *Server) ingest(ctx context.Context, env Envelope) error {
	now := time.Now()
	r := env.Reading.toReading()
	if err := s.DB.SaveReading(ctx, env.Reading.SensorID, env.GatewayID, env.GatewayName, now, r); err != nil {
		return err
	}

	s.Cache.Set(db.LatestReading{
		SensorID:    env.Reading.SensorID,
		GatewayID:   env.GatewayID,
		GatewayName: env.GatewayName,
		DataPoint: db.DataPoint{
			Timestamp: now.UnixMilli(),
			Gravity:   env.Reading.Gravity,
			Tilt:      env.Reading.Tilt,
			Temp:      env.Reading.Temp,
			AuxTemp:   env.Reading.AuxTemp,
			Volt:      env.Reading.Volt,
			Interval:  env.Reading.Interval,
			Rssi:      env.Reading.Rssi,
		},
	})

	if s.forwardURL != "" {
		go func() {
			if err := forwardEnvelope(s.forwardURL, env); err != nil {
				slog.Warn("forward failed", "url", s.forwardURL, "error", err)
			}
		}()
	}
	return nil
}

// forwardEnvelope relays the ingested payload onward. One attempt, short
// timeout; failures are the caller's to log.
func forwardEnvelope(url string, env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}

func (s *Server) getSensors(c echo.Context) error {
	sensors, err := s.DB.ListSensors(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if sensors == nil {
		sensors = []string{}
	}
	return c.JSON(http.StatusOK, sensors)
}

// getSensorData serves the windowed series for one sensor. Missing or
// malformed time parameters fall back to the last 24 hours; a reversed window
// is repaired rather than rejected.
func (s *Server) getSensorData(c echo.Context) error {
	sensorID := c.Param("sensorId")
	if sensorID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sensor ID is required"})
	}

	end := time.Now().UnixMilli()
	if v := c.QueryParam("endTime"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			end = parsed
		} else {
			slog.Debug("bad endTime, defaulting to now", "value", v)
		}
	}
	start := time.UnixMilli(end).Add(-24 * time.Hour).UnixMilli()
	if v := c.QueryParam("startTime"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			start = parsed
		} else {
			slog.Debug("bad startTime, defaulting to 24h window", "value", v)
		}
	}
	if start > end {
		start = time.UnixMilli(end).Add(-24 * time.Hour).UnixMilli()
	}

	data, err := s.DB.SensorReadings(c.Request().Context(), sensorID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, data)
}

func (s *Server) getLatest(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Cache.All())
}

func (s *Server) health(c echo.Context) error {
	sqlDB, err := s.DB.ORM.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  "database connection failed",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
