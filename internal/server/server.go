// Package server implements the HTTP ingestion service: it accepts readings
// from gateways, persists them in SQLite and serves the query API consumed by
// dashboards.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/HBDK/Tilted/internal/config"
	"github.com/HBDK/Tilted/internal/db"
)

// Server wires the database, the latest-reading cache and the echo router.
type Server struct {
	DB    *db.DB
	Cache *ReadingCache

	echo       *echo.Echo
	listen     string
	forwardURL string
}

// New opens the database, seeds the latest-reading cache from it and builds
// the router.
func New(cfg config.ServerConfig) (*Server, error) {
	d, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:         d,
		Cache:      NewReadingCache(cfg.LatestTTL),
		listen:     cfg.Listen,
		forwardURL: cfg.ForwardURL,
	}

	// Seed the cache so a restart does not empty the latest view. Expiry is
	// judged from seed time, not the stored timestamp, which is acceptable
	// for a view that refreshes on every ingest.
	latest, err := d.LatestReadings(context.Background())
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	for _, l := range latest {
		s.Cache.Set(l)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	s.routes(e)
	s.echo = e
	return s, nil
}

func (s *Server) routes(e *echo.Echo) {
	e.POST("/api/readings", s.handleEnvelope)
	e.POST("/api/publish", s.handlePublish)
	e.GET("/api/sensors", s.getSensors)
	e.GET("/api/readings/:sensorId", s.getSensorData)
	e.GET("/api/latest", s.getLatest)
	e.GET("/health", s.health)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until the context is cancelled, then shuts down gracefully and
// closes the database.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = s.DB.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server shutdown", "error", err)
	}
	return s.DB.Close()
}
