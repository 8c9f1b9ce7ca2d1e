package server

import (
	"testing"
	"time"

	"github.com/HBDK/Tilted/internal/db"
)

func TestReadingCacheExpiry(t *testing.T) {
	c := NewReadingCache(20 * time.Millisecond)
	c.Set(db.LatestReading{SensorID: "tilt-a"})

	if _, ok := c.Get("tilt-a"); !ok {
		t.Fatal("fresh entry missing")
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("tilt-a"); ok {
		t.Fatal("expired entry still served")
	}
	if got := c.All(); len(got) != 0 {
		t.Fatalf("All returned %d expired entries", len(got))
	}
}

func TestReadingCacheOrdering(t *testing.T) {
	c := NewReadingCache(time.Hour)
	c.Set(db.LatestReading{SensorID: "tilt-b"})
	c.Set(db.LatestReading{SensorID: "tilt-a"})

	got := c.All()
	if len(got) != 2 || got[0].SensorID != "tilt-a" || got[1].SensorID != "tilt-b" {
		t.Fatalf("All = %+v", got)
	}
}
