package sensor

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
)

// Sampler yields one raw tilt/temperature sample per call. Run collects a
// window of them per report and median-filters the tilt.
type Sampler interface {
	Sample() (tilt, temp float64, err error)
}

// DriftSampler synthesizes a slow fermentation curve: tilt drifts from Start
// toward End with jitter, temperature wobbles around Ambient. Useful for
// exercising a gateway and server without hardware.
type DriftSampler struct {
	Start   float64 // initial tilt, degrees
	End     float64 // final tilt, degrees
	Steps   int     // samples until the drift completes
	Ambient float64 // mean temperature, degrees C

	step int
	rng  *rand.Rand
}

func NewDriftSampler(seed int64) *DriftSampler {
	return &DriftSampler{
		Start:   65,
		End:     25,
		Steps:   2000,
		Ambient: 20,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (d *DriftSampler) Sample() (float64, float64, error) {
	progress := float64(d.step) / float64(d.Steps)
	if progress > 1 {
		progress = 1
	}
	d.step++

	tilt := d.Start + (d.End-d.Start)*progress + d.rng.NormFloat64()*0.3
	temp := d.Ambient + math.Sin(float64(d.step)/50)*0.5 + d.rng.NormFloat64()*0.1
	return tilt, temp, nil
}

// CSVSampler replays tilt,temp rows from a file, one row per sample. The
// last row repeats once the file is exhausted, so a finite trace keeps a
// long-running simulator alive.
type CSVSampler struct {
	rows [][2]float64
	next int
}

func NewCSVSampler(path string) (*CSVSampler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][2]float64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		tilt, err1 := strconv.ParseFloat(rec[0], 64)
		temp, err2 := strconv.ParseFloat(rec[1], 64)
		if err1 != nil || err2 != nil {
			// Header or junk row.
			continue
		}
		rows = append(rows, [2]float64{tilt, temp})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no samples in %s", path)
	}
	return &CSVSampler{rows: rows}, nil
}

func (c *CSVSampler) Sample() (float64, float64, error) {
	row := c.rows[c.next]
	if c.next < len(c.rows)-1 {
		c.next++
	}
	return row[0], row[1], nil
}
