package reading

import (
	"log/slog"

	"github.com/HBDK/Tilted/pkg/protocol"
)

// Extract walks a decoded packet view and folds the items into a Reading.
// Unknown item types are skipped so older gateways keep working when newer
// sensor firmware adds types. calc may be nil; gravity is only computed when
// tilt, temperature and a calculator are all present, and a failed evaluation
// is logged and dropped rather than surfaced — a bad calibration string must
// never cost the rest of the reading.
func Extract(v protocol.View, calc *Calculator) Reading {
	r := Reading{Name: string(v.Name)}

	var tilt, temp float64
	haveTilt := false
	haveTemp := false

	for i := 0; i < v.Len(); i++ {
		it := v.Item(i)
		switch it.Type {
		case protocol.ValueTilt:
			tilt = it.Physical()
			r.Angle = ptrFloat(tilt)
			haveTilt = true
		case protocol.ValueTemp:
			temp = it.Physical()
			r.Temp = ptrFloat(temp)
			r.TempUnit = "C"
			haveTemp = true
		case protocol.ValueAuxTemp:
			r.AuxTemp = ptrFloat(it.Physical())
			r.AuxTempUnit = "C"
		case protocol.ValueBatteryMv:
			r.Battery = ptrFloat(it.Physical() / 1000)
		case protocol.ValueIntervalS:
			r.Interval = ptrInt(int(it.Value))
		case protocol.ValueRssiDbm:
			r.Rssi = ptrInt(int(it.Value))
		}
	}

	if haveTilt && haveTemp && calc != nil {
		g, err := calc.Evaluate(tilt, temp)
		if err != nil {
			slog.Warn("gravity unavailable this cycle", "polynomial", calc.String(), "err", err)
		} else {
			r.Gravity = ptrFloat(g)
			r.GravityUnit = "G"
		}
	}

	return r
}
