package protocol

import (
	"encoding/binary"
	"math"
)

// ValueItem is one fixed-size typed measurement inside a readings packet.
// The encoded integer is a base-10 fixed-point value: physical value =
// Value * 10^Scale10.
type ValueItem struct {
	Type     ValueType
	Scale10  int8
	Reserved uint16
	Value    int32
}

// ScaleAndRound converts a physical value to its fixed-point integer for a
// given decimal exponent. Rounding is half away from zero for both signs.
// Only exponents -3..1 are supported; anything else degrades to plain
// integer rounding, so callers wanting other scales should pre-scale.
func ScaleAndRound(value float64, scale10 int8) int32 {
	switch scale10 {
	case -3:
		return int32(math.Round(value * 1000))
	case -2:
		return int32(math.Round(value * 100))
	case -1:
		return int32(math.Round(value * 10))
	case 0:
		return int32(math.Round(value))
	case 1:
		return int32(math.Round(value / 10))
	default:
		return int32(math.Round(value))
	}
}

// NewItem binds a pre-scaled integer to a type tag.
func NewItem(t ValueType, value int32, scale10 int8) ValueItem {
	return ValueItem{Type: t, Scale10: scale10, Value: value}
}

// TiltDeg builds a tilt item at one decimal place.
func TiltDeg(deg float64) ValueItem {
	return NewItem(ValueTilt, ScaleAndRound(deg, -1), -1)
}

// TempC builds a temperature item at one decimal place.
func TempC(c float64) ValueItem {
	return NewItem(ValueTemp, ScaleAndRound(c, -1), -1)
}

// AuxTempC builds an auxiliary-probe temperature item at one decimal place.
func AuxTempC(c float64) ValueItem {
	return NewItem(ValueAuxTemp, ScaleAndRound(c, -1), -1)
}

// BatteryMv builds a battery item in whole millivolts.
func BatteryMv(mv int32) ValueItem {
	return NewItem(ValueBatteryMv, mv, 0)
}

// IntervalS builds a report-interval item in whole seconds.
func IntervalS(seconds int32) ValueItem {
	return NewItem(ValueIntervalS, seconds, 0)
}

// RssiDbm builds a signal-strength item in whole dBm.
func RssiDbm(dbm int32) ValueItem {
	return NewItem(ValueRssiDbm, dbm, 0)
}

// Physical returns the decoded physical value, Value * 10^Scale10. The
// exponent travels on the wire per item, so no table is needed here.
func (it ValueItem) Physical() float64 {
	return float64(it.Value) * math.Pow(10, float64(it.Scale10))
}

// encode writes the 8-byte record at buf[0:ItemSize]. Caller guarantees room.
func (it ValueItem) encode(buf []byte) {
	buf[itemOffType] = byte(it.Type)
	buf[itemOffScale10] = byte(it.Scale10)
	binary.LittleEndian.PutUint16(buf[itemOffReserved:], it.Reserved)
	binary.LittleEndian.PutUint32(buf[itemOffValue:], uint32(it.Value))
}

// decodeItem reads the 8-byte record at buf[0:ItemSize]. Caller guarantees room.
func decodeItem(buf []byte) ValueItem {
	return ValueItem{
		Type:     ValueType(buf[itemOffType]),
		Scale10:  int8(buf[itemOffScale10]),
		Reserved: binary.LittleEndian.Uint16(buf[itemOffReserved:]),
		Value:    int32(binary.LittleEndian.Uint32(buf[itemOffValue:])),
	}
}
