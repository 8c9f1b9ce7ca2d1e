package protocol

// Wire-format constants shared by sensors, gateways and tools.
//
// Readings packet layout (little-endian, no implicit padding):
//
//	Header (12 bytes):
//	  u16 magic            = 0x544C
//	  u8  version          = 1
//	  u8  msgType          = 1 (Readings)
//	  u32 deviceId
//	  u16 intervalSeconds
//	  u8  nameLen          (<= MaxNameLen)
//	  u8  itemCount
//	Name (nameLen bytes, not null-terminated)
//	ValueItem[itemCount], 8 bytes each:
//	  u8  type
//	  i8  scale10
//	  u16 reserved (must be 0)
//	  i32 value
//
// Total size = HeaderSize + nameLen + ItemSize*itemCount; must fit the
// 16-bit length domain. Changing any of this requires a version bump.
const (
	// Magic identifies Tilted traffic on a shared channel ("TL").
	Magic uint16 = 0x544C

	// Version is the only protocol revision current receivers decode.
	Version byte = 1

	// MsgTypeLegacy tags the retired headerless float-struct format.
	// Kept so rejections can name it; no decode path accepts it.
	MsgTypeLegacy byte = 0

	// MsgTypeReadings tags a header + name + value-item packet.
	MsgTypeReadings byte = 1

	HeaderSize = 12
	ItemSize   = 8

	// MaxNameLen bounds the device name on the wire. Senders truncate
	// before encoding; receivers reject anything longer.
	MaxNameLen = 24

	// MaxPacketSize is the 16-bit wire length limit. The transport payload
	// cap (a few hundred bytes for ESP-NOW class links) binds tighter in
	// practice.
	MaxPacketSize = 0xFFFF

	// MaxItemCount is what fits in the 8-bit itemCount field.
	MaxItemCount = 0xFF
)

// Header field offsets.
const (
	offMagic     = 0
	offVersion   = 2
	offMsgType   = 3
	offDeviceID  = 4
	offInterval  = 8
	offNameLen   = 10
	offItemCount = 11
)

// ValueItem field offsets within one 8-byte record.
const (
	itemOffType     = 0
	itemOffScale10  = 1
	itemOffReserved = 2
	itemOffValue    = 4
)

// ValueType tags one measured or derived quantity. The set is open-ended:
// receivers must skip tags they do not know.
type ValueType byte

const (
	ValueTilt      ValueType = 1 // degrees, canonical scale10 -1
	ValueTemp      ValueType = 2 // °C, canonical scale10 -1
	ValueAuxTemp   ValueType = 3 // °C auxiliary probe, canonical scale10 -1
	ValueBatteryMv ValueType = 4 // millivolts, scale10 0
	ValueIntervalS ValueType = 5 // seconds, scale10 0
	ValueRssiDbm   ValueType = 6 // dBm, scale10 0
)

func (t ValueType) String() string {
	switch t {
	case ValueTilt:
		return "tilt"
	case ValueTemp:
		return "temp"
	case ValueAuxTemp:
		return "aux_temp"
	case ValueBatteryMv:
		return "battery_mv"
	case ValueIntervalS:
		return "interval_s"
	case ValueRssiDbm:
		return "rssi_dbm"
	default:
		return "unknown"
	}
}
