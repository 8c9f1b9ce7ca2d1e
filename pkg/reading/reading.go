// Package reading turns decoded wire packets into the JSON-shaped records
// the gateway forwards and the server ingests.
package reading

// Reading is the accumulated physical-unit record for one packet. A field is
// present exactly when the packet carried the matching value item; absent
// fields stay nil so a missing measurement never masquerades as zero.
type Reading struct {
	Name        string   `json:"name"`
	Angle       *float64 `json:"angle,omitempty"`
	Temp        *float64 `json:"temp,omitempty"`
	TempUnit    string   `json:"temp_unit,omitempty"`
	AuxTemp     *float64 `json:"aux_temp,omitempty"`
	AuxTempUnit string   `json:"aux_temp_unit,omitempty"`
	Battery     *float64 `json:"battery,omitempty"`
	Interval    *int     `json:"interval,omitempty"`
	Rssi        *int     `json:"rssi,omitempty"`
	Gravity     *float64 `json:"gravity,omitempty"`
	GravityUnit string   `json:"gravity_unit,omitempty"`
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }
