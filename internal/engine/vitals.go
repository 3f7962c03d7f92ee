package engine

import "math"

// VitalSigns holds the measured vitals of a patient. Blood pressure counts as
// one measurement with two components.
type VitalSigns struct {
	HeartRate        int     // beats per minute
	SystolicBP       int     // mmHg
	DiastolicBP      int     // mmHg
	Temperature      float64 // degrees Celsius
	RespiratoryRate  int     // breaths per minute
	OxygenSaturation int     // percent
}

// DefaultVitals returns the fixed normal-adult baseline every generated
// patient starts from before condition deltas are applied.
func DefaultVitals() VitalSigns {
	return VitalSigns{
		HeartRate:        80,
		SystolicBP:       120,
		DiastolicBP:      80,
		Temperature:      36.6,
		RespiratoryRate:  16,
		OxygenSaturation: 98,
	}
}

type vitalRange struct {
	Lo float64
	Hi float64
}

// Reference ranges used by Classify. Values outside are abnormal, not invalid.
var vitalReference = map[VitalField]vitalRange{
	FieldHeartRate:        {60, 100},
	FieldSystolicBP:       {90, 120},
	FieldDiastolicBP:      {60, 80},
	FieldTemperature:      {36.1, 37.2},
	FieldRespiratoryRate:  {12, 20},
	FieldOxygenSaturation: {95, 100},
}

// Physiological envelope enforced by ClampAll. Treatment effects may push
// toward these walls but a field never leaves them, even transiently.
var vitalEnvelope = map[VitalField]vitalRange{
	FieldHeartRate:        {20, 250},
	FieldSystolicBP:       {50, 260},
	FieldDiastolicBP:      {30, 160},
	FieldTemperature:      {28.0, 43.0},
	FieldRespiratoryRate:  {4, 60},
	FieldOxygenSaturation: {0, 100},
}

// Value returns a field as float64 for uniform handling of int and float vitals.
func (v VitalSigns) Value(field VitalField) float64 {
	switch field {
	case FieldHeartRate:
		return float64(v.HeartRate)
	case FieldSystolicBP:
		return float64(v.SystolicBP)
	case FieldDiastolicBP:
		return float64(v.DiastolicBP)
	case FieldTemperature:
		return v.Temperature
	case FieldRespiratoryRate:
		return float64(v.RespiratoryRate)
	case FieldOxygenSaturation:
		return float64(v.OxygenSaturation)
	}
	return 0
}

func (v *VitalSigns) setValue(field VitalField, val float64) {
	switch field {
	case FieldHeartRate:
		v.HeartRate = int(math.Round(val))
	case FieldSystolicBP:
		v.SystolicBP = int(math.Round(val))
	case FieldDiastolicBP:
		v.DiastolicBP = int(math.Round(val))
	case FieldTemperature:
		v.Temperature = math.Round(val*10) / 10
	case FieldRespiratoryRate:
		v.RespiratoryRate = int(math.Round(val))
	case FieldOxygenSaturation:
		v.OxygenSaturation = int(math.Round(val))
	}
}

// Shift adds a delta to one field. Callers clamp afterwards.
func (v *VitalSigns) Shift(field VitalField, delta float64) {
	v.setValue(field, v.Value(field)+delta)
}

// Classify compares one field against its reference range.
func (v VitalSigns) Classify(field VitalField) VitalStatus {
	ref := vitalReference[field]
	val := v.Value(field)
	switch {
	case val < ref.Lo:
		return StatusAbnormalLow
	case val > ref.Hi:
		return StatusAbnormalHigh
	default:
		return StatusNormal
	}
}

// Classifications returns the status of every field, for rendering.
func (v VitalSigns) Classifications() map[VitalField]VitalStatus {
	out := make(map[VitalField]VitalStatus, len(AllVitalFields))
	for _, f := range AllVitalFields {
		out[f] = v.Classify(f)
	}
	return out
}

// ClampAll forces every field into its physiological envelope. Called as the
// last step of every mutator; never fails, out-of-range values are clamped
// rather than rejected so the game stays playable after exaggerated effects.
func (v *VitalSigns) ClampAll() {
	for _, f := range AllVitalFields {
		env := vitalEnvelope[f]
		val := v.Value(f)
		if val < env.Lo {
			v.setValue(f, env.Lo)
		} else if val > env.Hi {
			v.setValue(f, env.Hi)
		}
	}
}

// ReferenceRange returns the normal range Classify compares against, for
// rendering alongside measured values.
func ReferenceRange(field VitalField) (lo, hi float64) {
	ref := vitalReference[field]
	return ref.Lo, ref.Hi
}

// Distance measures total deviation from the reference midpoints, each field
// normalized by its reference width. Zero means textbook-normal vitals; the
// effectiveness score uses the change in this measure.
func (v VitalSigns) Distance() float64 {
	var sum float64
	for _, f := range AllVitalFields {
		ref := vitalReference[f]
		mid := (ref.Lo + ref.Hi) / 2
		width := ref.Hi - ref.Lo
		if width <= 0 {
			continue
		}
		sum += math.Abs(v.Value(f)-mid) / width
	}
	return sum
}
