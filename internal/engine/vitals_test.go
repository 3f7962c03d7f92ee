package engine

import "testing"

func TestDefaultVitalsClassifyNormal(t *testing.T) {
	v := DefaultVitals()
	for field, status := range v.Classifications() {
		if status != StatusNormal {
			t.Fatalf("%s classifies %s at baseline", field, status)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		field VitalField
		value float64
		want  VitalStatus
	}{
		{FieldHeartRate, 59, StatusAbnormalLow},
		{FieldHeartRate, 60, StatusNormal},
		{FieldHeartRate, 100, StatusNormal},
		{FieldHeartRate, 101, StatusAbnormalHigh},
		{FieldSystolicBP, 121, StatusAbnormalHigh},
		{FieldOxygenSaturation, 94, StatusAbnormalLow},
		{FieldTemperature, 37.2, StatusNormal},
		{FieldTemperature, 37.3, StatusAbnormalHigh},
		{FieldRespiratoryRate, 11, StatusAbnormalLow},
	}
	for _, tc := range cases {
		v := DefaultVitals()
		v.setValue(tc.field, tc.value)
		if got := v.Classify(tc.field); got != tc.want {
			t.Fatalf("%s=%v: got %s, want %s", tc.field, tc.value, got, tc.want)
		}
	}
}

func TestClampAllPullsIntoEnvelope(t *testing.T) {
	v := DefaultVitals()
	v.HeartRate = 999
	v.SystolicBP = 10
	v.Temperature = 55.5
	v.OxygenSaturation = 140
	v.RespiratoryRate = -3
	v.ClampAll()
	if v.HeartRate != 250 || v.SystolicBP != 50 || v.Temperature != 43.0 || v.OxygenSaturation != 100 || v.RespiratoryRate != 4 {
		t.Fatalf("clamp landed at %+v", v)
	}
}

func TestClampAllIdempotent(t *testing.T) {
	v := DefaultVitals()
	v.HeartRate = 400
	v.Temperature = 20
	v.ClampAll()
	once := v
	v.ClampAll()
	if v != once {
		t.Fatalf("second clamp moved values: %+v vs %+v", v, once)
	}
	// values already inside the envelope are fixed points
	w := DefaultVitals()
	before := w
	w.ClampAll()
	if w != before {
		t.Fatalf("clamp moved in-envelope vitals: %+v", w)
	}
}

func TestShiftRounding(t *testing.T) {
	v := DefaultVitals()
	v.Shift(FieldHeartRate, 2.6)
	if v.HeartRate != 83 {
		t.Fatalf("heart rate %d, want 83", v.HeartRate)
	}
	v.Shift(FieldTemperature, 0.84)
	if v.Temperature != 37.4 {
		t.Fatalf("temperature %v, want 37.4", v.Temperature)
	}
}

func TestDistanceTracksDeviation(t *testing.T) {
	base := DefaultVitals()
	worse := base
	worse.Shift(FieldHeartRate, 40)
	if worse.Distance() <= base.Distance() {
		t.Fatalf("tachycardia should raise distance: %v vs %v", worse.Distance(), base.Distance())
	}
	better := base
	better.Shift(FieldSystolicBP, -15) // toward the reference midpoint of 105
	if better.Distance() >= base.Distance() {
		t.Fatalf("normotension should lower distance: %v vs %v", better.Distance(), base.Distance())
	}
}
