package engine

import (
	"testing"
)

func TestScoreDiagnosisGrading(t *testing.T) {
	cat := mustCatalog(t)
	p := makePatient(fixtureCondition(t, cat, "Influenza"), 4)
	cases := []struct {
		submitted  string
		confidence float64
		want       float64
	}{
		{"Influenza", 80, 80},
		{"influenza", 80, 80},
		{"  INFLUENZA  ", 55, 55},
		{"Pneumonia", 20, 80},
		{"Pneumonia", 100, 0},
		{"Pneumonia", 0, 100},
		{"Influenza", 150, 100}, // confidence clamps to 100
		{"Pneumonia", -5, 100},  // clamps to 0, wrong answer scores 100
	}
	for _, tc := range cases {
		got := ScoreDiagnosis(p, tc.submitted, tc.confidence)
		if got.Score != tc.want {
			t.Fatalf("%q @ %.0f: score %.1f, want %.1f", tc.submitted, tc.confidence, got.Score, tc.want)
		}
		if got.Actual != "Influenza" {
			t.Fatalf("score should carry the actual condition, got %q", got.Actual)
		}
	}
}

func TestScoreDiagnosisIdempotent(t *testing.T) {
	cat := mustCatalog(t)
	p := makePatient(fixtureCondition(t, cat, "Influenza"), 4)
	vitals := p.Vitals
	a := ScoreDiagnosis(p, "Influenza", 64)
	b := ScoreDiagnosis(p, "Influenza", 64)
	if a != b {
		t.Fatalf("repeat scoring differed: %+v vs %+v", a, b)
	}
	if p.Severity() != 4 || p.Vitals != vitals || len(p.History) != 0 {
		t.Fatalf("scoring mutated the patient")
	}
}

func TestDifferentialHintsRanking(t *testing.T) {
	data := testCatalogData()
	data.Conditions = append(data.Conditions, Condition{
		Name: "Gastroenteritis", Specialization: SpecGeneralPractice,
		SeverityMin: 2, SeverityMax: 5,
		PrimarySymptoms:   []string{"nausea", "diarrhea"},
		SecondarySymptoms: []string{"fatigue"},
		VitalDeltas:       map[VitalField]DeltaRange{FieldHeartRate: {Min: 5, Max: 15}},
		RecommendedTests:  []string{"Vitals Panel"},
		RecommendedTreatments: []string{"IV Fluids"},
	})
	cat, err := NewCatalog(data)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	symptoms := []string{"fever", "cough", "fatigue"}
	history := []TestRecord{{Test: "Complete Blood Count", FlaggedAbnormal: true}}
	hints, err := DifferentialHints(cat, SpecGeneralPractice, symptoms, history)
	if err != nil {
		t.Fatalf("hints: %v", err)
	}
	if len(hints) != 2 {
		t.Fatalf("hint count %d, want 2", len(hints))
	}
	if hints[0].Condition != "Influenza" {
		t.Fatalf("top hint %q, want Influenza", hints[0].Condition)
	}
	if hints[0].Score <= hints[1].Score {
		t.Fatalf("hints not ranked: %+v", hints)
	}
	// one shared symptom keeps the long shot at the floor
	if hints[1].Condition != "Gastroenteritis" || hints[1].Score != hintFloor {
		t.Fatalf("floor not applied: %+v", hints[1])
	}
}

func TestDifferentialHintsNoEvidence(t *testing.T) {
	cat := mustCatalog(t)
	hints, err := DifferentialHints(cat, SpecGeneralPractice, nil, nil)
	if err != nil {
		t.Fatalf("hints: %v", err)
	}
	for _, h := range hints {
		if h.Score != 0 {
			t.Fatalf("no evidence should score zero, got %+v", h)
		}
	}
}
