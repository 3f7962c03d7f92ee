package engine

import (
	"errors"
	"fmt"
)

// Patient is one generated case. The condition and severity stay hidden from
// the presentation layer; gameplay observes them only through tests and
// intervention outcomes.
type Patient struct {
	ID             string
	Name           string
	Age            int
	Gender         Gender
	Specialization Specialization
	Difficulty     Difficulty

	MedicalHistory []string
	Symptoms       []string
	Vitals         VitalSigns

	History     []TestRecord
	Treatments  []TreatmentRecord
	Medications []MedicationRecord

	condition Condition
	severity  int
}

// PatientSnapshot is the player-facing view of a case. It carries everything
// the presentation layer may show and nothing it must not.
type PatientSnapshot struct {
	ID             string
	Name           string
	Age            int
	Gender         Gender
	Specialization Specialization
	Difficulty     Difficulty
	MedicalHistory []string
	Symptoms       []string
	Vitals         VitalSigns
	TestsRun       int
	Interventions  int
}

const symptomOmitChance = 0.10

var (
	femaleNames  = []string{"Maria", "Elena", "Sofia", "Hannah", "Ingrid", "Priya", "Amara", "Noor", "Beatrix", "Yuki"}
	maleNames    = []string{"Jonas", "Marcus", "Tobias", "Ravi", "Omar", "Felix", "Henrik", "Mateo", "Kofi", "Stefan"}
	neutralNames = []string{"Alex", "Sam", "Noa", "Kim", "Robin", "Ariel", "Sasha", "Eden", "Rey", "Jules"}
	familyNames  = []string{"Virtanen", "Okafor", "Lindqvist", "Tanaka", "Kowalski", "Moreau", "Da Silva", "Ahmed", "Novak", "Berg"}
	pastIllness  = []string{"hypertension", "asthma", "type 2 diabetes", "hypothyroidism", "seasonal allergies", "appendectomy", "smoker, quit", "hyperlipidemia"}
)

func randomName(g Gender, stream *Stream) string {
	pool := neutralNames
	switch g {
	case GenderFemale:
		pool = femaleNames
	case GenderMale:
		pool = maleNames
	}
	first := pool[stream.Child("first").Intn(len(pool))]
	last := familyNames[stream.Child("last").Intn(len(familyNames))]
	return first + " " + last
}

// NewPatient generates a case for the specialization at the requested
// difficulty. When no condition's severity range intersects the difficulty
// band it falls back to the full specialization pool rather than failing the
// run.
func NewPatient(cat *Catalog, spec Specialization, diff Difficulty, stream *Stream) (*Patient, error) {
	if !spec.Validate() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown specialization %q", spec)}
	}
	if !diff.Validate() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown difficulty %q", diff)}
	}

	cond, err := cat.PickCondition(spec, diff, stream.Child("condition"))
	if err != nil {
		var noMatch *NoMatchingConditionError
		if !errors.As(err, &noMatch) {
			return nil, err
		}
		cond, err = cat.PickConditionAny(spec, stream.Child("condition:any"))
		if err != nil {
			return nil, err
		}
	}

	// Severity stays inside both the condition's own range and the
	// difficulty band when they overlap; fallback cases keep the
	// condition's range.
	lo, hi := severityBand(diff)
	if cond.SeverityMin > lo {
		lo = cond.SeverityMin
	}
	if cond.SeverityMax < hi {
		hi = cond.SeverityMax
	}
	if lo > hi {
		lo, hi = cond.SeverityMin, cond.SeverityMax
	}
	severity := lo + stream.Child("severity").Intn(hi-lo+1)

	vitals := DefaultVitals()
	scale := float64(severity) / 10
	for _, field := range sortedFieldKeys(cond.VitalDeltas) {
		delta := sampleRange(cond.VitalDeltas[field], stream, "vitals:"+string(field))
		vitals.Shift(field, delta*scale)
	}
	vitals.ClampAll()

	full := cond.Symptoms()
	symptoms := make([]string, 0, len(full))
	for _, s := range full {
		if stream.Child("symptom:"+s).Float64() < symptomOmitChance {
			continue
		}
		symptoms = append(symptoms, s)
	}
	if len(symptoms) == 0 {
		symptoms = append(symptoms, full[0])
	}

	gender := AllGenders[stream.Child("gender").Intn(len(AllGenders))]

	// 0..2 past conditions, drawn without repeats.
	histStream := stream.Child("history")
	var history []string
	for count := histStream.Intn(3); len(history) < count; {
		entry := pastIllness[histStream.Intn(len(pastIllness))]
		if !listed(history, entry) {
			history = append(history, entry)
		}
	}

	return &Patient{
		ID:             fmt.Sprintf("pt-%08x", stream.Child("id").Uint64()&0xFFFFFFFF),
		Name:           randomName(gender, stream.Child("name")),
		Age:            18 + stream.Child("age").Intn(73),
		Gender:         gender,
		Specialization: spec,
		Difficulty:     diff,
		MedicalHistory: history,
		Symptoms:       symptoms,
		Vitals:         vitals,
		condition:      cond,
		severity:       severity,
	}, nil
}

// Condition exposes the hidden diagnosis. Scoring and reporting need it; the
// play-time UI must use Snapshot instead.
func (p *Patient) Condition() Condition { return p.condition }

// Severity exposes the hidden severity on the 1..10 scale.
func (p *Patient) Severity() int { return p.severity }

// Snapshot returns the player-facing view of the case.
func (p *Patient) Snapshot() PatientSnapshot {
	return PatientSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Age:            p.Age,
		Gender:         p.Gender,
		Specialization: p.Specialization,
		Difficulty:     p.Difficulty,
		MedicalHistory: append([]string{}, p.MedicalHistory...),
		Symptoms:       append([]string{}, p.Symptoms...),
		Vitals:         p.Vitals,
		TestsRun:       len(p.History),
		Interventions:  len(p.Treatments) + len(p.Medications),
	}
}

// hasSymptom reports whether the patient currently presents the symptom.
func (p *Patient) hasSymptom(s string) bool {
	for _, have := range p.Symptoms {
		if key(have) == key(s) {
			return true
		}
	}
	return false
}

// addSymptom appends a symptom unless already present.
func (p *Patient) addSymptom(s string) {
	if s == "" || p.hasSymptom(s) {
		return
	}
	p.Symptoms = append(p.Symptoms, s)
}

func clampSeverity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
