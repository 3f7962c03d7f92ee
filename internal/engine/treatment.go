package engine

// TreatmentRecord is the outcome of one applied treatment.
type TreatmentRecord struct {
	Ordinal         int
	Treatment       string
	Category        string
	Matched         bool
	Contraindicated bool
	Effectiveness   float64 // 0..100
	SideEffects     []string
}

// MedicationRecord is the outcome of one administered medication.
type MedicationRecord struct {
	Ordinal         int
	Medication      string
	Dosage          float64
	Unit            string
	Route           Route
	Matched         bool
	Contraindicated bool
	Overdose        bool
	Effectiveness   float64 // 0..100
	SideEffects     []string
}

const (
	doseFactorMin = 0.25
	doseFactorMax = 2.0
)

// routeMultiplier scales effect strength by administration route. Faster
// routes hit harder.
func routeMultiplier(r Route) float64 {
	switch r {
	case RouteIntravenous:
		return 1.3
	case RouteInhaled:
		return 1.2
	case RouteIntramuscular:
		return 1.15
	default:
		return 1.0
	}
}

// ApplyTreatment applies a named treatment to the patient. Treatments are
// scoped to the patient's specialization; anything outside that list is
// rejected before any state changes. On success severity, vitals and
// symptoms are updated together.
func ApplyTreatment(cat *Catalog, p *Patient, name string, stream *Stream) (TreatmentRecord, error) {
	t, ok := cat.TreatmentByName(name)
	if !ok {
		return TreatmentRecord{}, &UnknownInterventionError{Name: name}
	}
	if !cat.specializationAllows(p.Specialization, t.Name) {
		return TreatmentRecord{}, &UnknownInterventionError{Name: name, Detail: "not available to " + string(p.Specialization)}
	}

	matched := listed(p.condition.RecommendedTreatments, t.Name)
	contra := listed(p.condition.Contraindicated, t.Name)
	before := p.Vitals
	scale := float64(p.severity) / 10

	for _, field := range sortedFieldKeys(t.Effects) {
		delta := sampleRange(t.Effects[field], stream, "effect:"+string(field))
		p.Vitals.Shift(field, delta*scale)
	}
	p.Vitals.ClampAll()

	fired := rollSideEffects(t.SideEffects, 1.0, stream)
	stepSeverity(p, matched, contra)
	if contra {
		fired = ensureSideEffect(fired, t.SideEffects)
		for _, s := range fired {
			p.addSymptom(s)
		}
	}

	rec := TreatmentRecord{
		Ordinal:         len(p.Treatments) + len(p.Medications) + 1,
		Treatment:       t.Name,
		Category:        t.Category,
		Matched:         matched,
		Contraindicated: contra,
		Effectiveness:   effectiveness(matched, contra, before, p.Vitals, stream),
		SideEffects:     fired,
	}
	p.Treatments = append(p.Treatments, rec)
	return rec, nil
}

// AdministerMedication administers a named medication. Medications are
// global: any specialization may order any registered drug. Dosage and route
// modulate effect strength; a dose above the declared band flags an overdose
// in the record without rejecting the order.
func AdministerMedication(cat *Catalog, p *Patient, name string, dosage float64, route Route, stream *Stream) (MedicationRecord, error) {
	m, ok := cat.MedicationByName(name)
	if !ok {
		return MedicationRecord{}, &UnknownInterventionError{Name: name}
	}
	if dosage <= 0 {
		return MedicationRecord{}, &UnknownInterventionError{Name: name, Detail: "non-positive dosage"}
	}
	routeOK := false
	for _, r := range m.Routes {
		if r == route {
			routeOK = true
			break
		}
	}
	if !routeOK {
		return MedicationRecord{}, &UnknownInterventionError{Name: name, Detail: "route " + string(route) + " not available"}
	}

	doseFactor := dosage / m.DoseTypical
	if doseFactor < doseFactorMin {
		doseFactor = doseFactorMin
	}
	if doseFactor > doseFactorMax {
		doseFactor = doseFactorMax
	}
	overdose := dosage > m.DoseMax

	matched := listed(p.condition.RecommendedTreatments, m.Name)
	contra := listed(p.condition.Contraindicated, m.Name)
	before := p.Vitals
	scale := float64(p.severity) / 10 * routeMultiplier(route) * doseFactor

	for _, field := range sortedFieldKeys(m.Effects) {
		delta := sampleRange(m.Effects[field], stream, "effect:"+string(field))
		p.Vitals.Shift(field, delta*scale)
	}
	p.Vitals.ClampAll()

	fired := rollSideEffects(m.SideEffects, doseFactor, stream)
	stepSeverity(p, matched, contra)
	if contra {
		fired = ensureSideEffect(fired, m.SideEffects)
		for _, s := range fired {
			p.addSymptom(s)
		}
	}

	rec := MedicationRecord{
		Ordinal:         len(p.Treatments) + len(p.Medications) + 1,
		Medication:      m.Name,
		Dosage:          dosage,
		Unit:            m.Unit,
		Route:           route,
		Matched:         matched,
		Contraindicated: contra,
		Overdose:        overdose,
		Effectiveness:   effectiveness(matched, contra, before, p.Vitals, stream),
		SideEffects:     fired,
	}
	p.Medications = append(p.Medications, rec)
	return rec, nil
}

// stepSeverity moves severity one step per outcome, clamped to 1..10. A
// matched and contraindicated order cancels out numerically but still fires
// side effects.
func stepSeverity(p *Patient, matched, contra bool) {
	if matched {
		p.severity = clampSeverity(p.severity - 1)
	}
	if contra {
		p.severity = clampSeverity(p.severity + 1)
	}
}

// rollSideEffects rolls each declared side effect independently. The dose
// factor scales the probability so that heavier doses misbehave more often.
func rollSideEffects(list []SideEffect, factor float64, stream *Stream) []string {
	var fired []string
	for _, se := range list {
		prob := se.Probability * factor
		if prob > 1 {
			prob = 1
		}
		if stream.Child("side:"+se.Symptom).Float64() < prob {
			fired = append(fired, se.Symptom)
		}
	}
	return fired
}

// ensureSideEffect guarantees at least one entry for contraindicated orders.
func ensureSideEffect(fired []string, declared []SideEffect) []string {
	if len(fired) > 0 || len(declared) == 0 {
		return fired
	}
	return []string{declared[0].Symptom}
}

// effectiveness blends the match outcome with how far the vitals actually
// moved toward their reference midpoints, plus bounded noise.
func effectiveness(matched, contra bool, before, after VitalSigns, stream *Stream) float64 {
	score := 0.5
	if matched {
		score += 0.3
	}
	if contra {
		score -= 0.4
	}
	db, da := before.Distance(), after.Distance()
	if db > 0.01 {
		improvement := (db - da) / db
		if improvement > 1 {
			improvement = 1
		}
		if improvement < -1 {
			improvement = -1
		}
		score += 0.2 * improvement
	}
	score += (2*stream.Child("noise").Float64() - 1) * 0.1
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score * 100
}

// listed reports whether name appears in names, ignoring case.
func listed(names []string, name string) bool {
	for _, n := range names {
		if key(n) == key(name) {
			return true
		}
	}
	return false
}
