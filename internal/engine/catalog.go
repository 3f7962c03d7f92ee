package engine

import (
	"fmt"
	"sort"
	"strings"
)

// DeltaRange bounds a sampled shift applied to one vital field.
type DeltaRange struct {
	Min float64
	Max float64
}

// sampleRange draws uniformly from the range on a labelled child stream so
// that each sampled value is independent of sampling order.
func sampleRange(r DeltaRange, stream *Stream, label string) float64 {
	span := r.Max - r.Min
	if span <= 0 {
		return r.Min
	}
	return r.Min + stream.Child(label).Float64()*span
}

// SideEffect is a possible adverse reaction of an intervention.
type SideEffect struct {
	Symptom     string
	Probability float64 // chance of firing on each administration
}

// Condition is an immutable catalog entry describing one diagnosis. Entries
// are shared read-only by every patient generated from them.
type Condition struct {
	Name                  string
	Specialization        Specialization
	Description           string
	SeverityMin           int
	SeverityMax           int
	PrimarySymptoms       []string
	SecondarySymptoms     []string
	VitalDeltas           map[VitalField]DeltaRange // shift from baseline at severity 10
	RecommendedTests      []string
	RecommendedTreatments []string          // interventions that lower severity
	Contraindicated       []string          // interventions that worsen this condition
	TestBias              map[string]float64 // metric name -> relative shift at severity 10
	TestFindings          map[string]string  // test name -> abnormal impression
}

// Symptoms returns the full symptom set, primary first.
func (c Condition) Symptoms() []string {
	out := make([]string, 0, len(c.PrimarySymptoms)+len(c.SecondarySymptoms))
	out = append(out, c.PrimarySymptoms...)
	out = append(out, c.SecondarySymptoms...)
	return out
}

// MetricSpec describes one numeric finding a test produces.
type MetricSpec struct {
	Name   string
	Unit   string
	RefLo  float64
	RefHi  float64
	Source VitalField // when set, the metric echoes this live vital instead of a lab baseline
}

// TestType is an immutable catalog entry describing one diagnostic test.
type TestType struct {
	Name               string
	Category           TestCategory
	Noise              float64 // fractional noise amplitude per sampled value
	Metrics            []MetricSpec
	NormalImpression   string
	FindingMinSeverity int // condition findings below this severity read as normal
}

// Treatment is a non-medication intervention available to a specialization.
type Treatment struct {
	Name        string
	Category    string
	Effects     map[VitalField]DeltaRange // shift at severity 10
	SideEffects []SideEffect
}

// Medication is a globally orderable drug with a declared safe dosage band.
type Medication struct {
	Name        string
	Class       string
	Unit        string
	DoseMin     float64
	DoseTypical float64
	DoseMax     float64
	Routes      []Route
	Effects     map[VitalField]DeltaRange // shift at severity 10 and typical dose
	SideEffects []SideEffect
}

// SpecializationProfile lists what a doctor of one specialization may order.
type SpecializationProfile struct {
	Spec        Specialization
	Description string
	Tests       []string
	Treatments  []string
}

// CatalogData is the raw mapping a loader hands to NewCatalog. The core does
// not care where it was parsed from.
type CatalogData struct {
	Conditions  []Condition
	Tests       []TestType
	Treatments  []Treatment
	Medications []Medication
	Profiles    []SpecializationProfile
}

// Catalog is the validated, immutable lookup structure shared by all
// sessions. Built once at startup.
type Catalog struct {
	bySpec      map[Specialization][]Condition
	conditions  []Condition
	tests       map[string]TestType
	treatments  map[string]Treatment
	medications map[string]Medication
	profiles    map[Specialization]SpecializationProfile
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// NewCatalog validates the raw data and builds the lookup structure. Any
// inconsistency is a ConfigurationError: the process should refuse to start
// rather than fail mid-game.
func NewCatalog(data CatalogData) (*Catalog, error) {
	c := &Catalog{
		bySpec:      make(map[Specialization][]Condition),
		tests:       make(map[string]TestType, len(data.Tests)),
		treatments:  make(map[string]Treatment, len(data.Treatments)),
		medications: make(map[string]Medication, len(data.Medications)),
		profiles:    make(map[Specialization]SpecializationProfile, len(data.Profiles)),
	}

	for _, t := range data.Tests {
		if t.Name == "" {
			return nil, &ConfigurationError{Reason: "test with empty name"}
		}
		if !t.Category.Validate() {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("test %q has unknown category %q", t.Name, t.Category)}
		}
		if _, dup := c.tests[key(t.Name)]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate test %q", t.Name)}
		}
		for _, m := range t.Metrics {
			if m.RefLo >= m.RefHi {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("test %q metric %q has empty reference range", t.Name, m.Name)}
			}
			if m.Source != "" && !m.Source.Validate() {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("test %q metric %q reads unknown vital %q", t.Name, m.Name, m.Source)}
			}
		}
		c.tests[key(t.Name)] = t
	}

	for _, tr := range data.Treatments {
		if tr.Name == "" {
			return nil, &ConfigurationError{Reason: "treatment with empty name"}
		}
		if _, dup := c.treatments[key(tr.Name)]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate treatment %q", tr.Name)}
		}
		if err := validateDeltaFields(fmt.Sprintf("treatment %q", tr.Name), tr.Effects); err != nil {
			return nil, err
		}
		c.treatments[key(tr.Name)] = tr
	}

	for _, m := range data.Medications {
		if m.Name == "" {
			return nil, &ConfigurationError{Reason: "medication with empty name"}
		}
		if _, dup := c.medications[key(m.Name)]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate medication %q", m.Name)}
		}
		if !(m.DoseMin > 0 && m.DoseMin <= m.DoseTypical && m.DoseTypical <= m.DoseMax) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("medication %q has invalid dose band %.4g/%.4g/%.4g", m.Name, m.DoseMin, m.DoseTypical, m.DoseMax)}
		}
		if len(m.Routes) == 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("medication %q declares no routes", m.Name)}
		}
		for _, r := range m.Routes {
			if !r.Validate() {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("medication %q declares unknown route %q", m.Name, r)}
			}
		}
		if err := validateDeltaFields(fmt.Sprintf("medication %q", m.Name), m.Effects); err != nil {
			return nil, err
		}
		c.medications[key(m.Name)] = m
	}

	for _, p := range data.Profiles {
		if !p.Spec.Validate() {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown specialization %q", p.Spec)}
		}
		if _, dup := c.profiles[p.Spec]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate specialization profile %q", p.Spec)}
		}
		for _, name := range p.Tests {
			if _, ok := c.tests[key(name)]; !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("specialization %q lists unregistered test %q", p.Spec, name)}
			}
		}
		for _, name := range p.Treatments {
			if _, ok := c.treatments[key(name)]; !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("specialization %q lists unregistered treatment %q", p.Spec, name)}
			}
		}
		c.profiles[p.Spec] = p
	}

	seen := make(map[string]bool, len(data.Conditions))
	for _, cond := range data.Conditions {
		if cond.Name == "" {
			return nil, &ConfigurationError{Reason: "condition with empty name"}
		}
		if seen[key(cond.Name)] {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate condition %q", cond.Name)}
		}
		seen[key(cond.Name)] = true
		if !cond.Specialization.Validate() {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q has unknown specialization %q", cond.Name, cond.Specialization)}
		}
		if _, ok := c.profiles[cond.Specialization]; !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q belongs to unprofiled specialization %q", cond.Name, cond.Specialization)}
		}
		if cond.SeverityMin < 1 || cond.SeverityMax > 10 || cond.SeverityMin > cond.SeverityMax {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q has invalid severity range [%d,%d]", cond.Name, cond.SeverityMin, cond.SeverityMax)}
		}
		if len(cond.PrimarySymptoms) == 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q has no primary symptoms", cond.Name)}
		}
		if err := validateDeltaFields(fmt.Sprintf("condition %q", cond.Name), cond.VitalDeltas); err != nil {
			return nil, err
		}
		for _, name := range cond.RecommendedTests {
			if _, ok := c.tests[key(name)]; !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q recommends unregistered test %q", cond.Name, name)}
			}
		}
		for _, name := range cond.RecommendedTreatments {
			if !c.interventionRegistered(name) {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q recommends unregistered intervention %q", cond.Name, name)}
			}
		}
		for _, name := range cond.Contraindicated {
			if !c.interventionRegistered(name) {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q contraindicates unregistered intervention %q", cond.Name, name)}
			}
			if c.interventionSideEffects(name) == 0 {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q contraindicates %q which declares no side effects", cond.Name, name)}
			}
		}
		for _, name := range sortedKeys(cond.TestFindings) {
			if _, ok := c.tests[key(name)]; !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("condition %q declares finding for unregistered test %q", cond.Name, name)}
			}
		}
		c.bySpec[cond.Specialization] = append(c.bySpec[cond.Specialization], cond)
		c.conditions = append(c.conditions, cond)
	}

	for spec := range c.profiles {
		if len(c.bySpec[spec]) == 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("specialization %q has zero conditions", spec)}
		}
	}

	// Deterministic order regardless of input order.
	sort.Slice(c.conditions, func(i, j int) bool { return c.conditions[i].Name < c.conditions[j].Name })
	for spec := range c.bySpec {
		list := c.bySpec[spec]
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		c.bySpec[spec] = list
	}
	return c, nil
}

func validateDeltaFields(owner string, deltas map[VitalField]DeltaRange) error {
	for _, f := range sortedFieldKeys(deltas) {
		if !f.Validate() {
			return &ConfigurationError{Reason: fmt.Sprintf("%s shifts unknown vital %q", owner, f)}
		}
		r := deltas[f]
		if r.Min > r.Max {
			return &ConfigurationError{Reason: fmt.Sprintf("%s has inverted delta range for %s", owner, f)}
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedFieldKeys(m map[VitalField]DeltaRange) []VitalField {
	out := make([]VitalField, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Catalog) interventionRegistered(name string) bool {
	if _, ok := c.treatments[key(name)]; ok {
		return true
	}
	_, ok := c.medications[key(name)]
	return ok
}

func (c *Catalog) interventionSideEffects(name string) int {
	if t, ok := c.treatments[key(name)]; ok {
		return len(t.SideEffects)
	}
	if m, ok := c.medications[key(name)]; ok {
		return len(m.SideEffects)
	}
	return 0
}

// Lookup returns the conditions registered for a specialization. A
// specialization with nothing registered is a configuration fault, not a
// runtime condition.
func (c *Catalog) Lookup(spec Specialization) ([]Condition, error) {
	list := c.bySpec[spec]
	if len(list) == 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("specialization %q has zero conditions", spec)}
	}
	return append([]Condition{}, list...), nil
}

// severityBand maps a difficulty to the allowed severity sub-range.
func severityBand(d Difficulty) (int, int) {
	switch d {
	case DifficultyEasy:
		return 1, 4
	case DifficultyHard:
		return 6, 10
	default:
		return 3, 7
	}
}

// PickCondition selects uniformly among the specialization's conditions whose
// severity range intersects the difficulty band. When nothing intersects the
// caller falls back to PickConditionAny; the catalog never widens the band on
// its own.
func (c *Catalog) PickCondition(spec Specialization, diff Difficulty, stream *Stream) (Condition, error) {
	list, err := c.Lookup(spec)
	if err != nil {
		return Condition{}, err
	}
	lo, hi := severityBand(diff)
	var eligible []Condition
	for _, cond := range list {
		if cond.SeverityMax >= lo && cond.SeverityMin <= hi {
			eligible = append(eligible, cond)
		}
	}
	if len(eligible) == 0 {
		return Condition{}, &NoMatchingConditionError{Specialization: spec, Difficulty: diff}
	}
	return eligible[stream.Intn(len(eligible))], nil
}

// PickConditionAny selects uniformly over every condition of the
// specialization, ignoring difficulty. Used as the documented fallback.
func (c *Catalog) PickConditionAny(spec Specialization, stream *Stream) (Condition, error) {
	list, err := c.Lookup(spec)
	if err != nil {
		return Condition{}, err
	}
	return list[stream.Intn(len(list))], nil
}

// ConditionByName resolves a condition by case-insensitive name.
func (c *Catalog) ConditionByName(name string) (Condition, bool) {
	for _, cond := range c.conditions {
		if key(cond.Name) == key(name) {
			return cond, true
		}
	}
	return Condition{}, false
}

// Conditions returns every registered condition in name order.
func (c *Catalog) Conditions() []Condition {
	return append([]Condition{}, c.conditions...)
}

// Medications returns every registered medication in name order. Medications
// are global; every specialization orders from the same list.
func (c *Catalog) Medications() []Medication {
	out := make([]Medication, 0, len(c.medications))
	for _, m := range c.medications {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TestByName resolves a test by case-insensitive name.
func (c *Catalog) TestByName(name string) (TestType, bool) {
	t, ok := c.tests[key(name)]
	return t, ok
}

// TreatmentByName resolves a treatment by case-insensitive name.
func (c *Catalog) TreatmentByName(name string) (Treatment, bool) {
	t, ok := c.treatments[key(name)]
	return t, ok
}

// MedicationByName resolves a medication by case-insensitive name.
func (c *Catalog) MedicationByName(name string) (Medication, bool) {
	m, ok := c.medications[key(name)]
	return m, ok
}

// Profile returns the ordering surface of a specialization.
func (c *Catalog) Profile(spec Specialization) (SpecializationProfile, bool) {
	p, ok := c.profiles[spec]
	return p, ok
}

// specializationAllows reports whether a treatment belongs to the
// specialization's treatment list.
func (c *Catalog) specializationAllows(spec Specialization, treatmentName string) bool {
	p, ok := c.profiles[spec]
	if !ok {
		return false
	}
	for _, n := range p.Treatments {
		if key(n) == key(treatmentName) {
			return true
		}
	}
	return false
}
