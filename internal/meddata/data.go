// Package meddata ships the embedded clinical catalog: conditions, tests,
// treatments, medications and specialization profiles. Load parses the YAML;
// all semantic validation lives in engine.NewCatalog.
package meddata

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/NKoziel/locum-tui/internal/engine"
)

//go:embed conditions.yml
var conditionsRaw []byte

//go:embed tests.yml
var testsRaw []byte

//go:embed interventions.yml
var interventionsRaw []byte

//go:embed specializations.yml
var specializationsRaw []byte

type rangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type severitySpec struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type conditionSpec struct {
	Name                  string               `yaml:"name"`
	Specialization        string               `yaml:"specialization"`
	Description           string               `yaml:"description"`
	Severity              severitySpec         `yaml:"severity"`
	PrimarySymptoms       []string             `yaml:"primary_symptoms"`
	SecondarySymptoms     []string             `yaml:"secondary_symptoms"`
	VitalDeltas           map[string]rangeSpec `yaml:"vital_deltas"`
	RecommendedTests      []string             `yaml:"recommended_tests"`
	RecommendedTreatments []string             `yaml:"recommended_treatments"`
	Contraindicated       []string             `yaml:"contraindicated"`
	TestBias              map[string]float64   `yaml:"test_bias"`
	TestFindings          map[string]string    `yaml:"test_findings"`
}

type metricSpec struct {
	Name   string  `yaml:"name"`
	Unit   string  `yaml:"unit"`
	RefLo  float64 `yaml:"ref_lo"`
	RefHi  float64 `yaml:"ref_hi"`
	Source string  `yaml:"source"`
}

type testSpec struct {
	Name               string       `yaml:"name"`
	Category           string       `yaml:"category"`
	Noise              float64      `yaml:"noise"`
	NormalImpression   string       `yaml:"normal_impression"`
	FindingMinSeverity int          `yaml:"finding_min_severity"`
	Metrics            []metricSpec `yaml:"metrics"`
}

type sideEffectSpec struct {
	Symptom     string  `yaml:"symptom"`
	Probability float64 `yaml:"probability"`
}

type treatmentSpec struct {
	Name        string               `yaml:"name"`
	Category    string               `yaml:"category"`
	Effects     map[string]rangeSpec `yaml:"effects"`
	SideEffects []sideEffectSpec     `yaml:"side_effects"`
}

type doseSpec struct {
	Min     float64 `yaml:"min"`
	Typical float64 `yaml:"typical"`
	Max     float64 `yaml:"max"`
}

type medicationSpec struct {
	Name        string               `yaml:"name"`
	Class       string               `yaml:"class"`
	Unit        string               `yaml:"unit"`
	Dose        doseSpec             `yaml:"dose"`
	Routes      []string             `yaml:"routes"`
	Effects     map[string]rangeSpec `yaml:"effects"`
	SideEffects []sideEffectSpec     `yaml:"side_effects"`
}

type profileSpec struct {
	Spec        string   `yaml:"spec"`
	Description string   `yaml:"description"`
	Tests       []string `yaml:"tests"`
	Treatments  []string `yaml:"treatments"`
}

// Load parses every embedded catalog file into raw catalog data for
// engine.NewCatalog. Only parse failures are reported here.
func Load() (engine.CatalogData, error) {
	var data engine.CatalogData

	var conds struct {
		Conditions []conditionSpec `yaml:"conditions"`
	}
	if err := yaml.Unmarshal(conditionsRaw, &conds); err != nil {
		return data, errors.Wrap(err, "parse conditions.yml")
	}
	for _, c := range conds.Conditions {
		data.Conditions = append(data.Conditions, engine.Condition{
			Name:                  c.Name,
			Specialization:        engine.Specialization(c.Specialization),
			Description:           c.Description,
			SeverityMin:           c.Severity.Min,
			SeverityMax:           c.Severity.Max,
			PrimarySymptoms:       c.PrimarySymptoms,
			SecondarySymptoms:     c.SecondarySymptoms,
			VitalDeltas:           toDeltaMap(c.VitalDeltas),
			RecommendedTests:      c.RecommendedTests,
			RecommendedTreatments: c.RecommendedTreatments,
			Contraindicated:       c.Contraindicated,
			TestBias:              c.TestBias,
			TestFindings:          c.TestFindings,
		})
	}

	var tests struct {
		Tests []testSpec `yaml:"tests"`
	}
	if err := yaml.Unmarshal(testsRaw, &tests); err != nil {
		return data, errors.Wrap(err, "parse tests.yml")
	}
	for _, t := range tests.Tests {
		entry := engine.TestType{
			Name:               t.Name,
			Category:           engine.TestCategory(t.Category),
			Noise:              t.Noise,
			NormalImpression:   t.NormalImpression,
			FindingMinSeverity: t.FindingMinSeverity,
		}
		for _, m := range t.Metrics {
			entry.Metrics = append(entry.Metrics, engine.MetricSpec{
				Name:   m.Name,
				Unit:   m.Unit,
				RefLo:  m.RefLo,
				RefHi:  m.RefHi,
				Source: engine.VitalField(m.Source),
			})
		}
		data.Tests = append(data.Tests, entry)
	}

	var interventions struct {
		Treatments  []treatmentSpec  `yaml:"treatments"`
		Medications []medicationSpec `yaml:"medications"`
	}
	if err := yaml.Unmarshal(interventionsRaw, &interventions); err != nil {
		return data, errors.Wrap(err, "parse interventions.yml")
	}
	for _, t := range interventions.Treatments {
		data.Treatments = append(data.Treatments, engine.Treatment{
			Name:        t.Name,
			Category:    t.Category,
			Effects:     toDeltaMap(t.Effects),
			SideEffects: toSideEffects(t.SideEffects),
		})
	}
	for _, m := range interventions.Medications {
		med := engine.Medication{
			Name:        m.Name,
			Class:       m.Class,
			Unit:        m.Unit,
			DoseMin:     m.Dose.Min,
			DoseTypical: m.Dose.Typical,
			DoseMax:     m.Dose.Max,
			Effects:     toDeltaMap(m.Effects),
			SideEffects: toSideEffects(m.SideEffects),
		}
		for _, r := range m.Routes {
			med.Routes = append(med.Routes, engine.Route(r))
		}
		data.Medications = append(data.Medications, med)
	}

	var profiles struct {
		Specializations []profileSpec `yaml:"specializations"`
	}
	if err := yaml.Unmarshal(specializationsRaw, &profiles); err != nil {
		return data, errors.Wrap(err, "parse specializations.yml")
	}
	for _, p := range profiles.Specializations {
		data.Profiles = append(data.Profiles, engine.SpecializationProfile{
			Spec:        engine.Specialization(p.Spec),
			Description: p.Description,
			Tests:       p.Tests,
			Treatments:  p.Treatments,
		})
	}

	return data, nil
}

func toDeltaMap(in map[string]rangeSpec) map[engine.VitalField]engine.DeltaRange {
	if len(in) == 0 {
		return nil
	}
	out := make(map[engine.VitalField]engine.DeltaRange, len(in))
	for field, r := range in {
		out[engine.VitalField(field)] = engine.DeltaRange{Min: r.Min, Max: r.Max}
	}
	return out
}

func toSideEffects(in []sideEffectSpec) []engine.SideEffect {
	out := make([]engine.SideEffect, 0, len(in))
	for _, se := range in {
		out = append(out, engine.SideEffect{Symptom: se.Symptom, Probability: se.Probability})
	}
	return out
}
