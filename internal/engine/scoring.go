package engine

import "sort"

// DiagnosisScore is the graded outcome of a submitted diagnosis. Scoring is a
// pure function of the hidden condition and the submission: repeat calls with
// the same arguments return the same value and mutate nothing.
type DiagnosisScore struct {
	Submitted  string
	Actual     string
	Confidence float64 // clamped to 0..100
	Correct    bool
	Score      float64 // 0..100
}

// ScoreDiagnosis grades a submitted diagnosis against the hidden condition.
// Matching ignores case but is otherwise exact. A correct answer earns the
// stated confidence; a wrong one earns the confidence withheld.
func ScoreDiagnosis(p *Patient, submitted string, confidence float64) DiagnosisScore {
	conf := confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	correct := key(submitted) == key(p.condition.Name)
	score := conf
	if !correct {
		score = 100 - conf
		if score < 0 {
			score = 0
		}
	}
	return DiagnosisScore{
		Submitted:  submitted,
		Actual:     p.condition.Name,
		Confidence: conf,
		Correct:    correct,
		Score:      score,
	}
}

// DifferentialHint ranks one candidate condition against the presented
// picture. Score is 0..1.
type DifferentialHint struct {
	Condition string
	Score     float64
}

const (
	weightPrimary   = 3.0
	weightSecondary = 1.0
	weightTest      = 2.0
	symptomBlend    = 0.7
	hintFloor       = 0.2
)

// DifferentialHints ranks the specialization's conditions against the
// patient's presented symptoms and flagged-abnormal test history. Symptom
// evidence dominates; abnormal results on a condition's recommended tests
// add the rest. Any condition with at least one symptom hit keeps a minimum
// score so long-shot candidates stay visible.
func DifferentialHints(cat *Catalog, spec Specialization, symptoms []string, history []TestRecord) ([]DifferentialHint, error) {
	list, err := cat.Lookup(spec)
	if err != nil {
		return nil, err
	}

	abnormal := make(map[string]bool, len(history))
	for _, rec := range history {
		if rec.FlaggedAbnormal {
			abnormal[key(rec.Test)] = true
		}
	}

	hints := make([]DifferentialHint, 0, len(list))
	for _, cond := range list {
		var pts, max float64
		for _, s := range cond.PrimarySymptoms {
			max += weightPrimary
			if listed(symptoms, s) {
				pts += weightPrimary
			}
		}
		for _, s := range cond.SecondarySymptoms {
			max += weightSecondary
			if listed(symptoms, s) {
				pts += weightSecondary
			}
		}
		symScore := 0.0
		if max > 0 {
			symScore = pts / max
		}

		var testPts, testMax float64
		for _, name := range cond.RecommendedTests {
			testMax += weightTest
			if abnormal[key(name)] {
				testPts += weightTest
			}
		}

		score := symScore
		if testMax > 0 {
			score = symptomBlend*symScore + (1-symptomBlend)*(testPts/testMax)
		}
		if pts > 0 && score < hintFloor {
			score = hintFloor
		}
		hints = append(hints, DifferentialHint{Condition: cond.Name, Score: score})
	}

	sort.Slice(hints, func(i, j int) bool {
		if hints[i].Score != hints[j].Score {
			return hints[i].Score > hints[j].Score
		}
		return hints[i].Condition < hints[j].Condition
	})
	return hints, nil
}
