package engine

// Finding is one numeric result inside a test payload.
type Finding struct {
	Metric string
	Value  float64
	Unit   string
	RefLo  float64
	RefHi  float64
	Status VitalStatus
}

// TestRecord is the immutable payload of one performed test. Ordinal is the
// 1-based position in the patient's history; the engine keeps no wall clock.
type TestRecord struct {
	Ordinal         int
	Test            string
	Category        TestCategory
	Findings        []Finding
	Impression      string
	FlaggedAbnormal bool
}

// RunTest performs a named diagnostic test against the patient. Values are
// driven by the hidden condition and severity plus bounded noise from the
// stream. The record is appended to the patient's history; vitals are never
// touched. An unknown test name leaves the patient unchanged.
func RunTest(cat *Catalog, p *Patient, name string, stream *Stream) (TestRecord, error) {
	t, ok := cat.TestByName(name)
	if !ok {
		return TestRecord{}, &UnknownTestError{Name: name}
	}

	cond := p.condition
	scale := float64(p.severity) / 10

	findings := make([]Finding, 0, len(t.Metrics))
	for _, m := range t.Metrics {
		var value float64
		if m.Source != "" {
			// Vital echoes carry the condition shift already.
			value = p.Vitals.Value(m.Source)
		} else {
			mid := (m.RefLo + m.RefHi) / 2
			value = mid * (1 + biasFor(cond, m.Name)*scale)
		}
		if t.Noise > 0 {
			jitter := (2*stream.Child("metric:"+m.Name).Float64() - 1) * t.Noise
			value *= 1 + jitter
		}
		status := StatusNormal
		switch {
		case value < m.RefLo:
			status = StatusAbnormalLow
		case value > m.RefHi:
			status = StatusAbnormalHigh
		}
		findings = append(findings, Finding{
			Metric: m.Name,
			Value:  value,
			Unit:   m.Unit,
			RefLo:  m.RefLo,
			RefHi:  m.RefHi,
			Status: status,
		})
	}

	impression := t.NormalImpression
	abnormalImpression := false
	if txt, ok := findingFor(cond, t.Name); ok && p.severity >= t.FindingMinSeverity {
		impression = txt
		abnormalImpression = true
	}

	flagged := abnormalImpression
	for _, f := range findings {
		if f.Status != StatusNormal {
			flagged = true
			break
		}
	}

	rec := TestRecord{
		Ordinal:         len(p.History) + 1,
		Test:            t.Name,
		Category:        t.Category,
		Findings:        findings,
		Impression:      impression,
		FlaggedAbnormal: flagged,
	}
	p.History = append(p.History, rec)
	return rec, nil
}

// biasFor returns the condition's relative shift for a metric at severity 10.
func biasFor(c Condition, metric string) float64 {
	for name, bias := range c.TestBias {
		if key(name) == key(metric) {
			return bias
		}
	}
	return 0
}

// findingFor returns the condition's abnormal impression for a test, if any.
func findingFor(c Condition, test string) (string, bool) {
	for name, txt := range c.TestFindings {
		if key(name) == key(test) {
			return txt, true
		}
	}
	return "", false
}
