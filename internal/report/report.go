// Package report renders case state as markdown for the terminal. Every
// function is deterministic: same record in, same text out. The UI decides
// how to style the result.
package report

import (
	"fmt"
	"strings"

	"github.com/NKoziel/locum-tui/internal/engine"
)

var vitalLabels = map[engine.VitalField]string{
	engine.FieldHeartRate:        "Heart rate",
	engine.FieldSystolicBP:       "Systolic BP",
	engine.FieldDiastolicBP:      "Diastolic BP",
	engine.FieldTemperature:      "Temperature",
	engine.FieldRespiratoryRate:  "Respiratory rate",
	engine.FieldOxygenSaturation: "Oxygen saturation",
}

var vitalUnits = map[engine.VitalField]string{
	engine.FieldHeartRate:        "bpm",
	engine.FieldSystolicBP:       "mmHg",
	engine.FieldDiastolicBP:      "mmHg",
	engine.FieldTemperature:      "°C",
	engine.FieldRespiratoryRate:  "/min",
	engine.FieldOxygenSaturation: "%",
}

func statusTag(s engine.VitalStatus) string {
	switch s {
	case engine.StatusAbnormalLow:
		return " [LOW]"
	case engine.StatusAbnormalHigh:
		return " [HIGH]"
	default:
		return ""
	}
}

// Chart renders the patient chart: demographics, vitals with reference
// ranges, presented symptoms.
func Chart(snap engine.PatientSnapshot) string {
	var b strings.Builder
	b.WriteString("## PATIENT\n")
	b.WriteString(fmt.Sprintf("Name: %s | Age: %d | Gender: %s\n", snap.Name, snap.Age, snap.Gender))
	b.WriteString(fmt.Sprintf("Ward: %s | Difficulty: %s | Chart: %s\n", snap.Specialization.Title(), snap.Difficulty, snap.ID))
	if len(snap.MedicalHistory) > 0 {
		b.WriteString(fmt.Sprintf("History: %s\n", strings.Join(snap.MedicalHistory, ", ")))
	} else {
		b.WriteString("History: no significant past history\n")
	}
	b.WriteString("\n")

	b.WriteString("## VITALS\n")
	for _, f := range engine.AllVitalFields {
		lo, hi := engine.ReferenceRange(f)
		b.WriteString(fmt.Sprintf("- %s: %.5g %s (ref %.5g-%.5g)%s\n",
			vitalLabels[f], snap.Vitals.Value(f), vitalUnits[f], lo, hi, statusTag(snap.Vitals.Classify(f))))
	}

	b.WriteString("\n## SYMPTOMS\n")
	if len(snap.Symptoms) == 0 {
		b.WriteString("No complaints reported.\n")
	}
	for _, s := range snap.Symptoms {
		b.WriteString(fmt.Sprintf("- %s\n", s))
	}

	b.WriteString(fmt.Sprintf("\nTests run: %d | Interventions: %d\n", snap.TestsRun, snap.Interventions))
	return b.String()
}

// TestReport renders one diagnostic test result.
func TestReport(rec engine.TestRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## TEST %d: %s (%s)\n", rec.Ordinal, rec.Test, rec.Category))
	for _, f := range rec.Findings {
		b.WriteString(fmt.Sprintf("- %s: %.3g %s (ref %.3g-%.3g)%s\n",
			f.Metric, f.Value, f.Unit, f.RefLo, f.RefHi, statusTag(f.Status)))
	}
	if rec.Impression != "" {
		b.WriteString(fmt.Sprintf("\nImpression: %s\n", rec.Impression))
	}
	if rec.FlaggedAbnormal {
		b.WriteString("Result flagged abnormal.\n")
	}
	return b.String()
}

// TreatmentNote renders the outcome of one applied treatment. The hidden
// condition stays hidden: the note describes the response, never the reason.
func TreatmentNote(rec engine.TreatmentRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## TREATMENT %d: %s\n", rec.Ordinal, rec.Treatment))
	b.WriteString(fmt.Sprintf("Effectiveness: %.0f/100\n", rec.Effectiveness))
	b.WriteString(responseLine(rec.Matched, rec.Contraindicated))
	writeComplaints(&b, rec.SideEffects)
	return b.String()
}

// MedicationNote renders the outcome of one administered medication.
func MedicationNote(rec engine.MedicationRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## MEDICATION %d: %s %.5g %s (%s)\n", rec.Ordinal, rec.Medication, rec.Dosage, rec.Unit, rec.Route))
	b.WriteString(fmt.Sprintf("Effectiveness: %.0f/100\n", rec.Effectiveness))
	if rec.Overdose {
		b.WriteString("OVERDOSE: dose exceeds the safe maximum.\n")
	}
	b.WriteString(responseLine(rec.Matched, rec.Contraindicated))
	writeComplaints(&b, rec.SideEffects)
	return b.String()
}

func responseLine(matched, contra bool) string {
	switch {
	case matched && contra:
		return "The patient's response is mixed.\n"
	case matched:
		return "The patient responds well.\n"
	case contra:
		return "The patient's condition visibly worsens.\n"
	default:
		return "No clear change in the patient's condition.\n"
	}
}

func writeComplaints(b *strings.Builder, sideEffects []string) {
	if len(sideEffects) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("New complaints: %s\n", strings.Join(sideEffects, ", ")))
}

// Differential renders ranked diagnosis hints.
func Differential(hints []engine.DifferentialHint) string {
	var b strings.Builder
	b.WriteString("## DIFFERENTIAL\n")
	if len(hints) == 0 {
		b.WriteString("No candidates.\n")
		return b.String()
	}
	for i, h := range hints {
		b.WriteString(fmt.Sprintf("%d. %s (%.0f%%)\n", i+1, h.Condition, h.Score*100))
	}
	return b.String()
}

// ScoreCard renders a graded diagnosis. This is the one place the hidden
// condition is printed.
func ScoreCard(sc engine.DiagnosisScore) string {
	var b strings.Builder
	b.WriteString("## DIAGNOSIS\n")
	b.WriteString(fmt.Sprintf("Submitted: %s (confidence %.0f%%)\n", sc.Submitted, sc.Confidence))
	if sc.Correct {
		b.WriteString("Correct.\n")
	} else {
		b.WriteString(fmt.Sprintf("Incorrect. The patient had %s.\n", sc.Actual))
	}
	b.WriteString(fmt.Sprintf("Score: %.0f/100\n", sc.Score))
	return b.String()
}

// ShiftSummary renders the closing screen for a session.
func ShiftSummary(sum engine.SessionSummary, scores []engine.DiagnosisScore) string {
	var b strings.Builder
	b.WriteString("## SHIFT SUMMARY\n")
	b.WriteString(fmt.Sprintf("Cases seen: %d | Diagnosed: %d\n", sum.Cases, sum.Scored))
	b.WriteString(fmt.Sprintf("Total score: %.0f | Average: %.1f\n", sum.Total, sum.Average))
	if len(scores) > 0 {
		b.WriteString("\n")
	}
	for i, sc := range scores {
		verdict := "correct"
		if !sc.Correct {
			verdict = fmt.Sprintf("was %s", sc.Actual)
		}
		b.WriteString(fmt.Sprintf("- Case %d: answered %s, %s, %.0f points\n", i+1, sc.Submitted, verdict, sc.Score))
	}
	return b.String()
}
