package engine

import (
	"context"
	"errors"
	"fmt"
)

// Recorder persists gameplay records. Implementations must tolerate being
// called for every event of a session; the session treats every failure as a
// warning, never as a gameplay error.
type Recorder interface {
	RecordCase(ctx context.Context, p *Patient) error
	RecordTest(ctx context.Context, p *Patient, rec TestRecord) error
	RecordTreatment(ctx context.Context, p *Patient, rec TreatmentRecord) error
	RecordMedication(ctx context.Context, p *Patient, rec MedicationRecord) error
	RecordScore(ctx context.Context, p *Patient, score DiagnosisScore) error
}

// ErrNoActiveCase is returned by session operations that need a patient
// before StartCase has produced one.
var ErrNoActiveCase = errors.New("no active case")

// Session drives one play-through: a sequence of cases against a shared
// catalog, all randomness drawn from labelled streams of one run seed. A nil
// recorder disables persistence entirely.
type Session struct {
	catalog  *Catalog
	seed     RunSeed
	recorder Recorder

	patient  *Patient
	caseNo   int
	scored   bool
	scores   []DiagnosisScore
	warnings []string
}

// NewSession creates a session over a validated catalog. recorder may be nil.
func NewSession(cat *Catalog, seed RunSeed, recorder Recorder) *Session {
	return &Session{catalog: cat, seed: seed, recorder: recorder}
}

// Patient returns the active case, or nil between cases.
func (s *Session) Patient() *Patient { return s.patient }

// CaseNumber returns the 1-based number of the active case, 0 before the
// first one.
func (s *Session) CaseNumber() int { return s.caseNo }

// opStream derives the stream for one numbered operation of the active case.
func (s *Session) opStream(kind string, ordinal int) *Stream {
	return s.seed.Stream(fmt.Sprintf("case#%d:%s#%d", s.caseNo, kind, ordinal))
}

// StartCase generates a new patient and makes it the active case. The
// previous case, scored or not, is left behind.
func (s *Session) StartCase(ctx context.Context, spec Specialization, diff Difficulty) (*Patient, error) {
	s.caseNo++
	stream := s.seed.Stream(fmt.Sprintf("case#%d:patient", s.caseNo))
	p, err := NewPatient(s.catalog, spec, diff, stream)
	if err != nil {
		s.caseNo--
		return nil, err
	}
	s.patient = p
	s.scored = false
	if s.recorder != nil {
		if err := s.recorder.RecordCase(ctx, p); err != nil {
			s.warn("record case", err)
		}
	}
	return p, nil
}

// RunTest performs a test against the active case.
func (s *Session) RunTest(ctx context.Context, name string) (TestRecord, error) {
	if s.patient == nil {
		return TestRecord{}, ErrNoActiveCase
	}
	rec, err := RunTest(s.catalog, s.patient, name, s.opStream("test", len(s.patient.History)+1))
	if err != nil {
		return TestRecord{}, err
	}
	if s.recorder != nil {
		if err := s.recorder.RecordTest(ctx, s.patient, rec); err != nil {
			s.warn("record test", err)
		}
	}
	return rec, nil
}

// ApplyTreatment applies a treatment to the active case.
func (s *Session) ApplyTreatment(ctx context.Context, name string) (TreatmentRecord, error) {
	if s.patient == nil {
		return TreatmentRecord{}, ErrNoActiveCase
	}
	ord := len(s.patient.Treatments) + len(s.patient.Medications) + 1
	rec, err := ApplyTreatment(s.catalog, s.patient, name, s.opStream("treat", ord))
	if err != nil {
		return TreatmentRecord{}, err
	}
	if s.recorder != nil {
		if err := s.recorder.RecordTreatment(ctx, s.patient, rec); err != nil {
			s.warn("record treatment", err)
		}
	}
	return rec, nil
}

// AdministerMedication administers a medication to the active case.
func (s *Session) AdministerMedication(ctx context.Context, name string, dosage float64, route Route) (MedicationRecord, error) {
	if s.patient == nil {
		return MedicationRecord{}, ErrNoActiveCase
	}
	ord := len(s.patient.Treatments) + len(s.patient.Medications) + 1
	rec, err := AdministerMedication(s.catalog, s.patient, name, dosage, route, s.opStream("med", ord))
	if err != nil {
		return MedicationRecord{}, err
	}
	if s.recorder != nil {
		if err := s.recorder.RecordMedication(ctx, s.patient, rec); err != nil {
			s.warn("record medication", err)
		}
	}
	return rec, nil
}

// SubmitDiagnosis grades a diagnosis for the active case. Resubmitting
// replaces the case's previous score in the running tally.
func (s *Session) SubmitDiagnosis(ctx context.Context, submitted string, confidence float64) (DiagnosisScore, error) {
	if s.patient == nil {
		return DiagnosisScore{}, ErrNoActiveCase
	}
	score := ScoreDiagnosis(s.patient, submitted, confidence)
	if s.scored && len(s.scores) > 0 {
		s.scores[len(s.scores)-1] = score
	} else {
		s.scores = append(s.scores, score)
		s.scored = true
	}
	if s.recorder != nil {
		if err := s.recorder.RecordScore(ctx, s.patient, score); err != nil {
			s.warn("record score", err)
		}
	}
	return score, nil
}

// Hints ranks the specialization's conditions against the active case.
func (s *Session) Hints() ([]DifferentialHint, error) {
	if s.patient == nil {
		return nil, ErrNoActiveCase
	}
	return DifferentialHints(s.catalog, s.patient.Specialization, s.patient.Symptoms, s.patient.History)
}

// Scores returns a copy of every graded diagnosis so far, one per scored
// case, in play order.
func (s *Session) Scores() []DiagnosisScore {
	return append([]DiagnosisScore{}, s.scores...)
}

// SessionSummary aggregates the run for the closing screen.
type SessionSummary struct {
	Cases   int
	Scored  int
	Total   float64
	Average float64
}

// Summary tallies the session.
func (s *Session) Summary() SessionSummary {
	sum := SessionSummary{Cases: s.caseNo, Scored: len(s.scores)}
	for _, sc := range s.scores {
		sum.Total += sc.Score
	}
	if sum.Scored > 0 {
		sum.Average = sum.Total / float64(sum.Scored)
	}
	return sum
}

func (s *Session) warn(op string, err error) {
	s.warnings = append(s.warnings, fmt.Sprintf("%s: %v", op, err))
}

// Warnings returns persistence warnings accumulated so far. Gameplay never
// fails on these; the presentation layer decides whether to surface them.
func (s *Session) Warnings() []string {
	return append([]string{}, s.warnings...)
}
