package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type memRecorder struct {
	cases, tests, treatments, medications, scores int
}

func (r *memRecorder) RecordCase(ctx context.Context, p *Patient) error { r.cases++; return nil }
func (r *memRecorder) RecordTest(ctx context.Context, p *Patient, rec TestRecord) error {
	r.tests++
	return nil
}
func (r *memRecorder) RecordTreatment(ctx context.Context, p *Patient, rec TreatmentRecord) error {
	r.treatments++
	return nil
}
func (r *memRecorder) RecordMedication(ctx context.Context, p *Patient, rec MedicationRecord) error {
	r.medications++
	return nil
}
func (r *memRecorder) RecordScore(ctx context.Context, p *Patient, score DiagnosisScore) error {
	r.scores++
	return nil
}

type failRecorder struct{}

var errSinkDown = errors.New("sink down")

func (failRecorder) RecordCase(context.Context, *Patient) error               { return errSinkDown }
func (failRecorder) RecordTest(context.Context, *Patient, TestRecord) error   { return errSinkDown }
func (failRecorder) RecordTreatment(context.Context, *Patient, TreatmentRecord) error {
	return errSinkDown
}
func (failRecorder) RecordMedication(context.Context, *Patient, MedicationRecord) error {
	return errSinkDown
}
func (failRecorder) RecordScore(context.Context, *Patient, DiagnosisScore) error { return errSinkDown }

func TestSessionRequiresActiveCase(t *testing.T) {
	s := NewSession(mustCatalog(t), mustSeed(t, "guard"), nil)
	ctx := context.Background()
	if _, err := s.RunTest(ctx, "ECG"); !errors.Is(err, ErrNoActiveCase) {
		t.Fatalf("RunTest: got %v", err)
	}
	if _, err := s.ApplyTreatment(ctx, "Rest"); !errors.Is(err, ErrNoActiveCase) {
		t.Fatalf("ApplyTreatment: got %v", err)
	}
	if _, err := s.AdministerMedication(ctx, "Aspirin", 300, RouteOral); !errors.Is(err, ErrNoActiveCase) {
		t.Fatalf("AdministerMedication: got %v", err)
	}
	if _, err := s.SubmitDiagnosis(ctx, "Influenza", 50); !errors.Is(err, ErrNoActiveCase) {
		t.Fatalf("SubmitDiagnosis: got %v", err)
	}
	if _, err := s.Hints(); !errors.Is(err, ErrNoActiveCase) {
		t.Fatalf("Hints: got %v", err)
	}
}

// playThrough drives a fixed operation sequence and returns the end state.
func playThrough(t *testing.T, seedText string) (PatientSnapshot, DiagnosisScore) {
	t.Helper()
	ctx := context.Background()
	s := NewSession(mustCatalog(t), mustSeed(t, seedText), nil)
	if _, err := s.StartCase(ctx, SpecGeneralPractice, DifficultyMedium); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.RunTest(ctx, "Complete Blood Count"); err != nil {
		t.Fatalf("test: %v", err)
	}
	if _, err := s.RunTest(ctx, "Vitals Panel"); err != nil {
		t.Fatalf("test: %v", err)
	}
	if _, err := s.ApplyTreatment(ctx, "Rest"); err != nil {
		t.Fatalf("treat: %v", err)
	}
	if _, err := s.AdministerMedication(ctx, "Amoxicillin", 500, RouteOral); err != nil {
		t.Fatalf("med: %v", err)
	}
	score, err := s.SubmitDiagnosis(ctx, "Influenza", 70)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	return s.Patient().Snapshot(), score
}

func TestSessionReplayIsDeterministic(t *testing.T) {
	snapA, scoreA := playThrough(t, "replay-seed")
	snapB, scoreB := playThrough(t, "replay-seed")
	if !reflect.DeepEqual(snapA, snapB) {
		t.Fatalf("same seed, same ops, different snapshots:\n%+v\n%+v", snapA, snapB)
	}
	if scoreA != scoreB {
		t.Fatalf("same seed, same ops, different scores: %+v vs %+v", scoreA, scoreB)
	}
	snapC, _ := playThrough(t, "other-seed")
	if reflect.DeepEqual(snapA, snapC) {
		t.Fatalf("different seeds produced identical runs")
	}
}

func TestSessionRecordsEveryEvent(t *testing.T) {
	rec := &memRecorder{}
	ctx := context.Background()
	s := NewSession(mustCatalog(t), mustSeed(t, "record"), rec)
	if _, err := s.StartCase(ctx, SpecGeneralPractice, DifficultyMedium); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.RunTest(ctx, "Vitals Panel"); err != nil {
		t.Fatalf("test: %v", err)
	}
	if _, err := s.ApplyTreatment(ctx, "Rest"); err != nil {
		t.Fatalf("treat: %v", err)
	}
	if _, err := s.AdministerMedication(ctx, "Amoxicillin", 500, RouteOral); err != nil {
		t.Fatalf("med: %v", err)
	}
	if _, err := s.SubmitDiagnosis(ctx, "Influenza", 50); err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if rec.cases != 1 || rec.tests != 1 || rec.treatments != 1 || rec.medications != 1 || rec.scores != 1 {
		t.Fatalf("recorder saw %+v", rec)
	}
	if len(s.Warnings()) != 0 {
		t.Fatalf("healthy recorder produced warnings: %v", s.Warnings())
	}
}

func TestSessionSinkFailuresBecomeWarnings(t *testing.T) {
	ctx := context.Background()
	s := NewSession(mustCatalog(t), mustSeed(t, "degraded"), failRecorder{})
	if _, err := s.StartCase(ctx, SpecGeneralPractice, DifficultyEasy); err != nil {
		t.Fatalf("gameplay must survive a dead sink: %v", err)
	}
	if _, err := s.RunTest(ctx, "Vitals Panel"); err != nil {
		t.Fatalf("gameplay must survive a dead sink: %v", err)
	}
	if _, err := s.SubmitDiagnosis(ctx, "Influenza", 40); err != nil {
		t.Fatalf("gameplay must survive a dead sink: %v", err)
	}
	if len(s.Warnings()) != 3 {
		t.Fatalf("warnings %d, want 3: %v", len(s.Warnings()), s.Warnings())
	}
}

func TestSessionResubmitReplacesScore(t *testing.T) {
	ctx := context.Background()
	s := NewSession(mustCatalog(t), mustSeed(t, "resubmit"), nil)
	if _, err := s.StartCase(ctx, SpecGeneralPractice, DifficultyMedium); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.SubmitDiagnosis(ctx, "Pneumonia", 90); err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	actual := s.Patient().Condition().Name
	if _, err := s.SubmitDiagnosis(ctx, actual, 90); err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	scores := s.Scores()
	if len(scores) != 1 {
		t.Fatalf("resubmit should replace, got %d scores", len(scores))
	}
	if !scores[0].Correct || scores[0].Score != 90 {
		t.Fatalf("latest submission should win: %+v", scores[0])
	}
}

func TestSessionSummary(t *testing.T) {
	ctx := context.Background()
	s := NewSession(mustCatalog(t), mustSeed(t, "summary"), nil)
	for i := 0; i < 2; i++ {
		if _, err := s.StartCase(ctx, SpecGeneralPractice, DifficultyMedium); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := s.SubmitDiagnosis(ctx, s.Patient().Condition().Name, 60); err != nil {
			t.Fatalf("diagnose: %v", err)
		}
	}
	sum := s.Summary()
	if sum.Cases != 2 || sum.Scored != 2 {
		t.Fatalf("summary counts: %+v", sum)
	}
	if sum.Total != 120 || sum.Average != 60 {
		t.Fatalf("summary math: %+v", sum)
	}
}
