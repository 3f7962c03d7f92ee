package store

import (
	"context"
	"database/sql"
	"encoding/json"
	errs "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/NKoziel/locum-tui/internal/engine"
	"github.com/NKoziel/locum-tui/internal/util"
)

var ErrNoChange = errs.New("no change")

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to DB per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	// Postgres-only
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, err
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// Run is one recorded play-through.
type Run struct {
	ID             uuid.UUID
	SeedText       string
	Specialization string
	Difficulty     string
}

// RunRepo basic operations.
type RunRepo struct{ db *DB }

func NewRunRepo(db *DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) Create(ctx context.Context, seedText string, spec engine.Specialization, diff engine.Difficulty) (Run, error) {
	id := uuid.New()
	err := r.db.gorm.WithContext(ctx).Exec(
		`INSERT INTO runs(id, seed_text, specialization, difficulty) VALUES (?,?,?,?)`,
		id, seedText, string(spec), string(diff),
	).Error
	if err != nil {
		return Run{}, wrap(err, "insert run")
	}
	return Run{ID: id, SeedText: seedText, Specialization: string(spec), Difficulty: string(diff)}, nil
}

// Latest returns the most recently created run, with ok=false on an empty
// table.
func (r *RunRepo) Latest(ctx context.Context) (Run, bool, error) {
	row := r.db.gorm.WithContext(ctx).Raw(
		`SELECT id, seed_text, specialization, difficulty FROM runs ORDER BY created_at DESC LIMIT 1`,
	).Row()
	var rr Run
	if err := row.Scan(&rr.ID, &rr.SeedText, &rr.Specialization, &rr.Difficulty); err != nil {
		if errs.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, wrap(err, "select latest run")
	}
	return rr, true, nil
}

// Recorder persists session events under one run row. It implements
// engine.Recorder; the session treats every returned error as a warning.
type Recorder struct {
	db    *DB
	runID uuid.UUID

	mu      sync.Mutex
	caseIDs map[string]uuid.UUID
}

func NewRecorder(db *DB, runID uuid.UUID) *Recorder {
	return &Recorder{db: db, runID: runID, caseIDs: make(map[string]uuid.UUID)}
}

func (r *Recorder) rememberCase(patientID string, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caseIDs[patientID] = id
}

func (r *Recorder) caseID(p *engine.Patient) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.caseIDs[p.ID]
	if !ok {
		return uuid.Nil, fmt.Errorf("case %s was never recorded", p.ID)
	}
	return id, nil
}

func (r *Recorder) RecordCase(ctx context.Context, p *engine.Patient) error {
	id := uuid.New()
	vitals, _ := json.Marshal(p.Vitals)
	err := r.db.gorm.WithContext(ctx).Exec(`INSERT INTO cases(
		id, run_id, patient_id, name, age, gender, specialization, difficulty, condition, severity, medical_history, symptoms, vitals
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, r.runID, p.ID, p.Name, p.Age, string(p.Gender), string(p.Specialization), string(p.Difficulty),
		p.Condition().Name, p.Severity(), p.MedicalHistory, p.Symptoms, vitals,
	).Error
	if err != nil {
		return wrap(err, "insert case")
	}
	r.rememberCase(p.ID, id)
	return nil
}

func (r *Recorder) RecordTest(ctx context.Context, p *engine.Patient, rec engine.TestRecord) error {
	caseID, err := r.caseID(p)
	if err != nil {
		return err
	}
	findings, _ := json.Marshal(rec.Findings)
	err = r.db.gorm.WithContext(ctx).Exec(`INSERT INTO test_records(
		id, case_id, ordinal, test_name, category, findings, impression, flagged_abnormal
	) VALUES (?,?,?,?,?,?,?,?)`,
		uuid.New(), caseID, rec.Ordinal, rec.Test, string(rec.Category), findings, rec.Impression, rec.FlaggedAbnormal,
	).Error
	return wrap(err, "insert test record")
}

// RecordTreatment stores the record and syncs the case's mutated state in one
// transaction.
func (r *Recorder) RecordTreatment(ctx context.Context, p *engine.Patient, rec engine.TreatmentRecord) error {
	caseID, err := r.caseID(p)
	if err != nil {
		return err
	}
	vitals, _ := json.Marshal(p.Vitals)
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO treatment_records(
			id, case_id, ordinal, treatment, category, matched, contraindicated, effectiveness, side_effects
		) VALUES (?,?,?,?,?,?,?,?,?)`,
			uuid.New(), caseID, rec.Ordinal, rec.Treatment, rec.Category, rec.Matched, rec.Contraindicated, rec.Effectiveness, rec.SideEffects,
		).Error; err != nil {
			return err
		}
		return tx.Exec(`UPDATE cases SET severity = ?, symptoms = ?, vitals = ? WHERE id = ?`,
			p.Severity(), p.Symptoms, vitals, caseID).Error
	})
	return wrap(err, "insert treatment record")
}

// RecordMedication stores the record and syncs the case's mutated state in
// one transaction.
func (r *Recorder) RecordMedication(ctx context.Context, p *engine.Patient, rec engine.MedicationRecord) error {
	caseID, err := r.caseID(p)
	if err != nil {
		return err
	}
	vitals, _ := json.Marshal(p.Vitals)
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO medication_records(
			id, case_id, ordinal, medication, dosage, unit, route, matched, contraindicated, overdose, effectiveness, side_effects
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			uuid.New(), caseID, rec.Ordinal, rec.Medication, rec.Dosage, rec.Unit, string(rec.Route),
			rec.Matched, rec.Contraindicated, rec.Overdose, rec.Effectiveness, rec.SideEffects,
		).Error; err != nil {
			return err
		}
		return tx.Exec(`UPDATE cases SET severity = ?, symptoms = ?, vitals = ? WHERE id = ?`,
			p.Severity(), p.Symptoms, vitals, caseID).Error
	})
	return wrap(err, "insert medication record")
}

func (r *Recorder) RecordScore(ctx context.Context, p *engine.Patient, score engine.DiagnosisScore) error {
	caseID, err := r.caseID(p)
	if err != nil {
		return err
	}
	err = r.db.gorm.WithContext(ctx).Exec(`INSERT INTO diagnosis_scores(
		id, case_id, submitted, actual, confidence, correct, score
	) VALUES (?,?,?,?,?,?,?)`,
		uuid.New(), caseID, score.Submitted, score.Actual, score.Confidence, score.Correct, score.Score,
	).Error
	return wrap(err, "insert diagnosis score")
}

// ScoreRow is one past result for the history screen.
type ScoreRow struct {
	Patient   string
	Submitted string
	Actual    string
	Correct   bool
	Score     float64
}

// ScoreRepo reads back graded diagnoses.
type ScoreRepo struct{ db *DB }

func NewScoreRepo(db *DB) *ScoreRepo { return &ScoreRepo{db: db} }

func (s *ScoreRepo) RecentForRun(ctx context.Context, runID uuid.UUID, limit int) ([]ScoreRow, error) {
	rows, err := s.db.gorm.WithContext(ctx).Raw(`
		SELECT c.name, d.submitted, d.actual, d.correct, d.score
		FROM diagnosis_scores d
		JOIN cases c ON c.id = d.case_id
		WHERE c.run_id = ?
		ORDER BY d.created_at DESC
		LIMIT ?`, runID, limit).Rows()
	if err != nil {
		return nil, wrap(err, "select scores")
	}
	defer rows.Close()
	var out []ScoreRow
	for rows.Next() {
		var sr ScoreRow
		if err := rows.Scan(&sr.Patient, &sr.Submitted, &sr.Actual, &sr.Correct, &sr.Score); err != nil {
			return nil, wrap(err, "scan score")
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// SettingsRepo
type SettingsRepo struct{ db *DB }

func NewSettingsRepo(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (sr *SettingsRepo) Upsert(ctx context.Context, runID uuid.UUID, theme string, showHints bool) error {
	return sr.db.gorm.WithContext(ctx).Exec(`INSERT INTO settings(run_id, theme, show_hints) VALUES (?,?,?)
	ON CONFLICT (run_id) DO UPDATE SET theme=EXCLUDED.theme, show_hints=EXCLUDED.show_hints`,
		runID, theme, showHints).Error
}

func (sr *SettingsRepo) ToggleHints(ctx context.Context, runID uuid.UUID) error {
	return sr.db.gorm.WithContext(ctx).Exec(`UPDATE settings SET show_hints = NOT show_hints WHERE run_id = ?`, runID).Error
}

// ForRun reads the saved settings of one run, with ok=false when the run
// never saved any.
func (sr *SettingsRepo) ForRun(ctx context.Context, runID uuid.UUID) (theme string, showHints bool, ok bool, err error) {
	row := sr.db.gorm.WithContext(ctx).Raw(
		`SELECT theme, show_hints FROM settings WHERE run_id = ?`, runID,
	).Row()
	if scanErr := row.Scan(&theme, &showHints); scanErr != nil {
		if errs.Is(scanErr, sql.ErrNoRows) {
			return "", false, false, nil
		}
		return "", false, false, wrap(scanErr, "select settings")
	}
	return theme, showHints, true, nil
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
