package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NKoziel/locum-tui/internal/engine"
	"github.com/NKoziel/locum-tui/internal/meddata"
	"github.com/NKoziel/locum-tui/internal/util"
)

func testCatalog(t *testing.T) *engine.Catalog {
	t.Helper()
	data, err := meddata.Load()
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	cat, err := engine.NewCatalog(data)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func TestInitialModelReadsConfig(t *testing.T) {
	cfg := util.Config{
		SeedText:       "  ward-7  ",
		Specialization: "cardiology",
		Difficulty:     "hard",
		Theme:          "midnight",
		ShowHints:      false,
	}
	m := initialModel(context.Background(), nil, testCatalog(t), cfg, "test")
	if m.view != viewMainMenu {
		t.Fatalf("expected main menu, got %s", m.view)
	}
	if m.spec() != engine.SpecCardiology {
		t.Fatalf("specialization not taken from config: %s", m.spec())
	}
	if m.diff() != engine.DifficultyHard {
		t.Fatalf("difficulty not taken from config: %s", m.diff())
	}
	if m.seedText != "ward-7" {
		t.Fatalf("seed text not trimmed: %q", m.seedText)
	}
	if m.showHints {
		t.Fatal("hints should be off")
	}
}

func TestShiftStartsWithoutDatabase(t *testing.T) {
	cfg := util.Config{SeedText: "exam-night", Specialization: "general_practice", Difficulty: "medium"}
	m := initialModel(context.Background(), nil, testCatalog(t), cfg, "test")
	m = press(t, m, "1", "enter")
	if m.view != viewWard {
		t.Fatalf("expected ward after setup, got %s (status %q)", m.view, m.status)
	}
	if m.session == nil || m.session.Patient() == nil {
		t.Fatal("no active case after starting a shift")
	}
	if !strings.Contains(m.chart, "## PATIENT") {
		t.Fatalf("chart not built: %q", m.chart)
	}
}

func TestDiagnoseFlowScoresCase(t *testing.T) {
	cfg := util.Config{SeedText: "exam-night", Specialization: "general_practice", Difficulty: "medium"}
	m := initialModel(context.Background(), nil, testCatalog(t), cfg, "test")
	m = press(t, m, "1", "enter", "d")
	if m.view != viewDiagnose {
		t.Fatalf("expected diagnose view, got %s", m.view)
	}
	m.diagInput.SetValue("common cold")
	m = press(t, m, "enter")
	if m.diagStage != 1 {
		t.Fatalf("expected confidence stage, got %d", m.diagStage)
	}
	m.confInput.SetValue("70")
	m = press(t, m, "enter")
	if m.view != viewWard {
		t.Fatalf("expected ward after submit, got %s (status %q)", m.view, m.status)
	}
	if !strings.Contains(m.note, "## DIAGNOSIS") {
		t.Fatalf("score card not shown: %q", m.note)
	}
	if len(m.session.Scores()) != 1 {
		t.Fatalf("expected one scored case, got %d", len(m.session.Scores()))
	}
}

func TestConfidenceMustBeNumeric(t *testing.T) {
	cfg := util.Config{SeedText: "exam-night", Specialization: "general_practice", Difficulty: "medium"}
	m := initialModel(context.Background(), nil, testCatalog(t), cfg, "test")
	m = press(t, m, "1", "enter", "d")
	m.diagInput.SetValue("flu")
	m = press(t, m, "enter")
	m.confInput.SetValue("very sure")
	m = press(t, m, "enter")
	if m.view != viewDiagnose {
		t.Fatalf("bad confidence should stay on diagnose view, got %s", m.view)
	}
	if m.status == "" {
		t.Fatal("expected a status message for non-numeric confidence")
	}
}

func TestDoseMustBeNumeric(t *testing.T) {
	cfg := util.Config{SeedText: "exam-night", Specialization: "general_practice", Difficulty: "medium"}
	m := initialModel(context.Background(), nil, testCatalog(t), cfg, "test")
	m = press(t, m, "1", "enter", "m", "enter")
	if m.medStage != 1 {
		t.Fatalf("expected dose stage, got %d", m.medStage)
	}
	m.doseInput.SetValue("a lot")
	m = press(t, m, "enter")
	if m.medStage != 1 {
		t.Fatalf("bad dose should stay on dose stage, got %d", m.medStage)
	}
	if m.status == "" {
		t.Fatal("expected a status message for non-numeric dose")
	}
}

func TestHintsRespectSetting(t *testing.T) {
	cfg := util.Config{SeedText: "exam-night", Specialization: "general_practice", Difficulty: "medium", ShowHints: false}
	m := initialModel(context.Background(), nil, testCatalog(t), cfg, "test")
	m = press(t, m, "1", "enter", "h")
	if strings.Contains(m.note, "DIFFERENTIAL") {
		t.Fatal("hints shown while disabled")
	}
	m.showHints = true
	m = press(t, m, "h")
	if !strings.Contains(m.note, "## DIFFERENTIAL") {
		t.Fatalf("expected differential note, got %q", m.note)
	}
}

func TestThemeCycleWraps(t *testing.T) {
	names := themeNames()
	if len(names) == 0 {
		t.Fatal("no palettes registered")
	}
	seen := map[string]bool{}
	current := names[0]
	for range names {
		seen[current] = true
		current = nextThemeName(current, 1)
	}
	if current != names[0] {
		t.Fatalf("cycle did not wrap: ended on %s", current)
	}
	if len(seen) != len(names) {
		t.Fatalf("cycle skipped palettes: saw %d of %d", len(seen), len(names))
	}
}

func TestPaletteFallback(t *testing.T) {
	if paletteFor("no_such_theme") != palettes["clinical"] {
		t.Fatal("unknown theme should fall back to clinical")
	}
}
