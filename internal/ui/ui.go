package ui

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/NKoziel/locum-tui/internal/engine"
	"github.com/NKoziel/locum-tui/internal/report"
	"github.com/NKoziel/locum-tui/internal/store"
	"github.com/NKoziel/locum-tui/internal/util"
)

const (
	viewMainMenu   = "main_menu"
	viewSetup      = "setup"
	viewWard       = "ward"
	viewTests      = "tests"
	viewTreatments = "treatments"
	viewMeds       = "meds"
	viewDiagnose   = "diagnose"
	viewSummary    = "summary"
	viewHistory    = "history"
	viewSettings   = "settings"
	viewHelp       = "help"
)

var seedEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

func randomSeedText() string {
	buf := make([]byte, 15)
	if _, err := rand.Read(buf); err != nil {
		return "fallback-seed"
	}
	return strings.ToLower(seedEncoding.EncodeToString(buf))
}

type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	warn     lipgloss.Style
	good     lipgloss.Style
	box      lipgloss.Style
	side     lipgloss.Style
	cursor   lipgloss.Style
	barFill  lipgloss.Style
	barEmpty lipgloss.Style
}

func buildStyles(p palette) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		warn:     lipgloss.NewStyle().Foreground(p.Warning),
		good:     lipgloss.NewStyle().Foreground(p.Success),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(1, 2),
		side:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(p.Border).Padding(0, 1),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(p.AccentAlt),
		barFill:  lipgloss.NewStyle().Foreground(p.BarFill),
		barEmpty: lipgloss.NewStyle().Foreground(p.BarEmpty),
	}
}

type model struct {
	ctx     context.Context
	version string

	catalog *engine.Catalog
	session *engine.Session

	// persistence; db stays nil when the game runs without a database
	db    *store.DB
	runID uuid.UUID

	view   string
	width  int
	height int
	scroll int

	themeName string
	showHints bool
	st        styles

	// pre-shift configuration
	specIdx  int
	diffIdx  int
	seedText string

	// ward content, markdown and its rendered form
	chart    string
	note     string
	rendered string
	status   string

	// list cursor shared by the test/treatment pickers and history
	cursor int

	// medication entry runs in stages: pick, dose, route
	medStage  int
	medCursor int
	routeIdx  int
	doseInput textinput.Model

	// diagnosis entry: name then confidence
	diagStage int
	diagInput textinput.Model
	confInput textinput.Model

	history []store.ScoreRow
}

// initialModel boots to the main menu; nothing is persisted until a shift
// starts.
func initialModel(ctx context.Context, db *store.DB, catalog *engine.Catalog, cfg util.Config, version string) model {
	m := model{
		ctx:       ctx,
		version:   version,
		catalog:   catalog,
		db:        db,
		view:      viewMainMenu,
		themeName: cfg.Theme,
		showHints: cfg.ShowHints,
		seedText:  strings.TrimSpace(cfg.SeedText),
	}
	if m.seedText == "" {
		m.seedText = randomSeedText()
	}
	for i, s := range engine.AllSpecializations {
		if string(s) == cfg.Specialization {
			m.specIdx = i
		}
	}
	for i, d := range engine.AllDifficulties {
		if string(d) == cfg.Difficulty {
			m.diffIdx = i
		}
	}
	// Settings saved during the previous recorded run win over config
	// defaults, the way the game left them.
	if db != nil {
		if run, ok, err := store.NewRunRepo(db).Latest(ctx); err == nil && ok {
			if theme, hints, ok, err := store.NewSettingsRepo(db).ForRun(ctx, run.ID); err == nil && ok {
				m.themeName = theme
				m.showHints = hints
			}
		}
	}
	m.st = buildStyles(paletteFor(m.themeName))

	m.doseInput = textinput.New()
	m.doseInput.CharLimit = 12
	m.doseInput.Width = 16

	m.diagInput = textinput.New()
	m.diagInput.Placeholder = "diagnosis"
	m.diagInput.CharLimit = 64
	m.diagInput.Width = 40

	m.confInput = textinput.New()
	m.confInput.Placeholder = "confidence 0-100"
	m.confInput.CharLimit = 5
	m.confInput.Width = 16
	return m
}

func (m *model) spec() engine.Specialization { return engine.AllSpecializations[m.specIdx] }
func (m *model) diff() engine.Difficulty     { return engine.AllDifficulties[m.diffIdx] }

// startShift builds the session and, when a database is around, the run row
// and recorder under it. Persistence failure downgrades to a warning; the
// shift starts either way.
func (m *model) startShift() {
	seed, err := engine.NewRunSeed(m.seedText)
	if err != nil {
		m.status = "invalid seed: " + err.Error()
		return
	}
	var recorder engine.Recorder
	if m.db != nil {
		run, err := store.NewRunRepo(m.db).Create(m.ctx, seed.Text, m.spec(), m.diff())
		if err != nil {
			m.status = "recording disabled: " + err.Error()
			m.runID = uuid.Nil
		} else {
			m.runID = run.ID
			recorder = store.NewRecorder(m.db, run.ID)
			_ = store.NewSettingsRepo(m.db).Upsert(m.ctx, m.runID, m.themeName, m.showHints)
		}
	}
	m.session = engine.NewSession(m.catalog, seed, recorder)
	m.nextCase()
	if m.session.Patient() != nil {
		m.view = viewWard
	}
}

// nextCase asks the session for a fresh patient and rebuilds the chart.
func (m *model) nextCase() {
	_, err := m.session.StartCase(m.ctx, m.spec(), m.diff())
	if err != nil {
		m.status = "case generation failed: " + err.Error()
		return
	}
	m.note = ""
	m.scroll = 0
	m.status = ""
	m.refreshChart()
}

// refreshChart re-renders the ward markdown from live patient state.
func (m *model) refreshChart() {
	if m.session == nil || m.session.Patient() == nil {
		return
	}
	m.chart = report.Chart(m.session.Patient().Snapshot())
	md := m.chart
	if m.note != "" {
		md += "\n" + m.note
	}
	m.rendered = renderMarkdown(md)
	m.pullWarnings()
}

func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// pullWarnings surfaces the most recent persistence warning on the status
// line. Gameplay already succeeded by the time one shows up.
func (m *model) pullWarnings() {
	if m.session == nil {
		return
	}
	if warnings := m.session.Warnings(); len(warnings) > 0 {
		m.status = fmt.Sprintf("recording warning (%d): %s", len(warnings), warnings[len(warnings)-1])
	}
}

// profileLists returns what the active patient's specialization may order.
func (m *model) profileLists() (tests, treatments []string) {
	if m.session == nil || m.session.Patient() == nil {
		return nil, nil
	}
	p, ok := m.catalog.Profile(m.session.Patient().Specialization)
	if !ok {
		return nil, nil
	}
	return p.Tests, p.Treatments
}

func (m *model) runTest(name string) {
	rec, err := m.session.RunTest(m.ctx, name)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.note = report.TestReport(rec)
	m.view = viewWard
	m.refreshChart()
}

func (m *model) applyTreatment(name string) {
	rec, err := m.session.ApplyTreatment(m.ctx, name)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.note = report.TreatmentNote(rec)
	m.view = viewWard
	m.refreshChart()
}

func (m *model) administerMedication(med engine.Medication, dosage float64, route engine.Route) {
	rec, err := m.session.AdministerMedication(m.ctx, med.Name, dosage, route)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.note = report.MedicationNote(rec)
	m.view = viewWard
	m.refreshChart()
}

func (m *model) submitDiagnosis() {
	confidence, err := strconv.ParseFloat(strings.TrimSpace(m.confInput.Value()), 64)
	if err != nil {
		m.status = "confidence must be a number"
		return
	}
	score, err := m.session.SubmitDiagnosis(m.ctx, strings.TrimSpace(m.diagInput.Value()), confidence)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.note = report.ScoreCard(score)
	m.diagInput.Reset()
	m.confInput.Reset()
	m.diagStage = 0
	m.view = viewWard
	m.refreshChart()
}

func (m *model) showHintsNote() {
	if !m.showHints {
		m.status = "hints are disabled in settings"
		return
	}
	hints, err := m.session.Hints()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.note = report.Differential(hints)
	m.refreshChart()
}

// refreshHistory loads recorded diagnoses for the live run, or for the most
// recent run on record when no shift has started yet.
func (m *model) refreshHistory() {
	m.history = nil
	if m.db == nil {
		return
	}
	runID := m.runID
	if runID == uuid.Nil {
		run, ok, err := store.NewRunRepo(m.db).Latest(m.ctx)
		if err != nil || !ok {
			return
		}
		runID = run.ID
	}
	if rows, err := store.NewScoreRepo(m.db).RecentForRun(m.ctx, runID, 20); err == nil {
		m.history = rows
	} else {
		m.status = "history unavailable: " + err.Error()
	}
}

func (m *model) persistSettings() {
	if m.db == nil || m.runID == uuid.Nil {
		return
	}
	_ = store.NewSettingsRepo(m.db).Upsert(m.ctx, m.runID, m.themeName, m.showHints)
}

// back returns to the ward when a shift is live, otherwise the menu.
func (m *model) back() {
	if m.session != nil && m.session.Patient() != nil {
		m.view = viewWard
		return
	}
	m.view = viewMainMenu
}

// tea.Model implementation ---------------------------------------------------

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case viewMainMenu:
		switch k {
		case "1":
			m.view = viewSetup
		case "2":
			m.refreshHistory()
			m.view = viewHistory
		case "3":
			m.view = viewSettings
		case "4", "?":
			m.view = viewHelp
		case "q":
			return m, tea.Quit
		}
		return m, nil

	case viewSetup:
		switch k {
		case "1":
			m.specIdx = (m.specIdx + 1) % len(engine.AllSpecializations)
		case "2":
			m.diffIdx = (m.diffIdx + 1) % len(engine.AllDifficulties)
		case "3":
			m.seedText = randomSeedText()
		case "enter":
			m.startShift()
		case "esc":
			m.view = viewMainMenu
		}
		return m, nil

	case viewTests:
		tests, _ := m.profileLists()
		switch k {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(tests)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(tests) {
				m.runTest(tests[m.cursor])
			}
		case "esc", "q":
			m.view = viewWard
		}
		return m, nil

	case viewTreatments:
		_, treatments := m.profileLists()
		switch k {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(treatments)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(treatments) {
				m.applyTreatment(treatments[m.cursor])
			}
		case "esc", "q":
			m.view = viewWard
		}
		return m, nil

	case viewMeds:
		return m.handleMedsKey(msg)

	case viewDiagnose:
		return m.handleDiagnoseKey(msg)

	case viewSummary:
		switch k {
		case "n":
			m.nextCase()
			m.view = viewWard
		case "esc", "q":
			m.back()
		}
		return m, nil

	case viewHistory:
		switch k {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.history)-1 {
				m.cursor++
			}
		case "esc", "q":
			m.back()
		}
		return m, nil

	case viewSettings:
		switch k {
		case "t":
			m.themeName = nextThemeName(m.themeName, 1)
			m.st = buildStyles(paletteFor(m.themeName))
			m.persistSettings()
		case "h":
			m.showHints = !m.showHints
			if m.db != nil && m.runID != uuid.Nil {
				_ = store.NewSettingsRepo(m.db).ToggleHints(m.ctx, m.runID)
			}
		case "esc", "q":
			m.back()
		}
		return m, nil

	case viewHelp:
		if k == "esc" || k == "q" || k == "?" {
			m.back()
		}
		return m, nil
	}

	// ward keys
	switch k {
	case "t":
		m.cursor = 0
		m.view = viewTests
	case "r":
		m.cursor = 0
		m.view = viewTreatments
	case "m":
		m.medStage = 0
		m.medCursor = 0
		m.view = viewMeds
	case "d":
		m.diagStage = 0
		m.diagInput.Focus()
		m.confInput.Blur()
		m.view = viewDiagnose
		return m, textinput.Blink
	case "h":
		m.showHintsNote()
	case "n":
		m.nextCase()
	case "s":
		m.view = viewSummary
	case "y":
		m.refreshHistory()
		m.cursor = 0
		m.view = viewHistory
	case "o":
		m.view = viewSettings
	case "?":
		m.view = viewHelp
	case "esc":
		m.view = viewMainMenu
	case "pgdown", "ctrl+f":
		m.scroll += 8
	case "pgup", "ctrl+b":
		m.scroll -= 8
	case "home":
		m.scroll = 0
	case "end":
		m.scroll = 1 << 20 // render clamps to the last page
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
	return m, nil
}

func (m model) handleMedsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	meds := m.catalog.Medications()
	k := msg.String()
	switch m.medStage {
	case 0: // pick
		switch k {
		case "up", "k":
			if m.medCursor > 0 {
				m.medCursor--
			}
		case "down", "j":
			if m.medCursor < len(meds)-1 {
				m.medCursor++
			}
		case "enter":
			if m.medCursor < len(meds) {
				med := meds[m.medCursor]
				m.medStage = 1
				m.doseInput.Reset()
				m.doseInput.Placeholder = fmt.Sprintf("%g-%g %s", med.DoseMin, med.DoseMax, med.Unit)
				m.doseInput.Focus()
				return m, textinput.Blink
			}
		case "esc", "q":
			m.view = viewWard
		}
		return m, nil
	case 1: // dose
		switch k {
		case "enter":
			if _, err := strconv.ParseFloat(strings.TrimSpace(m.doseInput.Value()), 64); err != nil {
				m.status = "dosage must be a number"
				return m, nil
			}
			m.medStage = 2
			m.routeIdx = 0
			m.doseInput.Blur()
			return m, nil
		case "esc":
			m.medStage = 0
			m.doseInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.doseInput, cmd = m.doseInput.Update(msg)
		return m, cmd
	default: // route
		med := meds[m.medCursor]
		switch k {
		case "left", "up", "k":
			m.routeIdx--
			if m.routeIdx < 0 {
				m.routeIdx = len(med.Routes) - 1
			}
		case "right", "down", "j", "tab":
			m.routeIdx = (m.routeIdx + 1) % len(med.Routes)
		case "enter":
			dosage, _ := strconv.ParseFloat(strings.TrimSpace(m.doseInput.Value()), 64)
			m.medStage = 0
			m.administerMedication(med, dosage, med.Routes[m.routeIdx])
		case "esc":
			m.medStage = 1
			m.doseInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}
}

func (m model) handleDiagnoseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if m.diagStage == 0 {
		switch k {
		case "enter":
			if strings.TrimSpace(m.diagInput.Value()) == "" {
				return m, nil
			}
			m.diagStage = 1
			m.diagInput.Blur()
			m.confInput.Focus()
			return m, textinput.Blink
		case "esc":
			m.diagInput.Blur()
			m.view = viewWard
			return m, nil
		}
		var cmd tea.Cmd
		m.diagInput, cmd = m.diagInput.Update(msg)
		return m, cmd
	}
	switch k {
	case "enter":
		m.confInput.Blur()
		m.submitDiagnosis()
		return m, nil
	case "esc":
		m.diagStage = 0
		m.confInput.Blur()
		m.diagInput.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.confInput, cmd = m.confInput.Update(msg)
	return m, cmd
}

// Rendering -------------------------------------------------------------------

func (m model) View() string {
	switch m.view {
	case viewMainMenu:
		return m.renderMainMenu()
	case viewSetup:
		return m.renderSetup()
	case viewWard:
		return m.renderWardLayout()
	case viewTests:
		tests, _ := m.profileLists()
		return m.renderPicker("ORDER A TEST", tests, m.cursor)
	case viewTreatments:
		_, treatments := m.profileLists()
		return m.renderPicker("ORDER A TREATMENT", treatments, m.cursor)
	case viewMeds:
		return m.renderMeds()
	case viewDiagnose:
		return m.renderDiagnose()
	case viewSummary:
		return m.renderSummary()
	case viewHistory:
		return m.renderHistory()
	case viewSettings:
		return m.renderSettings()
	case viewHelp:
		return m.renderHelp()
	default:
		return m.rendered
	}
}

func (m model) renderMainMenu() string {
	content := m.st.title.Render("LOCUM") + "  " + m.st.muted.Render("v"+m.version) + "\n\n" +
		"[1] New Shift\n[2] Shift History\n[3] Settings\n[4] Help\n\n[q] Quit"
	if m.db == nil {
		content += "\n\n" + m.st.warn.Render("no database: shifts will not be recorded")
	}
	return m.st.box.Width(50).Render(content)
}

func (m model) renderSetup() string {
	content := fmt.Sprintf("%s\n\nWard: %s (1 cycle)\nDifficulty: %s (2 cycle)\nSeed: %s (3 regenerate)\n\n[enter] Begin shift  [esc] Back",
		m.st.title.Render("SHIFT SETUP"), m.spec().Title(), m.diff(), m.seedText)
	return m.st.box.Width(64).Render(content)
}

func (m model) renderWardLayout() string {
	w := m.width
	if w <= 0 {
		w = 100
	}
	sidebarWidth := 32
	if w < 96 {
		sidebarWidth = 26
	}
	mainWidth := w - sidebarWidth - 1

	top := m.renderTopBar()
	lines := strings.Split(m.rendered, "\n")
	scroll := m.scroll
	if scroll > len(lines) {
		scroll = len(lines)
	}
	viewLines := lines
	availHeight := m.height - 4
	if availHeight > 5 && len(lines) > availHeight {
		if scroll+availHeight > len(lines) {
			scroll = len(lines) - availHeight
		}
		viewLines = lines[scroll : scroll+availHeight]
	}
	main := lipgloss.NewStyle().Width(mainWidth).Render(strings.Join(viewLines, "\n"))
	side := m.st.side.Width(sidebarWidth).Render(m.buildSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	bottom := m.renderBottomBar()
	return lipgloss.JoinVertical(lipgloss.Left, top, body, bottom)
}

func (m model) renderTopBar() string {
	left := "LOCUM"
	if m.session != nil && m.session.Patient() != nil {
		p := m.session.Patient()
		left = fmt.Sprintf("LOCUM • %s • %s", p.Specialization.Title(), p.Difficulty)
	}
	right := ""
	if m.session != nil {
		right = fmt.Sprintf("Case %d", m.session.CaseNumber())
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	gap := w - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return m.st.title.Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderBottomBar() string {
	legend := "[t] tests  [r] treatments  [m] meds  [d] diagnose  [h] hints  [n] next case  [s] summary  [y] history  [o] settings  [?] help  [esc] menu"
	line := m.st.muted.Render(legend)
	if m.status != "" {
		line += "\n" + m.st.warn.Render(m.status)
	}
	return line
}

func (m model) buildSidebar() string {
	var b strings.Builder
	b.WriteString("SHIFT\n")
	if m.session != nil {
		sum := m.session.Summary()
		b.WriteString(fmt.Sprintf("Cases %d  Scored %d\n", sum.Cases, sum.Scored))
		b.WriteString(m.bar(sum.Scored, sum.Cases) + "\n")
		if sum.Scored > 0 {
			b.WriteString(fmt.Sprintf("Total %.0f  Avg %.1f\n", sum.Total, sum.Average))
		}
	}
	b.WriteString("\nSEED\n")
	b.WriteString(m.seedText + "\n")
	b.WriteString("\nRECORDING\n")
	if m.db != nil && m.runID != uuid.Nil {
		b.WriteString("on\n")
	} else {
		b.WriteString("off\n")
	}
	if m.session != nil {
		if warnings := m.session.Warnings(); len(warnings) > 0 {
			b.WriteString(fmt.Sprintf("\n%s\n", m.st.warn.Render(fmt.Sprintf("WARNINGS (%d)", len(warnings)))))
		}
	}
	if m.session != nil && m.session.Patient() != nil {
		p := m.session.Patient()
		b.WriteString("\nORDERS\n")
		b.WriteString(fmt.Sprintf("Tests %d\n", len(p.History)))
		b.WriteString(fmt.Sprintf("Treatments %d\n", len(p.Treatments)))
		b.WriteString(fmt.Sprintf("Medications %d\n", len(p.Medications)))
	}
	return b.String()
}

// bar renders a 10-cell progress bar in the active palette.
func (m model) bar(filled, total int) string {
	const width = 10
	if total < 1 {
		total = 1
	}
	n := filled * width / total
	if n > width {
		n = width
	}
	return m.st.barFill.Render(strings.Repeat("█", n)) + m.st.barEmpty.Render(strings.Repeat("·", width-n))
}

func (m model) renderPicker(title string, items []string, cursor int) string {
	var b strings.Builder
	b.WriteString(m.st.title.Render(title) + "\n\n")
	if len(items) == 0 {
		b.WriteString("(nothing available)\n")
	}
	for i, it := range items {
		if i == cursor {
			b.WriteString(m.st.cursor.Render("> "+it) + "\n")
		} else {
			b.WriteString("  " + it + "\n")
		}
	}
	b.WriteString("\n" + m.st.muted.Render("[up/down] select  [enter] order  [esc] back"))
	return m.st.box.Render(b.String())
}

func (m model) renderMeds() string {
	meds := m.catalog.Medications()
	var b strings.Builder
	b.WriteString(m.st.title.Render("ADMINISTER MEDICATION") + "\n\n")
	switch m.medStage {
	case 0:
		for i, med := range meds {
			line := fmt.Sprintf("%s (%s, %g-%g %s)", med.Name, med.Class, med.DoseMin, med.DoseMax, med.Unit)
			if i == m.medCursor {
				b.WriteString(m.st.cursor.Render("> "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
		b.WriteString("\n" + m.st.muted.Render("[up/down] select  [enter] choose  [esc] back"))
	case 1:
		med := meds[m.medCursor]
		b.WriteString(fmt.Sprintf("%s, typical dose %g %s\n\n", med.Name, med.DoseTypical, med.Unit))
		b.WriteString("Dose: " + m.doseInput.View() + "\n")
		b.WriteString("\n" + m.st.muted.Render("[enter] confirm dose  [esc] back"))
	default:
		med := meds[m.medCursor]
		b.WriteString(fmt.Sprintf("%s %s %s\n\nRoute: ", med.Name, strings.TrimSpace(m.doseInput.Value()), med.Unit))
		for i, r := range med.Routes {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == m.routeIdx {
				b.WriteString(m.st.cursor.Render("[" + string(r) + "]"))
			} else {
				b.WriteString(string(r))
			}
		}
		b.WriteString("\n\n" + m.st.muted.Render("[left/right] route  [enter] administer  [esc] back"))
	}
	return m.st.box.Render(b.String())
}

func (m model) renderDiagnose() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("SUBMIT DIAGNOSIS") + "\n\n")
	b.WriteString("Diagnosis:  " + m.diagInput.View() + "\n")
	if m.diagStage == 1 {
		b.WriteString("Confidence: " + m.confInput.View() + "\n")
	}
	b.WriteString("\n" + m.st.muted.Render("[enter] next  [esc] back"))
	return m.st.box.Render(b.String())
}

func (m model) renderSummary() string {
	if m.session == nil {
		return m.st.box.Render("No shift in progress.\n\n[esc] back")
	}
	md := report.ShiftSummary(m.session.Summary(), m.session.Scores())
	return renderMarkdown(md) + "\n" + m.st.muted.Render("[n] next case  [esc] back")
}

func (m model) renderHistory() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("SHIFT HISTORY") + "\n\n")
	switch {
	case m.db == nil:
		b.WriteString("(persistence disabled)\n")
	case len(m.history) == 0:
		b.WriteString("(no recorded diagnoses yet)\n")
	default:
		for i, row := range m.history {
			verdict := m.st.warn.Render("miss")
			if row.Correct {
				verdict = m.st.good.Render("hit ")
			}
			line := fmt.Sprintf("%s  %-18s %-20s answered %-20s %5.1f", verdict, row.Patient, row.Actual, row.Submitted, row.Score)
			if i == m.cursor {
				line = m.st.cursor.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n" + m.st.muted.Render("[esc] back"))
	return m.st.box.Render(b.String())
}

func (m model) renderSettings() string {
	hints := "on"
	if !m.showHints {
		hints = "off"
	}
	content := fmt.Sprintf("%s\n\nTheme: %s (t cycle)\nHints: %s (h toggle)\n\n[esc] back",
		m.st.title.Render("SETTINGS"), m.themeName, hints)
	return m.st.box.Width(50).Render(content)
}

func (m model) renderHelp() string {
	content := m.st.title.Render("HOW TO PLAY") + "\n\n" +
		"You are the locum on call. Each case is a generated patient with a\n" +
		"hidden condition. Order tests to gather evidence, treat to stabilize,\n" +
		"then submit a diagnosis with a confidence percentage.\n\n" +
		"Correct answers score your stated confidence; wrong answers score the\n" +
		"confidence you held back. Contraindicated orders make the patient\n" +
		"worse, and overdosing is flagged on the record.\n\n" +
		"Same seed, same ward, same choices: identical shift.\n\n" +
		"Ward keys: [t] tests  [r] treatments  [m] meds  [d] diagnose\n" +
		"           [h] hints  [n] next case  [s] summary  [y] history\n" +
		"           [o] settings  [esc] menu  [ctrl+c] quit\n\n" +
		m.st.muted.Render("[esc] back")
	return m.st.box.Render(content)
}
