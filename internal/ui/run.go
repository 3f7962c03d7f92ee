package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NKoziel/locum-tui/internal/engine"
	"github.com/NKoziel/locum-tui/internal/store"
	"github.com/NKoziel/locum-tui/internal/util"
)

// Run boots the TUI program and blocks until it exits. db may be nil; the
// game then runs without recording.
func Run(ctx context.Context, db *store.DB, catalog *engine.Catalog, cfg util.Config, version string) error {
	m := initialModel(ctx, db, catalog, cfg, version)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
