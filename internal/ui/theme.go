package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Panel      lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	AccentAlt  lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	BarFill    lipgloss.Color
	BarEmpty   lipgloss.Color
}

var palettes = map[string]palette{
	// monitor-teal on dark slate, the default
	"clinical": {
		Background: lipgloss.Color("#0f1720"),
		Surface:    lipgloss.Color("#16212c"),
		Panel:      lipgloss.Color("#1e2d3a"),
		Text:       lipgloss.Color("#d8e2ec"),
		Muted:      lipgloss.Color("#7f93a8"),
		Accent:     lipgloss.Color("#4fd6be"),
		AccentAlt:  lipgloss.Color("#82aaff"),
		Border:     lipgloss.Color("#2c3e50"),
		Success:    lipgloss.Color("#7bd88f"),
		Warning:    lipgloss.Color("#ffc777"),
		BarFill:    lipgloss.Color("#4fd6be"),
		BarEmpty:   lipgloss.Color("#16212c"),
	},
	// violet for the night shift
	"midnight": {
		Background: lipgloss.Color("#191726"),
		Surface:    lipgloss.Color("#232136"),
		Panel:      lipgloss.Color("#2a273f"),
		Text:       lipgloss.Color("#e0def4"),
		Muted:      lipgloss.Color("#908caa"),
		Accent:     lipgloss.Color("#c4a7e7"),
		AccentAlt:  lipgloss.Color("#9ccfd8"),
		Border:     lipgloss.Color("#393552"),
		Success:    lipgloss.Color("#a6da95"),
		Warning:    lipgloss.Color("#f6c177"),
		BarFill:    lipgloss.Color("#c4a7e7"),
		BarEmpty:   lipgloss.Color("#232136"),
	},
	// warm amber, old pager glow
	"amber": {
		Background: lipgloss.Color("#1c1612"),
		Surface:    lipgloss.Color("#262019"),
		Panel:      lipgloss.Color("#322a21"),
		Text:       lipgloss.Color("#f0dcc0"),
		Muted:      lipgloss.Color("#a58a6f"),
		Accent:     lipgloss.Color("#ffb454"),
		AccentAlt:  lipgloss.Color("#ff8f40"),
		Border:     lipgloss.Color("#453a2e"),
		Success:    lipgloss.Color("#aad94c"),
		Warning:    lipgloss.Color("#f26d78"),
		BarFill:    lipgloss.Color("#ffb454"),
		BarEmpty:   lipgloss.Color("#262019"),
	},
	// theatre greens
	"scrubs": {
		Background: lipgloss.Color("#101810"),
		Surface:    lipgloss.Color("#182218"),
		Panel:      lipgloss.Color("#203020"),
		Text:       lipgloss.Color("#d7e4d7"),
		Muted:      lipgloss.Color("#8aa58a"),
		Accent:     lipgloss.Color("#66cc8f"),
		AccentAlt:  lipgloss.Color("#4db6ac"),
		Border:     lipgloss.Color("#2e4230"),
		Success:    lipgloss.Color("#8fd694"),
		Warning:    lipgloss.Color("#e5c07b"),
		BarFill:    lipgloss.Color("#66cc8f"),
		BarEmpty:   lipgloss.Color("#182218"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["clinical"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}
