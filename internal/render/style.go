package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qline/internal/config"
)

// Styles are the resolved theme colors.
type Styles struct {
	Text      tcell.Style
	Prompt    tcell.Style
	Selection tcell.Style
	Status    tcell.Style
	Pending   tcell.Style
}

func NewStyles(theme config.Theme) Styles {
	mainFg := themeColor(theme.Foreground, tcell.ColorWhite)
	mainBg := themeColor(theme.Background, tcell.ColorBlack)
	promptFg := themeColor(theme.PromptForeground, mainFg)
	statusFg := themeColor(theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := themeColor(theme.StatuslineBackground, tcell.ColorGray)
	selectionFg := themeColor(theme.SelectionForeground, mainFg)
	selectionBg := themeColor(theme.SelectionBackground, tcell.ColorNavy)
	pendingFg := themeColor(theme.PendingForeground, statusFg)

	base := tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	status := tcell.StyleDefault.Foreground(statusFg).Background(statusBg)
	return Styles{
		Text:      base,
		Prompt:    base.Foreground(promptFg).Bold(true),
		Selection: tcell.StyleDefault.Foreground(selectionFg).Background(selectionBg),
		Status:    status,
		Pending:   status.Foreground(pendingFg),
	}
}

// themeColor maps a theme entry to a color. Names and #rrggbb both go
// through tcell; "default" keeps the terminal's own color.
func themeColor(name string, fallback tcell.Color) tcell.Color {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "":
		return fallback
	case "default":
		return tcell.ColorDefault
	}
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		return c
	}
	return fallback
}
