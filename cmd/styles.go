package cmd

import "charm.land/lipgloss/v2"

// Color palette for one-shot CLI output.
var (
	colorPrimary = lipgloss.Color("#8B5CF6") // Purple
	colorSuccess = lipgloss.Color("#22C55E") // Green
	colorWarn    = lipgloss.Color("#F97316") // Orange
	colorDim     = lipgloss.Color("#94A3B8") // Slate
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorDim)

	styleOK = lipgloss.NewStyle().
		Foreground(colorSuccess)

	styleNotice = lipgloss.NewStyle().
			Foreground(colorWarn).
			Italic(true)
)
