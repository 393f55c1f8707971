package tui

import "github.com/charmbracelet/lipgloss"

// bucketColors follows the legend of the web heatmap, red to green
var bucketColors = []lipgloss.Color{
	"#ca2c2c",
	"#de5b3a",
	"#ef8a4b",
	"#f5b55f",
	"#f7d774",
	"#c6df79",
	"#94cf7a",
	"#5cb973",
	"#109b67",
}

const (
	emptyCellColor = lipgloss.Color("#3a3f4b")
	accentColor    = lipgloss.Color("#5252f6")
	mutedColor     = lipgloss.Color("8")
)

const (
	cellGlyph   = "■"
	cursorGlyph = "▣"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(accentColor).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(mutedColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accentColor).
			Padding(1, 3)

	footerStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

func cellStyle(bucket int) lipgloss.Style {
	if bucket < 0 || bucket >= len(bucketColors) {
		return lipgloss.NewStyle().Foreground(emptyCellColor)
	}
	return lipgloss.NewStyle().Foreground(bucketColors[bucket])
}
