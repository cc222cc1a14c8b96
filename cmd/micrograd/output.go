package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Good    lipgloss.Style
	Bad     lipgloss.Style
	Box     lipgloss.Style
	Columns lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
	Label: lipgloss.NewStyle().Bold(true),
	Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7A89")),
	Good:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
	Bad:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#16858E")).
		Padding(0, 1),
	Columns: lipgloss.NewStyle().Width(14),
}

// row renders cells in fixed-width columns.
func row(cells ...string) string {
	rendered := make([]string, len(cells))
	for i, c := range cells {
		rendered[i] = styles.Columns.Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func printBox(w io.Writer, title string, lines []string) {
	body := styles.Title.Render(title) + "\n" + strings.Join(lines, "\n")
	fmt.Fprintln(w, styles.Box.Render(body))
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}
