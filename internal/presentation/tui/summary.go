package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#a78bfa")).
			Padding(0, 1)

	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c084fc"))
	summaryKey   = lipgloss.NewStyle().Faint(true)
)

// Summary renders a boxed overview of a pipeline: trigger, pool and counts.
func Summary(name string, p *domain.Pipeline) string {
	var lines []string
	lines = append(lines, summaryTitle.Render(name))

	row := func(key, value string) {
		lines = append(lines, summaryKey.Render(fmt.Sprintf("%-8s", key))+" "+value)
	}

	if p.Trigger != "" {
		row("trigger", p.Trigger)
	}
	if p.Pool != nil {
		pool := p.Pool.Name
		if p.Pool.ImageName != "" {
			pool += " (" + p.Pool.ImageName + ")"
		}
		row("pool", pool)
	}
	row("stages", fmt.Sprintf("%d", len(p.Stages)))
	row("jobs", fmt.Sprintf("%d", p.JobCount()))

	return summaryBox.Render(strings.Join(lines, "\n"))
}
