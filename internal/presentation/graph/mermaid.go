package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pipewright/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart for a pipeline.
// It applies semantic styling:
// - Trigger: ((Circle))
// - Pool: [/Parallelogram/]
// - Stage: [Rectangle]
// - Job: [[Subroutine]], annotated with its step count
// Stages are chained in declaration order; the trigger and pool point at the first stage.
func GenerateMermaid(p *domain.Pipeline) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if p == nil {
		return sb.String()
	}

	if p.Trigger != "" {
		sb.WriteString(fmt.Sprintf("    trigger((\"trigger: %s\"))\n", escapeLabel(p.Trigger)))
	}
	if p.Pool != nil {
		label := "pool: " + escapeLabel(p.Pool.Name)
		if p.Pool.ImageName != "" {
			label += " <br/> image: " + escapeLabel(p.Pool.ImageName)
		}
		sb.WriteString(fmt.Sprintf("    pool[/\"%s\"/]\n", label))
	}

	for i, stage := range p.Stages {
		stageID := fmt.Sprintf("stage_%d", i)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", stageID, escapeLabel(stage.Name)))

		for j, job := range stage.Jobs {
			jobID := fmt.Sprintf("%s_job_%d", stageID, j)
			label := escapeLabel(job.Name)
			if n := len(job.Steps); n > 0 {
				label += fmt.Sprintf(" <br/> %d %s", n, plural(n, "step", "steps"))
			}
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", jobID, label))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", stageID, jobID))
		}

		if i > 0 {
			sb.WriteString(fmt.Sprintf("    stage_%d ==> %s\n", i-1, stageID))
		}
	}

	if len(p.Stages) > 0 {
		if p.Trigger != "" {
			sb.WriteString("    trigger --> stage_0\n")
		}
		if p.Pool != nil {
			sb.WriteString("    pool -.-> stage_0\n")
		}
	}

	return sb.String()
}

// escapeLabel keeps labels inside their double-quoted Mermaid strings.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
