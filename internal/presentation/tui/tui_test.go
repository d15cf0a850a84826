package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFence(t *testing.T) {
	assert.Equal(t, "```yaml\nstages:\n```\n", Fence("stages:\n"))
	assert.Equal(t, "```yaml\nstages:\n```\n", Fence("stages:"))
}

func TestRenderer_PlainWhenNotTerminal(t *testing.T) {
	render := newRenderer(false)

	doc := "trigger: main\n\nstages:\n"
	out, err := render(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestRenderer_Terminal(t *testing.T) {
	render := newRenderer(true)

	out, err := render("stages:\n- stage: Build\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Build")
	assert.NotContains(t, out, "```")
}

func TestSummary(t *testing.T) {
	p := &domain.Pipeline{
		Trigger: "main",
		Pool:    &domain.Pool{Name: "linux", ImageName: "ubuntu-latest"},
		Stages: []domain.Stage{
			{Name: "Build", Jobs: []domain.Job{{Name: "a"}, {Name: "b"}}},
			{Name: "Deploy", Jobs: []domain.Job{{Name: "c"}}},
		},
	}

	out := Summary("ci", p)
	assert.Contains(t, out, "ci")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "linux (ubuntu-latest)")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "3")
	assert.Greater(t, strings.Count(out, "\n"), 4)
}

func TestSummary_Minimal(t *testing.T) {
	out := Summary("empty", &domain.Pipeline{})
	assert.NotContains(t, out, "trigger")
	assert.NotContains(t, out, "pool")
	assert.Contains(t, out, "stages")
}

func TestFprintBanner(t *testing.T) {
	var buf bytes.Buffer
	FprintBanner(&buf)
	assert.Contains(t, buf.String(), `|  _ \`)
	assert.Equal(t, len(bannerLines)+2, strings.Count(buf.String(), "\n"))
}
