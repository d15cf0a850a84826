package phase_test

import (
	"testing"
	"unsafe"

	"github.com/aretw0/pipewright/pkg/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	lines []string
}

func TestTagsAreZeroSize(t *testing.T) {
	assert.Zero(t, unsafe.Sizeof(phase.Global{}))
	assert.Zero(t, unsafe.Sizeof(phase.Stage{}))
	assert.Zero(t, unsafe.Sizeof(phase.Job{}))
}

func TestHandle_Phase(t *testing.T) {
	g := phase.Hold[phase.Global](&draft{})
	s := phase.Hold[phase.Stage](&draft{})
	j := phase.Hold[phase.Job](&draft{})

	assert.Equal(t, "global", g.Phase())
	assert.Equal(t, "stage", s.Phase())
	assert.Equal(t, "job", j.Phase())
}

func TestHandle_TakeMovesState(t *testing.T) {
	d := &draft{lines: []string{"job:"}}
	h := phase.Hold[phase.Global](d)

	peeked, ok := h.Peek()
	require.True(t, ok)
	assert.Same(t, d, peeked)
	assert.False(t, h.Consumed())

	taken, ok := h.Take()
	require.True(t, ok)
	assert.Same(t, d, taken)
	assert.True(t, h.Consumed())

	_, ok = h.Take()
	assert.False(t, ok, "second Take must report a consumed handle")

	_, ok = h.Peek()
	assert.False(t, ok)
}
