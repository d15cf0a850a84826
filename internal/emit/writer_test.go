package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	tests := []struct {
		name string
		fill func(w *Writer)
		want string
	}{
		{
			name: "zero value is empty",
			fill: func(w *Writer) {},
			want: "",
		},
		{
			name: "write indent newline",
			fill: func(w *Writer) {
				w.Write("job:").NewLine().Indent(1).Write("step: ls").NewLine()
			},
			want: "job:\n  step: ls\n",
		},
		{
			name: "line and field",
			fill: func(w *Writer) {
				w.Line(0, "pool:").Field(1, "name", "p1").Field(2, "deep", "x")
			},
			want: "pool:\n  name: p1\n    deep: x\n",
		},
		{
			name: "zero indent writes nothing",
			fill: func(w *Writer) {
				w.Indent(0).Write("a")
			},
			want: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Writer
			tt.fill(&w)
			assert.Equal(t, tt.want, w.String())
			assert.Equal(t, len(tt.want), w.Len())
		})
	}
}
