// Package emit provides the low-level text primitives the builders and the compiler
// share: append, indent and newline over one growing buffer.
package emit

import "strings"

// IndentUnit is one nesting level.
const IndentUnit = "  "

// Writer is an append-only text accumulator.
// The zero value is ready to use.
type Writer struct {
	sb strings.Builder
}

// Write appends s verbatim.
func (w *Writer) Write(s string) *Writer {
	w.sb.WriteString(s)
	return w
}

// Indent appends n indentation units.
func (w *Writer) Indent(n int) *Writer {
	for i := 0; i < n; i++ {
		w.sb.WriteString(IndentUnit)
	}
	return w
}

// NewLine terminates the current line.
func (w *Writer) NewLine() *Writer {
	w.sb.WriteByte('\n')
	return w
}

// Line writes one complete line at the given depth.
func (w *Writer) Line(depth int, s string) *Writer {
	return w.Indent(depth).Write(s).NewLine()
}

// Field writes a "key: value" line at the given depth.
func (w *Writer) Field(depth int, key, value string) *Writer {
	return w.Indent(depth).Write(key).Write(": ").Write(value).NewLine()
}

// Len returns the number of bytes accumulated so far.
func (w *Writer) Len() int {
	return w.sb.Len()
}

// String returns the accumulated text.
func (w *Writer) String() string {
	return w.sb.String()
}
