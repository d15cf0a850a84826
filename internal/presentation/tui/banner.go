package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  ____  _                          _       _     _   ", "#818cf8"},
	{" |  _ \\(_)_ __   _____      ___ __(_) __ _| |__ | |_ ", "#a78bfa"},
	{" | |_) | | '_ \\ / _ \\ \\ /\\ / / '__| |/ _` | '_ \\| __|", "#c084fc"},
	{" |  __/| | |_) |  __/\\ V  V /| |  | | (_| | | | | |_ ", "#e879f9"},
	{" |_|   |_| .__/ \\___| \\_/\\_/ |_|  |_|\\__, |_| |_|\\__|", "#f472b6"},
	{"         |_|                         |___/           ", "#fb7185"},
}

// PrintBanner outputs the Pipewright ASCII art banner on stdout.
func PrintBanner() {
	FprintBanner(os.Stdout)
}

// FprintBanner writes the banner to w, colored with a gradient when the
// terminal supports it.
func FprintBanner(w io.Writer) {
	p := termenv.NewOutput(w).EnvColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
