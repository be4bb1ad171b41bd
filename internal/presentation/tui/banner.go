package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the application banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ____            _ _          ", "#38bdf8"},
		{" / ___|  ___ _ __(_) |__   ___ ", "#22d3ee"},
		{" \\___ \\ / __| '__| | '_ \\ / _ \\", "#2dd4bf"},
		{"  ___) | (__| |  | | |_) |  __/", "#34d399"},
		{" |____/ \\___|_|  |_|_.__/ \\___|", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  Patient History Pro").Faint())
	fmt.Fprintln(w)
}

// Alert styles msg as a bold white-on-red line.
func Alert(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String(" " + msg + " ").
		Bold().
		Foreground(p.Color("#ffffff")).
		Background(p.Color("#c62828")).
		String()
}
