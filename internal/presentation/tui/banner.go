package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _            _        _",
	" | |_ __ _ ___| | _____| |_ _ __ ___  __ _ _ __ ___",
	" | __/ _` / __| |/ / __| __| '__/ _ \\/ _` | '_ ` _ \\",
	" | || (_| \\__ \\   <\\__ \\ |_| | |  __/ (_| | | | | | |",
	"  \\__\\__,_|___/_|\\_\\___/\\__|_|  \\___|\\__,_|_| |_| |_|",
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

// PrintBanner writes the ASCII banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
