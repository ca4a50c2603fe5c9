package export

import (
	"strconv"
	"strings"
)

// Page geometry in points, US Letter, measured from the top edge.
const (
	PageWidth    = 612.0
	PageHeight   = 792.0
	MarginLeft   = 50.0
	MarginTop    = 50.0
	MarginBottom = 60.0
	TitleGap     = 30.0
	LineHeight   = 20.0

	// Title heads every exported document.
	Title = "CLIL Tasks"

	// DefaultWrapWidth is the hard-wrap column for PDF lines, in runes.
	DefaultWrapWidth = 90
)

// lastBaseline is the lowest baseline a line may be drawn on.
const lastBaseline = PageHeight - MarginBottom

// NumberedLines prefixes each task with its 1-based position.
func NumberedLines(tasks []string) []string {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = strconv.Itoa(i+1) + ". " + t
	}
	return lines
}

// Wrap breaks line at embedded newlines and then every width runes.
// Breaks ignore word boundaries. A width of 0 or less only splits at
// newlines.
func Wrap(line string, width int) []string {
	var out []string
	for _, seg := range strings.Split(strings.ReplaceAll(line, "\r\n", "\n"), "\n") {
		runes := []rune(seg)
		if width <= 0 || len(runes) <= width {
			out = append(out, seg)
			continue
		}
		for len(runes) > width {
			out = append(out, string(runes[:width]))
			runes = runes[width:]
		}
		if len(runes) > 0 {
			out = append(out, string(runes))
		}
	}
	return out
}

// PlacedLine is a body line and the baseline it is drawn on.
type PlacedLine struct {
	Text string
	Y    float64
}

// Page holds the body lines drawn on one page. Only the first page
// carries the title.
type Page struct {
	Lines []PlacedLine
}

// Paginate lays numbered tasks out top to bottom. Before each line is
// drawn, a cursor below the bottom margin starts a new page at the top
// margin. An empty task list yields a single page with only the title.
func Paginate(tasks []string, wrapWidth int) []Page {
	pages := []Page{{}}
	y := MarginTop + TitleGap
	for _, numbered := range NumberedLines(tasks) {
		for _, text := range Wrap(numbered, wrapWidth) {
			if y > lastBaseline {
				pages = append(pages, Page{})
				y = MarginTop
			}
			cur := &pages[len(pages)-1]
			cur.Lines = append(cur.Lines, PlacedLine{Text: text, Y: y})
			y += LineHeight
		}
	}
	return pages
}
