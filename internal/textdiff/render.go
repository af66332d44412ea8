package textdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

// Options controls rendering.
type Options struct {
	// Color enables ANSI styling.
	Color bool
	// Width truncates rendered lines to this many cells. 0 disables.
	Width int
	// Context is the number of unchanged lines kept around each change. A
	// negative value keeps all lines.
	Context int
}

// Renderer formats diffs for a terminal.
type Renderer struct {
	opts Options

	insert   lipgloss.Style
	delete   lipgloss.Style
	equal    lipgloss.Style
	hunk     lipgloss.Style
	emphasis lipgloss.Style
}

// NewRenderer creates a renderer for output written to w.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	r := lipgloss.NewRenderer(w)
	if opts.Color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		opts:     opts,
		insert:   r.NewStyle().Foreground(lipgloss.Color("2")),
		delete:   r.NewStyle().Foreground(lipgloss.Color("1")),
		equal:    r.NewStyle().Foreground(lipgloss.Color("245")),
		hunk:     r.NewStyle().Foreground(lipgloss.Color("6")),
		emphasis: r.NewStyle().Bold(true).Underline(true),
	}
}

// Render diffs before and after and formats the result. Identical inputs
// render as an empty string.
func (r *Renderer) Render(before, after string) string {
	lines := Lines(before, after)
	if ins, del := Stats(lines); ins == 0 && del == 0 {
		return ""
	}

	var b strings.Builder
	keep := r.visible(lines)
	for i, k := range keep {
		if !k {
			if i == 0 || keep[i-1] {
				b.WriteString(r.hunk.Render("…") + "\n")
			}
			continue
		}
		b.WriteString(r.renderLine(lines, i))
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) renderLine(lines []Line, i int) string {
	l := lines[i]
	var out string
	switch l.Op {
	case Equal:
		out = r.equal.Render("  " + visibleText(l.Text))
	case Delete:
		if i+1 < len(lines) && lines[i+1].Op == Insert {
			oldSegs, _ := wordDiff(l.Text, lines[i+1].Text)
			out = r.delete.Render("- ") + r.segments(oldSegs, r.delete)
		} else {
			out = r.delete.Render("- " + visibleText(l.Text))
		}
	case Insert:
		if i > 0 && lines[i-1].Op == Delete {
			_, newSegs := wordDiff(lines[i-1].Text, l.Text)
			out = r.insert.Render("+ ") + r.segments(newSegs, r.insert)
		} else {
			out = r.insert.Render("+ " + visibleText(l.Text))
		}
	}
	if r.opts.Width > 0 {
		out = truncate.StringWithTail(out, uint(r.opts.Width), "…")
	}
	return out
}

func (r *Renderer) segments(segs []segment, base lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segs {
		text := visibleText(s.Text)
		if s.Op == Equal {
			b.WriteString(base.Render(text))
			continue
		}
		b.WriteString(base.Inherit(r.emphasis).Render(text))
	}
	return b.String()
}

// visible marks which lines survive context trimming.
func (r *Renderer) visible(lines []Line) []bool {
	keep := make([]bool, len(lines))
	if r.opts.Context < 0 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		for j := max(0, i-r.opts.Context); j <= min(len(lines)-1, i+r.opts.Context); j++ {
			keep[j] = true
		}
	}
	return keep
}

// visibleText shows a trailing carriage return so terminator changes are
// visible.
func visibleText(s string) string {
	if strings.HasSuffix(s, "\r") {
		return s[:len(s)-1] + "␍"
	}
	return s
}

// Summary formats inserted/deleted counts.
func Summary(lines []Line) string {
	ins, del := Stats(lines)
	return fmt.Sprintf("%d insertion(s), %d deletion(s)", ins, del)
}
