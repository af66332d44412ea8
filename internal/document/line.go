package document

import (
	"fmt"

	"github.com/zjrosen/textflow/internal/arena"
)

// Terminator is the line ending recorded for a line.
type Terminator uint8

const (
	// None marks a line without a terminator, usually the last one.
	None Terminator = iota
	// CRLF is "\r\n".
	CRLF
	// LF is "\n".
	LF
)

// String returns the terminator's name.
func (t Terminator) String() string {
	switch t {
	case None:
		return "none"
	case CRLF:
		return "crlf"
	case LF:
		return "lf"
	default:
		return fmt.Sprintf("Terminator(%d)", uint8(t))
	}
}

// Runes returns the characters the terminator stands for.
func (t Terminator) Runes() []rune {
	switch t {
	case CRLF:
		return []rune{'\r', '\n'}
	case LF:
		return []rune{'\n'}
	default:
		return nil
	}
}

// ParseTerminator maps a configuration value ("lf", "crlf", "none") to a
// Terminator.
func ParseTerminator(s string) (Terminator, error) {
	switch s {
	case "lf", "LF", "\n":
		return LF, nil
	case "crlf", "CRLF", "\r\n":
		return CRLF, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("unknown line terminator %q", s)
	}
}

// Line is an immutable snapshot of one line: a span of the document's arena
// plus the terminator that ends it. Editing a line never changes a Line
// value; the line editor replaces it with a new one when it flushes.
type Line struct {
	content arena.Span
	term    Terminator
}

// NewLine creates a line record over an existing span.
func NewLine(content arena.Span, term Terminator) *Line {
	return &Line{content: content, term: term}
}

// Content returns the span holding the line's text.
func (l *Line) Content() arena.Span { return l.content }

// Terminator returns the line ending.
func (l *Line) Terminator() Terminator { return l.term }

// Len returns the number of characters, excluding the terminator.
func (l *Line) Len() int { return l.content.Len }

// WithTerminator returns a copy of the line with a different ending.
func (l *Line) WithTerminator(term Terminator) *Line {
	return &Line{content: l.content, term: term}
}
