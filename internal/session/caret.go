package session

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/log"
)

// SetCurrentLine moves to line. Moving to another line puts the caret at
// column 0. Out-of-range values are ignored and false is returned.
func (s *Session) SetCurrentLine(line int) bool {
	if line < 0 || line >= s.doc.LineCount() {
		log.Debug(log.CatSession, "rejected line", "session", s.id, "line", line, "count", s.doc.LineCount())
		return false
	}
	s.bind(line)
	return true
}

// SetCaret moves the caret on the current line. Values outside
// [0, LineLen()] are ignored and false is returned.
func (s *Session) SetCaret(col int) bool {
	return s.ed.SetCaret(col)
}

// MoveTo moves to p. It returns false, moving nowhere, if p is outside the
// document.
func (s *Session) MoveTo(p document.Pos) bool {
	if !s.validPos(p) {
		return false
	}
	s.moveTo(p)
	return true
}

// MoveCaretTo would move the caret to an absolute character index. It is
// not supported; use line-relative positions.
func (s *Session) MoveCaretTo(index int) error {
	return fmt.Errorf("move caret to %d: %w", index, ErrUnsupported)
}

// Home moves the caret to column 0.
func (s *Session) Home() { s.ed.SetCaret(0) }

// End moves the caret to the end of the line.
func (s *Session) End() { s.ed.SetCaret(s.ed.Count()) }

// CaretLeft moves the caret one grapheme cluster left, or to the end of the
// previous line from column 0. It returns false at the start of the
// document.
func (s *Session) CaretLeft() bool {
	caret := s.ed.Caret()
	if caret == 0 {
		line := s.ed.Index()
		if line == 0 {
			return false
		}
		s.bind(line - 1)
		s.End()
		return true
	}
	prev := 0
	for _, b := range s.graphemeBounds() {
		if b >= caret {
			break
		}
		prev = b
	}
	s.ed.SetCaret(prev)
	return true
}

// CaretRight moves the caret one grapheme cluster right, or to the start
// of the next line from the end of a line. It returns false at the end of
// the document.
func (s *Session) CaretRight() bool {
	if s.ed.CaretAtEnd() {
		line := s.ed.Index()
		if line >= s.doc.LineCount()-1 {
			return false
		}
		s.bind(line + 1)
		return true
	}
	caret := s.ed.Caret()
	for _, b := range s.graphemeBounds() {
		if b > caret {
			s.ed.SetCaret(b)
			return true
		}
	}
	s.End()
	return true
}

// DisplayColumn returns the terminal cell column of the caret.
func (s *Session) DisplayColumn() int {
	return runewidth.StringWidth(string(s.ed.ReadRange(nil, 0, s.ed.Caret())))
}

// graphemeBounds returns the rune offsets at which grapheme clusters of the
// current line end.
func (s *Session) graphemeBounds() []int {
	var bounds []int
	offset := 0
	g := uniseg.NewGraphemes(s.ed.String())
	for g.Next() {
		offset += len(g.Runes())
		bounds = append(bounds, offset)
	}
	return bounds
}

func (s *Session) validPos(p document.Pos) bool {
	if p.Line < 0 || p.Line >= s.doc.LineCount() || p.Col < 0 {
		return false
	}
	return p.Col <= s.lineLen(p.Line)
}

func (s *Session) moveTo(p document.Pos) {
	s.SetCurrentLine(p.Line)
	s.SetCaret(p.Col)
}

func (s *Session) lineLen(i int) int {
	if i == s.ed.Index() {
		return s.ed.Count()
	}
	return s.doc.LineAt(i).Len()
}
