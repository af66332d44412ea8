package session

import (
	"iter"

	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/log"
)

// CopyAll appends the whole document to dst, each line followed by its
// terminator.
func (s *Session) CopyAll(dst []rune) []rune {
	for i := range s.doc.LineCount() {
		dst = s.lineRunes(dst, i)
		dst = append(dst, s.lineTerm(i).Runes()...)
	}
	return dst
}

// Text returns the whole document as a string.
func (s *Session) Text() string {
	return string(s.CopyAll(nil))
}

// CopySelection appends the selected text to dst. Lines inside the range
// contribute their terminators. The caret and current line do not move.
func (s *Session) CopySelection(dst []rune) []rune {
	if !s.HasSelection() {
		return dst
	}
	n := s.sel.Normalized()
	return s.copyRange(dst, n.Start, n.End)
}

// SelectedText returns the selected text as a string.
func (s *Session) SelectedText() string {
	return string(s.CopySelection(nil))
}

// LineText returns line i without its terminator.
func (s *Session) LineText(i int) string {
	if i == s.ed.Index() && s.ed.Loaded() {
		return s.ed.String()
	}
	span := s.doc.LineAt(i).Content()
	text, err := s.lines.GetWithRefresh(span.Key(), span, s.linesTTL)
	if err != nil {
		log.ErrorErr(log.CatCache, "line cache read failed", err, "line", i)
		return s.doc.Arena().String(span)
	}
	return text
}

// LineTerminator returns the terminator of line i.
func (s *Session) LineTerminator(i int) document.Terminator {
	return s.lineTerm(i)
}

// CurrentLineRunes yields the current line's characters. The session must
// not be edited while iterating.
func (s *Session) CurrentLineRunes() iter.Seq[rune] {
	return s.ed.Runes()
}

// copyRange appends the text between start and end, start <= end.
func (s *Session) copyRange(dst []rune, start, end document.Pos) []rune {
	if start.Line == end.Line {
		return s.lineRange(dst, start.Line, start.Col, end.Col-start.Col)
	}
	dst = s.lineRange(dst, start.Line, start.Col, s.lineLen(start.Line)-start.Col)
	dst = append(dst, s.joinRunes(start.Line)...)
	for i := start.Line + 1; i < end.Line; i++ {
		dst = s.lineRunes(dst, i)
		dst = append(dst, s.joinRunes(i)...)
	}
	return s.lineRange(dst, end.Line, 0, end.Col)
}

// copyLines copies the text between start and end, start <= end, as one
// segment per line. Inner segments keep their line's own terminator.
func (s *Session) copyLines(start, end document.Pos) []document.Segment {
	if start.Line == end.Line {
		return []document.Segment{{Text: s.lineRange(nil, start.Line, start.Col, end.Col-start.Col)}}
	}
	lines := make([]document.Segment, 0, end.Line-start.Line+1)
	lines = append(lines, document.Segment{
		Text: s.lineRange(nil, start.Line, start.Col, s.lineLen(start.Line)-start.Col),
		Term: s.lineTerm(start.Line),
	})
	for i := start.Line + 1; i < end.Line; i++ {
		lines = append(lines, document.Segment{Text: s.lineRunes(nil, i), Term: s.lineTerm(i)})
	}
	return append(lines, document.Segment{Text: s.lineRange(nil, end.Line, 0, end.Col)})
}

// joinRunes returns what separates line i from the next one. A missing
// terminator counts as the session newline.
func (s *Session) joinRunes(i int) []rune {
	if term := s.lineTerm(i); term != document.None {
		return term.Runes()
	}
	return s.newline.Runes()
}

func (s *Session) lineRunes(dst []rune, i int) []rune {
	return s.lineRange(dst, i, 0, s.lineLen(i))
}

func (s *Session) lineRange(dst []rune, i, start, n int) []rune {
	if i == s.ed.Index() {
		return s.ed.ReadRange(dst, start, n)
	}
	return s.doc.Arena().AppendRange(dst, s.doc.LineAt(i).Content(), start, n)
}

func (s *Session) lineTerm(i int) document.Terminator {
	if i == s.ed.Index() {
		return s.ed.Terminator()
	}
	return s.doc.LineAt(i).Terminator()
}
