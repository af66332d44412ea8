package session

import (
	"slices"

	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/elastic"
	"github.com/zjrosen/textflow/internal/history"
	"github.com/zjrosen/textflow/internal/log"
)

// AddChar inserts r at the caret, replacing the selection if there is one.
// '\n' splits the line like SplitIntoNewLine.
func (s *Session) AddChar(r rune) {
	if r == '\n' {
		s.SplitIntoNewLine()
		return
	}
	joined := s.deleteSelectionFirst()
	start := s.Pos()
	s.ed.AddChar(r)
	s.record(history.Command{Kind: history.CharInsert, Start: start, Char: r, Joined: joined})
}

// AddText inserts text at the caret, replacing the selection if there is
// one. "\n" and "\r\n" in text split the line; the upper line keeps the
// terminator that was found. The caret ends after the inserted text.
func (s *Session) AddText(text string) {
	s.AddRunes([]rune(text))
}

// AddRunes is AddText for a rune slice. text is not retained.
func (s *Session) AddRunes(text []rune) {
	s.InsertLines(document.Split(text))
}

// InsertLines inserts lines at the caret, replacing the selection if there
// is one. Every segment but the last is followed by a line break ending in
// that segment's terminator, None included. A lone '\r' at the end of a
// segment stays part of its text. lines is not retained.
func (s *Session) InsertLines(lines []document.Segment) {
	joined := s.deleteSelectionFirst()
	if len(lines) == 0 || len(lines) == 1 && len(lines[0].Text) == 0 {
		return
	}
	start := s.Pos()
	s.insertLines(lines)
	s.record(history.Command{
		Kind:   history.RangeInsert,
		Start:  start,
		End:    s.Pos(),
		Lines:  cloneLines(lines),
		Joined: joined,
	})
}

// Backspace deletes the selection, or the character before the caret, or
// joins the current line onto the previous one when the caret is at column
// 0. It returns false only when nothing could be deleted.
func (s *Session) Backspace() bool {
	if s.HasSelection() {
		return s.DeleteSelection()
	}
	s.sel.Empty = true

	caret := s.ed.Caret()
	if caret > 0 {
		c := s.ed.At(caret - 1)
		s.ed.Backspace()
		s.record(history.Command{
			Kind:     history.CharDelete,
			Start:    document.Pos{Line: s.ed.Index(), Col: caret - 1},
			Char:     c,
			Backward: true,
		})
		return true
	}
	if s.ed.Index() == 0 {
		return false
	}

	upper := s.ed.Index() - 1
	col, term := s.joinWithPrevious()
	s.record(history.Command{
		Kind:     history.LineJoin,
		Start:    document.Pos{Line: upper, Col: col},
		Term:     term,
		Backward: true,
	})
	return true
}

// Delete deletes the selection, or the character at the caret, or joins
// the next line onto the current one when the caret is at the end of the
// line. The caret does not move. It returns false when nothing could be
// deleted.
func (s *Session) Delete() bool {
	if s.HasSelection() {
		return s.DeleteSelection()
	}
	s.sel.Empty = true

	pos := s.Pos()
	if !s.ed.CaretAtEnd() {
		c := s.ed.At(pos.Col)
		s.ed.Delete()
		s.record(history.Command{Kind: history.CharDelete, Start: pos, Char: c})
		return true
	}
	if pos.Line >= s.doc.LineCount()-1 {
		return false
	}

	s.bind(pos.Line + 1)
	col, term := s.joinWithPrevious()
	s.ed.SetCaret(col)
	s.record(history.Command{Kind: history.LineJoin, Start: document.Pos{Line: pos.Line, Col: col}, Term: term})
	return true
}

// SplitIntoNewLine breaks the current line at the caret, replacing the
// selection first if there is one. The caret moves to column 0 of the new
// line.
func (s *Session) SplitIntoNewLine() {
	joined := s.deleteSelectionFirst()
	start := s.Pos()
	s.splitLine(s.newline)
	s.record(history.Command{Kind: history.LineSplit, Start: start, Joined: joined})
}

// DeleteSelection removes the selected text and clears the selection. The
// caret ends at the start of the removed range. It returns false when the
// selection was empty or zero-width.
func (s *Session) DeleteSelection() bool {
	if s.sel.Empty {
		return false
	}
	sel := s.sel
	n := sel.Normalized()
	s.sel.Empty = true
	if n.Start == n.End {
		return false
	}

	lines := s.copyLines(n.Start, n.End)
	s.deleteRange(n.Start, n.End)
	s.record(history.Command{
		Kind:   history.RangeDelete,
		Start:  n.Start,
		End:    n.End,
		Lines:  lines,
		Anchor: sel.Start,
		Head:   sel.End,
	})
	return true
}

// deleteSelectionFirst deletes a pending selection ahead of an insertion.
// It reports whether a command was recorded, in which case the insertion
// joins it as one undo step.
func (s *Session) deleteSelectionFirst() bool {
	return s.DeleteSelection() && !s.replaying
}

// bind moves the session to line, flushing the current line if needed.
func (s *Session) bind(line int) {
	s.ed.Bind(line)
}

// insertLines inserts each segment at the caret and breaks the line after
// every segment but the last.
func (s *Session) insertLines(lines []document.Segment) {
	for i, seg := range lines {
		s.ed.AddText(seg.Text, 0, len(seg.Text))
		if i < len(lines)-1 {
			s.splitLine(seg.Term)
		}
	}
}

func cloneLines(lines []document.Segment) []document.Segment {
	out := make([]document.Segment, len(lines))
	for i, seg := range lines {
		out[i] = document.Segment{Text: slices.Clone(seg.Text), Term: seg.Term}
	}
	return out
}

// splitLine breaks the current line at the caret. The upper line ends with
// term, the new lower line inherits the old terminator. The caret moves to
// column 0 of the lower line.
func (s *Session) splitLine(term document.Terminator) {
	line := s.ed.Index()
	lowerTerm := s.ed.Terminator()

	if s.ed.CaretAtEnd() {
		s.ed.SetTerminator(term)
		must(s.doc.InsertLine(line+1, s.doc.NewLine(nil, lowerTerm)))
		s.bind(line + 1)
		log.Debug(log.CatSession, "inserted line", "session", s.id, "line", line+1)
		return
	}

	var tail elastic.Buffer[rune]
	s.ed.Split(&tail)
	s.ed.SetTerminator(term)
	must(s.doc.InsertLine(line+1, s.doc.NewLine(nil, lowerTerm)))
	s.bind(line + 1)
	s.ed.AddText(tail.Slice(), 0, tail.Len())
	s.ed.SetCaret(0)
	log.Debug(log.CatSession, "split line", "session", s.id, "line", line, "moved", tail.Len())
}

// joinWithPrevious appends the current line to the previous one and
// removes it. The caret lands on the join point. The joined line takes the
// removed line's terminator. It returns the join column and the previous
// line's old terminator.
func (s *Session) joinWithPrevious() (int, document.Terminator) {
	lower := s.ed.Index()
	carried := s.ed.Read(nil)
	lowerTerm := s.ed.Terminator()

	s.bind(lower - 1)
	join := s.ed.Count()
	upperTerm := s.ed.Terminator()
	s.ed.SetCaret(join)
	s.ed.AddText(carried, 0, len(carried))
	s.ed.SetCaret(join)
	s.ed.SetTerminator(lowerTerm)
	must(s.doc.RemoveLine(lower))

	log.Debug(log.CatSession, "joined lines", "session", s.id, "line", lower-1, "col", join)
	return join, upperTerm
}

// deleteRange removes the text between start and end, start <= end. The
// caret ends at start.
func (s *Session) deleteRange(start, end document.Pos) {
	if start.Line == end.Line {
		s.bind(start.Line)
		s.ed.DeleteRange(start.Col, end.Col-start.Col)
		return
	}

	s.bind(start.Line)
	s.ed.DeleteRange(start.Col, s.ed.Count()-start.Col)
	for i := end.Line - 1; i > start.Line; i-- {
		must(s.doc.RemoveLine(i))
	}
	s.bind(start.Line + 1)
	s.ed.DeleteRange(0, end.Col)
	s.joinWithPrevious()

	log.Debug(log.CatSession, "deleted range", "session", s.id, "from", start, "to", end)
}
