package session

import "github.com/zjrosen/textflow/internal/document"

// Selection is a range between two positions. Start is where selecting
// began and End where it was last extended, so End may come first. When
// Empty is set the positions mean nothing.
type Selection struct {
	Start document.Pos
	End   document.Pos
	Empty bool
}

// Normalized returns the selection with Start <= End. Positions are swapped
// whole; a start column is never paired with an end line.
func (sel Selection) Normalized() Selection {
	if sel.End.Less(sel.Start) {
		sel.Start, sel.End = sel.End, sel.Start
	}
	return sel
}

// StartSelect anchors a new selection at the caret.
func (s *Session) StartSelect() {
	p := s.Pos()
	s.sel = Selection{Start: p, End: p}
}

// EndSelect extends the active selection to the caret. Without an active
// selection it does nothing.
func (s *Session) EndSelect() {
	if s.sel.Empty {
		return
	}
	s.sel.End = s.Pos()
}

// CancelSelect drops the selection without touching the text.
func (s *Session) CancelSelect() {
	s.sel.Empty = true
}

// Selection returns the selection as the caller made it.
func (s *Session) Selection() Selection { return s.sel }

// HasSelection reports whether a non-empty range is selected.
func (s *Session) HasSelection() bool {
	return !s.sel.Empty && s.sel.Start != s.sel.End
}

// Select selects the range from anchor to head and leaves the caret at
// head. It returns false, selecting nothing, if either position is outside
// the document.
func (s *Session) Select(anchor, head document.Pos) bool {
	if !s.validPos(anchor) || !s.validPos(head) {
		return false
	}
	s.moveTo(anchor)
	s.StartSelect()
	s.moveTo(head)
	s.EndSelect()
	return true
}
