// Package history records reversible edit commands and replays them for
// undo and redo.
//
// A Command is plain data: coordinates plus copied character payloads. It
// never points into live document state, so it can be replayed after any
// number of intervening reads. Replay goes through the Target interface,
// which the edit session implements, using only the command's own fields.
package history

import (
	"fmt"

	"github.com/zjrosen/textflow/internal/document"
)

// Kind identifies the operation a command records.
type Kind uint8

const (
	// CharInsert records one character typed at Start.
	CharInsert Kind = iota
	// LineSplit records a line split at Start.
	LineSplit
	// LineJoin records the line after Start.Line being joined onto it at
	// Start.Col.
	LineJoin
	// CharDelete records Char removed from Start.
	CharDelete
	// RangeDelete records Lines removed between Start and End.
	RangeDelete
	// RangeInsert records Lines inserted at Start, ending at End.
	RangeInsert
)

func (k Kind) String() string {
	switch k {
	case CharInsert:
		return "char-insert"
	case LineSplit:
		return "line-split"
	case LineJoin:
		return "line-join"
	case CharDelete:
		return "char-delete"
	case RangeDelete:
		return "range-delete"
	case RangeInsert:
		return "range-insert"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ChangeRegion tells a renderer how much of the document a command touches.
type ChangeRegion uint8

const (
	RegionLine ChangeRegion = iota
	RegionLineRange
)

// Target is the editing surface commands are replayed against.
type Target interface {
	SetCurrentLine(line int) bool
	SetCaret(col int) bool
	AddChar(r rune)
	InsertLines(lines []document.Segment)
	Backspace() bool
	Delete() bool
	SplitIntoNewLine()
	StartSelect()
	EndSelect()
	CancelSelect()
	DeleteSelection() bool
}

// Command is one reversible edit.
type Command struct {
	Kind  Kind
	Start document.Pos
	End   document.Pos // range commands only

	Char rune // CharInsert, CharDelete

	// Lines is the payload of range commands, one segment per line. Every
	// segment but the last ends in a line break with its own terminator,
	// so replay never has to re-split text. Never shared with the document.
	Lines []document.Segment

	// Term is the terminator the upper line had before a LineJoin.
	Term document.Terminator

	// Anchor and Head are the selection ends, in the order the caller made
	// them, before a RangeDelete.
	Anchor document.Pos
	Head   document.Pos

	// Backward is set for CharDelete and LineJoin produced by backspace;
	// the caret sat after the removed character.
	Backward bool

	// Joined commands are undone and redone together with the command
	// before them, as one step.
	Joined bool
}

// ChangeRegion returns the region the command touches.
func (c Command) ChangeRegion() ChangeRegion {
	switch c.Kind {
	case CharInsert, CharDelete:
		return RegionLine
	default:
		return RegionLineRange
	}
}

// Undo reverses the command on t.
func (c Command) Undo(t Target) {
	t.CancelSelect()
	switch c.Kind {
	case CharInsert:
		moveTo(t, document.Pos{Line: c.Start.Line, Col: c.Start.Col + 1})
		t.Backspace()
	case CharDelete:
		moveTo(t, c.Start)
		t.AddChar(c.Char)
		if !c.Backward {
			t.SetCaret(c.Start.Col)
		}
	case LineSplit:
		moveTo(t, c.Start)
		t.Delete()
	case LineJoin:
		moveTo(t, c.Start)
		t.InsertLines([]document.Segment{{Term: c.Term}, {}})
		if !c.Backward {
			moveTo(t, c.Start)
		}
	case RangeDelete:
		moveTo(t, c.Start)
		t.InsertLines(c.Lines)
		selectRange(t, c.Anchor, c.Head)
	case RangeInsert:
		selectRange(t, c.Start, c.End)
		t.DeleteSelection()
	}
}

// Redo applies the command to t again.
func (c Command) Redo(t Target) {
	t.CancelSelect()
	switch c.Kind {
	case CharInsert:
		moveTo(t, c.Start)
		t.AddChar(c.Char)
	case CharDelete:
		moveTo(t, c.Start)
		t.Delete()
	case LineSplit:
		moveTo(t, c.Start)
		t.SplitIntoNewLine()
	case LineJoin:
		moveTo(t, c.Start)
		t.Delete()
	case RangeDelete:
		selectRange(t, c.Anchor, c.Head)
		t.DeleteSelection()
	case RangeInsert:
		moveTo(t, c.Start)
		t.InsertLines(c.Lines)
	}
}

func (c Command) String() string {
	switch c.Kind {
	case CharInsert:
		return fmt.Sprintf("+%q@%s", c.Char, c.Start)
	case CharDelete:
		return fmt.Sprintf("-%q@%s", c.Char, c.Start)
	case LineSplit, LineJoin:
		return fmt.Sprintf("%s@%s", c.Kind, c.Start)
	default:
		return fmt.Sprintf("%s@%s..%s %q", c.Kind, c.Start, c.End, string(c.Text()))
	}
}

// Text flattens Lines. A break with terminator None shows as nothing.
func (c Command) Text() []rune {
	var out []rune
	for i, seg := range c.Lines {
		out = append(out, seg.Text...)
		if i < len(c.Lines)-1 {
			out = append(out, seg.Term.Runes()...)
		}
	}
	return out
}

func moveTo(t Target, p document.Pos) {
	t.SetCurrentLine(p.Line)
	t.SetCaret(p.Col)
}

func selectRange(t Target, from, to document.Pos) {
	moveTo(t, from)
	t.StartSelect()
	moveTo(t, to)
	t.EndSelect()
}
