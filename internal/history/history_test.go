package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/textflow/internal/document"
)

// recordingTarget logs every call made on it.
type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingTarget) SetCurrentLine(line int) bool { r.add("line %d", line); return true }
func (r *recordingTarget) SetCaret(col int) bool        { r.add("caret %d", col); return true }
func (r *recordingTarget) AddChar(c rune)               { r.add("char %c", c) }
func (r *recordingTarget) Backspace() bool              { r.add("backspace"); return true }
func (r *recordingTarget) Delete() bool                 { r.add("delete"); return true }
func (r *recordingTarget) SplitIntoNewLine()            { r.add("split") }
func (r *recordingTarget) StartSelect()                 { r.add("start-select") }
func (r *recordingTarget) EndSelect()                   { r.add("end-select") }
func (r *recordingTarget) CancelSelect()                { r.add("cancel-select") }
func (r *recordingTarget) DeleteSelection() bool        { r.add("delete-selection"); return true }

// InsertLines logs each segment as "text"+terminator; the last has no break.
func (r *recordingTarget) InsertLines(segs []document.Segment) {
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = fmt.Sprintf("%q", string(seg.Text))
		if i < len(segs)-1 {
			parts[i] += "+" + seg.Term.String()
		}
	}
	r.add("insert %s", strings.Join(parts, " "))
}

func pos(line, col int) document.Pos { return document.Pos{Line: line, Col: col} }

// lines builds a range payload from alternating texts and terminators,
// ending with a text.
func lines(parts ...any) []document.Segment {
	var segs []document.Segment
	for i := 0; i < len(parts); i += 2 {
		seg := document.Segment{Text: []rune(parts[i].(string))}
		if i+1 < len(parts) {
			seg.Term = parts[i+1].(document.Terminator)
		}
		segs = append(segs, seg)
	}
	return segs
}

func TestCommand_Replay(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		wantUndo []string
		wantRedo []string
	}{
		{
			name:     "char insert",
			cmd:      Command{Kind: CharInsert, Start: pos(1, 2), Char: 'x'},
			wantUndo: []string{"cancel-select", "line 1", "caret 3", "backspace"},
			wantRedo: []string{"cancel-select", "line 1", "caret 2", "char x"},
		},
		{
			name:     "forward char delete restores caret",
			cmd:      Command{Kind: CharDelete, Start: pos(0, 4), Char: 'y'},
			wantUndo: []string{"cancel-select", "line 0", "caret 4", "char y", "caret 4"},
			wantRedo: []string{"cancel-select", "line 0", "caret 4", "delete"},
		},
		{
			name:     "backspace char delete leaves caret after char",
			cmd:      Command{Kind: CharDelete, Start: pos(0, 4), Char: 'y', Backward: true},
			wantUndo: []string{"cancel-select", "line 0", "caret 4", "char y"},
			wantRedo: []string{"cancel-select", "line 0", "caret 4", "delete"},
		},
		{
			name:     "line split",
			cmd:      Command{Kind: LineSplit, Start: pos(2, 5)},
			wantUndo: []string{"cancel-select", "line 2", "caret 5", "delete"},
			wantRedo: []string{"cancel-select", "line 2", "caret 5", "split"},
		},
		{
			name:     "line join by backspace reinserts terminator",
			cmd:      Command{Kind: LineJoin, Start: pos(0, 3), Term: document.CRLF, Backward: true},
			wantUndo: []string{"cancel-select", "line 0", "caret 3", `insert ""+crlf ""`},
			wantRedo: []string{"cancel-select", "line 0", "caret 3", "delete"},
		},
		{
			name:     "line join by delete restores caret",
			cmd:      Command{Kind: LineJoin, Start: pos(0, 3), Term: document.LF},
			wantUndo: []string{"cancel-select", "line 0", "caret 3", `insert ""+lf ""`, "line 0", "caret 3"},
			wantRedo: []string{"cancel-select", "line 0", "caret 3", "delete"},
		},
		{
			name:     "line join without terminator restores the bare break",
			cmd:      Command{Kind: LineJoin, Start: pos(0, 3), Backward: true},
			wantUndo: []string{"cancel-select", "line 0", "caret 3", `insert ""+none ""`},
			wantRedo: []string{"cancel-select", "line 0", "caret 3", "delete"},
		},
		{
			name: "range delete restores selection",
			cmd: Command{
				Kind: RangeDelete, Start: pos(0, 1), End: pos(1, 2), Lines: lines("bc", document.LF, "de"),
				Anchor: pos(1, 2), Head: pos(0, 1),
			},
			wantUndo: []string{
				"cancel-select", "line 0", "caret 1", `insert "bc"+lf "de"`,
				"line 1", "caret 2", "start-select", "line 0", "caret 1", "end-select",
			},
			wantRedo: []string{
				"cancel-select", "line 1", "caret 2", "start-select", "line 0", "caret 1", "end-select",
				"delete-selection",
			},
		},
		{
			name: "range insert",
			cmd:  Command{Kind: RangeInsert, Start: pos(0, 0), End: pos(1, 2), Lines: lines("ab", document.LF, "cd")},
			wantUndo: []string{
				"cancel-select", "line 0", "caret 0", "start-select", "line 1", "caret 2", "end-select",
				"delete-selection",
			},
			wantRedo: []string{"cancel-select", "line 0", "caret 0", `insert "ab"+lf "cd"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			undo := &recordingTarget{}
			tt.cmd.Undo(undo)
			require.Equal(t, tt.wantUndo, undo.calls)

			redo := &recordingTarget{}
			tt.cmd.Redo(redo)
			require.Equal(t, tt.wantRedo, redo.calls)
		})
	}
}

func TestCommand_ChangeRegionAndString(t *testing.T) {
	require.Equal(t, RegionLine, Command{Kind: CharInsert}.ChangeRegion())
	require.Equal(t, RegionLineRange, Command{Kind: LineJoin}.ChangeRegion())
	require.Equal(t, `+'a'@0:1`, Command{Kind: CharInsert, Char: 'a', Start: pos(0, 1)}.String())
	require.Equal(t, "line-split@2:0", Command{Kind: LineSplit, Start: pos(2, 0)}.String())
	require.Equal(t, "range-delete", RangeDelete.String())

	cr := Command{Kind: RangeDelete, Start: pos(0, 0), End: pos(1, 0), Lines: lines("a\r", document.LF, "")}
	require.Equal(t, "a\r\n", string(cr.Text()))
	require.Equal(t, `range-delete@0:0..1:0 "a\r\n"`, cr.String())
}

func char(c rune) Command {
	return Command{Kind: CharInsert, Char: c}
}

func TestLog_UndoRedo(t *testing.T) {
	h := NewLog(0)
	target := &recordingTarget{}

	require.False(t, h.CanUndo())
	require.False(t, h.Undo(target))
	require.False(t, h.Redo(target))

	h.Push(char('a'))
	h.Push(char('b'))

	require.True(t, h.CanUndo())
	require.False(t, h.CanRedo())

	require.True(t, h.Undo(target))
	require.True(t, h.CanRedo())
	require.True(t, h.Undo(target))
	require.False(t, h.Undo(target))

	require.True(t, h.Redo(target))
	require.True(t, h.Redo(target))
	require.False(t, h.Redo(target))
}

func TestLog_PushTruncatesRedoTail(t *testing.T) {
	h := NewLog(0)
	target := &recordingTarget{}

	h.Push(char('a'))
	h.Push(char('b'))
	h.Push(char('c'))
	h.Undo(target)
	h.Undo(target)

	h.Push(char('x'))

	require.Equal(t, 2, h.Len())
	require.Equal(t, 2, h.Steps())
	require.False(t, h.CanRedo())
	require.Equal(t, 'x', h.Commands()[1].Char)
}

func TestLog_JoinedCommandsFormOneStep(t *testing.T) {
	h := NewLog(0)

	h.Push(char('a'))
	h.Push(Command{Kind: RangeDelete, Anchor: pos(0, 0), Head: pos(0, 1)})
	joined := char('b')
	joined.Joined = true
	h.Push(joined)

	require.Equal(t, 3, h.Len())
	require.Equal(t, 2, h.Steps())

	undo := &recordingTarget{}
	require.True(t, h.Undo(undo))
	require.Contains(t, undo.calls, "backspace")
	require.Contains(t, undo.calls, "start-select", "both commands undone in one step")
	require.True(t, h.CanUndo())

	redo := &recordingTarget{}
	require.True(t, h.Redo(redo))
	require.Contains(t, redo.calls, "delete-selection")
	require.Contains(t, redo.calls, "char b")
	require.False(t, h.CanRedo())
}

func TestLog_FirstCommandIsNeverJoined(t *testing.T) {
	h := NewLog(0)
	joined := char('a')
	joined.Joined = true

	h.Push(joined)

	require.False(t, h.Commands()[0].Joined)
	require.Equal(t, 1, h.Steps())
}

func TestLog_LimitDropsOldestSteps(t *testing.T) {
	h := NewLog(2)

	h.Push(char('a'))
	h.Push(Command{Kind: RangeDelete})
	joined := char('b')
	joined.Joined = true
	h.Push(joined)
	h.Push(char('c'))

	require.Equal(t, 2, h.Steps())
	cmds := h.Commands()
	require.Len(t, cmds, 3)
	require.Equal(t, RangeDelete, cmds[0].Kind)
	require.False(t, cmds[0].Joined)

	target := &recordingTarget{}
	require.True(t, h.Undo(target))
	require.True(t, h.Undo(target))
	require.False(t, h.Undo(target))
}

func TestLog_Clear(t *testing.T) {
	h := NewLog(0)
	h.Push(char('a'))

	h.Clear()

	require.Equal(t, 0, h.Len())
	require.Equal(t, 0, h.Steps())
	require.False(t, h.CanUndo())
}
