package history

import (
	"github.com/zjrosen/textflow/internal/log"
)

// Log is a linear undo/redo history.
//
// The undoIndex works as follows:
//   - -1 means we're at the base state (nothing to undo)
//   - 0 to len(commands)-1 points to the last applied command
//   - Undo replays commands[undoIndex] backwards and decrements
//   - Redo increments and replays commands[undoIndex] forwards
//
// A step is a command plus any Joined commands that follow it. Undo and
// Redo always move by whole steps. Pushing after an undo discards the redo
// tail; there is no branching history.
type Log struct {
	commands  []Command
	undoIndex int
	steps     int // number of non-joined commands
	limit     int // maximum steps kept, 0 for no limit
}

// NewLog creates an empty log keeping at most limit steps (0 = unlimited).
func NewLog(limit int) *Log {
	return &Log{
		commands:  make([]Command, 0),
		undoIndex: -1,
		limit:     max(limit, 0),
	}
}

// Push appends a command that has just been applied. Any redo tail is
// dropped first.
func (h *Log) Push(cmd Command) {
	if h.undoIndex < len(h.commands)-1 {
		for _, dropped := range h.commands[h.undoIndex+1:] {
			if !dropped.Joined {
				h.steps--
			}
		}
		h.commands = h.commands[:h.undoIndex+1]
	}
	if len(h.commands) == 0 {
		cmd.Joined = false
	}

	h.commands = append(h.commands, cmd)
	h.undoIndex = len(h.commands) - 1
	if !cmd.Joined {
		h.steps++
	}
	log.Debug(log.CatHistory, "pushed command", "cmd", cmd.String(), "joined", cmd.Joined, "steps", h.steps)

	h.trim()
}

// trim drops the oldest steps while the log holds more than limit.
func (h *Log) trim() {
	if h.limit == 0 {
		return
	}
	for h.steps > h.limit {
		n := 1
		for n < len(h.commands) && h.commands[n].Joined {
			n++
		}
		h.commands = append(h.commands[:0], h.commands[n:]...)
		h.undoIndex -= n
		h.steps--
	}
}

// Undo reverses the last step on t. It returns false when there is nothing
// to undo.
func (h *Log) Undo(t Target) bool {
	if h.undoIndex < 0 {
		return false
	}
	for h.undoIndex >= 0 {
		cmd := h.commands[h.undoIndex]
		cmd.Undo(t)
		h.undoIndex--
		log.Debug(log.CatHistory, "undo", "cmd", cmd.String())
		if !cmd.Joined {
			break
		}
	}
	return true
}

// Redo re-applies the next step on t. It returns false when there is
// nothing to redo.
func (h *Log) Redo(t Target) bool {
	if h.undoIndex >= len(h.commands)-1 {
		return false
	}
	for {
		h.undoIndex++
		cmd := h.commands[h.undoIndex]
		cmd.Redo(t)
		log.Debug(log.CatHistory, "redo", "cmd", cmd.String())
		if h.undoIndex+1 >= len(h.commands) || !h.commands[h.undoIndex+1].Joined {
			break
		}
	}
	return true
}

// CanUndo returns true if there are steps to undo.
func (h *Log) CanUndo() bool {
	return h.undoIndex >= 0
}

// CanRedo returns true if there are steps to redo.
func (h *Log) CanRedo() bool {
	return h.undoIndex < len(h.commands)-1
}

// Len returns the number of recorded commands, including the redo tail.
func (h *Log) Len() int { return len(h.commands) }

// Steps returns the number of recorded steps, including the redo tail.
func (h *Log) Steps() int { return h.steps }

// Commands returns a copy of the recorded commands.
func (h *Log) Commands() []Command {
	out := make([]Command, len(h.commands))
	copy(out, h.commands)
	return out
}

// Clear resets the log to the empty state.
func (h *Log) Clear() {
	h.commands = h.commands[:0]
	h.undoIndex = -1
	h.steps = 0
}
