// Package lineeditor edits one line of a document at a time.
//
// An Editor is bound to a single line record. The record's text is copied
// into a working buffer only when the first mutation arrives (Load), and a
// dirty working buffer is written back as a new record (Flush) before the
// editor switches to another line. Both steps are explicit.
package lineeditor

import (
	"fmt"
	"iter"

	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/elastic"
	"github.com/zjrosen/textflow/internal/log"
)

// Editor holds the working state of the line it is bound to.
type Editor struct {
	doc *document.Document

	index int            // index of the bound line, -1 when unbound
	line  *document.Line // bound record; replaced on flush
	term  Terminator     // terminator to write on flush

	buf     elastic.Buffer[rune]
	loaded  bool
	initLen int // length of the record while unloaded

	caret int
	dirty bool
}

// Terminator is re-exported for callers that only deal with the editor.
type Terminator = document.Terminator

// New creates an unbound editor over doc.
func New(doc *document.Document) *Editor {
	return &Editor{doc: doc, index: -1}
}

// Index returns the index of the bound line, or -1.
func (e *Editor) Index() int { return e.index }

// Line returns the bound record. It may be stale while the editor is dirty.
func (e *Editor) Line() *document.Line { return e.line }

// Loaded reports whether the working buffer holds the line's text.
func (e *Editor) Loaded() bool { return e.loaded }

// Dirty reports whether there are changes not yet flushed.
func (e *Editor) Dirty() bool { return e.dirty }

// Bind switches the editor to the line at index. Binding to the record that
// is already bound does nothing. Otherwise pending changes are flushed, then
// the caret is reset to 0 and the new line is left unloaded.
func (e *Editor) Bind(index int) {
	line := e.doc.LineAt(index)
	if e.line == line && e.index == index {
		return
	}
	e.Flush()

	e.index = index
	e.line = line
	e.term = line.Terminator()
	e.buf.Clear()
	e.loaded = false
	e.initLen = line.Len()
	e.caret = 0
	e.dirty = false
}

// Reset unbinds the editor and discards pending changes.
func (e *Editor) Reset() {
	e.index = -1
	e.line = nil
	e.buf.Clear()
	e.loaded = false
	e.initLen = 0
	e.caret = 0
	e.dirty = false
}

// Flush writes pending changes into a new record that replaces the bound one
// in the document. The working buffer stays loaded.
func (e *Editor) Flush() {
	if !e.dirty || e.line == nil {
		return
	}

	var next *document.Line
	if e.loaded {
		next = e.doc.NewLine(e.buf.Slice(), e.term)
	} else {
		next = document.NewLine(e.line.Content(), e.term)
	}

	index := e.index
	if index >= e.doc.LineCount() || e.doc.LineAt(index) != e.line {
		index = e.doc.IndexOf(e.line)
		if index < 0 {
			panic(fmt.Errorf("lineeditor: bound line %d is no longer in the document", e.index))
		}
		log.Warn(log.CatEditor, "bound line moved before flush", "from", e.index, "to", index)
		e.index = index
	}
	if err := e.doc.ReplaceLine(index, next); err != nil {
		panic(fmt.Errorf("lineeditor: flush: %w", err))
	}

	log.Debug(log.CatEditor, "flushed line", "line", index, "len", next.Len(), "term", e.term)
	e.line = next
	e.dirty = false
}

// Load copies the bound record's text into the working buffer. It is a no-op
// when already loaded.
func (e *Editor) Load() {
	if e.loaded {
		return
	}
	e.mustBound()
	e.buf.Clear()
	content := e.line.Content()
	if !content.Empty() {
		e.buf.AppendSlice(e.doc.Arena().AppendTo(nil, content))
	}
	e.loaded = true
}

// Count returns the current length of the line, loaded or not.
func (e *Editor) Count() int {
	if e.loaded {
		return e.buf.Len()
	}
	return e.initLen
}

// Caret returns the insertion index.
func (e *Editor) Caret() int { return e.caret }

// SetCaret moves the caret. Values outside [0, Count()] are rejected and the
// caret keeps its previous value.
func (e *Editor) SetCaret(caret int) bool {
	if caret < 0 || caret > e.Count() {
		log.Debug(log.CatEditor, "rejected caret", "caret", caret, "count", e.Count())
		return false
	}
	e.caret = caret
	return true
}

// CaretAtEnd reports whether the caret sits after the last character.
func (e *Editor) CaretAtEnd() bool { return e.caret == e.Count() }

// Terminator returns the terminator the bound line will be flushed with.
func (e *Editor) Terminator() Terminator { return e.term }

// SetTerminator changes the bound line's terminator. The change is written
// on the next flush.
func (e *Editor) SetTerminator(term Terminator) {
	e.mustBound()
	if term == e.term {
		return
	}
	e.term = term
	e.dirty = true
}

// AddChar inserts r at the caret and advances the caret.
func (e *Editor) AddChar(r rune) {
	e.Load()
	if e.caret == e.buf.Len() {
		e.buf.Append(r)
	} else {
		must(e.buf.Insert(e.caret, r))
	}
	e.caret++
	e.dirty = true
}

// AddText inserts n runes of src starting at start, and advances the caret
// past them.
func (e *Editor) AddText(src []rune, start, n int) {
	if start < 0 || n < 0 || start+n > len(src) {
		panic(fmt.Errorf("lineeditor: AddText(%d, %d) from %d runes: %w", start, n, len(src), elastic.ErrOutOfRange))
	}
	e.Load()
	if n == 0 {
		return
	}
	must(e.buf.InsertSlice(e.caret, src[start:start+n]))
	e.caret += n
	e.dirty = true
}

// Split moves everything at and after the caret into right and truncates
// the line at the caret.
func (e *Editor) Split(right *elastic.Buffer[rune]) {
	e.Load()
	tail := e.buf.Len() - e.caret
	if tail == 0 {
		return
	}
	right.AppendSlice(e.buf.Slice()[e.caret:])
	must(e.buf.Truncate(e.caret))
	e.dirty = true
}

// Delete removes the character at the caret. It returns false at the end of
// the line.
func (e *Editor) Delete() bool {
	e.Load()
	if e.caret >= e.buf.Len() {
		return false
	}
	must(e.buf.Remove(e.caret, 1))
	e.dirty = true
	return true
}

// Backspace removes the character before the caret and moves the caret
// back. It returns false at the start of the line.
func (e *Editor) Backspace() bool {
	e.Load()
	if e.caret < 1 {
		return false
	}
	must(e.buf.Remove(e.caret-1, 1))
	e.caret--
	e.dirty = true
	return true
}

// DeleteRange removes n characters starting at start and puts the caret at
// start. The range is clipped to the line.
func (e *Editor) DeleteRange(start, n int) {
	e.Load()
	start = min(max(start, 0), e.buf.Len())
	n = min(max(n, 0), e.buf.Len()-start)
	if n > 0 {
		must(e.buf.Remove(start, n))
		e.dirty = true
	}
	e.caret = start
}

// Clear empties the line.
func (e *Editor) Clear() {
	e.Load()
	if e.buf.Len() > 0 {
		e.buf.Clear()
		e.dirty = true
	}
	e.caret = 0
}

// At returns character i of the line.
func (e *Editor) At(i int) rune {
	if e.loaded {
		return e.buf.At(i)
	}
	e.mustBound()
	return e.doc.Arena().At(e.line.Content(), i)
}

// Read appends the whole line to dst.
func (e *Editor) Read(dst []rune) []rune {
	return e.ReadRange(dst, 0, e.Count())
}

// ReadRange appends n characters starting at start to dst. The range is
// clipped to the line.
func (e *Editor) ReadRange(dst []rune, start, n int) []rune {
	e.mustBound()
	if !e.loaded {
		return e.doc.Arena().AppendRange(dst, e.line.Content(), start, n)
	}
	start = min(max(start, 0), e.buf.Len())
	n = min(max(n, 0), e.buf.Len()-start)
	out, err := e.buf.CopyTo(dst, start, n)
	must(err)
	return out
}

// String returns the line's current text.
func (e *Editor) String() string {
	return string(e.Read(nil))
}

// Runes yields the line's characters in order. The line must not be edited
// while iterating.
func (e *Editor) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for i, n := 0, e.Count(); i < n; i++ {
			if !yield(e.At(i)) {
				return
			}
		}
	}
}

func (e *Editor) mustBound() {
	if e.line == nil {
		panic("lineeditor: editor is not bound to a line")
	}
}

// must turns a buffer index error into a panic. The editor validates its
// arguments first, so an error here means an internal invariant is broken.
func must(err error) {
	if err != nil {
		log.ErrorErr(log.CatBuffer, "line buffer invariant violated", err)
		panic(fmt.Errorf("lineeditor: %w", err))
	}
}
