// Package document holds the ordered line records of a plain text document
// together with the arena their text lives in.
//
// A Document does not enforce that it keeps at least one line; the edit
// session that owns it does.
package document

import (
	"fmt"

	"github.com/zjrosen/textflow/internal/arena"
	"github.com/zjrosen/textflow/internal/elastic"
)

// Document is an ordered list of line records.
type Document struct {
	lines elastic.Buffer[*Line]
	arena *arena.Arena
}

// New creates an empty document with its own arena.
func New() *Document {
	return &Document{arena: arena.New()}
}

// FromLines seeds a document from line strings. Every line but the last is
// terminated with LF. No input yields a single empty line.
func FromLines(lines []string) *Document {
	d := New()
	for i, s := range lines {
		term := LF
		if i == len(lines)-1 {
			term = None
		}
		d.Append(d.NewLine([]rune(s), term))
	}
	if d.LineCount() == 0 {
		d.Append(d.NewLine(nil, None))
	}
	return d
}

// FromText seeds a document from a text blob split on "\n" and "\r\n". The
// terminator found after each line is recorded on it, so a trailing newline
// produces a final empty line.
func FromText(text string) *Document {
	d := New()
	for _, seg := range Split([]rune(text)) {
		d.Append(d.NewLine(seg.Text, seg.Term))
	}
	return d
}

// Arena returns the document's character pool.
func (d *Document) Arena() *arena.Arena { return d.arena }

// NewLine allocates runes in the arena and returns a record for them. The
// record is not added to the document.
func (d *Document) NewLine(runes []rune, term Terminator) *Line {
	return NewLine(d.arena.Alloc(runes), term)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return d.lines.Len() }

// LineAt returns the record at index.
func (d *Document) LineAt(index int) *Line {
	if index < 0 || index >= d.lines.Len() {
		panic(fmt.Errorf("document: line %d of %d: %w", index, d.lines.Len(), elastic.ErrOutOfRange))
	}
	return d.lines.At(index)
}

// Append adds line at the end.
func (d *Document) Append(line *Line) {
	d.lines.Append(line)
}

// InsertLine places line at index, shifting later lines down.
func (d *Document) InsertLine(index int, line *Line) error {
	if err := d.lines.Insert(index, line); err != nil {
		return fmt.Errorf("insert line: %w", err)
	}
	return nil
}

// RemoveLine deletes the line at index.
func (d *Document) RemoveLine(index int) error {
	if err := d.lines.Remove(index, 1); err != nil {
		return fmt.Errorf("remove line: %w", err)
	}
	return nil
}

// ReplaceLine swaps the record at index for line.
func (d *Document) ReplaceLine(index int, line *Line) error {
	if index < 0 || index >= d.lines.Len() {
		return fmt.Errorf("replace line %d of %d: %w", index, d.lines.Len(), elastic.ErrOutOfRange)
	}
	d.lines.Set(index, line)
	return nil
}

// IndexOf returns the index of line, comparing record identity, or -1.
func (d *Document) IndexOf(line *Line) int {
	for i, l := range d.lines.Slice() {
		if l == line {
			return i
		}
	}
	return -1
}

// Text decodes the line at index without its terminator.
func (d *Document) Text(index int) string {
	return d.arena.String(d.LineAt(index).Content())
}

// Reset drops every line. The arena keeps its data.
func (d *Document) Reset() {
	d.lines.Clear()
}

// Lines returns a read-only view of the records.
func (d *Document) Lines() []*Line {
	return d.lines.Slice()
}
