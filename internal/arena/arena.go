// Package arena holds the character data of a document.
//
// An Arena is append-only: line records reference their text through Spans
// and a span, once allocated, always denotes the same runes. Spans that no
// line references any more simply become garbage; the arena never compacts
// because it lives exactly as long as its document.
package arena

import (
	"fmt"

	"github.com/zjrosen/textflow/internal/elastic"
)

// Span addresses Len runes starting at Offset inside an Arena.
type Span struct {
	Offset int
	Len    int
}

// Empty reports whether the span holds no runes.
func (s Span) Empty() bool { return s.Len == 0 }

// Key returns a stable string form of the span, usable as a cache key.
func (s Span) Key() string {
	return fmt.Sprintf("%d+%d", s.Offset, s.Len)
}

func (s Span) String() string { return s.Key() }

// Arena is an append-only rune pool.
type Arena struct {
	data elastic.Buffer[rune]
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{}
}

// Len returns the number of runes allocated so far.
func (a *Arena) Len() int { return a.data.Len() }

// Alloc copies runes into the arena and returns their span.
// Empty input yields the zero span without touching the pool.
func (a *Arena) Alloc(runes []rune) Span {
	if len(runes) == 0 {
		return Span{}
	}
	s := Span{Offset: a.data.Len(), Len: len(runes)}
	a.data.AppendSlice(runes)
	return s
}

// AllocString is Alloc for string input.
func (a *Arena) AllocString(s string) Span {
	return a.Alloc([]rune(s))
}

// AppendTo appends the runes of s to dst.
func (a *Arena) AppendTo(dst []rune, s Span) []rune {
	return a.AppendRange(dst, s, 0, s.Len)
}

// AppendRange appends n runes of s starting at start to dst. The range is
// clipped to the span.
func (a *Arena) AppendRange(dst []rune, s Span, start, n int) []rune {
	start = min(max(start, 0), s.Len)
	n = min(max(n, 0), s.Len-start)
	if n == 0 {
		return dst
	}
	out, err := a.data.CopyTo(dst, s.Offset+start, n)
	if err != nil {
		panic(fmt.Errorf("arena: span %s outside pool of %d runes: %w", s, a.data.Len(), err))
	}
	return out
}

// At returns rune i of span s.
func (a *Arena) At(s Span, i int) rune {
	if i < 0 || i >= s.Len {
		panic(fmt.Errorf("arena: index %d in span %s: %w", i, s, elastic.ErrOutOfRange))
	}
	return a.data.At(s.Offset + i)
}

// String decodes span s.
func (a *Arena) String(s Span) string {
	if s.Empty() {
		return ""
	}
	return string(a.data.Slice()[s.Offset : s.Offset+s.Len])
}
