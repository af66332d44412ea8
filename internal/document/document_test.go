package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/textflow/internal/elastic"
)

func texts(d *Document) []string {
	out := make([]string, d.LineCount())
	for i := range out {
		out[i] = d.Text(i)
	}
	return out
}

func terms(d *Document) []Terminator {
	out := make([]Terminator, d.LineCount())
	for i := range out {
		out[i] = d.LineAt(i).Terminator()
	}
	return out
}

func TestFromLines(t *testing.T) {
	d := FromLines([]string{"abc", "", "déf"})

	require.Equal(t, []string{"abc", "", "déf"}, texts(d))
	require.Equal(t, []Terminator{LF, LF, None}, terms(d))
	require.Equal(t, 3, d.LineAt(2).Len())
}

func TestFromLines_EmptyInputHasOneLine(t *testing.T) {
	d := FromLines(nil)

	require.Equal(t, 1, d.LineCount())
	require.Equal(t, "", d.Text(0))
	require.Equal(t, None, d.LineAt(0).Terminator())
}

func TestFromText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLines []string
		wantTerms []Terminator
	}{
		{
			name:      "empty",
			text:      "",
			wantLines: []string{""},
			wantTerms: []Terminator{None},
		},
		{
			name:      "single line",
			text:      "hello",
			wantLines: []string{"hello"},
			wantTerms: []Terminator{None},
		},
		{
			name:      "lf",
			text:      "a\nb",
			wantLines: []string{"a", "b"},
			wantTerms: []Terminator{LF, None},
		},
		{
			name:      "mixed endings",
			text:      "a\r\nb\nc",
			wantLines: []string{"a", "b", "c"},
			wantTerms: []Terminator{CRLF, LF, None},
		},
		{
			name:      "trailing newline",
			text:      "a\n",
			wantLines: []string{"a", ""},
			wantTerms: []Terminator{LF, None},
		},
		{
			name:      "lone carriage return stays",
			text:      "a\rb",
			wantLines: []string{"a\rb"},
			wantTerms: []Terminator{None},
		},
		{
			name:      "blank lines",
			text:      "\n\r\n",
			wantLines: []string{"", "", ""},
			wantTerms: []Terminator{LF, CRLF, None},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromText(tt.text)
			assert.Equal(t, tt.wantLines, texts(d))
			assert.Equal(t, tt.wantTerms, terms(d))
		})
	}
}

func TestDocument_InsertRemoveReplace(t *testing.T) {
	d := FromLines([]string{"one", "three"})

	require.NoError(t, d.InsertLine(1, d.NewLine([]rune("two"), LF)))
	require.Equal(t, []string{"one", "two", "three"}, texts(d))

	old := d.LineAt(0)
	replacement := d.NewLine([]rune("uno"), LF)
	require.NoError(t, d.ReplaceLine(0, replacement))
	require.Equal(t, "uno", d.Text(0))
	require.Equal(t, -1, d.IndexOf(old))
	require.Equal(t, 0, d.IndexOf(replacement))

	require.NoError(t, d.RemoveLine(2))
	require.Equal(t, []string{"uno", "two"}, texts(d))

	require.ErrorIs(t, d.RemoveLine(2), elastic.ErrOutOfRange)
	require.ErrorIs(t, d.InsertLine(5, old), elastic.ErrOutOfRange)
	require.ErrorIs(t, d.ReplaceLine(-1, old), elastic.ErrOutOfRange)
	require.Panics(t, func() { d.LineAt(2) })
}

func TestDocument_RemoveLastLineIsAllowed(t *testing.T) {
	d := FromLines([]string{"only"})

	require.NoError(t, d.RemoveLine(0))
	require.Equal(t, 0, d.LineCount())
}

func TestLine_IsImmutable(t *testing.T) {
	d := FromLines([]string{"abc"})
	line := d.LineAt(0)

	crlf := line.WithTerminator(CRLF)

	require.NotSame(t, line, crlf)
	require.Equal(t, None, line.Terminator())
	require.Equal(t, CRLF, crlf.Terminator())
	require.Equal(t, line.Content(), crlf.Content())
}

func TestTerminator(t *testing.T) {
	require.Equal(t, "\r\n", string(CRLF.Runes()))
	require.Equal(t, "\n", string(LF.Runes()))
	require.Empty(t, None.Runes())
	require.Equal(t, "crlf", CRLF.String())

	term, err := ParseTerminator("crlf")
	require.NoError(t, err)
	require.Equal(t, CRLF, term)

	_, err = ParseTerminator("cr")
	require.Error(t, err)
}

func TestSplit(t *testing.T) {
	segs := Split([]rune("ab\r\ncd\n"))

	require.Len(t, segs, 3)
	require.Equal(t, "ab", string(segs[0].Text))
	require.Equal(t, CRLF, segs[0].Term)
	require.Equal(t, "cd", string(segs[1].Text))
	require.Equal(t, LF, segs[1].Term)
	require.Empty(t, segs[2].Text)
	require.Equal(t, None, segs[2].Term)
}
