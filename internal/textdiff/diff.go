// Package textdiff computes and renders line diffs between two versions of a
// document.
package textdiff

import (
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "equal"
	}
}

// Line is one line of a diff. OldNo and NewNo are 1-based line numbers in
// the old and new text, 0 when the line does not exist on that side.
type Line struct {
	Op    Op
	Text  string
	OldNo int
	NewNo int
}

// Lines diffs before and after line by line. Line texts keep a trailing
// "\r" but not the "\n".
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out []Line
	oldNo, newNo := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			line := Line{Text: text}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNo++
				newNo++
				line.Op, line.OldNo, line.NewNo = Equal, oldNo, newNo
			case diffmatchpatch.DiffDelete:
				oldNo++
				line.Op, line.OldNo = Delete, oldNo
			case diffmatchpatch.DiffInsert:
				newNo++
				line.Op, line.NewNo = Insert, newNo
			}
			out = append(out, line)
		}
	}
	return out
}

// Stats counts inserted and deleted lines.
func Stats(lines []Line) (inserted, deleted int) {
	for _, l := range lines {
		switch l.Op {
		case Insert:
			inserted++
		case Delete:
			deleted++
		}
	}
	return inserted, deleted
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}

// segment is a run of a changed line with its diff status.
type segment struct {
	Op   Op
	Text string
}

// tokenize splits a line into words, whitespace and punctuation.
// Example: "foo.bar()" → ["foo", ".", "bar", "(", ")"]
func tokenize(line string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range line {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
			continue
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// wordDiff splits a deleted/inserted line pair into segments.
func wordDiff(oldLine, newLine string) (oldSegs, newSegs []segment) {
	if oldLine == "" || newLine == "" {
		return []segment{{Op: Delete, Text: oldLine}}, []segment{{Op: Insert, Text: newLine}}
	}

	dmp := diffmatchpatch.New()
	oldText := strings.Join(tokenize(oldLine), "\x00")
	newText := strings.Join(tokenize(newLine), "\x00")
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))

	for _, d := range diffs {
		text := strings.ReplaceAll(d.Text, "\x00", "")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = append(oldSegs, segment{Op: Equal, Text: text})
			newSegs = append(newSegs, segment{Op: Equal, Text: text})
		case diffmatchpatch.DiffDelete:
			oldSegs = append(oldSegs, segment{Op: Delete, Text: text})
		case diffmatchpatch.DiffInsert:
			newSegs = append(newSegs, segment{Op: Insert, Text: text})
		}
	}
	return oldSegs, newSegs
}
