package document

// Segment is a run of characters followed by the terminator that ended it.
type Segment struct {
	Text []rune
	Term Terminator
}

// Split breaks runes at "\n" and "\r\n". The result always has at least one
// segment and its last segment has terminator None. A lone "\r" is kept as an
// ordinary character. Segment texts alias runes.
func Split(runes []rune) []Segment {
	segs := make([]Segment, 0, 1)
	start := 0
	for i, r := range runes {
		if r != '\n' {
			continue
		}
		end, term := i, LF
		if i > start && runes[i-1] == '\r' {
			end, term = i-1, CRLF
		}
		segs = append(segs, Segment{Text: runes[start:end], Term: term})
		start = i + 1
	}
	return append(segs, Segment{Text: runes[start:], Term: None})
}
