package document

import "fmt"

// Pos is a (line, column) coordinate. Columns count characters (runes).
type Pos struct {
	Line int
	Col  int
}

// Compare orders positions by line, then column. It returns -1, 0 or +1.
func (p Pos) Compare(q Pos) int {
	switch {
	case p.Line < q.Line:
		return -1
	case p.Line > q.Line:
		return 1
	case p.Col < q.Col:
		return -1
	case p.Col > q.Col:
		return 1
	default:
		return 0
	}
}

// Less reports whether p comes before q.
func (p Pos) Less(q Pos) bool { return p.Compare(q) < 0 }

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
