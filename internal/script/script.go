// Package script loads YAML edit scripts and replays them against an edit
// session.
//
// A script is a list of steps:
//
//	name: fix-header
//	steps:
//	  - op: move
//	    at: {line: 0, col: 3}
//	  - op: type
//	    text: "hello\n"
//	  - op: backspace
//	    repeat: 2
//	  - op: expect
//	    text: "abc\nhel"
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/textflow/internal/document"
)

var (
	// ErrInvalidScript is returned for scripts that cannot be replayed.
	ErrInvalidScript = errors.New("invalid script")
	// ErrExpectation is returned when an expect step does not match.
	ErrExpectation = errors.New("expectation failed")
)

// Op names a step operation.
type Op string

const (
	OpMove            Op = "move"
	OpType            Op = "type"
	OpChar            Op = "char"
	OpBackspace       Op = "backspace"
	OpDelete          Op = "delete"
	OpSplit           Op = "split"
	OpSelect          Op = "select"
	OpDeleteSelection Op = "delete_selection"
	OpCancelSelect    Op = "cancel_select"
	OpHome            Op = "home"
	OpEnd             Op = "end"
	OpLeft            Op = "left"
	OpRight           Op = "right"
	OpUndo            Op = "undo"
	OpRedo            Op = "redo"
	OpClear           Op = "clear"
	OpExpect          Op = "expect"
)

var knownOps = map[Op]bool{
	OpMove: true, OpType: true, OpChar: true, OpBackspace: true, OpDelete: true,
	OpSplit: true, OpSelect: true, OpDeleteSelection: true, OpCancelSelect: true,
	OpHome: true, OpEnd: true, OpLeft: true, OpRight: true, OpUndo: true,
	OpRedo: true, OpClear: true, OpExpect: true,
}

// Pos is a position in a script.
type Pos struct {
	Line int `yaml:"line"`
	Col  int `yaml:"col"`
}

// DocPos converts p to a document position.
func (p Pos) DocPos() document.Pos {
	return document.Pos{Line: p.Line, Col: p.Col}
}

// Step is one script instruction. Which fields apply depends on Op.
type Step struct {
	Op     Op     `yaml:"op"`
	At     *Pos   `yaml:"at,omitempty"`   // move; expect (caret)
	From   *Pos   `yaml:"from,omitempty"` // select
	To     *Pos   `yaml:"to,omitempty"`   // select
	Text   string `yaml:"text,omitempty"` // type; expect (document text)
	Char   string `yaml:"char,omitempty"` // char
	Repeat int    `yaml:"repeat,omitempty"`
	Lines  *int   `yaml:"lines,omitempty"` // expect (line count)
}

// Times returns how often the step runs.
func (s Step) Times() int {
	return max(s.Repeat, 1)
}

// Script is a named list of steps.
type Script struct {
	Name    string `yaml:"name"`
	Newline string `yaml:"newline,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks that every step has the fields its op needs.
func (s *Script) Validate() error {
	if s.Newline != "" {
		if _, err := document.ParseTerminator(s.Newline); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScript, err)
		}
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrInvalidScript, i, st.Op, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	if !knownOps[s.Op] {
		return fmt.Errorf("unknown op %q", s.Op)
	}
	if s.Repeat < 0 {
		return fmt.Errorf("repeat must not be negative")
	}
	switch s.Op {
	case OpMove:
		if s.At == nil {
			return fmt.Errorf("missing at")
		}
	case OpChar:
		if len([]rune(s.Char)) != 1 {
			return fmt.Errorf("char must be exactly one character, got %q", s.Char)
		}
	case OpSelect:
		if s.From == nil || s.To == nil {
			return fmt.Errorf("missing from or to")
		}
	case OpExpect:
		if s.At == nil && s.Lines == nil && s.Text == "" {
			return fmt.Errorf("expect needs text, at or lines")
		}
	}
	return nil
}
