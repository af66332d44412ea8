// Package session implements the multi-line editing state machine.
//
// A Session owns a document, the line editor bound to its current line, the
// selection and the undo log. Intra-line edits go to the line editor; line
// splits, joins and removals are done on the document directly. Every
// caller-facing mutation records exactly one undo step.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/textflow/internal/arena"
	"github.com/zjrosen/textflow/internal/cachemanager"
	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/history"
	"github.com/zjrosen/textflow/internal/lineeditor"
	"github.com/zjrosen/textflow/internal/log"
	"github.com/zjrosen/textflow/internal/pubsub"
)

// ErrUnsupported is returned by MoveCaretTo.
var ErrUnsupported = fmt.Errorf("absolute caret addressing across lines: %w", errors.ErrUnsupported)

var _ history.Target = (*Session)(nil)

// Change describes a mutation for event subscribers.
type Change struct {
	SessionID string
	Command   string
	Region    history.ChangeRegion
	Pos       document.Pos
	LineCount int
}

// Session is an editing session over one document.
type Session struct {
	id      uuid.UUID
	doc     *document.Document
	ed      *lineeditor.Editor
	sel     Selection
	hist    *history.Log
	newline document.Terminator

	lines    *cachemanager.ReadThroughCache[string, string, arena.Span]
	linesTTL time.Duration

	events *pubsub.Broker[Change]

	replaying bool // set while undo/redo drives the public API
}

type options struct {
	id           uuid.UUID
	historyLimit int
	newline      document.Terminator
	cacheTTL     time.Duration
	events       *pubsub.Broker[Change]
}

// Option configures a Session.
type Option func(*options)

// WithHistoryLimit keeps at most n undo steps. 0 means unlimited.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

// WithNewline sets the terminator SplitIntoNewLine gives the upper line.
// None is ignored.
func WithNewline(term document.Terminator) Option {
	return func(o *options) {
		if term != document.None {
			o.newline = term
		}
	}
}

// WithLineCache sets the lifetime of decoded line strings. A negative ttl
// disables the cache.
func WithLineCache(ttl time.Duration) Option {
	return func(o *options) { o.cacheTTL = ttl }
}

// WithEvents publishes a Change after every mutation, undo and redo.
func WithEvents(b *pubsub.Broker[Change]) Option {
	return func(o *options) { o.events = b }
}

// WithID overrides the generated session id.
func WithID(id uuid.UUID) Option {
	return func(o *options) { o.id = id }
}

// New starts a session on doc, bound to line 0 with the caret at 0. An
// empty document gets one empty line.
func New(doc *document.Document, opts ...Option) *Session {
	o := options{
		newline:  document.LF,
		cacheTTL: cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}

	if doc.LineCount() == 0 {
		doc.Append(doc.NewLine(nil, document.None))
	}

	s := &Session{
		id:       o.id,
		doc:      doc,
		ed:       lineeditor.New(doc),
		sel:      Selection{Empty: true},
		hist:     history.NewLog(o.historyLimit),
		newline:  o.newline,
		linesTTL: o.cacheTTL,
		events:   o.events,
	}
	s.lines = cachemanager.NewReadThroughCache(
		cachemanager.Manager[string, string](
			cachemanager.NewInMemoryManager[string, string]("lines", max(o.cacheTTL, 0), cachemanager.NoCleanup),
		),
		func(span arena.Span) (string, error) {
			return doc.Arena().String(span), nil
		},
		o.cacheTTL < 0,
	)
	s.ed.Bind(0)

	log.Debug(log.CatSession, "session started", "session", s.id, "lines", doc.LineCount(), "newline", s.newline)
	return s
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID { return s.id }

// Document returns the underlying document. Pending edits of the current
// line are flushed first.
func (s *Session) Document() *document.Document {
	s.ed.Flush()
	return s.doc
}

// Newline returns the terminator used for new line splits.
func (s *Session) Newline() document.Terminator { return s.newline }

// LineCount returns the number of lines. It is never 0.
func (s *Session) LineCount() int { return s.doc.LineCount() }

// CurrentLine returns the index of the line the caret is on.
func (s *Session) CurrentLine() int { return s.ed.Index() }

// Caret returns the caret column on the current line.
func (s *Session) Caret() int { return s.ed.Caret() }

// Pos returns the caret position.
func (s *Session) Pos() document.Pos {
	return document.Pos{Line: s.ed.Index(), Col: s.ed.Caret()}
}

// LineLen returns the length of the current line.
func (s *Session) LineLen() int { return s.ed.Count() }

// Clear resets the document to a single empty line and empties the undo
// log.
func (s *Session) Clear() {
	s.ed.Reset()
	s.doc.Reset()
	s.doc.Append(s.doc.NewLine(nil, document.None))
	s.ed.Bind(0)
	s.sel = Selection{Empty: true}
	s.hist.Clear()
	s.lines.Flush()

	log.Debug(log.CatSession, "cleared", "session", s.id)
	s.publish(pubsub.ResetEvent, "", history.RegionLineRange)
}

// Undo reverts the last step. It returns false when there is nothing to
// undo.
func (s *Session) Undo() bool {
	s.replaying = true
	ok := s.hist.Undo(s)
	s.replaying = false
	if ok {
		s.publish(pubsub.UndoneEvent, "", history.RegionLineRange)
	}
	return ok
}

// Redo re-applies the last undone step. It returns false when there is
// nothing to redo.
func (s *Session) Redo() bool {
	s.replaying = true
	ok := s.hist.Redo(s)
	s.replaying = false
	if ok {
		s.publish(pubsub.RedoneEvent, "", history.RegionLineRange)
	}
	return ok
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// History returns the recorded commands, oldest first.
func (s *Session) History() []history.Command { return s.hist.Commands() }

// record pushes cmd unless the session is replaying history.
func (s *Session) record(cmd history.Command) {
	if s.replaying {
		return
	}
	s.hist.Push(cmd)
	s.publish(pubsub.EditedEvent, cmd.String(), cmd.ChangeRegion())
}

func (s *Session) publish(t pubsub.EventType, cmd string, region history.ChangeRegion) {
	if s.events == nil {
		return
	}
	s.events.Publish(t, Change{
		SessionID: s.id.String(),
		Command:   cmd,
		Region:    region,
		Pos:       s.Pos(),
		LineCount: s.doc.LineCount(),
	})
}

// must panics on document index errors. The session only passes indexes it
// has checked, so an error is a broken invariant.
func must(err error) {
	if err != nil {
		log.ErrorErr(log.CatSession, "document invariant violated", err)
		panic(fmt.Errorf("session: %w", err))
	}
}
