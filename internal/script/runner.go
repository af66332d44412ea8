package script

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/textflow/internal/log"
	"github.com/zjrosen/textflow/internal/session"
	"github.com/zjrosen/textflow/internal/tracing"
)

// Result summarizes a replay.
type Result struct {
	Steps    int // steps executed
	Applied  int // steps that changed something
	Rejected int // steps the session refused (invalid moves, no-op deletes)

	// Baseline is the text undo can return to: the text before the first
	// step, or right after the last clear step, which empties the history.
	Baseline string
}

// Runner replays scripts against sessions.
type Runner struct {
	tracer trace.Tracer
}

// NewRunner creates a runner. A nil tracer disables spans.
func NewRunner(tracer trace.Tracer) *Runner {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Runner{tracer: tracer}
}

// Run applies every step of sc to s. It stops at the first failed
// expectation or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, s *session.Session, sc *Script) (Result, error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanReplay, trace.WithAttributes(
		attribute.String(tracing.AttrSessionID, s.ID().String()),
		attribute.String(tracing.AttrScriptName, sc.Name),
	))
	defer span.End()

	log.Info(log.CatScript, "replaying script", "script", sc.Name, "steps", len(sc.Steps), "session", s.ID())

	res := Result{Baseline: s.Text()}
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return res, fmt.Errorf("step %d: %w", i, err)
		}
		applied, err := r.step(ctx, s, i, st)
		res.Steps++
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return res, err
		}
		if st.Op == OpClear {
			res.Baseline = s.Text()
		}
		if applied {
			res.Applied++
		} else {
			res.Rejected++
		}
	}

	span.SetAttributes(attribute.Int(tracing.AttrLineCount, s.LineCount()))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (r *Runner) step(ctx context.Context, s *session.Session, i int, st Step) (bool, error) {
	_, span := r.tracer.Start(ctx, tracing.SpanStep, trace.WithAttributes(
		attribute.Int(tracing.AttrStepIndex, i),
		attribute.String(tracing.AttrStepOp, string(st.Op)),
	))
	defer span.End()

	applied := true
	for range st.Times() {
		ok, err := apply(s, st)
		if err != nil {
			span.AddEvent(tracing.EventCheckFailed)
			span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
			span.SetStatus(codes.Error, err.Error())
			log.Warn(log.CatScript, "step failed", "step", i, "op", st.Op, "error", err)
			return false, fmt.Errorf("step %d (%s): %w", i, st.Op, err)
		}
		applied = applied && ok
	}

	p := s.Pos()
	span.SetAttributes(
		attribute.Bool(tracing.AttrApplied, applied),
		attribute.Int(tracing.AttrLine, p.Line),
		attribute.Int(tracing.AttrCol, p.Col),
	)
	if s.CanUndo() {
		span.AddEvent(tracing.EventCommandRecorded)
	}
	log.Debug(log.CatScript, "step", "step", i, "op", st.Op, "applied", applied, "pos", p)
	return applied, nil
}

// apply runs one repetition of st. It reports whether the session accepted
// the operation.
func apply(s *session.Session, st Step) (bool, error) {
	switch st.Op {
	case OpMove:
		return s.MoveTo(st.At.DocPos()), nil
	case OpType:
		s.AddText(st.Text)
		return true, nil
	case OpChar:
		s.AddChar([]rune(st.Char)[0])
		return true, nil
	case OpBackspace:
		return s.Backspace(), nil
	case OpDelete:
		return s.Delete(), nil
	case OpSplit:
		s.SplitIntoNewLine()
		return true, nil
	case OpSelect:
		return s.Select(st.From.DocPos(), st.To.DocPos()), nil
	case OpDeleteSelection:
		return s.DeleteSelection(), nil
	case OpCancelSelect:
		s.CancelSelect()
		return true, nil
	case OpHome:
		s.Home()
		return true, nil
	case OpEnd:
		s.End()
		return true, nil
	case OpLeft:
		return s.CaretLeft(), nil
	case OpRight:
		return s.CaretRight(), nil
	case OpUndo:
		return s.Undo(), nil
	case OpRedo:
		return s.Redo(), nil
	case OpClear:
		s.Clear()
		return true, nil
	case OpExpect:
		return true, expect(s, st)
	default:
		return false, fmt.Errorf("%w: unknown op %q", ErrInvalidScript, st.Op)
	}
}

func expect(s *session.Session, st Step) error {
	if st.Text != "" {
		if got := s.Text(); got != st.Text {
			return fmt.Errorf("%w: text is %q, want %q", ErrExpectation, got, st.Text)
		}
	}
	if st.Lines != nil && s.LineCount() != *st.Lines {
		return fmt.Errorf("%w: %d lines, want %d", ErrExpectation, s.LineCount(), *st.Lines)
	}
	if st.At != nil && s.Pos() != st.At.DocPos() {
		return fmt.Errorf("%w: caret at %s, want %s", ErrExpectation, s.Pos(), st.At.DocPos())
	}
	return nil
}

// VerifyUndo undoes every step, checks that the text is back to baseline,
// then redoes the same number of steps and checks the text is back to what
// it was. A pending redo tail is left alone. Pass Result.Baseline from the
// run that produced s.
func (r *Runner) VerifyUndo(ctx context.Context, s *session.Session, baseline string) error {
	_, span := r.tracer.Start(ctx, tracing.SpanUndo)
	defer span.End()

	final := s.Text()
	undone := 0
	for s.Undo() {
		undone++
	}
	if got := s.Text(); got != baseline {
		err := fmt.Errorf("%w: after %d undos text is %q, want %q", ErrExpectation, undone, got, baseline)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	for range undone {
		s.Redo()
	}
	if got := s.Text(); got != final {
		err := fmt.Errorf("%w: after redo text is %q, want %q", ErrExpectation, got, final)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("undo.steps", undone))
	span.SetStatus(codes.Ok, "")
	log.Info(log.CatScript, "undo round trip ok", "steps", undone)
	return nil
}
