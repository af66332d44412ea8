package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// FileExporter exports spans to a JSONL file, one span per line.
type FileExporter struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileExporter creates a new file exporter that writes spans to the given path.
// The file is appended to; parent directories are created.
func NewFileExporter(path string) (*FileExporter, error) {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{file: file}, nil
}

// ExportSpans writes spans to the file in JSONL format.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return fmt.Errorf("exporter is shut down")
	}
	encoder := json.NewEncoder(e.file)
	for _, span := range spans {
		if err := encoder.Encode(spanToRecord(span)); err != nil {
			return fmt.Errorf("encode span: %w", err)
		}
	}
	return nil
}

// Shutdown closes the file.
func (e *FileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file != nil {
		err := e.file.Close()
		e.file = nil
		return err
	}
	return nil
}

// SpanRecord is one exported replay span. Replay attributes get their own
// fields; anything else lands in Extra.
type SpanRecord struct {
	TraceID  string  `json:"trace_id"`
	SpanID   string  `json:"span_id"`
	ParentID string  `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Start    string  `json:"start"`
	Ms       float64 `json:"ms"`
	Failed   bool    `json:"failed,omitempty"`
	Error    string  `json:"error,omitempty"`

	Session string `json:"session,omitempty"`
	Script  string `json:"script,omitempty"`
	Step    *int   `json:"step,omitempty"`
	Op      string `json:"op,omitempty"`
	Caret   string `json:"caret,omitempty"`
	Lines   *int   `json:"lines,omitempty"`
	Applied *bool  `json:"applied,omitempty"`

	Events []string       `json:"events,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

func spanToRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	sc := span.SpanContext()
	rec := SpanRecord{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
		Name:    span.Name(),
		Start:   span.StartTime().Format(time.RFC3339Nano),
		Ms:      float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000.0,
	}
	if span.Parent().IsValid() {
		rec.ParentID = span.Parent().SpanID().String()
	}
	if status := span.Status(); status.Code == codes.Error {
		rec.Failed = true
		rec.Error = status.Description
	}

	line, col := -1, -1
	for _, kv := range span.Attributes() {
		switch string(kv.Key) {
		case AttrSessionID:
			rec.Session = kv.Value.AsString()
		case AttrScriptName:
			rec.Script = kv.Value.AsString()
		case AttrStepIndex:
			n := int(kv.Value.AsInt64())
			rec.Step = &n
		case AttrStepOp:
			rec.Op = kv.Value.AsString()
		case AttrLine:
			line = int(kv.Value.AsInt64())
		case AttrCol:
			col = int(kv.Value.AsInt64())
		case AttrLineCount:
			n := int(kv.Value.AsInt64())
			rec.Lines = &n
		case AttrApplied:
			b := kv.Value.AsBool()
			rec.Applied = &b
		case AttrErrorMessage:
			// duplicated by the status description
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]any)
			}
			rec.Extra[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	if line >= 0 && col >= 0 {
		rec.Caret = fmt.Sprintf("%d:%d", line, col)
	}

	for _, evt := range span.Events() {
		rec.Events = append(rec.Events, evt.Name)
	}
	return rec
}
