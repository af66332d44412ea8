package tracing

// Span attribute keys for script replay.
const (
	AttrSessionID  = "session.id"
	AttrScriptName = "script.name"
	AttrStepIndex  = "step.index"
	AttrStepOp     = "step.op"
	AttrLine       = "caret.line"
	AttrCol        = "caret.col"
	AttrLineCount  = "document.lines"
	AttrApplied    = "step.applied"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanReplay = "script.replay"
	SpanStep   = "script.step"
	SpanUndo   = "script.undo_all"
)

// Event names for span events.
const (
	EventCommandRecorded = "command.recorded"
	EventCheckFailed     = "check.failed"
)
