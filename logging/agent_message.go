package logging

// MessageKind classifies agent status messages. It replaces colored console
// output: a presenter can key its styling off the kind attribute.
type MessageKind string

const (
	// MessageAICall announces a model request.
	MessageAICall MessageKind = "ai_call"
	// MessageUnitTest announces a validation step.
	MessageUnitTest MessageKind = "unit_test"
	// MessageIssue reports a recoverable problem.
	MessageIssue MessageKind = "issue"
)

// AgentMessage logs a status line on behalf of an agent position. Issues are
// logged at warn level, everything else at info.
func AgentMessage(l Logger, kind MessageKind, position, text string) {
	l = OrNoOp(l)
	if kind == MessageIssue {
		l.Warn(text, "agent", position, "kind", string(kind))
		return
	}
	l.Info(text, "agent", position, "kind", string(kind))
}
