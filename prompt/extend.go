package prompt

import (
	"strings"
	"text/template"

	"github.com/hupe1980/autodev/core"
)

// TaskFunc describes one model task. It must be pure: no I/O, no retained
// state, and the same input always yields the same description.
type TaskFunc func(input string) string

// text/template keeps the input verbatim; html/template would escape it.
var extendTemplate = template.Must(template.New("extend").Parse(
	`FUNCTION: {{.Function}}
INSTRUCTION: You are a function printer. You ONLY print the results of functions.
Nothing else. No commentary, please. Here is the input to the function: {{.Input}}.
Print out what the function will return.`))

// Extend invokes fn with input and wraps the resulting description into a
// system message that constrains the model to output only the function's
// result. The input is echoed verbatim for grounding.
func Extend(fn TaskFunc, input string) core.Message {
	var b strings.Builder
	// Executing a parsed template into a strings.Builder with a fixed data
	// shape cannot fail.
	_ = extendTemplate.Execute(&b, struct{ Function, Input string }{fn(input), input})

	return core.NewSystemMessage(b.String())
}
