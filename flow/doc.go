// Package flow implements the task request pipeline every agent state uses to
// talk to the model.
//
// A request extends a task function into a system message (package prompt),
// announces the request to an observer, and sends it through a model.Gateway
// under a bounded retry policy. The default policy is one retry without
// backoff; when every attempt fails the error wraps core.ErrFatal so the
// orchestrating caller can abort the run. Typed requests additionally decode
// the answer as JSON; decode failures are fatal as well.
//
// The pipeline trusts the model to honor the "print only the result"
// instruction. There is no repair loop for output that is not valid JSON:
// such output fails the run.
package flow
