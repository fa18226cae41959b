// Package prompt turns task descriptions into model-ready messages.
//
// A TaskFunc is a pure function describing one task's expected output shape.
// Extend wraps its description into a system message that instructs the model
// to print only the function's result. The package also holds the catalogue
// of task functions used by the built-in agents.
package prompt
