// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing fact sheets and scripted model answers.
// They are not intended for production usage.
package testutil
