// Package verify checks whether external URLs respond successfully.
//
// The solutions architect uses a Checker to drop URLs from the fact sheet
// that do not answer a plain GET with HTTP 200.
package verify
