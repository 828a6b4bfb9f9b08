// Package errors provides structured, coded errors for shadow.
//
// Every error carries a code (e.g. "E101") that maps to a registered
// template with a category, a short message and a longer detail. Callers
// attach a suggestion or wrap an underlying cause, and the CLI renders the
// result with Format.
//
// # Error Categories
//
//   - tree: structural tree errors (invalid child index)
//   - config: shadow.json loading and validation
//   - script: batch script decoding and replay
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail("index 7 is outside [0, 3]").
//	    WithSuggestion("Create siblings in ascending index order")
//
//	fmt.Println(err.Format())
package errors
