// Package entangle is a reactive state container.
//
// Atoms hold mutable values. Molecules derive read-only values from atoms and
// other molecules, tracking whatever they read during each derivation and
// re-deriving when any of it changes. Async molecules do the same off the
// caller's goroutine. Atom effects run side effects with the same tracking,
// and families memoise any of these per key.
//
// Every node belongs to a *System, which carries the logger, clock, metrics and
// error handler shared by the graph.
package entangle

//go:generate go run ./cmd/codegen --count 4 --out derive_gen.go
