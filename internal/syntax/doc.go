// internal/syntax/doc.go

// Package syntax provides a structured representation of the syntax paths
// that configuration handlers are registered against.
//
// A syntax path is a slash-separated sequence of segments, e.g.
// `Variables/*/InitialCondition`. A segment is either a literal section name
// or a glob; `*` matches any single section name. A registered path that is
// longer than a document path but agrees with it on every segment the
// document path has is its parent, which lets a handler registered for
// `Kernels/*` claim the `Kernels` section without acting on it.
package syntax
