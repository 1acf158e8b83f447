// Package protocol owns the analysis stream contract and its parsing primitives.
//
// Ownership boundary:
// - section markers and their legal nesting
// - key=value field lines and scalar coercion
// - the generic record tree produced by Parse and consumed by Encode
package protocol
