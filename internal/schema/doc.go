// Package schema provides the ordered attribute registry for an ARFF
// relation.
//
// Attribute order is significant: it fixes dense-row column order and
// sparse-row column indices. If a class attribute is designated it
// always occupies the last position; every mutation that adds or
// reorders attributes re-enforces this invariant.
//
// The schema is owned exclusively by its dataset. Growth during
// in-memory appends and the frozen regime during streaming are two
// modes on that single owner, never shared mutable state.
package schema
