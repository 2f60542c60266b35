// Package schemadef loads declarative schema definition files.
//
// A definition is a small YAML document naming the relation and its
// attributes. Definitions are validated against an embedded CUE
// schema before being compiled into a schema.Schema, so malformed
// kinds and shapes are rejected with positions instead of surfacing
// later as parse errors.
package schemadef
