// Package arff reads and writes ARFF (Attribute-Relation File Format)
// documents.
//
// A document is a comment block, a header (relation name and typed
// attribute declarations), and a data section whose rows use either
// the dense positional encoding or the sparse index-keyed encoding.
//
// A Dataset owns its schema and either an in-memory row sequence or a
// live stream sink; the two storage modes are mutually exclusive for
// the dataset's lifetime. In-memory appends may grow the schema;
// once a stream is open the schema is frozen and violating fields are
// silently trimmed from appended rows.
//
// Nothing in this package is safe for concurrent mutation; callers
// needing concurrent producers must serialize access externally.
package arff
