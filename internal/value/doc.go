// Package value provides the typed scalar model for ARFF data.
//
// Every scalar in a dataset is tagged with its declared attribute kind
// and an optional class-attribute flag. Value is a sealed interface:
// only Integer, Numeric, String, Nominal, and Date implement it, so a
// type switch over Value cases is exhaustive.
//
// The missing marker "?" is a distinguished payload, valid for any
// kind, and is distinct from an attribute simply being absent from a
// sparse row.
package value
