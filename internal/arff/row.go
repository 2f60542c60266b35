package arff

import "github.com/roach88/arff/internal/value"

// Row is a sealed interface over the two row shapes. Only DenseRow
// and SparseRow implement it.
type Row interface {
	arffRow() // sealed
}

// DenseRow is a position-aligned sequence of scalars matching the
// schema's attribute order. Payloads are the normalized forms
// produced by dense parsing: int64, decimal.Decimal, or string (text,
// nominal members, raw date text, and the missing marker).
type DenseRow []any

func (DenseRow) arffRow() {}

// SparseRow maps attribute names to typed values. Attributes absent
// from the map are implicitly absent from the encoded row, which is
// distinct from being present with the missing marker.
type SparseRow map[string]value.Value

func (SparseRow) arffRow() {}
