package value

// Kind identifies one of the five ARFF attribute kinds.
type Kind uint8

const (
	KindInteger Kind = iota
	KindNumeric
	KindString
	KindNominal
	KindDate
)

// String returns the ARFF header keyword for the kind.
// Nominal has no keyword of its own; it is declared with a braced
// value list, but "nominal" is still useful for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	case KindNominal:
		return "nominal"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// ParseKind maps a header keyword to its Kind. Both "real" and
// "numeric" denote the floating kind. The keyword is matched exactly,
// as the original format readers do.
func ParseKind(keyword string) (Kind, bool) {
	switch keyword {
	case "integer":
		return KindInteger, true
	case "real", "numeric":
		return KindNumeric, true
	case "string":
		return KindString, true
	case "nominal":
		return KindNominal, true
	case "date":
		return KindDate, true
	default:
		return 0, false
	}
}
