package value

import "fmt"

// FromToken builds a Value of the given kind from a textual row token.
// The missing marker is accepted for every kind. This is the
// schema-directed construction path; prefer it over Wrap whenever the
// attribute kind is known.
func FromToken(k Kind, token string, class bool) (Value, error) {
	switch k {
	case KindInteger:
		return NewInteger(token, class)
	case KindNumeric:
		return NewNumeric(token, class)
	case KindString:
		return NewString(token, class), nil
	case KindNominal:
		return NewNominal(token, class), nil
	case KindDate:
		return NewDate(token, class)
	default:
		return nil, fmt.Errorf("unknown value kind %d", k)
	}
}

// FromScalar builds a Value of the given kind from a raw Go scalar.
func FromScalar(k Kind, raw any, class bool) (Value, error) {
	switch k {
	case KindInteger:
		return NewInteger(raw, class)
	case KindNumeric:
		return NewNumeric(raw, class)
	case KindString:
		return NewString(raw, class), nil
	case KindNominal:
		return NewNominal(raw, class), nil
	case KindDate:
		return NewDate(raw, class)
	default:
		return nil, fmt.Errorf("unknown value kind %d", k)
	}
}

// Wrap infers a kind for an untyped scalar. It is the fallback factory
// used only when no schema kind is available.
//
// The precedence is deliberate and load-bearing for compatibility:
// a Value passes through; the missing marker and any other text become
// String; everything else is tried as Numeric, then Integer, then
// Date, keeping the first that constructs without error. In
// particular, a raw Go integer wraps as Numeric, not Integer.
func Wrap(raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		return v, nil
	}
	if _, ok := raw.(string); ok {
		return NewString(raw, false), nil
	}
	if n, err := NewNumeric(raw, false); err == nil {
		return n, nil
	}
	if i, err := NewInteger(raw, false); err == nil {
		return i, nil
	}
	if d, err := NewDate(raw, false); err == nil {
		return d, nil
	}
	return nil, fmt.Errorf("cannot infer a value kind for %T", raw)
}
