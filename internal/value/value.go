package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Missing is the token denoting "no value". It is a valid payload for
// every kind and is preserved verbatim on round-trip.
const Missing = "?"

// ErrMissingOperand is returned by arithmetic operations when either
// operand carries the missing payload. The behavior was left undefined
// upstream; failing loudly is the deliberate choice here.
var ErrMissingOperand = errors.New("arithmetic over a missing value")

// Value is a sealed interface over the five ARFF scalar variants.
// Only Integer, Numeric, String, Nominal, and Date implement it.
type Value interface {
	// Kind reports the declared attribute kind of the payload.
	Kind() Kind

	// Class reports whether this value designates its attribute as
	// the class attribute.
	Class() bool

	// IsMissing reports whether the payload is the missing marker.
	IsMissing() bool

	// Raw returns the underlying payload, or Missing for a missing
	// value.
	Raw() any

	arffValue() // sealed
}

// Integer is an exact integral value.
type Integer struct {
	val     int64
	missing bool
	class   bool
}

func (Integer) arffValue() {}
func (Integer) Kind() Kind { return KindInteger }
func (v Integer) Class() bool { return v.class }
func (v Integer) IsMissing() bool { return v.missing }
func (v Integer) Int64() int64 { return v.val }

func (v Integer) Raw() any {
	if v.missing {
		return Missing
	}
	return v.val
}

// NewInteger builds an Integer from a raw scalar. The payload must be
// exactly representable as an integer, or be the missing marker;
// non-integral and non-numeric input fails.
func NewInteger(raw any, class bool) (Integer, error) {
	switch t := raw.(type) {
	case string:
		if t == Missing {
			return Integer{missing: true, class: class}, nil
		}
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return Integer{}, fmt.Errorf("integer value %q: %w", t, err)
		}
		return Integer{val: n, class: class}, nil
	case int:
		return Integer{val: int64(t), class: class}, nil
	case int8:
		return Integer{val: int64(t), class: class}, nil
	case int16:
		return Integer{val: int64(t), class: class}, nil
	case int32:
		return Integer{val: int64(t), class: class}, nil
	case int64:
		return Integer{val: t, class: class}, nil
	case uint:
		return Integer{val: int64(t), class: class}, nil
	case uint32:
		return Integer{val: int64(t), class: class}, nil
	case uint64:
		if t > math.MaxInt64 {
			return Integer{}, fmt.Errorf("integer value %d overflows int64", t)
		}
		return Integer{val: int64(t), class: class}, nil
	case float32:
		return NewInteger(float64(t), class)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return Integer{}, fmt.Errorf("value %v is not exactly representable as an integer", t)
		}
		return Integer{val: int64(t), class: class}, nil
	case Integer:
		return Integer{val: t.val, missing: t.missing, class: class}, nil
	default:
		return Integer{}, fmt.Errorf("cannot build an integer value from %T", raw)
	}
}

// Add returns a new Integer holding the sum of v and other, preserving
// v's class flag. other may be an Integer or a raw Go number.
func (v Integer) Add(other any) (Integer, error) {
	n, missing, err := integerOperand(other)
	if err != nil {
		return Integer{}, err
	}
	if v.missing || missing {
		return Integer{}, ErrMissingOperand
	}
	return Integer{val: v.val + n, class: v.class}, nil
}

// AddAssign accumulates other into v in place.
func (v *Integer) AddAssign(other any) error {
	sum, err := v.Add(other)
	if err != nil {
		return err
	}
	v.val = sum.val
	return nil
}

func integerOperand(other any) (int64, bool, error) {
	switch t := other.(type) {
	case Integer:
		return t.val, t.missing, nil
	case int:
		return int64(t), false, nil
	case int64:
		return t, false, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, false, fmt.Errorf("operand %v is not an integer", t)
		}
		return int64(t), false, nil
	default:
		return 0, false, fmt.Errorf("cannot add %T to an integer value", other)
	}
}

// Numeric is a floating value held as an exact decimal so that parsed
// text round-trips without binary-float drift.
type Numeric struct {
	val     decimal.Decimal
	missing bool
	class   bool
}

func (Numeric) arffValue() {}
func (Numeric) Kind() Kind { return KindNumeric }
func (v Numeric) Class() bool { return v.class }
func (v Numeric) IsMissing() bool { return v.missing }

func (v Numeric) Decimal() decimal.Decimal { return v.val }

func (v Numeric) Raw() any {
	if v.missing {
		return Missing
	}
	return v.val
}

// NewNumeric builds a Numeric from a raw scalar. Textual input must
// parse as a decimal number or be the missing marker.
func NewNumeric(raw any, class bool) (Numeric, error) {
	switch t := raw.(type) {
	case string:
		if t == Missing {
			return Numeric{missing: true, class: class}, nil
		}
		d, err := decimal.NewFromString(t)
		if err != nil {
			return Numeric{}, fmt.Errorf("numeric value %q: %w", t, err)
		}
		return Numeric{val: d, class: class}, nil
	case int:
		return Numeric{val: decimal.NewFromInt(int64(t)), class: class}, nil
	case int32:
		return Numeric{val: decimal.NewFromInt(int64(t)), class: class}, nil
	case int64:
		return Numeric{val: decimal.NewFromInt(t), class: class}, nil
	case float32:
		return NewNumeric(float64(t), class)
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return Numeric{}, fmt.Errorf("numeric value %v is not finite", t)
		}
		return Numeric{val: decimal.NewFromFloat(t), class: class}, nil
	case decimal.Decimal:
		return Numeric{val: t, class: class}, nil
	case Numeric:
		return Numeric{val: t.val, missing: t.missing, class: class}, nil
	case Integer:
		if t.missing {
			return Numeric{missing: true, class: class}, nil
		}
		return Numeric{val: decimal.NewFromInt(t.val), class: class}, nil
	default:
		return Numeric{}, fmt.Errorf("cannot build a numeric value from %T", raw)
	}
}

// Add returns a new Numeric holding the sum of v and other, preserving
// v's class flag. other may be a Numeric or a raw Go number.
func (v Numeric) Add(other any) (Numeric, error) {
	d, missing, err := numericOperand(other)
	if err != nil {
		return Numeric{}, err
	}
	if v.missing || missing {
		return Numeric{}, ErrMissingOperand
	}
	return Numeric{val: v.val.Add(d), class: v.class}, nil
}

// AddAssign accumulates other into v in place.
func (v *Numeric) AddAssign(other any) error {
	sum, err := v.Add(other)
	if err != nil {
		return err
	}
	v.val = sum.val
	return nil
}

// Div returns v divided by other, preserving v's class flag.
func (v Numeric) Div(other any) (Numeric, error) {
	d, missing, err := numericOperand(other)
	if err != nil {
		return Numeric{}, err
	}
	if v.missing || missing {
		return Numeric{}, ErrMissingOperand
	}
	if d.IsZero() {
		return Numeric{}, errors.New("division by zero")
	}
	return Numeric{val: v.val.Div(d), class: v.class}, nil
}

func numericOperand(other any) (decimal.Decimal, bool, error) {
	switch t := other.(type) {
	case Numeric:
		return t.val, t.missing, nil
	case decimal.Decimal:
		return t, false, nil
	case int:
		return decimal.NewFromInt(int64(t)), false, nil
	case int64:
		return decimal.NewFromInt(t), false, nil
	case float64:
		return decimal.NewFromFloat(t), false, nil
	default:
		return decimal.Decimal{}, false, fmt.Errorf("cannot combine %T with a numeric value", other)
	}
}

// String is free text. Construction coerces any payload to text and
// never fails.
type String struct {
	val   string
	class bool
}

func (String) arffValue() {}
func (String) Kind() Kind { return KindString }
func (v String) Class() bool { return v.class }
func (v String) IsMissing() bool { return v.val == Missing }
func (v String) Raw() any { return v.val }
func (v String) Text() string { return v.val }

// NewString builds a String value, coercing raw to text.
func NewString(raw any, class bool) String {
	if s, ok := raw.(String); ok {
		return String{val: s.val, class: class}
	}
	return String{val: coerceText(raw), class: class}
}

// Nominal is free text whose membership in the attribute's declared
// value set is validated by the consumer, not at construction.
type Nominal struct {
	val   string
	class bool
}

func (Nominal) arffValue() {}
func (Nominal) Kind() Kind { return KindNominal }
func (v Nominal) Class() bool { return v.class }
func (v Nominal) IsMissing() bool { return v.val == Missing }
func (v Nominal) Raw() any { return v.val }
func (v Nominal) Text() string { return v.val }

// NewNominal builds a Nominal value, coercing raw to text.
func NewNominal(raw any, class bool) Nominal {
	if n, ok := raw.(Nominal); ok {
		return Nominal{val: n.val, class: class}
	}
	return Nominal{val: coerceText(raw), class: class}
}

// Date is either an already-decoded calendar value or free text to be
// normalized by the writer when the row is serialized.
type Date struct {
	text    string
	t       time.Time
	decoded bool
	class   bool
}

func (Date) arffValue() {}
func (Date) Kind() Kind { return KindDate }
func (v Date) Class() bool { return v.class }

func (v Date) IsMissing() bool { return !v.decoded && v.text == Missing }

func (v Date) Raw() any {
	if v.decoded {
		return v.t
	}
	return v.text
}

// Time returns the decoded calendar value, if the payload has one.
func (v Date) Time() (time.Time, bool) { return v.t, v.decoded }

// Text returns the raw textual payload; empty when already decoded.
func (v Date) Text() string { return v.text }

// NewDate builds a Date from a time.Time or from free text left for
// the writer to normalize.
func NewDate(raw any, class bool) (Date, error) {
	switch t := raw.(type) {
	case time.Time:
		return Date{t: t, decoded: true, class: class}, nil
	case string:
		return Date{text: t, class: class}, nil
	case Date:
		return Date{text: t.text, t: t.t, decoded: t.decoded, class: class}, nil
	default:
		return Date{}, fmt.Errorf("cannot build a date value from %T", raw)
	}
}

func coerceText(raw any) string {
	switch t := raw.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(raw)
	}
}
