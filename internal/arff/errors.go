package arff

import "fmt"

// ErrorCode categorizes fatal format and consistency errors.
type ErrorCode string

const (
	// ErrCodeMalformedSparse indicates a sparse row without a closing
	// brace or with an unparseable index/value pair.
	ErrCodeMalformedSparse ErrorCode = "MALFORMED_SPARSE_ROW"

	// ErrCodeUnsupportedType indicates an @attribute declaration with
	// an unknown kind token.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_ATTRIBUTE_TYPE"

	// ErrCodeNominalValue indicates a dense-row nominal value outside
	// the attribute's declared set.
	ErrCodeNominalValue ErrorCode = "NOMINAL_VALUE_OUT_OF_SET"

	// ErrCodeBadValue indicates text that does not parse as the
	// attribute's declared kind.
	ErrCodeBadValue ErrorCode = "INVALID_VALUE"

	// ErrCodeUnsupportedWrite indicates a kind the dense writer does
	// not support.
	ErrCodeUnsupportedWrite ErrorCode = "UNSUPPORTED_WRITE_KIND"

	// ErrCodeClassConflict indicates a row designating a different
	// class attribute than the one already fixed.
	ErrCodeClassConflict ErrorCode = "CLASS_ATTRIBUTE_CONFLICT"

	// ErrCodeFrozenSchema indicates an append that would grow a schema
	// already flushed to a stream.
	ErrCodeFrozenSchema ErrorCode = "FROZEN_SCHEMA"

	// ErrCodeTypeConflict indicates a named field whose value kind
	// disagrees with the attribute's declared kind.
	ErrCodeTypeConflict ErrorCode = "ATTRIBUTE_TYPE_CONFLICT"
)

// Error is a fatal format, validation, or consistency error. It
// carries structured context naming the offending line, attribute, or
// value where known.
type Error struct {
	Code      ErrorCode
	Message   string
	Line      int    // 1-based source line, 0 when not line-bound
	Attribute string // offending attribute name, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Line > 0 && e.Attribute != "":
		return fmt.Sprintf("%s: %s (line=%d, attribute=%s)", e.Code, e.Message, e.Line, e.Attribute)
	case e.Line > 0:
		return fmt.Sprintf("%s: %s (line=%d)", e.Code, e.Message, e.Line)
	case e.Attribute != "":
		return fmt.Sprintf("%s: %s (attribute=%s)", e.Code, e.Message, e.Attribute)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func errorf(code ErrorCode, line int, attr, format string, args ...any) *Error {
	return &Error{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Line:      line,
		Attribute: attr,
	}
}
