package schema

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrUnknown        ErrorCode = iota
	ErrInvalidFormat            // descriptor document could not be decoded
	ErrInvalidKind              // field kind missing or not allowed where it is used
	ErrDuplicate                // two definitions or fields share a name or index
	ErrUnresolvedRef            // a table or struct reference names nothing registered
	ErrDefaultValue             // default does not fit the field kind
	ErrValueType                // record value does not fit the field kind
	ErrLookup                   // lookup of an unregistered table or unknown field
	ErrEncode                   // record could not be packed
)

// String implements fmt.Stringer
func (e ErrorCode) String() string {
	switch e {
	case ErrUnknown:
		return "ErrUnknown"
	case ErrInvalidFormat:
		return "ErrInvalidFormat"
	case ErrInvalidKind:
		return "ErrInvalidKind"
	case ErrDuplicate:
		return "ErrDuplicate"
	case ErrUnresolvedRef:
		return "ErrUnresolvedRef"
	case ErrDefaultValue:
		return "ErrDefaultValue"
	case ErrValueType:
		return "ErrValueType"
	case ErrLookup:
		return "ErrLookup"
	case ErrEncode:
		return "ErrEncode"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(e))
	}
}

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrUnknownField = errors.New("unknown field")
	ErrKindMismatch = errors.New("kind mismatch")
)

type SchemaError struct {
	Code     ErrorCode
	Table    string
	Field    string
	InnerErr error
}

func (v *SchemaError) Error() string {
	if v.InnerErr != nil {
		return fmt.Sprintf("%s %s:%s { %s }", v.Table, v.Code, v.Field, v.InnerErr)
	}
	return fmt.Sprintf("%s %s:%s", v.Table, v.Code, v.Field)
}

func (v *SchemaError) Unwrap() error {
	return v.InnerErr
}

func NewSchemaError(code ErrorCode, table, field string, inner error) *SchemaError {
	return &SchemaError{Code: code, Table: table, Field: field, InnerErr: inner}
}

// RangeError reports a value that does not fit the width of its field.
type RangeError struct {
	Kind   string
	Actual any
}

func (r RangeError) Error() string {
	return fmt.Sprintf("%v overflows %s", r.Actual, r.Kind)
}
