package schema

import (
	"fmt"
	"math"
	"strconv"

	"github.com/quickwritereader/flatpack/types"
	"golang.org/x/exp/constraints"
)

// numberText is satisfied by the decoder's json.Number.
type numberText interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// Coerce converts v to the Go type that stores kind: bool, int8 ... float64 or
// string. Numbers are converted across widths only when the value fits.
func Coerce(kind types.Kind, v any) (any, error) {
	switch kind {
	case types.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("%w: %T is not bool", ErrKindMismatch, v)
	case types.KindInt8:
		return fitSigned[int8](kind, v)
	case types.KindInt16:
		return fitSigned[int16](kind, v)
	case types.KindInt32:
		return fitSigned[int32](kind, v)
	case types.KindInt64:
		return fitSigned[int64](kind, v)
	case types.KindUint8:
		return fitUnsigned[uint8](kind, v)
	case types.KindUint16:
		return fitUnsigned[uint16](kind, v)
	case types.KindUint32:
		return fitUnsigned[uint32](kind, v)
	case types.KindUint64:
		return fitUnsigned[uint64](kind, v)
	case types.KindFloat32:
		f, err := asFloat(v)
		if err != nil {
			return nil, err
		}
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, RangeError{Kind: kind.String(), Actual: v}
		}
		return float32(f), nil
	case types.KindFloat64:
		return asFloat(v)
	case types.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: %T is not string", ErrKindMismatch, v)
	}
	return nil, fmt.Errorf("%w: %s has no scalar representation", ErrKindMismatch, kind)
}

// zeroOf is the implicit default of a scalar kind.
func zeroOf(kind types.Kind) any {
	switch kind {
	case types.KindBool:
		return false
	case types.KindString:
		return ""
	}
	v, _ := Coerce(kind, int64(0))
	return v
}

func fitSigned[T constraints.Signed](kind types.Kind, v any) (any, error) {
	n, err := asInt(v)
	if err != nil {
		return nil, err
	}
	if int64(T(n)) != n {
		return nil, RangeError{Kind: kind.String(), Actual: v}
	}
	return T(n), nil
}

func fitUnsigned[T constraints.Unsigned](kind types.Kind, v any) (any, error) {
	n, err := asUint(v)
	if err != nil {
		return nil, err
	}
	if uint64(T(n)) != n {
		return nil, RangeError{Kind: kind.String(), Actual: v}
	}
	return T(n), nil
}

func asInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, RangeError{Kind: "int64", Actual: v}
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, RangeError{Kind: "int64", Actual: v}
		}
		return int64(x), nil
	case float32:
		return integral(float64(x), v)
	case float64:
		return integral(x, v)
	case numberText:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrKindMismatch, x.String())
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(x, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrKindMismatch, x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %T is not an integer", ErrKindMismatch, v)
}

func asUint(v any) (uint64, error) {
	switch x := v.(type) {
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	case numberText:
		n, err := strconv.ParseUint(x.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrKindMismatch, x.String())
		}
		return n, nil
	case string:
		n, err := strconv.ParseUint(x, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrKindMismatch, x)
		}
		return n, nil
	}
	n, err := asInt(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, RangeError{Kind: "unsigned", Actual: v}
	}
	return uint64(n), nil
}

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case numberText:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrKindMismatch, x.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrKindMismatch, x)
		}
		return f, nil
	}
	n, err := asInt(v)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

func integral(f float64, orig any) (int64, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrKindMismatch, orig)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, RangeError{Kind: "int64", Actual: orig}
	}
	return int64(f), nil
}
