package bytecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindInt
	KindFloat
)

// ErrTypeMismatch is returned when a value is read as the wrong primitive kind.
var ErrTypeMismatch = errors.New("type mismatch")

// String returns the name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

// Value is a primitive runtime quantity held on operand stacks and in memory cells.
// The zero Value is KindInvalid and stands for an unwritten memory cell.
type Value struct {
	Kind ValueKind `cbor:"1,keyasint"`
	I64  int64     `cbor:"2,keyasint,omitempty"`
	F64  float64   `cbor:"3,keyasint"`
}

// Int creates an integer Value.
func Int(i int64) Value {
	return Value{Kind: KindInt, I64: i}
}

// Float creates a floating-point Value.
func Float(f float64) Value {
	return Value{Kind: KindFloat, F64: f}
}

// AsInt returns the integer payload, or ErrTypeMismatch for any other kind.
func (v Value) AsInt() (int64, error) {
	if v.Kind != KindInt {
		return 0, fmt.Errorf("%w: expected int, found %s", ErrTypeMismatch, v.Kind)
	}

	return v.I64, nil
}

// AsFloat returns the float payload, or ErrTypeMismatch for any other kind.
func (v Value) AsFloat() (float64, error) {
	if v.Kind != KindFloat {
		return 0, fmt.Errorf("%w: expected float, found %s", ErrTypeMismatch, v.Kind)
	}

	return v.F64, nil
}

// IsValid reports whether the value has been written.
func (v Value) IsValid() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// String renders the value the way print emits it. Integral floats keep a
// trailing ".0" so they stay distinguishable from integers.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return formatFloat(v.F64)
	default:
		return "<nil>"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}
