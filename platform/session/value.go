package session

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind is the runtime type of a Praat variable.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindNumericVector
	KindStringArray
)

// Suffix returns the name suffix Praat uses for variables of this kind.
func (k Kind) Suffix() string {
	switch k {
	case KindString:
		return "$"
	case KindNumericVector:
		return "#"
	case KindStringArray:
		return "$#"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindNumericVector:
		return "numeric vector"
	case KindStringArray:
		return "string array"
	default:
		return "none"
	}
}

// Value is the tagged union stored in a Scope. The zero Value has KindNone and
// is what commands without a result return.
type Value struct {
	kind Kind
	num  float64
	str  string
	nums []float64
	strs []string
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func NumericVector(v []float64) Value {
	return Value{kind: KindNumericVector, nums: slices.Clone(v)}
}

func StringArray(v []string) Value {
	return Value{kind: KindStringArray, strs: slices.Clone(v)}
}

// Bool returns 1 for true and 0 for false, Praat's boolean representation.
func Bool(b bool) Value {
	if b {
		return Number(1)
	}
	return Number(0)
}

// ErrUnsupportedType is returned by FromGo for Go values with no Praat
// counterpart.
var ErrUnsupportedType = errors.New("unsupported value type")

// FromGo converts a caller-supplied Go value: numbers and bools become
// numbers, strings become strings, float and string slices become vectors
// and arrays, and Handles become their object id.
func FromGo(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case Handle:
		return Number(float64(v.ID)), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case []float64:
		return NumericVector(v), nil
	case []string:
		return StringArray(v), nil
	case []int:
		nums := make([]float64, len(v))
		for i, n := range v {
			nums[i] = float64(n)
		}
		return NumericVector(nums), nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) Num() float64 { return v.num }

func (v Value) Str() string { return v.str }

func (v Value) Nums() []float64 { return slices.Clone(v.nums) }

func (v Value) Strs() []string { return slices.Clone(v.strs) }

// Interface converts the value to the caller-visible Go type: float64, string,
// []float64 or []string. KindNone converts to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindNumericVector:
		return v.Nums()
	case KindStringArray:
		return v.Strs()
	default:
		return nil
	}
}

// Text formats the value the way the info window shows it.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindString:
		return v.str
	case KindNumericVector:
		parts := make([]string, len(v.nums))
		for i, n := range v.nums {
			parts[i] = FormatNumber(n)
		}
		return strings.Join(parts, "\n")
	case KindStringArray:
		return strings.Join(v.strs, "\n")
	default:
		return ""
	}
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Text())
}

// Equal reports whether both values have the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindString:
		return v.str == o.str
	case KindNumericVector:
		return slices.Equal(v.nums, o.nums)
	case KindStringArray:
		return slices.Equal(v.strs, o.strs)
	default:
		return true
	}
}

// FormatNumber renders a number the way Praat prints it: shortest round-trip
// form, integers without a decimal point, and NaN as --undefined--.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "--undefined--"
	case math.IsInf(f, 1):
		return "--undefined--"
	case math.IsInf(f, -1):
		return "--undefined--"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFixed renders f with exactly decimals digits after the point.
func FormatFixed(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "--undefined--"
	}
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}
