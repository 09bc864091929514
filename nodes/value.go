package nodes

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindTinyUnsigned
	KindSmallUnsigned
	KindUnsigned
	KindBigUnsigned
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindDateTime
	KindUUID
	KindArray
)

var valueKindNames = [...]string{
	KindNull:          "null",
	KindBool:          "bool",
	KindTinyInt:       "tinyint",
	KindSmallInt:      "smallint",
	KindInt:           "int",
	KindBigInt:        "bigint",
	KindTinyUnsigned:  "tinyunsigned",
	KindSmallUnsigned: "smallunsigned",
	KindUnsigned:      "unsigned",
	KindBigUnsigned:   "bigunsigned",
	KindFloat:         "float",
	KindDouble:        "double",
	KindString:        "string",
	KindBytes:         "bytes",
	KindDateTime:      "datetime",
	KindUUID:          "uuid",
	KindArray:         "array",
}

// String returns the lower-case name of the kind.
func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsInteger reports whether the kind is a signed or unsigned integer.
func (k ValueKind) IsInteger() bool {
	return k >= KindTinyInt && k <= KindBigUnsigned
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k ValueKind) IsUnsigned() bool {
	return k >= KindTinyUnsigned && k <= KindBigUnsigned
}

// Value is one literal operand. Its kind is fixed at construction and the
// payload is never mutated afterwards; the zero Value is NULL.
type Value struct {
	kind ValueKind
	i    int64
	u    uint64
	f    float64
	s    string
	b    []byte
	t    time.Time
	id   uuid.UUID
	elem ValueKind
	arr  []Value
}

// Values is an ordered sequence of collected values.
type Values []Value

// Null returns the NULL value.
func Null() Value { return Value{} }

// BoolValue wraps a bool.
func BoolValue(v bool) Value {
	if v {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

func TinyIntValue(v int8) Value   { return Value{kind: KindTinyInt, i: int64(v)} }
func SmallIntValue(v int16) Value { return Value{kind: KindSmallInt, i: int64(v)} }
func IntValue(v int32) Value      { return Value{kind: KindInt, i: int64(v)} }
func BigIntValue(v int64) Value   { return Value{kind: KindBigInt, i: v} }

func TinyUnsignedValue(v uint8) Value   { return Value{kind: KindTinyUnsigned, u: uint64(v)} }
func SmallUnsignedValue(v uint16) Value { return Value{kind: KindSmallUnsigned, u: uint64(v)} }
func UnsignedValue(v uint32) Value      { return Value{kind: KindUnsigned, u: uint64(v)} }
func BigUnsignedValue(v uint64) Value   { return Value{kind: KindBigUnsigned, u: v} }

func FloatValue(v float32) Value  { return Value{kind: KindFloat, f: float64(v)} }
func DoubleValue(v float64) Value { return Value{kind: KindDouble, f: v} }

// StringValue wraps a text value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// BytesValue wraps a binary value. The slice is copied.
func BytesValue(v []byte) Value {
	b := make([]byte, len(v))
	copy(b, v)
	return Value{kind: KindBytes, b: b}
}

// DateTimeValue wraps a point in time.
func DateTimeValue(v time.Time) Value { return Value{kind: KindDateTime, t: v} }

// UUIDValue wraps a UUID.
func UUIDValue(v uuid.UUID) Value { return Value{kind: KindUUID, id: v} }

// NewArray builds a homogeneous array of elem-kind values. Nested arrays and
// elements of another kind are rejected; NULL elements are allowed.
func NewArray(elem ValueKind, vals ...Value) (Value, error) {
	if elem == KindArray || elem == KindNull {
		return Value{}, fmt.Errorf("squill: invalid array element kind %s", elem)
	}
	arr := make([]Value, len(vals))
	for i, v := range vals {
		if v.kind != elem && v.kind != KindNull {
			return Value{}, fmt.Errorf("squill: array of %s cannot hold %s at index %d", elem, v.kind, i)
		}
		arr[i] = v
	}
	return Value{kind: KindArray, elem: elem, arr: arr}, nil
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the payload of a KindBool value.
func (v Value) Bool() bool { return v.i != 0 }

// Int returns the payload of a signed integer value.
func (v Value) Int() int64 { return v.i }

// Uint returns the payload of an unsigned integer value.
func (v Value) Uint() uint64 { return v.u }

// Float returns the payload of a KindFloat or KindDouble value.
func (v Value) Float() float64 { return v.f }

// Str returns the payload of a KindString value.
func (v Value) Str() string { return v.s }

// Bytes returns a copy of the payload of a KindBytes value.
func (v Value) Bytes() []byte {
	if v.b == nil {
		return nil
	}
	b := make([]byte, len(v.b))
	copy(b, v.b)
	return b
}

// Time returns the payload of a KindDateTime value.
func (v Value) Time() time.Time { return v.t }

// UUID returns the payload of a KindUUID value.
func (v Value) UUID() uuid.UUID { return v.id }

// ElemKind returns the element kind of an array value.
func (v Value) ElemKind() ValueKind { return v.elem }

// Elems returns a copy of the elements of an array value.
func (v Value) Elems() []Value {
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Len returns the number of elements of an array value.
func (v Value) Len() int { return len(v.arr) }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBytes:
		return string(v.b) == string(o.b)
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindArray:
		if v.elem != o.elem || len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	default:
		return v.i == o.i && v.u == o.u && v.f == o.f && v.s == o.s && v.id == o.id
	}
}

// Interface returns the native Go value handed to a database driver.
// Arrays become typed slices of their element's native type.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindTinyInt:
		return int8(v.i)
	case KindSmallInt:
		return int16(v.i)
	case KindInt:
		return int32(v.i)
	case KindBigInt:
		return v.i
	case KindTinyUnsigned:
		return uint8(v.u)
	case KindSmallUnsigned:
		return uint16(v.u)
	case KindUnsigned:
		return uint32(v.u)
	case KindBigUnsigned:
		return v.u
	case KindFloat:
		return float32(v.f)
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.Bytes()
	case KindDateTime:
		return v.t
	case KindUUID:
		return v.id
	case KindArray:
		return v.arrayInterface()
	}
	return nil
}

func (v Value) arrayInterface() any {
	var sample any
	switch v.elem {
	case KindBool:
		sample = false
	case KindTinyInt:
		sample = int8(0)
	case KindSmallInt:
		sample = int16(0)
	case KindInt:
		sample = int32(0)
	case KindBigInt:
		sample = int64(0)
	case KindTinyUnsigned:
		sample = uint8(0)
	case KindSmallUnsigned:
		sample = uint16(0)
	case KindUnsigned:
		sample = uint32(0)
	case KindBigUnsigned:
		sample = uint64(0)
	case KindFloat:
		sample = float32(0)
	case KindDouble:
		sample = float64(0)
	case KindString:
		sample = ""
	case KindBytes:
		sample = []byte(nil)
	case KindDateTime:
		sample = time.Time{}
	case KindUUID:
		sample = uuid.UUID{}
	default:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	}
	rv := reflect.MakeSlice(reflect.SliceOf(reflect.TypeOf(sample)), len(v.arr), len(v.arr))
	for i, e := range v.arr {
		if e.IsNull() {
			continue
		}
		rv.Index(i).Set(reflect.ValueOf(e.Interface()))
	}
	return rv.Interface()
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindString:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("0x%x", v.b)
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	case KindArray:
		s := v.elem.String() + "["
		for i, e := range v.arr {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Args adapts the sequence to the variadic argument list of database/sql.
func (vs Values) Args() []any {
	args := make([]any, len(vs))
	for i, v := range vs {
		args[i] = v.Interface()
	}
	return args
}

// ValueOf converts a native Go value into a Value. Every supported scalar
// type maps to exactly one kind; slices of scalars become arrays.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return BoolValue(v), nil
	case int8:
		return TinyIntValue(v), nil
	case int16:
		return SmallIntValue(v), nil
	case int32:
		return IntValue(v), nil
	case int:
		return BigIntValue(int64(v)), nil
	case int64:
		return BigIntValue(v), nil
	case uint8:
		return TinyUnsignedValue(v), nil
	case uint16:
		return SmallUnsignedValue(v), nil
	case uint32:
		return UnsignedValue(v), nil
	case uint:
		return BigUnsignedValue(uint64(v)), nil
	case uint64:
		return BigUnsignedValue(v), nil
	case float32:
		return FloatValue(v), nil
	case float64:
		return DoubleValue(v), nil
	case string:
		return StringValue(v), nil
	case []byte:
		return BytesValue(v), nil
	case time.Time:
		return DateTimeValue(v), nil
	case uuid.UUID:
		return UUIDValue(v), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return arrayOf(rv)
	}
	return Value{}, fmt.Errorf("squill: unsupported value type %T", x)
}

func arrayOf(rv reflect.Value) (Value, error) {
	elems := make([]Value, rv.Len())
	elem := KindNull
	for i := range elems {
		e, err := ValueOf(rv.Index(i).Interface())
		if err != nil {
			return Value{}, err
		}
		if e.kind == KindArray {
			return Value{}, fmt.Errorf("squill: nested arrays are not supported")
		}
		if elem == KindNull {
			elem = e.kind
		}
		elems[i] = e
	}
	if elem == KindNull {
		elem = elemKindOf(rv.Type().Elem())
	}
	return NewArray(elem, elems...)
}

// elemKindOf infers the element kind of an empty or all-NULL slice from its type.
func elemKindOf(t reflect.Type) ValueKind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeOf(time.Time{}):
		return KindDateTime
	case reflect.TypeOf(uuid.UUID{}):
		return KindUUID
	case reflect.TypeOf([]byte(nil)):
		return KindBytes
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int8:
		return KindTinyInt
	case reflect.Int16:
		return KindSmallInt
	case reflect.Int32:
		return KindInt
	case reflect.Int, reflect.Int64:
		return KindBigInt
	case reflect.Uint8:
		return KindTinyUnsigned
	case reflect.Uint16:
		return KindSmallUnsigned
	case reflect.Uint32:
		return KindUnsigned
	case reflect.Uint, reflect.Uint64:
		return KindBigUnsigned
	case reflect.Float32:
		return KindFloat
	case reflect.Float64:
		return KindDouble
	default:
		return KindString
	}
}

// V is like ValueOf but panics on unsupported types. It is the conversion
// used by the fluent builders.
func V(x any) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}
