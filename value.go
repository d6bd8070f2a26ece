package lilliput

import "math"

// Type identifies the kind of value a Value holds. It is the in-memory
// tagged-union discriminant, and header.go's classifyHeader also
// reports a header byte's class as a Type. One Type can map to several
// header variants (String has a compact and an extended form), and
// signed and unsigned Integers share TypeInteger, told apart on the
// wire by the header's sign bit.
type Type uint8

const (
	TypeNull Type = iota
	TypeUnit
	TypeBool
	TypeInteger
	TypeFloat
	TypeString
	TypeBytes
	TypeSequence
	TypeMap
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeUnit:
		return "unit"
	case TypeBool:
		return "bool"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeSequence:
		return "sequence"
	case TypeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Pair is one key-value entry of a Map value. Lilliput maps are ordered
// pair lists: no key uniqueness is enforced by the Value Model, per
// spec.md §3 — callers needing uniqueness enforce it themselves.
type Pair struct {
	Key Value
	Val Value
}

// Value is an immutable tagged union over every Lilliput wire type.
// The zero Value is Null. Values are built with the constructors below
// and compared with Equal, never with ==: Sequence and Map values
// contain slices, which are not comparable with Go's built-in
// equality, and even for scalar types == would not enforce the
// Null-vs-Unit and signed-vs-unsigned-zero distinctions the format
// requires (spec.md §3).
type Value struct {
	typ      Type
	boolVal  bool
	intVal   uint64
	signed   bool
	floatVal float64
	strVal   string
	bytesVal []byte
	seqVal   []Value
	mapVal   []Pair
}

// Null returns the Null value. It is distinct from Unit: Equal treats
// Null and Unit as unequal even though both carry no payload.
func Null() Value { return Value{typ: TypeNull} }

// Unit returns the Unit value, the format's "present but valueless"
// marker (spec.md §3) — distinct from Null.
func Unit() Value { return Value{typ: TypeUnit} }

// Bool returns a Bool value wrapping b.
func Bool(b bool) Value { return Value{typ: TypeBool, boolVal: b} }

// Int returns a signed Integer value. Integer(0) built with Int is not
// Equal to Integer(0) built with Uint: signedness is part of identity
// (spec.md §3).
func Int(v int64) Value { return Value{typ: TypeInteger, intVal: uint64(v), signed: true} }

// Uint returns an unsigned Integer value.
func Uint(v uint64) Value { return Value{typ: TypeInteger, intVal: v, signed: false} }

// Float returns a Float value. Lilliput floats are held as a 64-bit
// double in memory regardless of the width they are eventually encoded
// at; the encoded width is a wire-format concern, not a Value Model one
// (spec.md §4.3).
func Float(f float64) Value { return Value{typ: TypeFloat, floatVal: f} }

// String returns a String value.
func String(s string) Value { return Value{typ: TypeString, strVal: s} }

// Bytes returns a Bytes value. The encoder enforces the power-of-two
// length constraint (spec.md §9) at encode time, not construction
// time, so arbitrary-length byte slices can still be built and
// inspected as Values.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{typ: TypeBytes, bytesVal: cp}
}

// Sequence returns a Sequence value wrapping elems. The slice is
// copied so later mutation of the caller's slice cannot change an
// already-constructed Value.
func Sequence(elems []Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{typ: TypeSequence, seqVal: cp}
}

// Map returns a Map value wrapping an ordered list of pairs. No
// uniqueness check is performed: duplicate keys are preserved in
// order, matching spec.md §3's explicit silence on map key uniqueness.
func Map(pairs []Pair) Value {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return Value{typ: TypeMap, mapVal: cp}
}

// Type reports which kind of value this is.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// IsUnit reports whether v is Unit.
func (v Value) IsUnit() bool { return v.typ == TypeUnit }

// AsBool returns the bool payload and whether v is actually a Bool.
func (v Value) AsBool() (bool, bool) { return v.boolVal, v.typ == TypeBool }

// AsInt returns the signed interpretation of an Integer value and
// whether v is an Integer stored with signed identity.
func (v Value) AsInt() (int64, bool) {
	if v.typ != TypeInteger || !v.signed {
		return 0, false
	}
	return int64(v.intVal), true
}

// AsUint returns the unsigned interpretation of an Integer value and
// whether v is an Integer stored with unsigned identity.
func (v Value) AsUint() (uint64, bool) {
	if v.typ != TypeInteger || v.signed {
		return 0, false
	}
	return v.intVal, true
}

// IsSignedInteger reports whether v is an Integer built with Int
// rather than Uint.
func (v Value) IsSignedInteger() bool { return v.typ == TypeInteger && v.signed }

// AsFloat returns the float payload and whether v is a Float.
func (v Value) AsFloat() (float64, bool) { return v.floatVal, v.typ == TypeFloat }

// AsString returns the string payload and whether v is a String.
func (v Value) AsString() (string, bool) { return v.strVal, v.typ == TypeString }

// AsBytes returns the byte payload and whether v is Bytes. The
// returned slice is a copy; callers may not mutate v through it.
func (v Value) AsBytes() ([]byte, bool) {
	if v.typ != TypeBytes {
		return nil, false
	}
	cp := make([]byte, len(v.bytesVal))
	copy(cp, v.bytesVal)
	return cp, true
}

// AsSequence returns the element slice and whether v is a Sequence.
// The returned slice is a copy.
func (v Value) AsSequence() ([]Value, bool) {
	if v.typ != TypeSequence {
		return nil, false
	}
	cp := make([]Value, len(v.seqVal))
	copy(cp, v.seqVal)
	return cp, true
}

// AsMap returns the pair slice and whether v is a Map. The returned
// slice is a copy.
func (v Value) AsMap() ([]Pair, bool) {
	if v.typ != TypeMap {
		return nil, false
	}
	cp := make([]Pair, len(v.mapVal))
	copy(cp, v.mapVal)
	return cp, true
}

// Equal reports whether v and other are structurally identical,
// honoring the Value Model's identity invariants: Null is never Equal
// to Unit, and a signed Integer is never Equal to an unsigned Integer
// even when both hold zero (spec.md §3).
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNull, TypeUnit:
		return true
	case TypeBool:
		return v.boolVal == other.boolVal
	case TypeInteger:
		return v.signed == other.signed && v.intVal == other.intVal
	case TypeFloat:
		return floatBitsEqual(v.floatVal, other.floatVal)
	case TypeString:
		return v.strVal == other.strVal
	case TypeBytes:
		return bytesEqual(v.bytesVal, other.bytesVal)
	case TypeSequence:
		if len(v.seqVal) != len(other.seqVal) {
			return false
		}
		for i := range v.seqVal {
			if !v.seqVal[i].Equal(other.seqVal[i]) {
				return false
			}
		}
		return true
	case TypeMap:
		if len(v.mapVal) != len(other.mapVal) {
			return false
		}
		for i := range v.mapVal {
			if !v.mapVal[i].Key.Equal(other.mapVal[i].Key) || !v.mapVal[i].Val.Equal(other.mapVal[i].Val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// floatBitsEqual compares by bit pattern rather than by ==, so that
// NaN is Equal to NaN (consistent with the format treating a decoded
// NaN payload as a concrete, comparable wire value) and -0 is not
// Equal to +0 (a real bit-level distinction the format preserves).
func floatBitsEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
