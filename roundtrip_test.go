package lilliput

import (
	"bytes"
	"math"
	"testing"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	var buf bytes.Buffer
	e := NewEncoder(&buf, DefaultEncoderConfig())
	if err := e.EncodeValue(v); err != nil {
		t.Fatalf("EncodeValue(%v): %v", v, err)
	}
	d := NewDecoder(&buf, DefaultDecoderConfig())
	got, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	return got
}

// TestUniversalRoundTrip exercises every Value variant and a spread of
// boundary sizes, per spec.md §8's "universal round trip" property:
// decode(encode(v)) == v under structural equality.
func TestUniversalRoundTrip(t *testing.T) {
	values := []Value{
		Null(),
		Unit(),
		Bool(true),
		Bool(false),
		Int(0),
		Int(-1),
		Int(math.MinInt64),
		Int(math.MaxInt64),
		Uint(0),
		Uint(math.MaxUint64),
		Float(0),
		Float(math.Copysign(0, -1)),
		Float(math.Pi),
		Float(math.Inf(1)),
		Float(math.Inf(-1)),
		String(""),
		String("hi"),
		String(string(make([]byte, 64))), // forces extended string form
		Bytes([]byte{1, 2, 3, 4}),
		Bytes(make([]byte, 1)),
		Bytes(make([]byte, 1024)),
		Sequence(nil),
		Sequence([]Value{Int(1), String("x"), Bool(true)}),
		Map(nil),
		Map([]Pair{{String("a"), Uint(1)}, {String("b"), Uint(2)}}),
	}
	for i, v := range values {
		got := roundTrip(t, v)
		if !got.Equal(v) {
			t.Errorf("case %d: round trip %v -> %v", i, v, got)
		}
	}
}

// TestVariantIndependenceInteger checks that compact and extended forms
// of the same integer decode to the same Value (spec.md §8).
func TestVariantIndependenceInteger(t *testing.T) {
	for i := int64(-16); i <= 15; i++ {
		compact := roundTrip(t, Int(i))
		if !compact.Equal(Int(i)) {
			t.Errorf("compact signed %d: got %v", i, compact)
		}
	}
	for i := uint64(0); i <= 31; i++ {
		compact := roundTrip(t, Uint(i))
		if !compact.Equal(Uint(i)) {
			t.Errorf("compact unsigned %d: got %v", i, compact)
		}
	}

	cfgNoCompact := DefaultEncoderConfig()
	cfgNoCompact.PreferCompact = false
	for _, i := range []int64{0, 1, -1, 15, -16} {
		var buf bytes.Buffer
		e := NewEncoder(&buf, cfgNoCompact)
		if err := e.EncodeIntSigned(i); err != nil {
			t.Fatal(err)
		}
		d := NewDecoder(&buf, DefaultDecoderConfig())
		got, err := d.DecodeValue()
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(Int(i)) {
			t.Errorf("extended-forced signed %d: got %v", i, got)
		}
	}
}

func TestVariantIndependenceStringSequenceMap(t *testing.T) {
	for n := 0; n <= 31; n++ {
		s := string(make([]byte, n))
		if got := roundTrip(t, String(s)); !got.Equal(String(s)) {
			t.Errorf("string length %d round trip failed", n)
		}
	}
	for n := 0; n <= 15; n++ {
		elems := make([]Value, n)
		for i := range elems {
			elems[i] = Uint(uint64(i))
		}
		v := Sequence(elems)
		if got := roundTrip(t, v); !got.Equal(v) {
			t.Errorf("sequence length %d round trip failed", n)
		}
	}
	for n := 0; n <= 7; n++ {
		pairs := make([]Pair, n)
		for i := range pairs {
			pairs[i] = Pair{Uint(uint64(i)), Uint(uint64(i))}
		}
		v := Map(pairs)
		if got := roundTrip(t, v); !got.Equal(v) {
			t.Errorf("map length %d round trip failed", n)
		}
	}
}

// TestFloatWidthLadder checks every width 1-8 round-trips special
// values correctly through the Encoder/Decoder (spec.md §8's float
// width ladder property, exercised via EncodeFloatWidth rather than
// the width-search policy so every width is actually hit).
func TestFloatWidthLadder(t *testing.T) {
	specials := []float64{0, math.Copysign(0, -1), math.Inf(1), math.Inf(-1)}
	for width := 1; width <= 8; width++ {
		for _, f := range specials {
			var buf bytes.Buffer
			e := NewEncoder(&buf, DefaultEncoderConfig())
			if err := e.EncodeFloatWidth(f, width); err != nil {
				t.Fatalf("width %d: EncodeFloatWidth(%v): %v", width, f, err)
			}
			d := NewDecoder(&buf, DefaultDecoderConfig())
			got, err := d.DecodeValue()
			if err != nil {
				t.Fatalf("width %d: DecodeValue: %v", width, err)
			}
			gf, _ := got.AsFloat()
			switch {
			case math.IsInf(f, 1):
				if !math.IsInf(gf, 1) {
					t.Errorf("width %d: want +Inf, got %v", width, gf)
				}
			case math.IsInf(f, -1):
				if !math.IsInf(gf, -1) {
					t.Errorf("width %d: want -Inf, got %v", width, gf)
				}
			default:
				if gf != 0 || math.Signbit(gf) != math.Signbit(f) {
					t.Errorf("width %d: want signed zero %v, got %v", width, f, gf)
				}
			}
		}

		var nbuf bytes.Buffer
		e := NewEncoder(&nbuf, DefaultEncoderConfig())
		if err := e.EncodeFloatWidth(math.NaN(), width); err != nil {
			t.Fatalf("width %d: EncodeFloatWidth(NaN): %v", width, err)
		}
		d := NewDecoder(&nbuf, DefaultDecoderConfig())
		got, err := d.DecodeValue()
		if err != nil {
			t.Fatalf("width %d: DecodeValue(NaN): %v", width, err)
		}
		gf, _ := got.AsFloat()
		if !math.IsNaN(gf) {
			t.Errorf("width %d: want NaN, got %v", width, gf)
		}
	}
}

// TestNullNotEqualUnitOverTheWire confirms the Null/Unit distinction
// survives a full encode/decode round trip, not just Value.Equal in
// memory.
func TestNullNotEqualUnitOverTheWire(t *testing.T) {
	n := roundTrip(t, Null())
	u := roundTrip(t, Unit())
	if n.Equal(u) {
		t.Error("decoded Null must not equal decoded Unit")
	}
}

// TestSignedUnsignedZeroOverTheWire confirms signedness of a zero
// Integer survives the wire in its compact encoding.
func TestSignedUnsignedZeroOverTheWire(t *testing.T) {
	signed := roundTrip(t, Int(0))
	unsigned := roundTrip(t, Uint(0))
	if signed.Equal(unsigned) {
		t.Error("decoded signed Integer(0) must not equal decoded unsigned Integer(0)")
	}
	if !signed.IsSignedInteger() {
		t.Error("decoded value should report signed")
	}
}

func TestNestedContainerRoundTrip(t *testing.T) {
	v := Sequence([]Value{
		Map([]Pair{
			{String("nested"), Sequence([]Value{Int(1), Int(2), Int(3)})},
			{String("flag"), Bool(true)},
		}),
		Bytes([]byte{0xAA, 0xBB}),
		Null(),
	})
	got := roundTrip(t, v)
	if !got.Equal(v) {
		t.Errorf("nested round trip mismatch: got %v, want %v", got, v)
	}
}
