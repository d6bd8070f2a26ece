package lilliput

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/lilliput/lilliput/internal/bitio"
)

// Decoder reads Values from an io.Reader in Lilliput's wire format. It
// wraps the source in a small buffered cursor so PeekType can look at
// the next header byte without consuming it, the same shape as the
// teacher's stream.Reader wrapping a bufio.Reader over an io.Reader.
//
// Like Encoder, a Decoder is single-threaded cooperative (spec.md §5):
// it holds no state across top-level DecodeValue calls beyond the
// buffered-but-unconsumed bytes bufio.Reader keeps internally.
type Decoder struct {
	r     *bufio.Reader
	cfg   DecoderConfig
	depth int
}

// NewDecoder returns a Decoder reading from r under cfg.
func NewDecoder(r io.Reader, cfg DecoderConfig) *Decoder {
	return &Decoder{r: bufio.NewReader(r), cfg: cfg}
}

func (d *Decoder) readByte(op string) (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, wrapErr(KindUnexpectedEnd, op, "source exhausted reading header byte", err)
		}
		return 0, wrapErr(KindIO, op, "", err)
	}
	return b, nil
}

func (d *Decoder) readExact(op string, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, wrapErr(KindUnexpectedEnd, op, "source exhausted mid-value", err)
		}
		return nil, wrapErr(KindIO, op, "", err)
	}
	return buf, nil
}

// PeekType reports the Type the next header byte declares, without
// consuming it.
func (d *Decoder) PeekType() (Type, error) {
	b, err := d.r.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, wrapErr(KindUnexpectedEnd, "PeekType", "source exhausted", err)
		}
		return 0, wrapErr(KindIO, "PeekType", "", err)
	}
	return classifyHeader(b[0]), nil
}

func (d *Decoder) readLength(op string, width int) (uint64, error) {
	buf, err := d.readExact(op, width)
	if err != nil {
		return 0, err
	}
	return bitio.Uint(buf), nil
}

func (d *Decoder) checkContainerLen(op string, n uint64) error {
	if n > d.cfg.MaxContainerLen {
		return newErr(KindContainerTooLarge, op, "declared length exceeds MaxContainerLen")
	}
	return nil
}

// DecodeSequenceHeader reads a Sequence header and returns its declared
// element count, without decoding the elements themselves — a caller
// that wants to stream a Sequence's contents rather than materialize
// them as a Value calls this, then DecodeValue exactly that many times.
func (d *Decoder) DecodeSequenceHeader() (uint64, error) {
	b, err := d.readByte("DecodeSequenceHeader")
	if err != nil {
		return 0, err
	}
	if classifyHeader(b) != TypeSequence {
		return 0, newErr(KindInvalidHeader, "DecodeSequenceHeader", "header byte is not a Sequence")
	}
	return d.decodeLenFromSequenceHeader(b)
}

func (d *Decoder) decodeLenFromSequenceHeader(b byte) (uint64, error) {
	var n uint64
	if isSequenceCompact(b) {
		n = uint64(sequenceCompactCount(b))
	} else {
		w := sequenceExtendedWidth(b)
		v, err := d.readLength("DecodeSequenceHeader", w)
		if err != nil {
			return 0, err
		}
		n = v
	}
	if err := d.checkContainerLen("DecodeSequenceHeader", n); err != nil {
		return 0, err
	}
	return n, nil
}

// DecodeMapHeader reads a Map header and returns its declared pair
// count, without decoding the pairs themselves.
func (d *Decoder) DecodeMapHeader() (uint64, error) {
	b, err := d.readByte("DecodeMapHeader")
	if err != nil {
		return 0, err
	}
	if classifyHeader(b) != TypeMap {
		return 0, newErr(KindInvalidHeader, "DecodeMapHeader", "header byte is not a Map")
	}
	return d.decodeLenFromMapHeader(b)
}

func (d *Decoder) decodeLenFromMapHeader(b byte) (uint64, error) {
	var n uint64
	if !isMapExtended(b) {
		n = uint64(mapCompactCount(b))
	} else {
		w := mapExtendedWidth(b)
		v, err := d.readLength("DecodeMapHeader", w)
		if err != nil {
			return 0, err
		}
		n = v
	}
	if err := d.checkContainerLen("DecodeMapHeader", n); err != nil {
		return 0, err
	}
	return n, nil
}

// DecodeValue reads one complete Value, recursing into Sequence and
// Map contents. Recursion depth is bounded by the Decoder's configured
// MaxDepth (spec.md §9's guard against hostile deeply-nested input).
func (d *Decoder) DecodeValue() (Value, error) {
	b, err := d.readByte("DecodeValue")
	if err != nil {
		return Value{}, err
	}
	typ := classifyHeader(b)

	switch typ {
	case TypeNull:
		return Null(), nil
	case TypeUnit:
		return Unit(), nil
	case TypeBool:
		return Bool(boolValue(b)), nil

	case TypeInteger:
		signed := isIntegerSigned(b)
		var raw uint64
		if isIntegerCompact(b) {
			raw = integerCompactValue(b)
		} else {
			if d.cfg.StrictReservedBits && hasReservedBitsSet(b) {
				return Value{}, newErr(KindInvalidHeader, "DecodeValue", "Integer-extended header has nonzero reserved bits")
			}
			w := integerExtendedWidth(b)
			buf, err := d.readExact("DecodeValue", w)
			if err != nil {
				return Value{}, err
			}
			raw = bitio.Uint(buf)
		}
		if signed {
			return Int(zigzagDecode(raw)), nil
		}
		return Uint(raw), nil

	case TypeFloat:
		w := floatWidth(b)
		buf, err := d.readExact("DecodeValue", w)
		if err != nil {
			return Value{}, err
		}
		f, err := unpackFloat(buf, w)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil

	case TypeString:
		var n uint64
		if !isStringExtended(b) {
			n = uint64(stringCompactLength(b))
		} else {
			if d.cfg.StrictReservedBits && hasReservedBitsSet(b) {
				return Value{}, newErr(KindInvalidHeader, "DecodeValue", "String-extended header has nonzero reserved bits")
			}
			w := stringExtendedWidth(b)
			v, err := d.readLength("DecodeValue", w)
			if err != nil {
				return Value{}, err
			}
			n = v
		}
		if err := d.checkContainerLen("DecodeValue", n); err != nil {
			return Value{}, err
		}
		buf, err := d.readExact("DecodeValue", int(n))
		if err != nil {
			return Value{}, err
		}
		if d.cfg.ValidateUTF8OnDecode && !utf8.Valid(buf) {
			return Value{}, newErr(KindInvalidUTF8, "DecodeValue", "String payload is not valid UTF-8")
		}
		return String(string(buf)), nil

	case TypeBytes:
		lw := bytesLenWidth(b)
		lbuf, err := d.readExact("DecodeValue", lw)
		if err != nil {
			return Value{}, err
		}
		exp := bitio.Uint(lbuf)
		if exp >= 64 {
			return Value{}, newErr(KindInvalidBytesLength, "DecodeValue", "length exponent overflows 64 bits")
		}
		n := uint64(1) << exp
		if err := d.checkContainerLen("DecodeValue", n); err != nil {
			return Value{}, err
		}
		buf, err := d.readExact("DecodeValue", int(n))
		if err != nil {
			return Value{}, err
		}
		return Bytes(buf), nil

	case TypeSequence:
		n, err := d.decodeLenFromSequenceHeader(b)
		if err != nil {
			return Value{}, err
		}
		return d.decodeSequenceBody(n)

	case TypeMap:
		n, err := d.decodeLenFromMapHeader(b)
		if err != nil {
			return Value{}, err
		}
		return d.decodeMapBody(n)

	default:
		return Value{}, newErr(KindInvalidHeader, "DecodeValue", "unrecognized header byte")
	}
}

func (d *Decoder) enterContainer(op string) error {
	if d.depth >= d.cfg.MaxDepth {
		return newErr(KindDepthExceeded, op, "max depth exceeded")
	}
	d.depth++
	return nil
}

func (d *Decoder) leaveContainer() { d.depth-- }

func (d *Decoder) decodeSequenceBody(n uint64) (Value, error) {
	if err := d.enterContainer("DecodeValue"); err != nil {
		return Value{}, err
	}
	defer d.leaveContainer()

	elems := make([]Value, 0, initialCapFor(n))
	for i := uint64(0); i < n; i++ {
		v, err := d.DecodeValue()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Sequence(elems), nil
}

func (d *Decoder) decodeMapBody(n uint64) (Value, error) {
	if err := d.enterContainer("DecodeValue"); err != nil {
		return Value{}, err
	}
	defer d.leaveContainer()

	pairs := make([]Pair, 0, initialCapFor(n))
	for i := uint64(0); i < n; i++ {
		k, err := d.DecodeValue()
		if err != nil {
			return Value{}, err
		}
		v, err := d.DecodeValue()
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Key: k, Val: v})
	}
	return Map(pairs), nil
}

// initialCapFor caps the slice preallocation for a declared container
// length so a hostile small-input-but-huge-declared-length document
// can't force a multi-gigabyte allocation before a single element has
// actually been read; the slice still grows normally via append if the
// stream genuinely contains that many elements.
func initialCapFor(n uint64) int {
	const maxPrealloc = 1024
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}
