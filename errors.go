package lilliput

import "fmt"

// Kind classifies the category of failure an *Error represents,
// matching spec.md §7's error taxonomy. It is the machine-readable
// discriminant callers switch on; Error itself carries the
// human-readable detail and, where relevant, a wrapped cause — the
// same split the teacher's ValidationError (Code/Message) and
// stream.ParseError (Reason, a wrapped cause via errors.Is) use.
type Kind uint8

const (
	// KindIO wraps a failure from the underlying io.Writer/io.Reader.
	KindIO Kind = iota
	// KindInvalidHeader means a header byte matched none of the
	// grammar's reserved patterns, or used a reserved bit combination
	// the current decoder configuration rejects.
	KindInvalidHeader
	// KindUnexpectedEnd means the byte source ended before a value's
	// declared length was satisfied.
	KindUnexpectedEnd
	// KindIntegerOverflow means a decoded integer does not fit the
	// requested target width (e.g. a length or count too large for a
	// 64-bit container size).
	KindIntegerOverflow
	// KindDepthExceeded means nested container recursion exceeded the
	// decoder's configured MaxDepth.
	KindDepthExceeded
	// KindInvalidUTF8 means a String payload failed UTF-8 validation
	// under the active validation policy.
	KindInvalidUTF8
	// KindInvalidFloat means a float width byte named an unsupported
	// width, or a float value could not be packed/unpacked.
	KindInvalidFloat
	// KindInvalidBytesLength means a Bytes value's length was not
	// encodable as a power of two, or the decoded length exponent
	// overflowed.
	KindInvalidBytesLength
	// KindContainerTooLarge means a Sequence/Map element count, or a
	// String/Bytes byte length, exceeded the decoder's configured
	// MaxContainerLen.
	KindContainerTooLarge
	// KindInvalidState means an Encoder/Decoder method was called in a
	// sequence the streaming contract forbids (e.g. EndSequence with no
	// matching BeginSequence).
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidHeader:
		return "invalid_header"
	case KindUnexpectedEnd:
		return "unexpected_end"
	case KindIntegerOverflow:
		return "integer_overflow"
	case KindDepthExceeded:
		return "depth_exceeded"
	case KindInvalidUTF8:
		return "invalid_utf8"
	case KindInvalidFloat:
		return "invalid_float"
	case KindInvalidBytesLength:
		return "invalid_bytes_length"
	case KindContainerTooLarge:
		return "container_too_large"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "unknown"
	}
}

// Error is the single error type the Encoder and Decoder produce. Op
// names the operation that failed (e.g. "DecodeValue", "EncodeBytes")
// and Err, when non-nil, is the underlying io error. An error from a
// nested container element is returned as that element's own *Error,
// not wrapped in another one.
//
// This mirrors the teacher's ValidationError/stream.ParseError shape:
// one struct with a classification field plus a message, rather than a
// set of exported sentinel error vars — a caller who needs to
// distinguish failure categories switches on Kind, the same way glyph
// callers switch on ValidationError.Code.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("lilliput: %s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
		}
		return fmt.Sprintf("lilliput: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("lilliput: %s: %s: %s", e.Op, e.Kind, e.Msg)
	}
	return fmt.Sprintf("lilliput: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func wrapErr(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}
