// Package omcierrors defines the error taxonomy used when decoding and
// dispatching OMCI messages (see G.988 framing and spec section 7).
//
// Database-level failures are never surfaced through these errors; they
// are reported as reason codes inside an ordinary response message. These
// types are for framing and dispatch failures that happen before or
// around a database call.
package omcierrors

import "fmt"

// Reason is an OMCI response reason/result code (G.988 Table 11.2.1.1).
type Reason byte

const (
	ReasonSuccess             Reason = 0b0000
	ReasonProcessingError     Reason = 0b0001
	ReasonParameterError      Reason = 0b0011
	ReasonUnknownClass        Reason = 0b0100
	ReasonUnknownInstance     Reason = 0b0101
	ReasonInstanceExists      Reason = 0b0111
	ReasonAttributeFailure    Reason = 0b1001
)

// FramingError reports a malformed OMCI header: wrong device id, a
// reserved bit set in the type byte, a bad CPCS-SDU trailer, or a
// length mismatch between the buffer and the decoded fields.
type FramingError struct {
	Detail string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("omci framing error: %s", e.Detail)
}

// DispatchError reports an (type_ar, type_ak, type_mt) key that has no
// registered message class. The caller logs and discards; no response
// is sent.
type DispatchError struct {
	TypeAR, TypeAK bool
	TypeMT         byte
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("omci dispatch error: no class registered for "+
		"(ar=%v, ak=%v, mt=%d)", e.TypeAR, e.TypeAK, e.TypeMT)
}

// DecodeError reports a failure inside a Datum decode, e.g. an Enum or
// Bits raw value with no matching label.
type DecodeError struct {
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("omci decode error: %s", e.Detail)
}

// FatalError reports a condition that should terminate the process:
// schema registration assertion failures, a duplicate instance in a
// MIB instance spec, or a UDP bind failure.
type FatalError struct {
	Detail string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("omci fatal error: %s", e.Detail)
}
