// Package message implements the OMCI message plane (C3): baseline and
// extended framing, the type-byte dispatch, and per-action-type payload
// codecs, following ITU-T G.988 and the BBF TR-451 UDP transport.
package message

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
)

const (
	devIDBaseline = 0x0a
	devIDExtended = 0x0b
	cpcsSDUFixed  = 0x0028

	trailerReservedLen = 4 // unused trailer bytes, rounding baseline to 48

	maxBaselineContentsLen = 32
	maxExtendedContentsLen = 1966

	tr451HeaderLen = 32 // 30-byte cterm_name + 2-byte onu_id
)

// encodeTypeByte packs the reserved bit (always 0), type_ar, type_ak and the
// 5-bit message type into the OMCI "type" field.
func encodeTypeByte(typeAR, typeAK bool, typeMT mib.MessageType) byte {
	var b byte
	if typeAR {
		b |= 0x40
	}
	if typeAK {
		b |= 0x20
	}
	b |= byte(typeMT) & 0x1f
	return b
}

// decodeTypeByte splits the OMCI type field into its components. If the
// reserved MSB is set, the caller is expected to log a framing warning;
// decodeTypeByte itself just reports whether it was set.
func decodeTypeByte(b byte) (typeAR, typeAK, reservedSet bool, typeMT mib.MessageType) {
	reservedSet = b&0x80 != 0
	typeAR = b&0x40 != 0
	typeAK = b&0x20 != 0
	typeMT = mib.MessageType(b & 0x1f)
	return
}

var (
	datumString30 = datum.NewString(30, "")
	datumUint2    = datum.NewNumber(2, 0)
	datumUint1    = datum.NewNumber(1, 0)
)
