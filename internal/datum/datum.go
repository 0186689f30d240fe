package datum

import (
	"bytes"
	"encoding/binary"

	"github.com/bbf/onusim/internal/omcierrors"
	log "github.com/sirupsen/logrus"
)

// Datum describes a single fixed-layout (or, for Table, fixed-row-size)
// attribute data item: its size, kind, optional enum/bits labels,
// optional fixed value and default value. An Attribute's data is one or
// more Datum in fixed order; its encoded size is the sum of its Data's
// encoded sizes.
type Datum struct {
	// Size is the encoded size in bytes for every kind except Table,
	// where it is the row size.
	Size int
	Kind Kind
	// Labels is the ordered label set for Enum and Bits kinds. Encoding
	// uses the label's index (Enum) or bit position (Bits).
	Labels []string
	// Units is informational only; G.988 attribute descriptions name
	// units (e.g. "dB", "0.002 dB steps") but no encoding depends on it.
	Units string
	// Default is substituted when a value is not supplied (encode) or
	// when the buffer is too short to hold this Datum (decode).
	Default Value
	// Fixed, if non-nil, is the only permissible encoded value. Decode
	// logs a warning (not an error) if the received value differs.
	Fixed Value
}

// integer-kind sizes permitted by G.988: 1, 2, 4 or 8 bytes.
func validIntSize(size int) bool {
	switch size {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// NewNumber builds an UnsignedInt Datum.
func NewNumber(size int, def uint64) *Datum {
	if !validIntSize(size) {
		panic("datum: invalid Number size")
	}
	return &Datum{Size: size, Kind: KindUnsignedInt, Default: UintValue(def)}
}

// NewBool builds a Bool Datum; default is false unless overridden.
func NewBool(size int, def bool) *Datum {
	if !validIntSize(size) {
		panic("datum: invalid Bool size")
	}
	return &Datum{Size: size, Kind: KindBool, Default: BoolValue(def)}
}

// NewEnum builds an Enum Datum. Label count must not exceed 2^(8*size).
func NewEnum(size int, labels []string, def string) *Datum {
	if !validIntSize(size) {
		panic("datum: invalid Enum size")
	}
	if uint64(len(labels)) > uint64(1)<<(8*uint(size)) {
		panic("datum: too many Enum labels for size")
	}
	if def == "" && len(labels) > 0 {
		def = labels[0]
	}
	return &Datum{Size: size, Kind: KindEnum, Labels: labels, Default: EnumValue(def)}
}

// NewBits builds a Bits Datum: a bitmap of up to 8*size labels.
func NewBits(size int, labels []string) *Datum {
	if !validIntSize(size) {
		panic("datum: invalid Bits size")
	}
	if len(labels) > 8*size {
		panic("datum: too many Bits labels for size")
	}
	return &Datum{Size: size, Kind: KindBits, Labels: labels, Default: BitsValue(nil)}
}

// NewString builds a String Datum, zero-padded to size.
func NewString(size int, def string) *Datum {
	return &Datum{Size: size, Kind: KindString, Default: StringValue(def)}
}

// NewBytes builds a Bytes Datum.
func NewBytes(size int, def []byte) *Datum {
	return &Datum{Size: size, Kind: KindBytes, Default: BytesValue(def)}
}

// NewTable builds a Table Datum; size is the fixed row size.
func NewTable(rowSize int) *Datum {
	return &Datum{Size: rowSize, Kind: KindTable, Default: TableValue{}}
}

// WithFixed marks the Datum as carrying a fixed value, returning the
// receiver for chaining.
func (d *Datum) WithFixed(v Value) *Datum {
	d.Fixed = v
	return d
}

// Encode renders value (or, if nil, the Datum's default) as exactly
// Size bytes (scalar kinds) or len(rows)*Size bytes (Table).
func (d *Datum) Encode(value Value) []byte {
	if value == nil {
		value = d.effectiveDefault()
	}
	switch d.Kind {
	case KindUnsignedInt:
		return encodeUint(d.Size, uint64(value.(UintValue)))
	case KindBool:
		var n uint64
		if bool(value.(BoolValue)) {
			n = 1
		}
		return encodeUint(d.Size, n)
	case KindEnum:
		idx := d.labelIndex(string(value.(EnumValue)))
		return encodeUint(d.Size, uint64(idx))
	case KindBits:
		bv, _ := value.(BitsValue)
		var mask uint64
		for _, label := range bv {
			if bit := d.labelIndex(label); bit >= 0 {
				mask |= 1 << uint(bit)
			}
		}
		return encodeUint(d.Size, mask)
	case KindString:
		s := string(value.(StringValue))
		buf := make([]byte, d.Size)
		copy(buf, s)
		return buf
	case KindBytes:
		b := []byte(value.(BytesValue))
		buf := make([]byte, d.Size)
		copy(buf, b)
		return buf
	case KindTable:
		tv, _ := value.(TableValue)
		buf := make([]byte, 0, len(tv.Rows)*d.Size)
		for _, row := range tv.Rows {
			r := make([]byte, d.Size)
			copy(r, row)
			buf = append(buf, r...)
		}
		return buf
	default:
		return make([]byte, d.Size)
	}
}

// Decode reads one Datum value starting at offset. If the buffer is
// shorter than offset+Size, the Datum's default is returned instead of
// an error — this is required so baseline responses with trailing zero
// padding for absent attributes decode cleanly. A Fixed Datum whose
// received value differs from its fixed value is logged, not corrected.
func (d *Datum) Decode(buf []byte, offset int) (Value, int, error) {
	if d.Kind == KindTable {
		return d.decodeTableRemainder(buf, offset)
	}
	size := d.Size
	if offset+size > len(buf) {
		return d.effectiveDefault(), offset + size, nil
	}
	var value Value
	var err error
	switch d.Kind {
	case KindUnsignedInt:
		value = UintValue(decodeUint(buf[offset : offset+size]))
	case KindBool:
		value = BoolValue(decodeUint(buf[offset:offset+size]) != 0)
	case KindEnum:
		idx := int(decodeUint(buf[offset : offset+size]))
		if idx < 0 || idx >= len(d.Labels) {
			err = &omcierrors.DecodeError{Detail: "enum raw value out of range"}
			value = d.effectiveDefault()
		} else {
			value = EnumValue(d.Labels[idx])
		}
	case KindBits:
		mask := decodeUint(buf[offset : offset+size])
		var active BitsValue
		for i, label := range d.Labels {
			if mask&(1<<uint(i)) != 0 {
				active = append(active, label)
			}
		}
		value = active
	case KindString:
		value = StringValue(trimTrailingNUL(buf[offset : offset+size]))
	case KindBytes:
		raw := make([]byte, size)
		copy(raw, buf[offset:offset+size])
		value = BytesValue(raw)
	default:
		value = d.effectiveDefault()
	}
	if d.Fixed != nil && value.String() != d.Fixed.String() {
		log.WithFields(log.Fields{
			"received": value, "fixed": d.Fixed,
		}).Warn("datum: received value differs from fixed value")
	}
	return value, offset + size, err
}

// decodeTableRemainder decodes every complete row from offset to the end
// of buf. Table attributes are sized by context (how many bytes the
// enclosing message reserved for them), not by the Datum itself.
func (d *Datum) decodeTableRemainder(buf []byte, offset int) (Value, int, error) {
	var rows [][]byte
	for offset+d.Size <= len(buf) {
		row := make([]byte, d.Size)
		copy(row, buf[offset:offset+d.Size])
		rows = append(rows, row)
		offset += d.Size
	}
	return TableValue{Rows: rows}, offset, nil
}

// DefaultValue returns the value Decode/Encode substitute when none is
// supplied: the Fixed value if set, otherwise Default.
func (d *Datum) DefaultValue() Value {
	return d.effectiveDefault()
}

func (d *Datum) effectiveDefault() Value {
	if d.Fixed != nil {
		return d.Fixed
	}
	return d.Default
}

func (d *Datum) labelIndex(label string) int {
	for i, l := range d.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

func encodeUint(size int, v uint64) []byte {
	buf := make([]byte, size)
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf, v)
	}
	return buf
}

func decodeUint(buf []byte) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(buf))
	case 4:
		return uint64(binary.BigEndian.Uint32(buf))
	case 8:
		return binary.BigEndian.Uint64(buf)
	default:
		return 0
	}
}

func trimTrailingNUL(buf []byte) string {
	return string(bytes.TrimRight(buf, "\x00"))
}
