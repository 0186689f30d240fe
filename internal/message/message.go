package message

import (
	"fmt"

	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Message is an OMCI PDU: the common header fields plus a type-specific
// Payload.
//
// Messages are short-lived values owned by whoever constructed them.
// Per the "cyclic module references" design note, a Message does not
// hold a live reference to the MIB schema registry; instead, whichever
// payload fields need attribute layout (Set/Get/Create) embed a
// ClassAware helper that Decode populates from a registry supplied by
// the caller, or that a request-side constructor populates directly.
type Message struct {
	CtermName string
	OnuID     uint16

	TCI      uint16
	TypeAR   bool
	TypeAK   bool
	TypeMT   mib.MessageType
	Extended bool
	MEClass  uint16
	MEInst   uint16

	Payload Payload
}

// Payload is a type-specific OMCI message body: its contents codec and
// its server-side processing logic.
type Payload interface {
	EncodeContents() []byte
	DecodeContents(contents []byte) error
	// Process executes this message against handle and returns the
	// response message, or nil if no response is sent (e.g. Alarm).
	Process(msg *Message, handle serverhandle.Handle) (*Message, error)
}

// classSetter is implemented by payloads that need the MIB class's
// attribute layout to decode or build their contents.
type classSetter interface {
	SetClass(c *mib.Class)
}

// registrySetter is implemented by payloads whose contents span more
// than one ME class (MibUploadNextResponse's chunks), so a single
// frame-addressed class isn't enough to decode them.
type registrySetter interface {
	SetRegistry(r *mib.Registry)
}

// ClassAware is embedded by payload types that need attribute lookups
// (Set, Get, Create).
type ClassAware struct {
	Class *mib.Class
}

func (c *ClassAware) SetClass(class *mib.Class) { c.Class = class }

// Encode renders m into a wire buffer. tr451 controls whether the
// 32-byte channel-termination header is prefixed.
func (m *Message) Encode(tr451 bool) []byte {
	var buf []byte
	if tr451 {
		buf = append(buf, datumString30.Encode(datum.StringValue(m.CtermName))...)
		buf = append(buf, datumUint2.Encode(datum.UintValue(m.OnuID))...)
	}
	buf = append(buf, datumUint2.Encode(datum.UintValue(m.TCI))...)
	buf = append(buf, datumUint1.Encode(datum.UintValue(encodeTypeByte(m.TypeAR, m.TypeAK, m.TypeMT)))...)
	devID := uint64(devIDBaseline)
	if m.Extended {
		devID = devIDExtended
	}
	buf = append(buf, datumUint1.Encode(datum.UintValue(devID))...)
	buf = append(buf, datumUint2.Encode(datum.UintValue(m.MEClass))...)
	buf = append(buf, datumUint2.Encode(datum.UintValue(m.MEInst))...)

	var contents []byte
	if m.Payload != nil {
		contents = m.Payload.EncodeContents()
	}

	if !m.Extended {
		if len(contents) > maxBaselineContentsLen {
			log.WithField("len", len(contents)).Error("message: baseline contents too long, truncating")
			contents = contents[:maxBaselineContentsLen]
		}
		padded := make([]byte, maxBaselineContentsLen)
		copy(padded, contents)
		buf = append(buf, padded...)
		buf = append(buf, 0x00) // cpcs_uu
		buf = append(buf, 0x00) // cpi
		buf = append(buf, byte(cpcsSDUFixed>>8), byte(cpcsSDUFixed))
		buf = append(buf, make([]byte, trailerReservedLen)...) // reserved, rounds baseline to 48
	} else {
		buf = append(buf, datumUint2.Encode(datum.UintValue(uint64(len(contents))))...)
		buf = append(buf, contents...)
	}
	return buf
}

// Decode parses buf into a Message, looking up the registered Payload
// type from the (type_ar, type_ak, type_mt) key and the referenced MIB
// class from registry (which may be nil if the caller doesn't need
// attribute-layout decoding, e.g. in framing-only tests).
func Decode(buf []byte, tr451 bool, registry *mib.Registry) (*Message, error) {
	offset := 0
	m := &Message{}

	if tr451 {
		if len(buf) < tr451HeaderLen {
			return nil, &omcierrors.FramingError{Detail: "buffer shorter than TR-451 header"}
		}
		v, next, _ := datumString30.Decode(buf, offset)
		m.CtermName = string(v.(datum.StringValue))
		offset = next
		v, next, _ = datumUint2.Decode(buf, offset)
		m.OnuID = uint16(toUint(v))
		offset = next
	}

	if len(buf)-offset < 8 {
		return nil, &omcierrors.FramingError{Detail: "buffer too short for OMCI header"}
	}

	v, next, _ := datumUint2.Decode(buf, offset)
	m.TCI = uint16(toUint(v))
	offset = next

	v, next, _ = datumUint1.Decode(buf, offset)
	typeByte := byte(toUint(v))
	offset = next
	typeAR, typeAK, reserved, typeMT := decodeTypeByte(typeByte)
	if reserved {
		log.WithField("type", fmt.Sprintf("%#02x", typeByte)).Error("message: reserved bit set in type byte")
	}
	m.TypeAR, m.TypeAK, m.TypeMT = typeAR, typeAK, typeMT

	v, next, _ = datumUint1.Decode(buf, offset)
	devID := byte(toUint(v))
	offset = next
	if devID != devIDBaseline && devID != devIDExtended {
		log.WithField("dev_id", fmt.Sprintf("%#02x", devID)).
			Error("message: invalid device id; assuming baseline")
		devID = devIDBaseline
	}
	m.Extended = devID == devIDExtended

	v, next, _ = datumUint2.Decode(buf, offset)
	m.MEClass = uint16(toUint(v))
	offset = next
	v, next, _ = datumUint2.Decode(buf, offset)
	m.MEInst = uint16(toUint(v))
	offset = next

	var contents []byte
	if !m.Extended {
		if offset+maxBaselineContentsLen+4+trailerReservedLen > len(buf) {
			return nil, &omcierrors.FramingError{Detail: "buffer too short for baseline frame"}
		}
		contents = buf[offset : offset+maxBaselineContentsLen]
		offset += maxBaselineContentsLen
		offset += 2 // cpcs_uu, cpi
		cpcsSDU := uint16(buf[offset])<<8 | uint16(buf[offset+1])
		offset += 2
		if cpcsSDU != cpcsSDUFixed {
			log.WithField("cpcs_sdu", fmt.Sprintf("%#04x", cpcsSDU)).
				Error("message: invalid CPCS-SDU trailer")
		}
		offset += trailerReservedLen
	} else {
		if offset+2 > len(buf) {
			return nil, &omcierrors.FramingError{Detail: "buffer too short for extended length"}
		}
		length := int(uint16(buf[offset])<<8 | uint16(buf[offset+1]))
		offset += 2
		if offset+length > len(buf) || length > maxExtendedContentsLen {
			return nil, &omcierrors.FramingError{Detail: "extended contents length mismatch"}
		}
		contents = buf[offset : offset+length]
		offset += length
	}

	factory, ok := lookupFactory(m.TypeAR, m.TypeAK, m.TypeMT)
	if !ok {
		return nil, &omcierrors.DispatchError{TypeAR: m.TypeAR, TypeAK: m.TypeAK, TypeMT: byte(m.TypeMT)}
	}
	m.Payload = factory()

	if cs, ok := m.Payload.(classSetter); ok && registry != nil {
		class, _ := registry.ByNumber(int(m.MEClass))
		if class == nil {
			log.WithField("me_class", m.MEClass).Debug("message: unknown ME class")
		}
		cs.SetClass(class)
	}
	if rs, ok := m.Payload.(registrySetter); ok && registry != nil {
		rs.SetRegistry(registry)
	}
	if err := m.Payload.DecodeContents(contents); err != nil {
		return m, err
	}
	return m, nil
}

// response builds a response Message that mirrors the request's
// addressing fields: same cterm/onu/tci/class/inst/extended, ak set.
func (m *Message) response(typeMT mib.MessageType, payload Payload) *Message {
	return &Message{
		CtermName: m.CtermName,
		OnuID:     m.OnuID,
		TCI:       m.TCI,
		TypeAR:    false,
		TypeAK:    true,
		TypeMT:    typeMT,
		Extended:  m.Extended,
		MEClass:   m.MEClass,
		MEInst:    m.MEInst,
		Payload:   payload,
	}
}
