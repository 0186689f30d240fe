package message

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Grounded on obbaa_onusim/actions/set.py: request carries an attribute
// mask plus values for each set bit, in ascending attribute-number
// order; the response carries a reason and, on an attribute failure,
// the optional/exec masks.

const maxBaselineValuesLen = 25

// SetRequest is the Set (message type 8) request payload.
type SetRequest struct {
	ClassAware
	AttrMask uint16
	Values   map[string][]datum.Value
	Extended bool
}

func (p *SetRequest) EncodeContents() []byte {
	buf := make([]byte, 2)
	buf[0] = byte(p.AttrMask >> 8)
	buf[1] = byte(p.AttrMask)
	size := 0
	for _, n := range mib.MaskIndices(p.AttrMask) {
		if p.Class == nil {
			continue
		}
		attr := p.Class.AttrByNumber(n)
		if attr == nil {
			continue
		}
		encoded := attr.Encode(p.Values[attr.Name])
		if !p.Extended && size+len(encoded) > maxBaselineValuesLen {
			log.WithField("attr", attr.Name).Warn("set: attribute dropped, baseline value area full")
			continue
		}
		buf = append(buf, encoded...)
		size += len(encoded)
	}
	return buf
}

func (p *SetRequest) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "set request too short"}
	}
	p.AttrMask = uint16(contents[0])<<8 | uint16(contents[1])
	p.Values = make(map[string][]datum.Value)
	offset := 2
	size := 0
	for _, n := range mib.MaskIndices(p.AttrMask) {
		if p.Class == nil {
			continue
		}
		attr := p.Class.AttrByNumber(n)
		if attr == nil {
			continue
		}
		if !p.Extended && size+attr.EncodedSize(nil) > maxBaselineValuesLen {
			break
		}
		values, next, err := attr.Decode(contents, offset)
		if err != nil {
			return err
		}
		size += next - offset
		offset = next
		p.Values[attr.Name] = values
	}
	return nil
}

func (p *SetRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.Set(msg.OnuID, msg.MEClass, msg.MEInst, p.AttrMask, p.Values, msg.Extended, true)
	resp := &SetResponse{
		Reason:       results.Reason,
		OptAttrMask:  results.OptAttrMask,
		AttrExecMask: results.AttrExecMask,
	}
	return msg.response(mib.Set, resp), nil
}

// SetResponse is the Set response payload.
type SetResponse struct {
	Reason       omcierrors.Reason
	OptAttrMask  uint16
	AttrExecMask uint16
}

func (p *SetResponse) EncodeContents() []byte {
	buf := []byte{byte(p.Reason)}
	if p.Reason == omcierrors.ReasonAttributeFailure {
		buf = append(buf, byte(p.OptAttrMask>>8), byte(p.OptAttrMask))
		buf = append(buf, byte(p.AttrExecMask>>8), byte(p.AttrExecMask))
	}
	return buf
}

func (p *SetResponse) DecodeContents(contents []byte) error {
	if len(contents) < 1 {
		return &omcierrors.FramingError{Detail: "set response too short"}
	}
	p.Reason = omcierrors.Reason(contents[0])
	if p.Reason == omcierrors.ReasonAttributeFailure && len(contents) >= 5 {
		p.OptAttrMask = uint16(contents[1])<<8 | uint16(contents[2])
		p.AttrExecMask = uint16(contents[3])<<8 | uint16(contents[4])
	}
	return nil
}

func (p *SetResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.Set, func() Payload { return &SetRequest{} })
	register(false, true, mib.Set, func() Payload { return &SetResponse{} })
}
