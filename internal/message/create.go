package message

import (
	"strconv"

	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/create.py: the request carries values
// for every settable-at-create attribute (RWC or RC), addressed by mask
// exactly as in Set; the response reason distinguishes a plain failure
// from one or more rejected attributes.

// CreateRequest is the Create (message type 4) request payload.
type CreateRequest struct {
	ClassAware
	AttrMask uint16
	Values   map[string][]datum.Value
}

func (p *CreateRequest) EncodeContents() []byte {
	buf := make([]byte, 2)
	buf[0] = byte(p.AttrMask >> 8)
	buf[1] = byte(p.AttrMask)
	for _, n := range mib.MaskIndices(p.AttrMask) {
		if p.Class == nil {
			continue
		}
		attr := p.Class.AttrByNumber(n)
		if attr == nil {
			continue
		}
		buf = append(buf, attr.Encode(p.Values[attr.Name])...)
	}
	return buf
}

// DecodeContents decodes attribute values in ascending attribute-number
// order. An attribute number set in AttrMask but absent from the
// class's schema has no known encoded length, so decoding that
// attribute's value (and everything after it in the mask) is
// impossible; instead its number is recorded in Values under its
// decimal-string form (never a valid attribute name, per
// mib.Class.Attr's name-or-number rule) so Database.Create can report
// the unknown-attribute-name reason the wire framing alone can't.
func (p *CreateRequest) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "create request too short"}
	}
	p.AttrMask = uint16(contents[0])<<8 | uint16(contents[1])
	p.Values = make(map[string][]datum.Value)
	offset := 2
	for _, n := range mib.MaskIndices(p.AttrMask) {
		if p.Class == nil {
			continue
		}
		attr := p.Class.AttrByNumber(n)
		if attr == nil {
			p.Values[strconv.Itoa(n)] = nil
			break
		}
		if offset >= len(contents) {
			continue
		}
		values, next, err := attr.Decode(contents, offset)
		if err != nil {
			return err
		}
		offset = next
		p.Values[attr.Name] = values
	}
	return nil
}

func (p *CreateRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.Create(msg.OnuID, msg.MEClass, msg.MEInst, p.Values)
	resp := &CreateResponse{Reason: results.Reason, AttrExecMask: results.AttrExecMask}
	return msg.response(mib.Create, resp), nil
}

// CreateResponse is the Create response payload.
type CreateResponse struct {
	Reason       omcierrors.Reason
	AttrExecMask uint16
}

func (p *CreateResponse) EncodeContents() []byte {
	buf := []byte{byte(p.Reason)}
	if p.Reason == omcierrors.ReasonAttributeFailure {
		buf = append(buf, byte(p.AttrExecMask>>8), byte(p.AttrExecMask))
	}
	return buf
}

func (p *CreateResponse) DecodeContents(contents []byte) error {
	if len(contents) < 1 {
		return &omcierrors.FramingError{Detail: "create response too short"}
	}
	p.Reason = omcierrors.Reason(contents[0])
	if p.Reason == omcierrors.ReasonAttributeFailure && len(contents) >= 3 {
		p.AttrExecMask = uint16(contents[1])<<8 | uint16(contents[2])
	}
	return nil
}

func (p *CreateResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.Create, func() Payload { return &CreateRequest{} })
	register(false, true, mib.Create, func() Payload { return &CreateResponse{} })
}
