package message

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/get.py. The baseline response fixes
// the value area at 25 bytes regardless of how many bytes the requested
// attributes actually encode to, so that the optional/exec masks always
// land at the same offset; the extended response has no such padding.
const baselineGetValuesLen = 25

// GetRequest is the Get (message type 9) request payload.
type GetRequest struct {
	ClassAware
	AttrMask uint16
}

func (p *GetRequest) EncodeContents() []byte {
	return []byte{byte(p.AttrMask >> 8), byte(p.AttrMask)}
}

func (p *GetRequest) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "get request too short"}
	}
	p.AttrMask = uint16(contents[0])<<8 | uint16(contents[1])
	return nil
}

func (p *GetRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.Get(msg.OnuID, msg.MEClass, msg.MEInst, p.AttrMask, msg.Extended)
	resp := &GetResponse{
		ClassAware:   ClassAware{Class: p.Class},
		Reason:       results.Reason,
		AttrMask:     results.AttrMask,
		OptAttrMask:  results.OptAttrMask,
		AttrExecMask: results.AttrExecMask,
		Attrs:        results.Attrs,
		Extended:     msg.Extended,
	}
	return msg.response(mib.Get, resp), nil
}

// GetResponse is the Get response payload.
type GetResponse struct {
	ClassAware
	Reason       omcierrors.Reason
	AttrMask     uint16
	OptAttrMask  uint16
	AttrExecMask uint16
	Attrs        []serverhandle.AttrValue
	Extended     bool
}

func (p *GetResponse) encodeValues() []byte {
	var buf []byte
	for _, av := range p.Attrs {
		buf = append(buf, av.Attr.Encode(av.Values)...)
	}
	return buf
}

func (p *GetResponse) EncodeContents() []byte {
	buf := []byte{byte(p.Reason), byte(p.AttrMask >> 8), byte(p.AttrMask)}
	attrFail := p.Reason == omcierrors.ReasonAttributeFailure
	if p.Extended {
		if attrFail {
			buf = append(buf, byte(p.OptAttrMask>>8), byte(p.OptAttrMask))
			buf = append(buf, byte(p.AttrExecMask>>8), byte(p.AttrExecMask))
		}
		buf = append(buf, p.encodeValues()...)
		return buf
	}
	values := p.encodeValues()
	padded := make([]byte, baselineGetValuesLen)
	copy(padded, values)
	buf = append(buf, padded...)
	buf = append(buf, byte(p.OptAttrMask>>8), byte(p.OptAttrMask))
	buf = append(buf, byte(p.AttrExecMask>>8), byte(p.AttrExecMask))
	return buf
}

func (p *GetResponse) DecodeContents(contents []byte) error {
	if len(contents) < 3 {
		return &omcierrors.FramingError{Detail: "get response too short"}
	}
	p.Reason = omcierrors.Reason(contents[0])
	p.AttrMask = uint16(contents[1])<<8 | uint16(contents[2])
	offset := 3
	if !p.Extended {
		if len(contents) < 3+baselineGetValuesLen+4 {
			return &omcierrors.FramingError{Detail: "baseline get response too short"}
		}
	} else if p.Reason == omcierrors.ReasonAttributeFailure {
		if len(contents) < offset+4 {
			return &omcierrors.FramingError{Detail: "extended get response too short for masks"}
		}
		p.OptAttrMask = uint16(contents[offset])<<8 | uint16(contents[offset+1])
		p.AttrExecMask = uint16(contents[offset+2])<<8 | uint16(contents[offset+3])
		offset += 4
	}

	p.Attrs = nil
	if p.Class != nil {
		for _, n := range mib.MaskIndices(p.AttrMask) {
			attr := p.Class.AttrByNumber(n)
			if attr == nil {
				continue
			}
			values, next, err := attr.Decode(contents, offset)
			if err != nil {
				return err
			}
			offset = next
			p.Attrs = append(p.Attrs, serverhandle.AttrValue{Attr: attr, Values: values})
		}
	}
	if !p.Extended {
		tail := 3 + baselineGetValuesLen
		p.OptAttrMask = uint16(contents[tail])<<8 | uint16(contents[tail+1])
		p.AttrExecMask = uint16(contents[tail+2])<<8 | uint16(contents[tail+3])
	}
	return nil
}

func (p *GetResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

// castUint wraps a plain integer as an attribute value; nothing in this
// module calls it.
func castUint(n uint64) datum.Value { return datum.UintValue(n) }

func init() {
	register(true, false, mib.Get, func() Payload { return &GetRequest{} })
	register(false, true, mib.Get, func() Payload { return &GetResponse{} })
}
