package message

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Get Next has no obbaa_onusim counterpart (see database.GetNext): it
// retrieves bytes 29*seq_num through 29*(seq_num+1)-1 of one latched
// table attribute's encoding (29 being the baseline content area left
// over once reason and attr_mask are accounted for). The database slices
// the same 29-byte chunks for baseline and extended requests; only the
// baseline response pads a short final chunk to this length.
const baselineGetNextChunkLen = 29

// GetNextRequest is the Get Next (message type 26) request payload.
type GetNextRequest struct {
	AttrMask uint16
	SeqNum   uint16
}

func (p *GetNextRequest) EncodeContents() []byte {
	return []byte{
		byte(p.AttrMask >> 8), byte(p.AttrMask),
		byte(p.SeqNum >> 8), byte(p.SeqNum),
	}
}

func (p *GetNextRequest) DecodeContents(contents []byte) error {
	if len(contents) < 4 {
		return &omcierrors.FramingError{Detail: "get next request too short"}
	}
	p.AttrMask = uint16(contents[0])<<8 | uint16(contents[1])
	p.SeqNum = uint16(contents[2])<<8 | uint16(contents[3])
	return nil
}

func (p *GetNextRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.GetNext(msg.OnuID, msg.MEClass, msg.MEInst, p.AttrMask, p.SeqNum)
	resp := &GetNextResponse{
		Reason:   results.Reason,
		AttrMask: results.AttrMask,
		Chunk:    chunkBytes(results.Attrs),
		Extended: msg.Extended,
	}
	return msg.response(mib.GetNext, resp), nil
}

// chunkBytes extracts the raw row-chunk the database already sliced to
// size; the table attribute's normal Encode is not used here because
// Get Next's payload is a sub-slice of the full table encoding, not a
// fresh encoding of a value.
func chunkBytes(attrs []serverhandle.AttrValue) []byte {
	var buf []byte
	for _, av := range attrs {
		for _, v := range av.Values {
			if bv, ok := v.(datum.BytesValue); ok {
				buf = append(buf, []byte(bv)...)
			}
		}
	}
	return buf
}

// GetNextResponse is the Get Next response payload: a reason, the single
// attribute mask being paged, and a raw row-data chunk.
type GetNextResponse struct {
	Reason   omcierrors.Reason
	AttrMask uint16
	Chunk    []byte
	Extended bool
}

func (p *GetNextResponse) EncodeContents() []byte {
	buf := []byte{byte(p.Reason), byte(p.AttrMask >> 8), byte(p.AttrMask)}
	chunk := p.Chunk
	if !p.Extended {
		padded := make([]byte, baselineGetNextChunkLen)
		copy(padded, chunk)
		chunk = padded
	}
	return append(buf, chunk...)
}

func (p *GetNextResponse) DecodeContents(contents []byte) error {
	if len(contents) < 3 {
		return &omcierrors.FramingError{Detail: "get next response too short"}
	}
	p.Reason = omcierrors.Reason(contents[0])
	p.AttrMask = uint16(contents[1])<<8 | uint16(contents[2])
	p.Chunk = append([]byte(nil), contents[3:]...)
	return nil
}

func (p *GetNextResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

// rawTableRow wraps a chunk slice as a datum.Value so callers that need
// to hand Get Next's chunk through code expecting attribute values can
// do so uniformly.
type rawTableRow = datum.BytesValue

func init() {
	register(true, false, mib.GetNext, func() Payload { return &GetNextRequest{} })
	register(false, true, mib.GetNext, func() Payload { return &GetNextResponse{} })
}
