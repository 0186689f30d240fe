package message

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// uploadNextChunkHeaderLen is me_class (2) + me_inst (2) + attr_mask (2).
const uploadNextChunkHeaderLen = 6

// Grounded on obbaa_onusim/actions/upload.py's upload-next handling and
// database.py's snapshot walk: each request asks for the body at
// seq_num within the latched upload snapshot; the response carries
// however many instances' worth of attribute values database.snapshotBodies
// packed into that body, each as its own class/instance/mask chunk.

// MibUploadNextRequest is the MIB Upload Next (message type 14) request.
type MibUploadNextRequest struct {
	SeqNum uint16
}

func (p *MibUploadNextRequest) EncodeContents() []byte {
	return []byte{byte(p.SeqNum >> 8), byte(p.SeqNum)}
}

func (p *MibUploadNextRequest) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "mib upload next request too short"}
	}
	p.SeqNum = uint16(contents[0])<<8 | uint16(contents[1])
	return nil
}

func (p *MibUploadNextRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.UploadNext(msg.OnuID, msg.MEClass, msg.MEInst, p.SeqNum, msg.Extended)
	resp := &MibUploadNextResponse{Body: results.Body}
	return msg.response(mib.MibUploadNext, resp), nil
}

// MibUploadNextResponse is the MIB Upload Next response payload: one or
// more chunks, each a class/instance/mask header followed by that
// instance's attribute values, re-stated on the wire even where a
// chunk's class/instance matches the frame's own me_class/me_inst (as
// the first body's first chunk, ONU data #0, does), per G.988's
// upload-next chunk format. A body can
// pack chunks from different ME classes (database.snapshotBodies packs
// however many instances fit the transport's content-length limit), so
// decoding needs the whole registry, not just the frame-addressed
// class.
type MibUploadNextResponse struct {
	Body     serverhandle.Body
	registry *mib.Registry
}

func (p *MibUploadNextResponse) SetRegistry(r *mib.Registry) { p.registry = r }

func (p *MibUploadNextResponse) EncodeContents() []byte {
	var buf []byte
	for _, chunk := range p.Body.Chunks {
		buf = append(buf, byte(chunk.MEClass>>8), byte(chunk.MEClass))
		buf = append(buf, byte(chunk.MEInst>>8), byte(chunk.MEInst))
		buf = append(buf, byte(chunk.AttrMask>>8), byte(chunk.AttrMask))
		for _, av := range chunk.Attrs {
			buf = append(buf, av.Attr.Encode(av.Values)...)
		}
	}
	return buf
}

// DecodeContents walks every chunk in contents, mirroring
// GetResponse.DecodeContents's mask-driven attribute walk per chunk. It
// stops at the first all-zero header (the baseline frame's trailing
// zero padding, never a real class/instance/mask triple) or once fewer
// than uploadNextChunkHeaderLen bytes remain.
func (p *MibUploadNextResponse) DecodeContents(contents []byte) error {
	p.Body = serverhandle.Body{}
	offset := 0
	for offset+uploadNextChunkHeaderLen <= len(contents) {
		meClass := uint16(contents[offset])<<8 | uint16(contents[offset+1])
		meInst := uint16(contents[offset+2])<<8 | uint16(contents[offset+3])
		attrMask := uint16(contents[offset+4])<<8 | uint16(contents[offset+5])
		offset += uploadNextChunkHeaderLen
		if meClass == 0 && meInst == 0 && attrMask == 0 {
			break
		}

		chunk := serverhandle.Chunk{MEClass: meClass, MEInst: meInst, AttrMask: attrMask}
		var class *mib.Class
		if p.registry != nil {
			class, _ = p.registry.ByNumber(int(meClass))
		}
		if class != nil {
			for _, n := range mib.MaskIndices(attrMask) {
				attr := class.AttrByNumber(n)
				if attr == nil {
					break
				}
				values, next, err := attr.Decode(contents, offset)
				if err != nil {
					return err
				}
				offset = next
				chunk.Attrs = append(chunk.Attrs, serverhandle.AttrValue{Attr: attr, Values: values})
			}
		}
		p.Body.Chunks = append(p.Body.Chunks, chunk)
	}
	if len(p.Body.Chunks) == 0 {
		return &omcierrors.FramingError{Detail: "mib upload next response too short"}
	}
	return nil
}

func (p *MibUploadNextResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.MibUploadNext, func() Payload { return &MibUploadNextRequest{} })
	register(false, true, mib.MibUploadNext, func() Payload { return &MibUploadNextResponse{} })
}
