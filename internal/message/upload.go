package message

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/upload.py: MIB Upload opens an upload
// session and reports how many MIB-upload-next calls the client must
// make to drain it.

// MibUploadRequest is the MIB Upload (message type 13) request payload.
type MibUploadRequest struct{}

func (p *MibUploadRequest) EncodeContents() []byte      { return nil }
func (p *MibUploadRequest) DecodeContents([]byte) error { return nil }

func (p *MibUploadRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.Upload(msg.OnuID, msg.MEClass, msg.MEInst, msg.Extended)
	resp := &MibUploadResponse{NumUploadNexts: results.NumUploadNexts}
	return msg.response(mib.MibUpload, resp), nil
}

// MibUploadResponse is the MIB Upload response payload.
type MibUploadResponse struct {
	NumUploadNexts uint16
}

func (p *MibUploadResponse) EncodeContents() []byte {
	return []byte{byte(p.NumUploadNexts >> 8), byte(p.NumUploadNexts)}
}

func (p *MibUploadResponse) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "mib upload response too short"}
	}
	p.NumUploadNexts = uint16(contents[0])<<8 | uint16(contents[1])
	return nil
}

func (p *MibUploadResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.MibUpload, func() Payload { return &MibUploadRequest{} })
	register(false, true, mib.MibUpload, func() Payload { return &MibUploadResponse{} })
}
