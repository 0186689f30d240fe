package message

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/delete.py: both directions carry no
// fields but a response reason.

// DeleteRequest is the Delete (message type 6) request payload.
type DeleteRequest struct{}

func (p *DeleteRequest) EncodeContents() []byte      { return nil }
func (p *DeleteRequest) DecodeContents([]byte) error { return nil }

func (p *DeleteRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.Delete(msg.OnuID, msg.MEClass, msg.MEInst)
	return msg.response(mib.Delete, &DeleteResponse{Reason: results.Reason}), nil
}

// DeleteResponse is the Delete response payload.
type DeleteResponse struct {
	Reason omcierrors.Reason
}

func (p *DeleteResponse) EncodeContents() []byte { return []byte{byte(p.Reason)} }

func (p *DeleteResponse) DecodeContents(contents []byte) error {
	if len(contents) < 1 {
		return &omcierrors.FramingError{Detail: "delete response too short"}
	}
	p.Reason = omcierrors.Reason(contents[0])
	return nil
}

func (p *DeleteResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.Delete, func() Payload { return &DeleteRequest{} })
	register(false, true, mib.Delete, func() Payload { return &DeleteResponse{} })
}
