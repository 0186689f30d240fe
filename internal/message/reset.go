package message

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/reset.py: MIB reset, addressed to the
// ONU data instance, reloads every instance of the ONU back to its
// factory defaults.

// MibResetRequest is the MIB Reset (message type 15) request payload.
type MibResetRequest struct{}

func (p *MibResetRequest) EncodeContents() []byte      { return nil }
func (p *MibResetRequest) DecodeContents([]byte) error { return nil }

func (p *MibResetRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.Reset(msg.OnuID, msg.MEClass, msg.MEInst)
	return msg.response(mib.MibReset, &MibResetResponse{Reason: results.Reason}), nil
}

// MibResetResponse is the MIB Reset response payload.
type MibResetResponse struct {
	Reason omcierrors.Reason
}

func (p *MibResetResponse) EncodeContents() []byte { return []byte{byte(p.Reason)} }

func (p *MibResetResponse) DecodeContents(contents []byte) error {
	if len(contents) < 1 {
		return &omcierrors.FramingError{Detail: "mib reset response too short"}
	}
	p.Reason = omcierrors.Reason(contents[0])
	return nil
}

func (p *MibResetResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.MibReset, func() Payload { return &MibResetRequest{} })
	register(false, true, mib.MibReset, func() Payload { return &MibResetResponse{} })
}
