package message

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/other.py's alarm notification and on
// the inject_alarm side channel described for the endpoint: an autonomous
// notification carries no type_ar/type_ak acknowledgement handshake and
// has no response.

// AlarmNotification is the autonomous alarm notification (message type
// 16, type_ar=false, type_ak=false).
type AlarmNotification struct {
	Bitmap [28]byte
	SeqNum byte
}

func (p *AlarmNotification) EncodeContents() []byte {
	buf := make([]byte, 0, 29)
	buf = append(buf, p.Bitmap[:]...)
	buf = append(buf, p.SeqNum)
	return buf
}

func (p *AlarmNotification) DecodeContents(contents []byte) error {
	if len(contents) < 29 {
		return &omcierrors.FramingError{Detail: "alarm notification too short"}
	}
	copy(p.Bitmap[:], contents[:28])
	p.SeqNum = contents[28]
	return nil
}

// Process is a no-op: an autonomous notification is never answered, and
// the server never receives one from the client.
func (p *AlarmNotification) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(false, false, mib.AlarmNotification, func() Payload { return &AlarmNotification{} })
}
