package message

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Grounded on obbaa_onusim/actions/get_all_alarms.py: the request carries
// a retrieval_mode byte (the database treats modes 0 and 1 alike and
// reports every current alarm); the response reports how many
// Get-all-alarms-next calls the client must make to retrieve them.

// GetAllAlarmsRequest is the Get All Alarms (message type 11) request.
type GetAllAlarmsRequest struct {
	RetrievalMode byte
}

func (p *GetAllAlarmsRequest) EncodeContents() []byte { return []byte{p.RetrievalMode} }

func (p *GetAllAlarmsRequest) DecodeContents(contents []byte) error {
	if len(contents) < 1 {
		return &omcierrors.FramingError{Detail: "get all alarms request too short"}
	}
	p.RetrievalMode = contents[0]
	return nil
}

func (p *GetAllAlarmsRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.GetAllAlarms(msg.OnuID, msg.MEClass, msg.MEInst, p.RetrievalMode)
	resp := &GetAllAlarmsResponse{NumAlarmNexts: results.NumAlarmNexts}
	return msg.response(mib.GetAllAlarms, resp), nil
}

// GetAllAlarmsResponse is the Get All Alarms response payload.
type GetAllAlarmsResponse struct {
	NumAlarmNexts uint16
}

func (p *GetAllAlarmsResponse) EncodeContents() []byte {
	return []byte{byte(p.NumAlarmNexts >> 8), byte(p.NumAlarmNexts)}
}

func (p *GetAllAlarmsResponse) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "get all alarms response too short"}
	}
	p.NumAlarmNexts = uint16(contents[0])<<8 | uint16(contents[1])
	return nil
}

func (p *GetAllAlarmsResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

// GetAllAlarmsNextRequest is the Get All Alarms Next (message type 12)
// request payload.
type GetAllAlarmsNextRequest struct {
	SeqNum uint16
}

func (p *GetAllAlarmsNextRequest) EncodeContents() []byte {
	return []byte{byte(p.SeqNum >> 8), byte(p.SeqNum)}
}

func (p *GetAllAlarmsNextRequest) DecodeContents(contents []byte) error {
	if len(contents) < 2 {
		return &omcierrors.FramingError{Detail: "get all alarms next request too short"}
	}
	p.SeqNum = uint16(contents[0])<<8 | uint16(contents[1])
	return nil
}

func (p *GetAllAlarmsNextRequest) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	results := handle.GetAllAlarmsNext(msg.OnuID, msg.MEClass, msg.MEInst, p.SeqNum)
	resp := &GetAllAlarmsNextResponse{Entry: results.AlarmEntry}
	return msg.response(mib.GetAllAlarmsNext, resp), nil
}

// GetAllAlarmsNextResponse carries a single (class, instance, bitmap)
// alarm entry; its 32-byte encoding happens to fill the baseline
// content area exactly.
type GetAllAlarmsNextResponse struct {
	Entry serverhandle.AlarmEntry
}

func (p *GetAllAlarmsNextResponse) EncodeContents() []byte {
	buf := make([]byte, 0, 32)
	buf = append(buf, byte(p.Entry.MEClass>>8), byte(p.Entry.MEClass))
	buf = append(buf, byte(p.Entry.MEInst>>8), byte(p.Entry.MEInst))
	buf = append(buf, p.Entry.Bitmap[:]...)
	return buf
}

func (p *GetAllAlarmsNextResponse) DecodeContents(contents []byte) error {
	if len(contents) < 32 {
		return &omcierrors.FramingError{Detail: "get all alarms next response too short"}
	}
	p.Entry.MEClass = uint16(contents[0])<<8 | uint16(contents[1])
	p.Entry.MEInst = uint16(contents[2])<<8 | uint16(contents[3])
	copy(p.Entry.Bitmap[:], contents[4:32])
	return nil
}

func (p *GetAllAlarmsNextResponse) Process(msg *Message, handle serverhandle.Handle) (*Message, error) {
	return nil, nil
}

func init() {
	register(true, false, mib.GetAllAlarms, func() Payload { return &GetAllAlarmsRequest{} })
	register(false, true, mib.GetAllAlarms, func() Payload { return &GetAllAlarmsResponse{} })
	register(true, false, mib.GetAllAlarmsNext, func() Payload { return &GetAllAlarmsNextRequest{} })
	register(false, true, mib.GetAllAlarmsNext, func() Payload { return &GetAllAlarmsNextResponse{} })
}
