package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingAlarmer struct {
	called                 bool
	onuID, meClass, meInst uint16
	bitmap                 [28]byte
	seqNum                 byte
}

func (r *recordingAlarmer) InjectAlarm(onuID, meClass, meInst uint16, bitmap [28]byte, seqNum byte) {
	r.called = true
	r.onuID, r.meClass, r.meInst, r.bitmap, r.seqNum = onuID, meClass, meInst, bitmap, seqNum
}

func TestAlarmCommandInjectsAlarm(t *testing.T) {
	alarmer := &recordingAlarmer{}
	bitmapHex := strings.Repeat("00", 27) + "80"
	c := New(strings.NewReader("alarm 263 0 "+bitmapHex+" 5\n"), 42, alarmer)
	c.Run()

	assert.True(t, alarmer.called)
	assert.Equal(t, uint16(42), alarmer.onuID)
	assert.Equal(t, uint16(263), alarmer.meClass)
	assert.Equal(t, byte(5), alarmer.seqNum)
	assert.Equal(t, byte(0x80), alarmer.bitmap[27])
}

func TestAlarmCommandBadBitmapIsIgnored(t *testing.T) {
	alarmer := &recordingAlarmer{}
	c := New(strings.NewReader("alarm 263 0 zz 5\n"), 42, alarmer)
	c.Run()
	assert.False(t, alarmer.called)
}

func TestUnknownCommandDoesNotPanic(t *testing.T) {
	alarmer := &recordingAlarmer{}
	c := New(strings.NewReader("bogus command\n"), 42, alarmer)
	assert.NotPanics(t, func() { c.Run() })
	assert.False(t, alarmer.called)
}

func TestNotifCommandIsAcceptedButNoOp(t *testing.T) {
	alarmer := &recordingAlarmer{}
	c := New(strings.NewReader("notif\n"), 42, alarmer)
	c.Run()
	assert.False(t, alarmer.called)
}
