package endpoint

import (
	"net"
	"testing"
	"time"

	"github.com/bbf/onusim/internal/database"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/message"
	"github.com/stretchr/testify/require"
)

// newLoopbackServer starts a Server bound to an OS-assigned port on
// 127.0.0.1 and returns it along with that address, grounded on
// obbaa_onusim/endpoint.py's Endpoint, which is likewise a single UDP
// socket shared by every ONU id in its range.
func newLoopbackServer(t *testing.T) (*Server, *net.UDPAddr) {
	t.Helper()
	registry := mibdefs.NewRegistry()
	db := database.New(registry, 1, 1, true, false)
	srv := New("cterm", 1, 1, registry, db, false, nil)
	require.NoError(t, srv.Listen("127.0.0.1", 0))
	t.Cleanup(func() { srv.Close() })

	addr := srv.conn.LocalAddr().(*net.UDPAddr)
	go srv.Serve()
	return srv, addr
}

func TestServeRespondsToGetRequest(t *testing.T) {
	registry := mibdefs.NewRegistry()
	_, addr := newLoopbackServer(t)

	conn, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer conn.Close()

	class, ok := registry.ByNumber(mibdefs.ClassONUG)
	require.True(t, ok)
	attr := class.AttrByName("vendor_id")

	req := &message.Message{
		OnuID: 1, TCI: 1, TypeAR: true, TypeMT: mib.Get,
		MEClass: uint16(mibdefs.ClassONUG), MEInst: 0,
		Payload: &message.GetRequest{
			ClassAware: message.ClassAware{Class: class},
			AttrMask:   attr.Mask(),
		},
	}
	_, err = conn.Write(req.Encode(false))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, recvBufferSize)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	resp, err := message.Decode(buf[:n], false, registry)
	require.NoError(t, err)
	get, ok := resp.Payload.(*message.GetResponse)
	require.True(t, ok)
	require.Len(t, get.Attrs, 1)
	assert := require.New(t)
	assert.Equal("vendor_id", get.Attrs[0].Attr.Name)
	assert.Equal("1234", get.Attrs[0].Values[0].String())
}

func TestInjectAlarmSendsNotificationToLastPeer(t *testing.T) {
	srv, addr := newLoopbackServer(t)
	registry := mibdefs.NewRegistry()

	conn, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer conn.Close()

	class, ok := registry.ByNumber(mibdefs.ClassONUG)
	require.True(t, ok)
	req := &message.Message{
		OnuID: 1, TCI: 1, TypeAR: true, TypeMT: mib.Get,
		MEClass: uint16(mibdefs.ClassONUG), MEInst: 0,
		Payload: &message.GetRequest{
			ClassAware: message.ClassAware{Class: class},
			AttrMask:   class.AttrByName("vendor_id").Mask(),
		},
	}
	_, err = conn.Write(req.Encode(false))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, recvBufferSize)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	_, err = message.Decode(buf[:n], false, registry)
	require.NoError(t, err)

	var bitmap [28]byte
	bitmap[0] = 0x80
	srv.InjectAlarm(1, uint16(mibdefs.ClassANIG), 0, bitmap, 9)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err = conn.Read(buf)
	require.NoError(t, err)
	notifMsg, err := message.Decode(buf[:n], false, registry)
	require.NoError(t, err)
	notif, ok := notifMsg.Payload.(*message.AlarmNotification)
	require.True(t, ok)
	assert := require.New(t)
	assert.Equal(bitmap, notif.Bitmap)
	assert.Equal(byte(9), notif.SeqNum)
}

func TestInjectAlarmWithoutKnownPeerIsNoOp(t *testing.T) {
	srv, _ := newLoopbackServer(t)
	var bitmap [28]byte
	require.NotPanics(t, func() {
		srv.InjectAlarm(1, uint16(mibdefs.ClassANIG), 0, bitmap, 1)
	})
}
