// Package endpoint implements the OMCI UDP transport (C5): a server
// endpoint that receives messages addressed to a given channel
// termination and ONU id range, decodes them, dispatches them to a
// database, and sends back whatever response the dispatch produces.
//
// Grounded on obbaa_onusim/endpoint.py's Endpoint class.
package endpoint

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/bbf/onusim/internal/database"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/message"
	log "github.com/sirupsen/logrus"
)

const recvBufferSize = 2048

// Server is a UDP OMCI server endpoint bound to one channel termination
// and a contiguous range of ONU ids, all served by a single Database that
// keeps a separate instance map per ONU id.
type Server struct {
	ctermName string
	onuFirst  uint16
	onuLast   uint16
	tr451     bool

	conn     *net.UDPConn
	registry *mib.Registry
	db       *database.Database

	dumpFile *os.File

	// sendMu serializes writes to conn so that a command response and an
	// autonomous alarm notification can never interleave on the wire.
	sendMu sync.Mutex

	// lastPeer is the most recently seen client address for each ONU id,
	// used by the alarm-injection side channel to know where to send an
	// autonomous AlarmNotification.
	peerMu   sync.Mutex
	lastPeer map[uint16]*net.UDPAddr
}

// New constructs a Server. It does not bind its socket until Listen is
// called, and does not receive until Serve is called.
func New(ctermName string, onuFirst, onuLast uint16, registry *mib.Registry, db *database.Database, tr451 bool, dumpFile *os.File) *Server {
	return &Server{
		ctermName: ctermName,
		onuFirst:  onuFirst,
		onuLast:   onuLast,
		tr451:     tr451,
		registry:  registry,
		db:        db,
		dumpFile:  dumpFile,
		lastPeer:  make(map[uint16]*net.UDPAddr),
	}
}

// Listen binds the server's UDP socket.
func (s *Server) Listen(address string, port int) error {
	addr := &net.UDPAddr{IP: net.ParseIP(address), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("endpoint: listen: %w", err)
	}
	s.conn = conn
	log.WithFields(log.Fields{"address": address, "port": port}).Info("endpoint: listening")
	return nil
}

// Serve loops receiving datagrams and dispatching them until the socket
// is closed.
func (s *Server) Serve() error {
	buf := make([]byte, recvBufferSize)
	for {
		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return fmt.Errorf("endpoint: read: %w", err)
		}
		packet := append([]byte(nil), buf[:n]...)
		s.dumpBuffer(packet)
		s.handle(packet, peer)
	}
}

func (s *Server) handle(packet []byte, peer *net.UDPAddr) {
	msg, err := message.Decode(packet, s.tr451, s.registry)
	if err != nil {
		log.WithError(err).Warn("endpoint: failed to decode message")
		return
	}
	if s.tr451 {
		if msg.CtermName != s.ctermName {
			log.WithFields(log.Fields{"got": msg.CtermName, "want": s.ctermName}).
				Error("endpoint: message is for a different channel termination; ignored")
			return
		}
		if msg.OnuID < s.onuFirst || msg.OnuID > s.onuLast {
			log.WithFields(log.Fields{"onu_id": msg.OnuID}).
				Error("endpoint: message is for an ONU id outside our range; ignored")
			return
		}
	}
	s.rememberPeer(msg.OnuID, peer)

	if msg.Payload == nil {
		return
	}
	resp, err := msg.Payload.Process(msg, s.db)
	if err != nil {
		log.WithError(err).Warn("endpoint: error processing message")
		return
	}
	if resp == nil {
		return
	}
	s.send(resp, peer)
}

func (s *Server) rememberPeer(onuID uint16, peer *net.UDPAddr) {
	s.peerMu.Lock()
	defer s.peerMu.Unlock()
	s.lastPeer[onuID] = peer
}

// send encodes and writes msg to peer, holding sendMu so that this write
// can't interleave with a concurrent alarm notification's write.
func (s *Server) send(msg *message.Message, peer *net.UDPAddr) {
	buf := msg.Encode(s.tr451)
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if _, err := s.conn.WriteToUDP(buf, peer); err != nil {
		log.WithError(err).Warn("endpoint: failed to send response")
		return
	}
	s.dumpBuffer(buf)
}

// InjectAlarm sets onuID's alarm bitmap for (meClass, meInst) and, if a
// client has been seen for that ONU id, sends an autonomous
// AlarmNotification to its last known address.
func (s *Server) InjectAlarm(onuID, meClass, meInst uint16, bitmap [28]byte, seqNum byte) {
	s.db.SetAlarm(onuID, meClass, meInst, bitmap)

	s.peerMu.Lock()
	peer := s.lastPeer[onuID]
	s.peerMu.Unlock()
	if peer == nil {
		log.WithField("onu_id", onuID).Warn("endpoint: cannot inject alarm, no known peer for ONU")
		return
	}
	notif := &message.Message{
		CtermName: s.ctermName,
		OnuID:     onuID,
		TypeMT:    mib.AlarmNotification,
		MEClass:   meClass,
		MEInst:    meInst,
		Payload:   &message.AlarmNotification{Bitmap: bitmap, SeqNum: seqNum},
	}
	s.send(notif, peer)
}

func (s *Server) dumpBuffer(buffer []byte) {
	log.Debug(hex.EncodeToString(buffer))
	if s.dumpFile == nil {
		return
	}
	offset := 0
	if s.tr451 {
		offset = 32
	}
	if len(buffer) < offset+4 {
		return
	}
	packet := buffer[offset:]
	extended := packet[3] == 0x0b
	line := formatDumpLine(packet, extended)
	if _, err := s.dumpFile.WriteString(line); err != nil {
		log.WithError(err).Warn("endpoint: failed to write dump file")
	}
}

func formatDumpLine(packet []byte, extended bool) string {
	hx := func(a, b int) string {
		if b > len(packet) {
			b = len(packet)
		}
		if a > b {
			return ""
		}
		return hex.EncodeToString(packet[a:b])
	}
	if !extended {
		return fmt.Sprintf("  %s %s %s %s %s %s %s\n",
			hx(0, 2), hx(2, 3), hx(3, 4), hx(4, 6), hx(6, 8), hx(8, 40), hx(40, len(packet)))
	}
	return fmt.Sprintf("  %s %s %s %s %s %s %s\n",
		hx(0, 2), hx(2, 3), hx(3, 4), hx(4, 6), hx(6, 8), hx(8, 10), hx(10, len(packet)))
}

// Close releases the server's socket.
func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
