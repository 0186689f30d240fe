// Package console implements the server's interactive stdin command
// loop: a side channel for raising alarms and, eventually, other
// operator-triggered events, without waiting on the OMCI or REST paths.
//
// Grounded on obbaa_onusim/onusim.py's run_async/send_async functions.
package console

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Alarmer is the subset of endpoint.Server the console needs to carry
// out an "alarm" command.
type Alarmer interface {
	InjectAlarm(onuID, meClass, meInst uint16, bitmap [28]byte, seqNum byte)
}

// Console reads commands from in, one per line, until in is closed.
type Console struct {
	in      io.Reader
	onuID   uint16
	alarmer Alarmer
}

// New builds a Console that injects alarms against onuID (the console
// has no way to address a specific ONU per command, matching the
// original's use of the first configured ONU id).
func New(in io.Reader, onuID uint16, alarmer Alarmer) *Console {
	return &Console{in: in, onuID: onuID, alarmer: alarmer}
}

// Run reads and dispatches commands until in hits EOF or an error.
func (c *Console) Run() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.dispatch(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("console: input error")
	}
}

func (c *Console) dispatch(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "alarm":
		c.alarm(fields[1:])
	case "notif":
		// Reserved for a future autonomous-notification trigger; the
		// original source also leaves this command unimplemented.
	default:
		fmt.Printf("unrecognized command %q\n", fields[0])
	}
}

// alarm parses "alarm <me_class> <me_inst> <bitmap_hex> <seq_num>" and
// injects the alarm, mirroring send_async's four positional arguments.
func (c *Console) alarm(args []string) {
	if len(args) != 4 {
		fmt.Println("usage: alarm <me_class> <me_inst> <bitmap_hex> <seq_num>")
		return
	}
	meClass, err1 := strconv.ParseUint(args[0], 10, 16)
	meInst, err2 := strconv.ParseUint(args[1], 10, 16)
	raw, err3 := hex.DecodeString(args[2])
	seqNum, err4 := strconv.ParseUint(args[3], 10, 8)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || len(raw) != 28 {
		fmt.Println("alarm: bad arguments; bitmap must be 56 hex characters (28 bytes)")
		return
	}
	var bitmap [28]byte
	copy(bitmap[:], raw)
	c.alarmer.InjectAlarm(c.onuID, uint16(meClass), uint16(meInst), bitmap, byte(seqNum))
	fmt.Println("alarm sent")
}
