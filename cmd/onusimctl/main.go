// Command onusimctl is a TR-451 ONU command-line client: it sends OMCI
// commands to an onusimd instance on a single channel termination.
//
// Grounded on obbaa_onusim/bin/onucli.py.
package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/message"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/mibdefs"
)

type clientFlags struct {
	address    string
	port       int
	ctermName  string
	onuIDFirst uint16
	onuIDLast  int
	extended   bool
	logLevel   int
	tci        int
}

var loglevelMap = map[int]log.Level{0: log.WarnLevel, 1: log.InfoLevel, 2: log.DebugLevel}

func main() {
	flags := &clientFlags{}
	registry := mibdefs.NewRegistry()

	root := &cobra.Command{
		Use:   "onusimctl",
		Short: "Send OMCI commands to an ONU simulator instance",
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.address, "address", "a", "127.0.0.1", "server DNS name or IP address")
	pf.IntVarP(&flags.port, "port", "p", 12345, "server UDP port number")
	pf.StringVarP(&flags.ctermName, "ctermname", "n", "cterm", "channel termination name")
	pf.Uint16VarP(&flags.onuIDFirst, "onuidfirst", "i", 42, "first ONU id")
	pf.IntVarP(&flags.onuIDLast, "onuidlast", "I", -1, "last ONU id; default: same as first")
	pf.BoolVarP(&flags.extended, "extended", "e", false, "whether to use extended messages")
	pf.IntVarP(&flags.logLevel, "loglevel", "l", 0, "logging level (0=errors+warnings, 1=info, 2=debug)")
	pf.IntVarP(&flags.tci, "tci", "t", 0, "first TCI (Transaction Correlation Identifier)")

	root.AddCommand(
		getCmd(flags, registry),
		setCmd(flags, registry),
		resetCmd(flags, registry),
		uploadCmd(flags, registry),
		uploadNextCmd(flags, registry),
	)

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("onusimctl: fatal error")
	}
}

func (f *clientFlags) level() log.Level {
	if l, ok := loglevelMap[f.logLevel]; ok {
		return l
	}
	return log.DebugLevel
}

func (f *clientFlags) onuIDs() []uint16 {
	last := f.onuIDFirst
	if f.onuIDLast >= 0 {
		last = uint16(f.onuIDLast)
	}
	ids := make([]uint16, 0, int(last)-int(f.onuIDFirst)+1)
	for id := f.onuIDFirst; ; id++ {
		ids = append(ids, id)
		if id == last {
			break
		}
	}
	return ids
}

// client dials the server once and exchanges one request/response per
// ONU id in the flags' range, building each request from build and
// printing each response via describe.
func (f *clientFlags) client(build func(onuID uint16, tci uint16) *message.Message, describe func(onuID uint16, resp *message.Message)) error {
	log.SetLevel(f.level())
	conn, err := net.Dial("udp", fmt.Sprintf("%s:%d", f.address, f.port))
	if err != nil {
		return fmt.Errorf("onusimctl: dial: %w", err)
	}
	defer conn.Close()

	tci := uint16(f.tci)
	for _, onuID := range f.onuIDs() {
		req := build(onuID, tci)
		tci++

		buf := req.Encode(true)
		if _, err := conn.Write(buf); err != nil {
			return fmt.Errorf("onusimctl: send: %w", err)
		}
		log.WithFields(log.Fields{"onu_id": onuID, "tci": req.TCI}).Info("onusimctl: sent message")

		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		respBuf := make([]byte, 2048)
		n, err := conn.Read(respBuf)
		if err != nil {
			log.WithError(err).Warn("onusimctl: no response (timed out)")
			continue
		}
		resp, err := message.Decode(respBuf[:n], true, nil)
		if err != nil {
			log.WithError(err).Warn("onusimctl: failed to decode response")
			continue
		}
		describe(onuID, resp)
	}
	return nil
}

func meArgs(args []string, defaultClass int) (meClass, meInst uint16, err error) {
	meClass, meInst = uint16(defaultClass), 0
	if len(args) > 0 {
		n, e := strconv.ParseUint(args[0], 10, 16)
		if e != nil {
			return 0, 0, e
		}
		meClass = uint16(n)
	}
	if len(args) > 1 {
		n, e := strconv.ParseUint(args[1], 10, 16)
		if e != nil {
			return 0, 0, e
		}
		meInst = uint16(n)
	}
	return meClass, meInst, nil
}

func getCmd(flags *clientFlags, registry *mib.Registry) *cobra.Command {
	return &cobra.Command{
		Use:     "get [me_class] [me_inst] [attr_mask]",
		Aliases: []string{"g"},
		Short:   "Get MIB instance attribute values",
		RunE: func(cmd *cobra.Command, args []string) error {
			meClass, meInst, err := meArgs(args, mibdefs.ClassONUG)
			if err != nil {
				return err
			}
			attrMask := uint16(0xffff)
			if len(args) > 2 {
				n, err := strconv.ParseUint(strings.TrimPrefix(args[2], "0x"), 16, 16)
				if err != nil {
					return err
				}
				attrMask = uint16(n)
			}
			class, _ := registry.ByNumber(int(meClass))
			return flags.client(
				func(onuID uint16, tci uint16) *message.Message {
					return &message.Message{
						CtermName: flags.ctermName, OnuID: onuID, TCI: tci,
						TypeAR: true, TypeMT: mib.Get, Extended: flags.extended,
						MEClass: meClass, MEInst: meInst,
						Payload: &message.GetRequest{ClassAware: message.ClassAware{Class: class}, AttrMask: attrMask},
					}
				},
				func(onuID uint16, resp *message.Message) {
					fmt.Printf("onu %d: %+v\n", onuID, resp.Payload)
				},
			)
		},
	}
}

func setCmd(flags *clientFlags, registry *mib.Registry) *cobra.Command {
	return &cobra.Command{
		Use:     "set [me_class] [me_inst] name=value [name=value...]",
		Aliases: []string{"s"},
		Short:   "Set MIB instance attribute values",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meClass, meInst, assigns, err := parseSetArgs(args)
			if err != nil {
				return err
			}
			class, _ := registry.ByNumber(int(meClass))
			if class == nil {
				return fmt.Errorf("onusimctl: unknown ME class %d", meClass)
			}
			var attrMask uint16
			values := make(map[string][]datum.Value)
			for name, raw := range assigns {
				attr := class.Attr(name)
				if attr == nil {
					return fmt.Errorf("onusimctl: unknown attribute %q", name)
				}
				attrMask |= attr.Mask()
				values[attr.Name] = []datum.Value{parseValue(raw)}
			}
			return flags.client(
				func(onuID uint16, tci uint16) *message.Message {
					return &message.Message{
						CtermName: flags.ctermName, OnuID: onuID, TCI: tci,
						TypeAR: true, TypeMT: mib.Set, Extended: flags.extended,
						MEClass: meClass, MEInst: meInst,
						Payload: &message.SetRequest{
							ClassAware: message.ClassAware{Class: class},
							AttrMask:   attrMask, Values: values, Extended: flags.extended,
						},
					}
				},
				func(onuID uint16, resp *message.Message) {
					fmt.Printf("onu %d: %+v\n", onuID, resp.Payload)
				},
			)
		},
	}
}

func parseSetArgs(args []string) (meClass, meInst uint16, assigns map[string]string, err error) {
	meClass, meInst = uint16(mibdefs.ClassONUG), 0
	assigns = make(map[string]string)
	rest := args
	positional := 0
	for len(rest) > 0 && !strings.Contains(rest[0], "=") && positional < 2 {
		n, e := strconv.ParseUint(rest[0], 10, 16)
		if e != nil {
			break
		}
		if positional == 0 {
			meClass = uint16(n)
		} else {
			meInst = uint16(n)
		}
		positional++
		rest = rest[1:]
	}
	for _, a := range rest {
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			return 0, 0, nil, fmt.Errorf("onusimctl: bad attribute assignment %q", a)
		}
		assigns[parts[0]] = parts[1]
	}
	return meClass, meInst, assigns, nil
}

func parseValue(raw string) datum.Value {
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return datum.UintValue(n)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return datum.BoolValue(b)
	}
	return datum.StringValue(raw)
}

func resetCmd(flags *clientFlags, registry *mib.Registry) *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Aliases: []string{"r"},
		Short:   "Reset MIB instance values",
		RunE: func(cmd *cobra.Command, args []string) error {
			meClass, meInst := uint16(mibdefs.ClassONUData), uint16(0)
			return flags.client(
				func(onuID uint16, tci uint16) *message.Message {
					return &message.Message{
						CtermName: flags.ctermName, OnuID: onuID, TCI: tci,
						TypeAR: true, TypeMT: mib.MibReset, Extended: flags.extended,
						MEClass: meClass, MEInst: meInst,
						Payload: &message.MibResetRequest{},
					}
				},
				func(onuID uint16, resp *message.Message) {
					fmt.Printf("onu %d: %+v\n", onuID, resp.Payload)
				},
			)
		},
	}
}

func uploadCmd(flags *clientFlags, registry *mib.Registry) *cobra.Command {
	return &cobra.Command{
		Use:     "upload",
		Aliases: []string{"u"},
		Short:   "Prepare for upload of MIB instance values",
		RunE: func(cmd *cobra.Command, args []string) error {
			meClass, meInst := uint16(mibdefs.ClassONUData), uint16(0)
			return flags.client(
				func(onuID uint16, tci uint16) *message.Message {
					return &message.Message{
						CtermName: flags.ctermName, OnuID: onuID, TCI: tci,
						TypeAR: true, TypeMT: mib.MibUpload, Extended: flags.extended,
						MEClass: meClass, MEInst: meInst,
						Payload: &message.MibUploadRequest{},
					}
				},
				func(onuID uint16, resp *message.Message) {
					fmt.Printf("onu %d: %+v\n", onuID, resp.Payload)
				},
			)
		},
	}
}

func uploadNextCmd(flags *clientFlags, registry *mib.Registry) *cobra.Command {
	return &cobra.Command{
		Use:     "upload-next [seq_num]",
		Aliases: []string{"un"},
		Short:   "Upload the next set of MIB instance values",
		RunE: func(cmd *cobra.Command, args []string) error {
			meClass, meInst := uint16(mibdefs.ClassONUData), uint16(0)
			var seqNum uint64
			if len(args) > 0 {
				n, err := strconv.ParseUint(args[0], 10, 16)
				if err != nil {
					return err
				}
				seqNum = n
			}
			return flags.client(
				func(onuID uint16, tci uint16) *message.Message {
					return &message.Message{
						CtermName: flags.ctermName, OnuID: onuID, TCI: tci,
						TypeAR: true, TypeMT: mib.MibUploadNext, Extended: flags.extended,
						MEClass: meClass, MEInst: meInst,
						Payload: &message.MibUploadNextRequest{SeqNum: uint16(seqNum)},
					}
				},
				func(onuID uint16, resp *message.Message) {
					fmt.Printf("onu %d: %+v\n", onuID, resp.Payload)
				},
			)
		},
	}
}
