// Command onusimd simulates one or more ONU instances on a single
// channel termination, serving OMCI over UDP, a REST side channel for
// driving the MIB database directly, and an interactive console for
// injecting alarms.
//
// Grounded on obbaa_onusim/onusim.py.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bbf/onusim/internal/console"
	"github.com/bbf/onusim/internal/database"
	"github.com/bbf/onusim/internal/endpoint"
	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/restapi"
)

type serverFlags struct {
	address    string
	port       int
	ctermName  string
	onuIDFirst uint16
	onuIDLast  int
	extended   bool
	dumpFile   string
	logLevel   int
	httpPort   int
}

func main() {
	flags := &serverFlags{}
	root := &cobra.Command{
		Use:   "onusimd",
		Short: "Simulate one or more ONU instances on a single channel termination",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}

	fs := root.Flags()
	fs.StringVarP(&flags.address, "address", "a", "0.0.0.0", "server DNS name or IP address")
	fs.IntVarP(&flags.port, "port", "p", 12345, "server UDP port number")
	fs.StringVarP(&flags.ctermName, "ctermname", "n", "cterm", "channel termination name")
	fs.Uint16VarP(&flags.onuIDFirst, "onuidfirst", "i", 42, "first ONU id")
	fs.IntVarP(&flags.onuIDLast, "onuidlast", "I", -1, "last ONU id; default: same as first")
	fs.BoolVarP(&flags.extended, "extended", "e", false, "whether to use/support extended messages")
	fs.StringVarP(&flags.dumpFile, "dumpfile", "d", "", "file to which to dump hex messages")
	fs.IntVarP(&flags.logLevel, "loglevel", "l", 0, "logging level (0=errors+warnings, 1=info, 2=debug)")
	httpPort := 3017
	if v := os.Getenv("http_port"); v != "" {
		fmt.Sscanf(v, "%d", &httpPort)
	}
	fs.IntVar(&flags.httpPort, "http-port", httpPort, "REST API listen port (overridden by the http_port env var)")

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("onusimd: fatal error")
	}
}

var loglevelMap = map[int]log.Level{0: log.WarnLevel, 1: log.InfoLevel, 2: log.DebugLevel}

func run(flags *serverFlags) error {
	level, ok := loglevelMap[flags.logLevel]
	if !ok {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	onuIDLast := flags.onuIDFirst
	if flags.onuIDLast >= 0 {
		onuIDLast = uint16(flags.onuIDLast)
	}

	var dumpFile *os.File
	if flags.dumpFile != "" {
		f, err := os.Create(flags.dumpFile)
		if err != nil {
			return fmt.Errorf("onusimd: opening dump file: %w", err)
		}
		defer f.Close()
		dumpFile = f
	}

	registry := mibdefs.NewRegistry()
	db := database.New(registry, flags.onuIDFirst, onuIDLast, true, flags.extended)
	srv := endpoint.New(flags.ctermName, flags.onuIDFirst, onuIDLast, registry, db, true, dumpFile)
	if err := srv.Listen(flags.address, flags.port); err != nil {
		return err
	}
	defer srv.Close()

	router := mux.NewRouter()
	restapi.New(router, registry, db, srv)

	go func() {
		log.WithField("port", flags.httpPort).Info("onusimd: starting REST API server")
		if err := http.ListenAndServe(fmt.Sprintf(":%d", flags.httpPort), router); err != nil {
			log.WithError(err).Error("onusimd: REST API server exited")
		}
	}()

	go console.New(os.Stdin, flags.onuIDFirst, srv).Run()

	log.WithFields(log.Fields{
		"address":    flags.address,
		"port":       flags.port,
		"ctermname":  flags.ctermName,
		"onuidfirst": flags.onuIDFirst,
		"onuidlast":  onuIDLast,
		"extended":   flags.extended,
	}).Info("onusimd: serving OMCI requests")
	return srv.Serve()
}
