// Acprocessor mediates between a Toshiba air conditioner's AB-bus field bus,
// relayed over MQTT by an external bridge, and that bus's high-level control
// surface: it parses inbound frames, maintains a live model of the indoor
// unit, and realises control requests as command/confirmation cycles with
// retry.
//
// Usage:
//
//	acprocessor run --config <path> [-i|--interactive] [-p|--packetlog]
//	                 [-s|--statuslog] [-r|--listen-only] [-v|--verbose]
//	acprocessor version
//
// See 'acprocessor run --help' for available options.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toshiba-abbus/acprocessor/internal/appconfig"
	"github.com/toshiba-abbus/acprocessor/internal/dashboard"
	"github.com/toshiba-abbus/acprocessor/internal/logging"
	"github.com/toshiba-abbus/acprocessor/internal/mqttbus"
	"github.com/toshiba-abbus/acprocessor/internal/session"
	"github.com/toshiba-abbus/acprocessor/internal/store"
	"github.com/toshiba-abbus/acprocessor/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "acprocessor",
	Short:   "Toshiba AB-bus protocol processor",
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

var (
	configPath  string
	interactive bool
	packetlog   bool
	statuslog   bool
	listenOnly  bool
	verbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the protocol processor",
	Long: `Connect to the configured MQTT broker, parse AB-bus frames relayed on its
packet topics, and dispatch control requests received on its control topic.`,
	RunE: runProcessor,
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "f", "", "path to configuration file (required)")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "show the terminal status dashboard")
	runCmd.Flags().BoolVarP(&packetlog, "packetlog", "p", false, "log packets to a local SQLite database")
	runCmd.Flags().BoolVarP(&statuslog, "statuslog", "s", false, "log status snapshots to a local SQLite database")
	runCmd.Flags().BoolVarP(&listenOnly, "listen-only", "r", false, "decode and model frames without transmitting")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.MarkFlagRequired("config")
}

func runProcessor(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var db *store.Store
	if packetlog || statuslog {
		db, err = store.Open("acprocessor.sqlite3")
		if err != nil {
			return fmt.Errorf("failed to open packet/status log: %w", err)
		}
		defer db.Close()
	}

	var dash *dashboard.Dashboard
	if interactive {
		dash, err = dashboard.Start()
		if err != nil {
			return fmt.Errorf("failed to start dashboard: %w", err)
		}
		defer dash.Quit()
	}

	sess := session.New(session.DefaultAddr, nil, nil)

	// bus is always connected, even in listen-only mode: it is the only
	// subscriber to <root>/packet/rx, so without it no frame would ever
	// reach the session. Listen-only instead suppresses the transmit side,
	// by never wiring bus in as the session's Sink (see wireSession).
	bus, err := mqttbus.New(cfg, sess)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer bus.Close()

	sink, events := wireSession(sess, bus, dash, db, packetlog, statuslog, listenOnly)
	sess.Attach(sink, events)

	logging.Info("acprocessor started",
		zap.String("version", version.Version),
		zap.Bool("interactive", interactive),
		zap.Bool("listen_only", listenOnly),
	)

	return runLoop(sess)
}

// runLoop drives Tick at a steady cadence until interrupted.
func runLoop(sess *session.Session) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			logging.Info("shutting down")
			return nil
		case now := <-ticker.C:
			sess.Tick(now)
		}
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
