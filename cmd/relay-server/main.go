package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaychat/relay/internal/server"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relay-server",
		Short: "Authenticated group-messaging server",
		Long: `Relay is a multi-client group-messaging server.

Clients connect over raw TCP or WebSocket, authenticate with a
username and password, and exchange broadcast, private, and
group-scoped messages through a line-oriented text protocol.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// serveCmd starts the listeners and blocks until an interrupt or termination
// signal arrives. Environment variables (RELAY_*) provide the base
// configuration; flags override it.
func serveCmd() *cobra.Command {
	cfg := server.NewConfigFromEnv()
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shutdownTimeout > 0 {
				cfg.ShutdownTimeout = shutdownTimeout
			}

			srv, err := server.New(*cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "TCP address for the chat protocol")
	flags.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "address for the WebSocket, health, and metrics endpoints (empty disables)")
	flags.StringVar(&cfg.UsersFile, "users", cfg.UsersFile, "path to the username:password credentials file")
	flags.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "origins allowed to open WebSocket connections")
	flags.IntVar(&cfg.MaxLineSize, "max-line-size", cfg.MaxLineSize, "maximum protocol line length in bytes")
	flags.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout (overrides RELAY_SHUTDOWN_TIMEOUT)")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(*cobra.Command, []string) {
			fmt.Printf("relay-server %s (%s)\n", version, commit)
		},
	}
}
