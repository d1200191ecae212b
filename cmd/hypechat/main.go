// Package main is the entry point for the hypechat CLI.
//
// Usage:
//
//	hypechat serve            # Start the message log server
//	hypechat serve -p 9090    # Override the configured port
//	hypechat version          # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hypechat",
	Short: "Message log for a peer-to-peer chat demo",
	Long: `hypechat keeps one in-memory message log per peer endpoint and tracks
which messages are unread.

Messages arriving from a peer are posted to
  POST /api/conversations/{id}/messages
and UI clients watch a conversation over
  GET /ws?user=NAME&endpoint=ID

Configuration is read from the environment:
  PORT, MAX_CONVERSATIONS, SEND_BUFFER, LOG_LEVEL`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hypechat %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
