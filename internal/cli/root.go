// Package cli implements the gardend command-line interface: configuration
// loading, logger setup, and the serve / init / version commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitUserError = 1
	exitSysError  = 2
)

// Version is the build version, overridable at link time.
var Version = "0.1.0-dev"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

var flags rootFlags

// NewRootCmd creates the top-level "gardend" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gardend",
		Short: "A personal content garden server",
		Long: "Gardend stores blocks of curated content, organizes them into\n" +
			"channels, and serves the whole garden over a local HTTP API.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .garden)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .garden-db)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() string {
	if flags.configDir != "" {
		return flags.configDir
	}
	if v := os.Getenv("GARDEN_CONFIG_DIR"); v != "" {
		return v
	}
	return ".garden"
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gardend version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gardend", Version)
		},
	}
}
