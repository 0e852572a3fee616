package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/garden/internal/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize garden storage",
		Long:  "Create the configuration and data directories, write a default config.yaml, and initialize the database.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir := resolveConfigDir()
	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(exitSysError)
	}

	dbPath, err := databasePath(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(exitSysError)
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(exitSysError)
	}
	defer db.Close()

	fmt.Println("Garden initialized successfully")
	fmt.Println("  config:  ", configDir)
	fmt.Println("  database:", dbPath)
	fmt.Println("  media:   ", cfg.MediaDir)
	return nil
}
