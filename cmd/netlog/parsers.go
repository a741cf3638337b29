package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mariasu11/netlog/internal/config"
	"github.com/mariasu11/netlog/pkg/luascript"
	"github.com/mariasu11/netlog/pkg/parser"
)

var (
	parsersCmd = &cobra.Command{
		Use:   "parsers",
		Short: "List available parsers",
		Long:  `List the native parsers and any Lua parser scripts found in the scripts directory.`,
		Run:   runParsers,
	}

	parsersJSON bool
)

func init() {
	rootCmd.AddCommand(parsersCmd)

	parsersCmd.Flags().BoolVar(&parsersJSON, "json", false, "Output as JSON")
}

func runParsers(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	factory := parser.NewFactory(logger)
	registry := parser.NewRegistry(logger)

	if cfg.Scripts.Directory != "" {
		if err := luascript.LoadDirectory(registry, cfg.Scripts.Directory, cfg.Scripts.Enabled, logger); err != nil {
			logger.Warn("Failed to load parser scripts", "directory", cfg.Scripts.Directory, "error", err)
		}
	}

	native := factory.ParserInfos()
	scripted := registry.ParserInfos()

	if parsersJSON {
		out := map[string][]parser.ParserInfo{
			"native":   native,
			"scripted": scripted,
		}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			logger.Error("Failed to encode parser list", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Native parsers:")
	for _, info := range native {
		fmt.Printf("  %-20s %-10s %s\n", info.Name, info.Version, info.DeviceTypeName)
	}

	fmt.Println("Scripted parsers:")
	if len(scripted) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, info := range scripted {
		fmt.Printf("  %-20s %-10s %s\n", info.Name, info.Version, info.DeviceTypeName)
	}
}
