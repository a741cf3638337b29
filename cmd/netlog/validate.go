package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mariasu11/netlog/pkg/luascript"
)

var (
	validateCmd = &cobra.Command{
		Use:   "validate <script.lua> [more scripts...]",
		Short: "Validate Lua parser scripts",
		Long: `Validate loads each script into a throwaway interpreter and checks that it
defines the required parser functions. Nothing is registered or retained.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runValidate,
	}
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	type result struct {
		path string
		err  error
	}
	results := make([]result, len(args))

	// Validate scripts concurrently, each in its own interpreter
	var g errgroup.Group
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			results[i] = result{path: path, err: luascript.ValidateScript(path)}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", res.path, res.err)
			continue
		}
		fmt.Printf("OK   %s\n", res.path)
	}

	if failed > 0 {
		logger.Error("Script validation failed", "failed", failed, "total", len(args))
		os.Exit(1)
	}
	logger.Info("All scripts valid", "total", len(args))
}
