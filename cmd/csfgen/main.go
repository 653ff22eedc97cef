// Package main provides the csfgen binary entry point. Csfgen turns an
// exported component catalog (the JSON array a wasm module's get_stories
// call returns) into .stories.js files for the viewer.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wasmbook/wasmbook/csf"
	"github.com/wasmbook/wasmbook/internal/ctxlog"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		outDir     string
		logLevel   string
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "csfgen [catalog.json]",
		Short: "Generate .stories.js files from a component catalog",
		Long: `Csfgen reads a component catalog - the JSON array a wasm module's
get_stories call returns - and writes one <Name>.stories.js file per story.

The catalog comes from the file argument, or from stdin when the argument is
absent or "-". Generator settings (output directory, title prefix, the JS
global to call) come from an HCL config file or directory given with --config;
--out overrides the configured output directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath := ""
			if len(args) == 1 {
				catalogPath = args[0]
			}
			return run(cmd, catalogPath, configPath, outDir, logLevel, logFormat)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "generator config file or directory (HCL)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	return cmd
}

func run(cmd *cobra.Command, catalogPath, configPath, outDir, logLevel, logFormat string) error {
	logger := newLogger(logLevel, logFormat, cmd.ErrOrStderr())
	ctx := ctxlog.WithLogger(cmd.Context(), logger)

	raw, err := readCatalog(cmd.InOrStdin(), catalogPath)
	if err != nil {
		return err
	}
	stories, err := csf.ParseCatalog(raw)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		return errors.New("catalog is empty")
	}

	cfg := csf.DefaultConfig()
	if configPath != "" {
		if cfg, err = csf.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}

	if err := csf.WriteStories(ctx, stories, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d stories files to %s\n", len(stories), cfg.OutDir)
	return nil
}

// readCatalog reads the catalog JSON from path, or from stdin when no path
// (or "-") is given.
func readCatalog(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read catalog from stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return raw, nil
}
