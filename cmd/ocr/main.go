// Package main provides the ocr binary entry point. Ocr reads, writes,
// validates, and converts portable code-review record files in YAML,
// JSON, and XML.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opencodereview/opencodereview/config"
	"github.com/opencodereview/opencodereview/format"
)

const (
	Version = "0.1.0"
	appName = "ocr"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Portable code review records",
		Long: `Ocr works with OpenCodeReview documents: portable, append-only
code review records shared between humans and AI agents.

A review document captures a subject (patch, commit, file, directory,
audit, or snapshot) plus an ordered log of activities - comments,
issues, resolutions, verdicts, and more. Documents are stored as YAML,
JSON, or XML and convert losslessly between the three.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(validateCmd())
	cmd.AddCommand(convertCmd())
	cmd.AddCommand(showCmd())
	cmd.AddCommand(addCmd())
	cmd.AddCommand(watchCmd())

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig loads the layered configuration and applies its decode
// limits to the format registry.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(slog.Default()).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	format.DefaultRegistry.SetMaxReplyDepth(cfg.Limits.MaxReplyDepth)
	return cfg, nil
}
