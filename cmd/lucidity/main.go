// Package main is the entry point for the lucidity MCP server.
//
// The server exposes code quality analysis operations to AI assistants
// over the Model Context Protocol, either on stdio (the default, for
// running as an assistant subprocess) or on an SSE network listener.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperb1iss/lucidity-mcp/internal/analysis"
	"github.com/hyperb1iss/lucidity-mcp/internal/config"
	"github.com/hyperb1iss/lucidity-mcp/internal/logging"
	"github.com/hyperb1iss/lucidity-mcp/internal/mcp"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagDebug     bool
	flagVerbose   bool
	flagTransport string
	flagHost      string
	flagPort      int
	flagLogLevel  string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lucidity-mcp",
		Short: "MCP server for AI-assisted code quality analysis",
		Long: `Lucidity is an MCP server that helps AI assistants analyze code quality.

It builds structured analysis prompts covering dimensions such as complexity,
security vulnerabilities, and error handling; the calling assistant performs
the actual analysis. Run without arguments to start the server on stdio.

Examples:
  # Serve on stdio (for use as an assistant subprocess)
  lucidity-mcp

  # Serve over SSE on a network listener
  lucidity-mcp --transport sse --host 127.0.0.1 --port 8000

  # Verbose debugging
  lucidity-mcp --debug --verbose`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Force debug-level logging")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Add caller information to log records")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flagTransport, "transport", config.TransportStdio, "Transport to serve on (stdio, sse)")
	cmd.Flags().StringVar(&flagHost, "host", "127.0.0.1", "Host to bind the sse listener to")
	cmd.Flags().IntVar(&flagPort, "port", 8000, "Port to bind the sse listener to")

	cmd.AddCommand(newDimensionsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags set explicitly on the command line win over the config file.
	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport = flagTransport
	}
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("debug") {
		cfg.Debug = flagDebug
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Debug:   cfg.Debug,
		Verbose: cfg.Verbose,
	})
	logging.SetDefault(logger)

	srv := mcp.NewServer(cfg, logger, version)

	// Shut the sse listener down cleanly on interrupt. The stdio
	// transport terminates with its input stream instead.
	if cfg.Transport == config.TransportSSE {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			logger.Info("Received signal, shutting down", "signal", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Error("Shutdown failed", "error", err)
			}
		}()
	}

	return srv.Start()
}

func newDimensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dimensions",
		Short: "List the quality dimensions in the analysis catalog",
		Run: func(cmd *cobra.Command, args []string) {
			nameColor := color.New(color.FgCyan, color.Bold)
			titleColor := color.New(color.FgWhite, color.Bold)

			for _, d := range analysis.Dimensions() {
				nameColor.Printf("%s", d.Name)
				fmt.Print(" — ")
				titleColor.Println(d.Description)
				for _, cp := range d.Checkpoints {
					fmt.Printf("    • %s\n", cp)
				}
				fmt.Println()
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lucidity-mcp %s\n", version)
		},
	}
}
