package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/TraceMachina/nativelink-mcp-server/internal/config"
	"github.com/TraceMachina/nativelink-mcp-server/internal/logging"
	"github.com/TraceMachina/nativelink-mcp-server/internal/server"
	"github.com/TraceMachina/nativelink-mcp-server/internal/transport"
)

// serveOptions holds the flag values for the serve command.
type serveOptions struct {
	transport     string
	port          int
	apiKey        string
	nativelinkURL string
	docsURL       string
}

func (o *serveOptions) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.transport, "transport", config.DefaultTransport, "Transport mode: stdio or http")
	flags.IntVarP(&o.port, "port", "p", config.DefaultPort, "HTTP listen port (http transport only)")
	flags.StringVar(&o.apiKey, "api-key", "", "NativeLink API key (overrides NATIVELINK_API_KEY)")
	flags.StringVar(&o.nativelinkURL, "nativelink-url", "", "NativeLink endpoint (overrides NATIVELINK_URL)")
	flags.StringVar(&o.docsURL, "docs-url", "", "Documentation API base URL (overrides NATIVELINK_DOCS_URL)")
}

// config layers the flags over the environment. Only flags the user
// actually set override env values.
func (o *serveOptions) config(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.FromEnv()

	if flags.Changed("transport") {
		cfg.Transport = o.transport
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("api-key") {
		cfg.APIKey = o.apiKey
	}
	if flags.Changed("nativelink-url") {
		cfg.NativeLinkURL = o.nativelinkURL
	}
	if flags.Changed("docs-url") {
		cfg.DocsURL = o.docsURL
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return config.Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// newServeCmd creates the "serve" subcommand.
func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}
	opts.bindFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	// Logs go to stderr so they never interleave with protocol
	// traffic on stdout.
	logger := logging.New()

	handler, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportStdio:
		logger.Info("starting server", "transport", cfg.Transport, "version", server.Version)
		return transport.NewStdio(handler, os.Stdin, os.Stdout, logger).Serve(ctx)
	case config.TransportHTTP:
		logger.Info("starting server", "transport", cfg.Transport, "port", cfg.Port, "version", server.Version)
		return transport.NewHTTP(handler, cfg, logger).ListenAndServe(ctx)
	default:
		return fmt.Errorf("unknown transport %q (expected %q or %q)",
			cfg.Transport, config.TransportStdio, config.TransportHTTP)
	}
}
