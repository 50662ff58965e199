package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/server"
)

const shutdownTimeout = 5 * time.Second

// newServeCmd creates the serve command
func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the client token server",
		Long: `Start a local HTTP server that issues client auth tokens.

The server will:
  - Accept POST /v1/token with {"userId": "..."} and answer {"clientAuthToken": "..."}
  - Sign tokens with PROJECT_ID and PROJECT_SECRET, read fresh for every request
  - Answer GET /healthz

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (CORD_*)
  3. Settings file`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipVersionCheck: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}

	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := a.provider.CredentialStore()
	if err != nil {
		return err
	}
	srv, err := a.provider.Server()
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "cord token server is running")
	fmt.Fprintf(out, "  Token endpoint: http://%s%s\n", srv.Addr(), server.TokenPath)
	fmt.Fprintf(out, "  Credentials:    %s\n", store.Path())

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\nShutting down...")

	// Graceful shutdown
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}

	fmt.Fprintln(out, "Shutdown complete")
	return nil
}
