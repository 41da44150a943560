package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/mcp"
	"github.com/dshills/athletematch-mcp/internal/storage"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd)
			if err != nil {
				return err
			}

			// Stdout is reserved for the MCP protocol
			a.logger.Info("MCP server starting", "version", version,
				"build_mode", storage.BuildMode, "driver", storage.DriverName)

			server, err := mcp.NewServer(a.cfg, a.store, a.registry, a.logger)
			if err != nil {
				_ = a.Close()
				return fmt.Errorf("create MCP server: %w", err)
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			errChan := make(chan error, 1)
			go func() {
				a.logger.Info("MCP server ready, listening on stdio")
				errChan <- server.Serve(runCtx)
			}()

			select {
			case sig := <-sigChan:
				a.logger.Info("shutting down", "signal", sig.String())
				cancel()
				err = <-errChan
			case err = <-errChan:
			}

			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			a.logger.Info("server stopped")
			return nil
		},
	}
}
