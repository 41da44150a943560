package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/mcp"
	"github.com/dshills/athletematch-mcp/internal/storage"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version and build information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "AthleteMatch MCP Server\n")
			fmt.Fprintf(w, "Version: %s\n", version)
			fmt.Fprintf(w, "Build Time: %s\n", buildTime)
			fmt.Fprintf(w, "MCP Server: %s %s\n", mcp.ServerName, mcp.ServerVersion)
			fmt.Fprintf(w, "Build Mode: %s\n", storage.BuildMode)
			fmt.Fprintf(w, "SQLite Driver: %s\n", storage.DriverName)
			return nil
		},
	}
}
