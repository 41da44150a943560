package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/storage"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show athlete database and known-athletes statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				status, err := a.store.GetStatus(cmd.Context())
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				rows := [][]string{
					{"Database", a.cfg.Storage.DatabasePath},
					{"Athletes", strconv.Itoa(status.AthletesCount)},
					{"Aliases", strconv.Itoa(status.AliasesCount)},
					{"Appearances", fmt.Sprintf("%d (%d verified)", status.AppearancesCount, status.VerifiedAppearances)},
					{"Schema version", status.SchemaVersion},
					{"Database size", fmt.Sprintf("%.2f MB", status.DatabaseSizeMB)},
					{"Build mode", fmt.Sprintf("%s (%s)", status.BuildMode, storage.DriverName)},
				}

				if a.registry == nil {
					rows = append(rows, []string{"Known athletes", "disabled"})
				} else {
					summary := a.registry.Summary()
					rows = append(rows,
						[]string{"Known athletes", a.registry.Path()},
						[]string{"Known entries", fmt.Sprintf("%d (%d linked, %d unlinked)", summary.Total, summary.Linked, summary.Unlinked)},
					)
				}

				fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
				fmt.Fprintln(w, healthLine(w, status.Health))
				return nil
			})
		},
	}
}

func healthLine(w io.Writer, h storage.HealthStatus) string {
	line := fmt.Sprintf("Health: database accessible %s, has athletes %s",
		yesNo(h.DatabaseAccessible), yesNo(h.HasAthletes))
	if !shouldColorize(w) {
		return line
	}
	if h.DatabaseAccessible && h.HasAthletes {
		return ansiGreen + line + ansiReset
	}
	return ansiYellow + line + ansiReset
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
