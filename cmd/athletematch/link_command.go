package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/linker"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var auto bool
	var threshold float64

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link known athletes to database athletes by first name",
		Long: "Fuzzy match each unlinked known athlete's first name against database athletes.\n" +
			"Matches at or above the threshold are confirmed interactively unless --auto is set.\n" +
			"Confirmed links record the athlete ID in the known-athletes file and add the\n" +
			"full name as an alias.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(a *app) error {
				if a.registry == nil {
					return errors.New("no known-athletes file configured (set [registry] known_athletes_path)")
				}

				cfg := &linker.Config{
					Threshold: linker.Threshold(a.cfg.Linking.Threshold),
					Workers:   a.cfg.Linking.Workers,
				}
				if cmd.Flags().Changed("threshold") {
					cfg.Threshold = &threshold
				}
				if !auto {
					cfg.Confirm = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
				}

				stats, err := linker.New(a.store, a.registry, a.logger).Link(cmd.Context(), cfg)
				if stats != nil {
					printLinkSummary(cmd.OutOrStdout(), stats)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Apply every match without prompting")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Minimum similarity score 0-100 (default from config)")
	return cmd
}

// promptConfirm asks on out and reads y/n answers from in. An empty answer
// accepts; end of input declines.
func promptConfirm(in io.Reader, out io.Writer) linker.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, p linker.Proposal) (bool, error) {
		for {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			fmt.Fprintf(out, "Link %q -> %q (id %d, score %.1f)? [Y/n] ",
				p.Known.FullName, p.Athlete.DisplayName, p.Athlete.ID, p.Score)

			line, err := reader.ReadString('\n')
			eof := errors.Is(err, io.EOF)
			if err != nil && !eof {
				return false, err
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			if eof && answer == "" {
				fmt.Fprintln(out)
				return false, nil
			}
			switch answer {
			case "", "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			}
			if eof {
				return false, nil
			}
			fmt.Fprintln(out, "Please answer y or n.")
		}
	}
}

func printLinkSummary(w io.Writer, stats *linker.Statistics) {
	if len(stats.Results) > 0 {
		headers := []string{"Known Athlete", "Outcome", "Athlete", "ID", "Score", "Alias Added"}
		rows := make([][]string, 0, len(stats.Results))
		for _, r := range stats.Results {
			id := "-"
			if r.AthleteID != nil {
				id = strconv.FormatInt(*r.AthleteID, 10)
			}
			score := "-"
			if r.Outcome != linker.OutcomeAlreadyLinked {
				score = strconv.FormatFloat(r.Score, 'f', 1, 64)
			}
			rows = append(rows, []string{r.FullName, string(r.Outcome), r.DisplayName, id, score, yesNo(r.AliasAdded)})
		}
		aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
		fmt.Fprintln(w, renderTable(headers, rows, aligns))
	}

	fmt.Fprintf(w, "Linked %d, already linked %d, no match %d, declined %d, aliases added %d (%s)\n",
		stats.Linked, stats.AlreadyLinked, stats.BelowThreshold, stats.Declined,
		stats.AliasesAdded, stats.Duration.Round(time.Millisecond))
}
