package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/searcher"
	"github.com/dshills/athletematch-mcp/pkg/types"
)

type searchMatchJSON struct {
	AthleteID       *int64  `json:"athlete_id"`
	DisplayName     string  `json:"display_name"`
	SimilarityScore float64 `json:"similarity_score"`
	MatchedOn       string  `json:"matched_on"`
	Source          string  `json:"source"`
	AppearanceCount int     `json:"appearance_count"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var threshold float64
	var noKnown bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search athletes by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return ctx.withApp(cmd, func(a *app) error {
				req := searcher.SearchRequest{
					Query:        query,
					Limit:        a.cfg.Search.DefaultLimit,
					Threshold:    a.cfg.Search.DefaultThreshold,
					IncludeKnown: a.cfg.Search.IncludeKnown && !noKnown,
				}
				if cmd.Flags().Changed("limit") {
					if limit < 1 || limit > a.cfg.Search.MaxLimit {
						return fmt.Errorf("--limit must be between 1 and %d", a.cfg.Search.MaxLimit)
					}
					req.Limit = limit
				}
				if cmd.Flags().Changed("threshold") {
					req.Threshold = threshold
				}

				resp, err := a.newSearcher().SearchAthletes(cmd.Context(), req)
				if err != nil {
					return err
				}

				if jsonOutput {
					out := make([]searchMatchJSON, 0, len(resp.Matches))
					for _, m := range resp.Matches {
						out = append(out, searchMatchJSON{
							AthleteID:       m.AthleteID,
							DisplayName:     m.DisplayName,
							SimilarityScore: m.SimilarityScore,
							MatchedOn:       m.MatchedOn,
							Source:          string(m.Source),
							AppearanceCount: m.AppearanceCount,
						})
					}
					return writeJSON(cmd, out)
				}

				w := cmd.OutOrStdout()
				if len(resp.Matches) == 0 {
					fmt.Fprintf(w, "No athletes matched %q (threshold %.1f)\n", query, req.Threshold)
					return nil
				}
				fmt.Fprintln(w, renderMatches(resp.Matches))
				fmt.Fprintf(w, "%d match(es) from %d candidates\n", resp.TotalMatches, resp.CandidateCount)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of matches (default from config)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Minimum similarity score 0-100 (default from config)")
	cmd.Flags().BoolVar(&noKnown, "no-known", false, "Search the database only")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func renderMatches(matches []types.Match) string {
	headers := []string{"#", "Score", "Name", "Matched On", "ID", "Source", "Appearances"}
	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		id := "-"
		if m.AthleteID != nil {
			id = strconv.FormatInt(*m.AthleteID, 10)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(m.SimilarityScore, 'f', 1, 64),
			m.DisplayName,
			m.MatchedOn,
			id,
			string(m.Source),
			strconv.Itoa(m.AppearanceCount),
		})
	}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight}
	return renderTable(headers, rows, aligns)
}
