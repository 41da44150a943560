package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/storage"
)

func newAddAthleteCommand(ctx *commandContext) *cobra.Command {
	var aliases []string

	cmd := &cobra.Command{
		Use:   "add-athlete <name>",
		Short: "Add an athlete, or aliases to an existing one",
		Long: "Look up the athlete by display name or alias (case-insensitive) and create it\n" +
			"when missing. Each --alias is added unless already present.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("athlete name is required")
			}

			return ctx.withApp(cmd, func(a *app) error {
				athlete, created, err := a.store.FindOrCreateAthlete(cmd.Context(), name)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if created {
					fmt.Fprintf(w, "Created athlete %d: %s\n", athlete.ID, athlete.DisplayName)
				} else {
					fmt.Fprintf(w, "Found athlete %d: %s\n", athlete.ID, athlete.DisplayName)
				}

				for _, alias := range aliases {
					alias = strings.TrimSpace(alias)
					if alias == "" {
						continue
					}
					added, err := a.store.AddAlias(cmd.Context(), athlete.ID, alias)
					if err != nil {
						return fmt.Errorf("add alias %q: %w", alias, err)
					}
					if added {
						fmt.Fprintf(w, "Added alias %q\n", alias)
					} else {
						fmt.Fprintf(w, "Alias %q already present\n", alias)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&aliases, "alias", "a", nil, "Alias to add (repeatable)")
	return cmd
}

func newRecordAppearanceCommand(ctx *commandContext) *cobra.Command {
	var (
		title      string
		rawName    string
		confidence float64
		verified   bool
	)

	cmd := &cobra.Command{
		Use:   "record-appearance <name> <youtube_id> <seconds>",
		Short: "Record that an athlete appears in a video at a timestamp",
		Long: "Find or create the athlete by name and store a video appearance.\n" +
			"Quote names that contain spaces.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("athlete name is required")
			}
			seconds, err := strconv.Atoi(strings.TrimSpace(args[2]))
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: must be whole seconds", args[2])
			}
			if rawName == "" {
				rawName = name
			}

			return ctx.withApp(cmd, func(a *app) error {
				athlete, created, err := a.store.FindOrCreateAthlete(cmd.Context(), name)
				if err != nil {
					return err
				}

				appearance := &storage.Appearance{
					AthleteID:        athlete.ID,
					YouTubeID:        strings.TrimSpace(args[1]),
					VideoTitle:       title,
					TimestampSeconds: seconds,
					ConfidenceScore:  confidence,
					RawName:          rawName,
					Verified:         verified,
				}
				if err := a.store.RecordAppearance(cmd.Context(), appearance); err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if created {
					fmt.Fprintf(w, "Created athlete %d: %s\n", athlete.ID, athlete.DisplayName)
				}
				fmt.Fprintf(w, "Recorded appearance %d for %s: %s\n", appearance.ID, athlete.DisplayName, appearance.TimestampURL())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Video title")
	cmd.Flags().StringVar(&rawName, "raw-name", "", "Name as heard in the video (default: <name>)")
	cmd.Flags().Float64Var(&confidence, "confidence", 1.0, "Recognition confidence (0-1)")
	cmd.Flags().BoolVar(&verified, "verified", false, "Mark the appearance as verified")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an athlete with aliases and video appearances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id < 1 {
				return fmt.Errorf("invalid athlete id %q", args[0])
			}

			return ctx.withApp(cmd, func(a *app) error {
				athlete, err := a.store.GetAthlete(cmd.Context(), id)
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("athlete %d not found", id)
				}
				if err != nil {
					return err
				}
				appearances, err := a.store.ListAppearances(cmd.Context(), id)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Athlete %d: %s\n", athlete.ID, athlete.DisplayName)
				if len(athlete.Aliases) > 0 {
					fmt.Fprintf(w, "Aliases: %s\n", strings.Join(athlete.Aliases, ", "))
				}
				fmt.Fprintf(w, "Appearances: %d\n", athlete.AppearanceCount)
				if len(appearances) == 0 {
					return nil
				}

				rows := make([][]string, 0, len(appearances))
				for _, ap := range appearances {
					rows = append(rows, []string{
						ap.VideoTitle,
						ap.RawName,
						strconv.FormatFloat(ap.ConfidenceScore, 'f', 2, 64),
						yesNo(ap.Verified),
						ap.TimestampURL(),
					})
				}
				headers := []string{"Video", "Heard As", "Confidence", "Verified", "URL"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
				fmt.Fprintln(w, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
}
