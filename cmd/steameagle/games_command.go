package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steameagle/internal/catalog"
	"steameagle/internal/config"
)

func newGamesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List catalogued games and their sync state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				if failedOnly {
					failures, err := store.Failures(cmd.Context())
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, failures)
					}
					if len(failures) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No failed downloads")
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderFailures(failures))
					return nil
				}

				games, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, games)
				}
				if len(games) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty; run `steameagle fetch` first")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderGames(games))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only list games whose cover art or tags failed to download")
	return cmd
}

func renderGames(games []catalog.Game) string {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			strconv.FormatInt(g.AppID, 10),
			g.Name,
			formatPlaytime(g.PlaytimeMinutes),
			assetState(g.ImagePath != "", g.ImageFailed()),
			tagState(g),
			yesNo(g.Imported()),
		})
	}
	return renderTable(
		[]string{"App ID", "Name", "Playtime", "Cover", "Tags", "Imported"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderFailures(failures []catalog.Failure) string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{
			strconv.FormatInt(f.AppID, 10),
			f.Name,
			failureText(f.ImgDownloadFailed, f.ImageError),
			failureText(f.TagDownloadFailed, f.TagError),
		})
	}
	return renderTable(
		[]string{"App ID", "Name", "Cover error", "Tag error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func assetState(present, failed bool) string {
	switch {
	case failed:
		return "failed"
	case present:
		return "ok"
	default:
		return "-"
	}
}

func tagState(g catalog.Game) string {
	switch {
	case g.TagsFailed():
		return "failed"
	case !g.TagsFetched:
		return "-"
	case len(g.Tags) == 0:
		return "none"
	default:
		return strings.Join(g.Tags, ", ")
	}
}

func failureText(failed bool, detail string) string {
	if !failed {
		return ""
	}
	if detail == "" {
		return "failed"
	}
	return detail
}

func formatPlaytime(minutes int64) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
