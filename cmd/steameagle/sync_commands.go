package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"steameagle/internal/workflow"
)

func newSyncCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSyncCommand(ctx),
		newFetchCommand(ctx),
		newDownloadCommand(ctx),
		newLoadCommand(ctx),
	}
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var opts workflow.RunOptions
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch owned games, download art and tags, and import into Eagle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				summary, err := mgr.Run(cmd.Context(), opts)
				if jsonOutput {
					if encErr := writeJSON(cmd, summary); encErr != nil {
						return encErr
					}
					return err
				}
				out := cmd.OutOrStdout()
				if summary.Fetch != nil {
					printFetchSummary(out, *summary.Fetch)
				}
				if summary.Download != nil {
					printDownloadSummary(out, *summary.Download)
				}
				if summary.Load != nil {
					printLoadSummary(out, *summary.Load)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Sync %s finished in %s\n", summary.RunID, formatDuration(summary.Duration))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.SkipFetch, "skip-fetch", false, "Reuse the catalogued game list instead of calling the Steam API")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Re-download cover art and re-scrape tags for every game")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Re-import games already handed to Eagle")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the owned games list into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				summary, err := mgr.FetchOwnedGames(cmd.Context())
				if err != nil {
					return err
				}
				printFetchSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var opts workflow.DownloadOptions

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download cover art and store tags for catalogued games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				summary, err := mgr.DownloadAssets(cmd.Context(), opts)
				if err != nil {
					return err
				}
				printDownloadSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Re-download cover art and re-scrape tags for every game")
	return cmd
}

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var opts workflow.LoadOptions

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Import downloaded cover art into Eagle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				summary, err := mgr.LoadIntoEagle(cmd.Context(), opts)
				if err != nil {
					return err
				}
				printLoadSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "Re-import games already handed to Eagle")
	return cmd
}

func printFetchSummary(out io.Writer, s workflow.FetchSummary) {
	fmt.Fprintf(out, "Fetched %d owned games (%d new) in %s\n", s.Games, s.NewGames, formatDuration(s.Duration))
}

func printDownloadSummary(out io.Writer, s workflow.DownloadSummary) {
	fmt.Fprintf(out, "Cover art: %d downloaded, %d skipped, %d failed\n", s.ImagesDownloaded, s.ImagesSkipped, s.ImageFailures)
	fmt.Fprintf(out, "Tags: %d fetched, %d skipped, %d failed\n", s.TagsFetched, s.TagsSkipped, s.TagFailures)
	if s.Failed() {
		for _, msg := range s.FailureMessages() {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
		fmt.Fprintf(out, "Failure report: %s\n", s.ReportPath)
	}
}

func printLoadSummary(out io.Writer, s workflow.LoadSummary) {
	fmt.Fprintf(out, "Imported %d games into Eagle folder %s (%d already imported, folder created: %s)\n",
		s.Imported, s.FolderID, s.AlreadyImported, yesNo(s.FolderCreated))
	if len(s.UnknownFiles) > 0 {
		fmt.Fprintf(out, "Skipped %d files not matching a catalogued game\n", len(s.UnknownFiles))
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
