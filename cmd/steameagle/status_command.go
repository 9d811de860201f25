package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"steameagle/internal/catalog"
	"steameagle/internal/config"
	"steameagle/internal/preflight"
)

type statusView struct {
	ConfigPath string             `json:"config_path"`
	Checks     []preflight.Result `json:"checks"`
	Catalog    catalog.Stats      `json:"catalog"`
	Failures   int                `json:"failure_report_entries"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check Steam and Eagle connectivity and summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				view := statusView{
					ConfigPath: ctx.configPath,
					Checks:     preflight.RunAll(cmd.Context(), cfg),
				}
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				view.Catalog = stats
				if failures, err := catalog.ReadFailureReport(cfg.FailureReportPath()); err == nil {
					view.Failures = len(failures)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("read failure report: %w", err)
				}

				if jsonOutput {
					if err := writeJSON(cmd, view); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					writeStatus(out, view, shouldColorize(out))
				}
				if !preflight.AllPassed(view.Checks) {
					return errors.New("one or more preflight checks failed")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func writeStatus(out io.Writer, view statusView, colorize bool) {
	lines := renderSectionHeader("Checks", colorize)
	for _, check := range view.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Catalog", colorize)...)
	s := view.Catalog
	lines = append(lines,
		renderStatusLine("Games", statusInfo, fmt.Sprintf("%d", s.Total), colorize),
		renderStatusLine("Cover art", statusInfo, fmt.Sprintf("%d downloaded", s.WithImage), colorize),
		renderStatusLine("Tags", statusInfo, fmt.Sprintf("%d scraped", s.WithTags), colorize),
		renderStatusLine("Imported", statusInfo, fmt.Sprintf("%d imported, %d pending", s.Imported, s.Pending), colorize),
	)
	failKind := statusOK
	if s.ImageFailures > 0 || s.TagFailures > 0 {
		failKind = statusWarn
	}
	lines = append(lines, renderStatusLine("Failures", failKind,
		fmt.Sprintf("%d cover art, %d tags (report lists %d)", s.ImageFailures, s.TagFailures, view.Failures), colorize))

	if view.ConfigPath != "" {
		lines = append(lines, "", statusIndent+"Config: "+view.ConfigPath)
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
