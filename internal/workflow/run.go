package workflow

import (
	"context"
	"time"

	"steameagle/internal/logging"
	"steameagle/internal/notifications"
	"steameagle/internal/services"
)

// RunOptions selects which parts of a full sync run.
type RunOptions struct {
	SkipFetch bool
	Refresh   bool
	All       bool
}

// RunSummary collects the per-stage summaries of a full sync.
type RunSummary struct {
	RunID    string           `json:"run_id"`
	Fetch    *FetchSummary    `json:"fetch,omitempty"`
	Download *DownloadSummary `json:"download,omitempty"`
	Load     *LoadSummary     `json:"load,omitempty"`
	Duration time.Duration    `json:"duration"`
}

// Run executes fetch, download and load in order under a single lock. The
// first stage error stops the run.
func (m *Manager) Run(ctx context.Context, opts RunOptions) (RunSummary, error) {
	ctx, release, err := m.begin(ctx, "sync")
	if err != nil {
		return RunSummary{}, err
	}
	defer release()

	start := m.now()
	var summary RunSummary
	summary.RunID, _ = services.RunIDFromContext(ctx)
	logger := m.stageLogger(ctx)
	logger.Info("sync started", logging.Bool("skip_fetch", opts.SkipFetch), logging.Bool("all", opts.All))

	var stages []string
	if !opts.SkipFetch {
		fetch, err := m.fetch(ctx)
		if err != nil {
			m.notifyError(ctx, stageFetch, err)
			return summary, err
		}
		summary.Fetch = &fetch
		stages = append(stages, stageFetch)
	}

	download, err := m.download(ctx, DownloadOptions{Refresh: opts.Refresh})
	if err != nil {
		m.notifyError(ctx, stageDownload, err)
		return summary, err
	}
	summary.Download = &download
	stages = append(stages, stageDownload)

	load, err := m.load(ctx, LoadOptions{All: opts.All})
	if err != nil {
		m.notifyError(ctx, stageLoad, err)
		return summary, err
	}
	summary.Load = &load
	stages = append(stages, stageLoad)

	summary.Duration = m.now().Sub(start)
	logger.Info("sync finished",
		logging.String(logging.FieldEventType, "sync_complete"),
		logging.Duration("duration", summary.Duration),
	)
	m.notifyCompleted(ctx, stages, summary)
	return summary, nil
}

func (m *Manager) notifyCompleted(ctx context.Context, stages []string, run RunSummary) {
	if m.notifier == nil {
		return
	}
	summary := notifications.SyncSummary{Stages: stages, Duration: run.Duration}
	if run.Fetch != nil {
		summary.Games = run.Fetch.Games
		summary.NewGames = run.Fetch.NewGames
	}
	if run.Download != nil {
		if summary.Games == 0 {
			summary.Games = run.Download.Games
		}
		summary.ImagesDownloaded = run.Download.ImagesDownloaded
		summary.ImageFailures = run.Download.ImageFailures
		summary.TagFailures = run.Download.TagFailures
	}
	if run.Load != nil {
		summary.Imported = run.Load.Imported
	}
	if err := m.notifier.NotifySyncCompleted(ctx, summary); err != nil {
		m.stageLogger(ctx).Debug("completion notification failed", logging.Error(err))
	}
}
