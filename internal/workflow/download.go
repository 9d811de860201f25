package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"steameagle/internal/catalog"
	"steameagle/internal/logging"
	"steameagle/internal/services"
)

const stageDownload = "download"

// DownloadOptions tunes the download stage.
type DownloadOptions struct {
	// Refresh re-downloads covers and re-scrapes tags for every game.
	Refresh bool
}

// DownloadSummary reports the outcome of the download stage. Errors holds
// every per-game failure; it is nil when all games succeeded.
type DownloadSummary struct {
	Games            int           `json:"games"`
	ImagesDownloaded int           `json:"images_downloaded"`
	ImagesSkipped    int           `json:"images_skipped"`
	ImageFailures    int           `json:"image_failures"`
	TagsFetched      int           `json:"tags_fetched"`
	TagsSkipped      int           `json:"tags_skipped"`
	TagFailures      int           `json:"tag_failures"`
	ReportPath       string        `json:"report_path"`
	Duration         time.Duration `json:"duration"`
	Errors           error         `json:"-"`
}

// Failed reports whether any game failed to download.
func (s DownloadSummary) Failed() bool {
	return s.ImageFailures > 0 || s.TagFailures > 0
}

// DownloadAssets downloads cover art and store tags for every catalogued game.
func (m *Manager) DownloadAssets(ctx context.Context, opts DownloadOptions) (DownloadSummary, error) {
	ctx, release, err := m.begin(ctx, stageDownload)
	if err != nil {
		return DownloadSummary{}, err
	}
	defer release()

	summary, err := m.download(ctx, opts)
	if err != nil {
		m.notifyError(ctx, stageDownload, err)
	}
	return summary, err
}

type downloadTally struct {
	mu      sync.Mutex
	summary DownloadSummary
	errs    *multierror.Error
}

func (t *downloadTally) add(update func(*DownloadSummary), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if update != nil {
		update(&t.summary)
	}
	if err != nil {
		t.errs = multierror.Append(t.errs, err)
		t.errs.ErrorFormat = failureListFormat
	}
}

// failureListFormat renders aggregated per-game failures on a single log line.
func failureListFormat(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	sort.Strings(parts)
	return fmt.Sprintf("%d download failures: %s", len(errs), strings.Join(parts, "; "))
}

// FailureMessages lists every per-game failure recorded in s.Errors, sorted.
func (s DownloadSummary) FailureMessages() []string {
	var merr *multierror.Error
	if !errors.As(s.Errors, &merr) {
		return nil
	}
	out := make([]string, 0, len(merr.Errors))
	for _, err := range merr.Errors {
		out = append(out, err.Error())
	}
	sort.Strings(out)
	return out
}

func (m *Manager) download(ctx context.Context, opts DownloadOptions) (DownloadSummary, error) {
	ctx = services.WithStage(ctx, stageDownload)
	logger := m.stageLogger(ctx)
	start := m.now()

	games, err := m.store.List(ctx)
	if err != nil {
		return DownloadSummary{}, services.Wrap(services.ErrTransient, stageDownload, "catalog", "list games", err)
	}
	if len(games) == 0 {
		return DownloadSummary{}, services.Wrap(services.ErrValidation, stageDownload, "catalog", "no games catalogued; run fetch first", nil)
	}

	workers := m.cfg.Sync.Workers
	if workers <= 0 {
		workers = 1
	}
	logger.Info("downloading game assets",
		logging.Int("games", len(games)),
		logging.Int("workers", workers),
		logging.Bool("refresh", opts.Refresh),
	)

	tally := &downloadTally{summary: DownloadSummary{Games: len(games)}}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, game := range games {
		group.Go(func() error {
			return m.downloadGame(groupCtx, game, opts, tally)
		})
	}
	if err := group.Wait(); err != nil {
		return tally.summary, err
	}

	summary := tally.summary
	summary.Errors = tally.errs.ErrorOrNil()
	summary.Duration = m.now().Sub(start)

	failures, err := m.store.Failures(ctx)
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, stageDownload, "catalog", "list failures", err)
	}
	summary.ReportPath = m.cfg.FailureReportPath()
	if err := catalog.WriteFailureReport(summary.ReportPath, failures); err != nil {
		return summary, services.Wrap(services.ErrTransient, stageDownload, "report", "write failure report", err)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "download_complete"),
		logging.Int("images_downloaded", summary.ImagesDownloaded),
		logging.Int("images_skipped", summary.ImagesSkipped),
		logging.Int("image_failures", summary.ImageFailures),
		logging.Int("tags_fetched", summary.TagsFetched),
		logging.Int("tag_failures", summary.TagFailures),
		logging.Duration("duration", summary.Duration),
	}
	if summary.Failed() {
		attrs = append(attrs,
			logging.String("report", summary.ReportPath),
			logging.String("failures", summary.Errors.Error()),
			logging.String(logging.FieldErrorHint, "see the failure report; rerun download to retry failed games"),
			logging.String(logging.FieldImpact, "failed games are imported without cover art or tags"),
		)
		logging.WarnWithContext(logger, "download finished with failures", "download_complete", attrs...)
	} else {
		logger.Info("download finished", logging.Args(attrs...)...)
	}
	return summary, nil
}

// downloadGame returns an error only for failures that should stop the whole
// stage; per-game failures are recorded and tallied.
func (m *Manager) downloadGame(ctx context.Context, game catalog.Game, opts DownloadOptions, tally *downloadTally) error {
	ctx = services.WithAppID(ctx, game.AppID)
	logger := m.stageLogger(ctx)

	dest := filepath.Join(m.cfg.Paths.ImageDir, fmt.Sprintf("%d.jpg", game.AppID))
	overwrite := opts.Refresh || m.cfg.Sync.OverwriteImages
	written, imgErr := m.steam.DownloadImage(ctx, game.AppID, dest, overwrite)
	if imgErr != nil && services.IsFatal(imgErr) {
		return imgErr
	}
	recordPath := dest
	if imgErr != nil {
		recordPath = ""
	}
	if err := m.store.RecordImage(ctx, game.AppID, recordPath, imgErr); err != nil {
		return services.Wrap(services.ErrTransient, stageDownload, "catalog", "record image", err)
	}
	switch {
	case imgErr != nil:
		logging.WarnWithContext(logger, "cover art download failed", "image_download_failed",
			logging.String("name", game.Name),
			logging.String("failure", services.Marker(imgErr)),
			logging.Error(imgErr),
			logging.String(logging.FieldImpact, "game will be skipped by the load stage"),
		)
		tally.add(func(s *DownloadSummary) { s.ImageFailures++ },
			fmt.Errorf("app %d (%s) image: %w", game.AppID, game.Name, imgErr))
	case written:
		logger.Debug("cover art saved", logging.String("path", dest))
		tally.add(func(s *DownloadSummary) { s.ImagesDownloaded++ }, nil)
	default:
		tally.add(func(s *DownloadSummary) { s.ImagesSkipped++ }, nil)
	}

	if !opts.Refresh && game.TagsFetched && !game.TagsFailed() {
		tally.add(func(s *DownloadSummary) { s.TagsSkipped++ }, nil)
		return nil
	}
	tags, tagErr := m.steam.Tags(ctx, game.AppID, m.cfg.StoreLanguage())
	if tagErr != nil && services.IsFatal(tagErr) {
		return tagErr
	}
	if err := m.store.RecordTags(ctx, game.AppID, tags, tagErr); err != nil {
		return services.Wrap(services.ErrTransient, stageDownload, "catalog", "record tags", err)
	}
	if tagErr != nil {
		logging.WarnWithContext(logger, "store tag scrape failed", "tag_scrape_failed",
			logging.String("name", game.Name),
			logging.String("failure", services.Marker(tagErr)),
			logging.Error(tagErr),
			logging.String(logging.FieldImpact, "game will be imported without tags"),
		)
		tally.add(func(s *DownloadSummary) { s.TagFailures++ },
			fmt.Errorf("app %d (%s) tags: %w", game.AppID, game.Name, tagErr))
		return nil
	}
	logger.Debug("store tags scraped", logging.Int("tags", len(tags)))
	tally.add(func(s *DownloadSummary) { s.TagsFetched++ }, nil)
	return nil
}
