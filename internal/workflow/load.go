package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"steameagle/internal/catalog"
	"steameagle/internal/logging"
	"steameagle/internal/services"
	"steameagle/internal/services/eagle"
)

const stageLoad = "load"

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// LoadOptions tunes the load stage.
type LoadOptions struct {
	// All re-imports games that were already handed to Eagle.
	All bool
}

// LoadSummary reports the outcome of the load stage.
type LoadSummary struct {
	FolderID        string        `json:"folder_id"`
	FolderCreated   bool          `json:"folder_created"`
	Imported        int           `json:"imported"`
	AlreadyImported int           `json:"already_imported"`
	UnknownFiles    []string      `json:"unknown_files,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// LoadIntoEagle imports downloaded cover art into the configured Eagle folder.
func (m *Manager) LoadIntoEagle(ctx context.Context, opts LoadOptions) (LoadSummary, error) {
	ctx, release, err := m.begin(ctx, stageLoad)
	if err != nil {
		return LoadSummary{}, err
	}
	defer release()

	summary, err := m.load(ctx, opts)
	if err != nil {
		m.notifyError(ctx, stageLoad, err)
	}
	return summary, err
}

func (m *Manager) load(ctx context.Context, opts LoadOptions) (LoadSummary, error) {
	ctx = services.WithStage(ctx, stageLoad)
	logger := m.stageLogger(ctx)
	start := m.now()

	entries, err := os.ReadDir(m.cfg.Paths.ImageDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LoadSummary{}, services.Wrap(services.ErrValidation, stageLoad, "images",
				"image directory missing; run download first", err)
		}
		return LoadSummary{}, services.Wrap(services.ErrTransient, stageLoad, "images", "read image directory", err)
	}

	candidates, err := m.importCandidates(ctx, opts)
	if err != nil {
		return LoadSummary{}, services.Wrap(services.ErrTransient, stageLoad, "catalog", "list games", err)
	}

	folderID, created, err := m.eagle.EnsureFolder(ctx, m.cfg.Eagle.LibraryName, m.cfg.Eagle.FolderName)
	if err != nil {
		return LoadSummary{}, err
	}
	summary := LoadSummary{FolderID: folderID, FolderCreated: created}
	if created {
		logger.Info("created eagle folder", logging.String("folder", m.cfg.Eagle.FolderName), logging.String("folder_id", folderID))
	}

	var (
		items []eagle.Item
		ids   []int64
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExtensions[ext] {
			continue
		}
		appID, parseErr := strconv.ParseInt(strings.TrimSuffix(name, filepath.Ext(name)), 10, 64)
		game, candidate := candidates[appID]
		known := candidate
		if parseErr == nil && !candidate {
			existing, err := m.store.Get(ctx, appID)
			if err != nil {
				return summary, services.Wrap(services.ErrTransient, stageLoad, "catalog", "get game", err)
			}
			known = existing != nil
		}
		if parseErr != nil || !known {
			summary.UnknownFiles = append(summary.UnknownFiles, name)
			logging.WarnWithContext(logger, "skipping image with no catalogued game", "load_unknown_image",
				logging.String("file", name),
				logging.String(logging.FieldErrorHint, "name cover files <appid>.jpg and run fetch"),
				logging.String(logging.FieldImpact, "file not imported"),
			)
			continue
		}
		if !candidate {
			summary.AlreadyImported++
			continue
		}
		absPath, err := filepath.Abs(filepath.Join(m.cfg.Paths.ImageDir, name))
		if err != nil {
			return summary, services.Wrap(services.ErrTransient, stageLoad, "images", "resolve path", err)
		}
		tags := game.Tags
		if tags == nil {
			tags = []string{}
		}
		items = append(items, eagle.Item{
			Path:    absPath,
			Name:    game.Name,
			Tags:    tags,
			Website: m.steam.ImageURL(appID),
		})
		ids = append(ids, appID)
	}

	if len(items) == 0 {
		summary.Duration = m.now().Sub(start)
		logger.Info("nothing to import",
			logging.String(logging.FieldEventType, "load_complete"),
			logging.Int("already_imported", summary.AlreadyImported),
		)
		return summary, nil
	}

	if err := m.eagle.AddFromPaths(ctx, folderID, items); err != nil {
		return summary, err
	}
	if err := m.store.MarkImported(ctx, ids, m.now()); err != nil {
		return summary, services.Wrap(services.ErrTransient, stageLoad, "catalog", "mark imported", err)
	}

	summary.Imported = len(items)
	summary.Duration = m.now().Sub(start)
	logger.Info("import sent to eagle",
		logging.String(logging.FieldEventType, "load_complete"),
		logging.Int("imported", summary.Imported),
		logging.Int("already_imported", summary.AlreadyImported),
		logging.Int("unknown_files", len(summary.UnknownFiles)),
		logging.String("folder_id", folderID),
	)
	return summary, nil
}

// importCandidates returns the games eligible for import keyed by app ID:
// every catalogued game with All, otherwise only those not yet imported.
func (m *Manager) importCandidates(ctx context.Context, opts LoadOptions) (map[int64]catalog.Game, error) {
	var (
		games []catalog.Game
		err   error
	)
	if opts.All {
		games, err = m.store.List(ctx)
	} else {
		games, err = m.store.PendingImport(ctx)
	}
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]catalog.Game, len(games))
	for _, game := range games {
		byID[game.AppID] = game
	}
	return byID, nil
}
