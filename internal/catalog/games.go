package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const gameColumns = "app_id, name, playtime_minutes, image_path, image_error, image_updated_at, tags_json, tag_error, tags_updated_at, imported_at, created_at, updated_at"

// UpsertGames inserts new games and refreshes the name and playtime of known
// ones. Sync state of existing rows is preserved. It returns the number of
// games that were not previously catalogued.
func (s *Store) UpsertGames(ctx context.Context, games []Game) (int, error) {
	ctx = ensureContext(ctx)
	if len(games) == 0 {
		return 0, nil
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var added int
	err := retryOnBusy(ctx, func() error {
		added = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin upsert tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, game := range games {
			if game.AppID <= 0 {
				return fmt.Errorf("invalid app id %d", game.AppID)
			}
			var exists int
			if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM games WHERE app_id = ?", game.AppID).Scan(&exists); err != nil {
				return fmt.Errorf("check game %d: %w", game.AppID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO games (app_id, name, playtime_minutes, created_at, updated_at)
                 VALUES (?, ?, ?, ?, ?)
                 ON CONFLICT(app_id) DO UPDATE SET
                     name = excluded.name,
                     playtime_minutes = excluded.playtime_minutes,
                     updated_at = excluded.updated_at`,
				game.AppID,
				strings.TrimSpace(game.Name),
				game.PlaytimeMinutes,
				timestamp,
				timestamp,
			); err != nil {
				return fmt.Errorf("upsert game %d: %w", game.AppID, err)
			}
			if exists == 0 {
				added++
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// List returns every catalogued game ordered by app ID.
func (s *Store) List(ctx context.Context) ([]Game, error) {
	return s.query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY app_id`)
}

// Get fetches a single game. It returns nil when the game is not catalogued.
func (s *Store) Get(ctx context.Context, appID int64) (*Game, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+gameColumns+` FROM games WHERE app_id = ?`, appID)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// RecordImage stores the outcome of a cover art download. A nil downloadErr
// clears any previous failure and records path.
func (s *Store) RecordImage(ctx context.Context, appID int64, path string, downloadErr error) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var (
		res sql.Result
		err error
	)
	if downloadErr == nil {
		res, err = s.exec(ctx,
			`UPDATE games SET image_path = ?, image_error = NULL, image_updated_at = ?, updated_at = ? WHERE app_id = ?`,
			nullableString(path), now, now, appID)
	} else {
		res, err = s.exec(ctx,
			`UPDATE games SET image_error = ?, image_updated_at = ?, updated_at = ? WHERE app_id = ?`,
			errorText(downloadErr), now, now, appID)
	}
	if err != nil {
		return fmt.Errorf("record image for %d: %w", appID, err)
	}
	return requireRow(res, appID)
}

// RecordTags stores the outcome of a tag scrape. A nil scrapeErr replaces the
// stored tags and clears any previous failure.
func (s *Store) RecordTags(ctx context.Context, appID int64, tags []string, scrapeErr error) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var (
		res sql.Result
		err error
	)
	if scrapeErr == nil {
		if tags == nil {
			tags = []string{}
		}
		encoded, marshalErr := json.Marshal(tags)
		if marshalErr != nil {
			return fmt.Errorf("encode tags: %w", marshalErr)
		}
		res, err = s.exec(ctx,
			`UPDATE games SET tags_json = ?, tag_error = NULL, tags_updated_at = ?, updated_at = ? WHERE app_id = ?`,
			string(encoded), now, now, appID)
	} else {
		res, err = s.exec(ctx,
			`UPDATE games SET tag_error = ?, tags_updated_at = ?, updated_at = ? WHERE app_id = ?`,
			errorText(scrapeErr), now, now, appID)
	}
	if err != nil {
		return fmt.Errorf("record tags for %d: %w", appID, err)
	}
	return requireRow(res, appID)
}

// PendingImport returns games that have not been handed to Eagle yet.
func (s *Store) PendingImport(ctx context.Context) ([]Game, error) {
	return s.query(ctx, `SELECT `+gameColumns+` FROM games WHERE imported_at IS NULL ORDER BY app_id`)
}

// MarkImported stamps the import time on the given games.
func (s *Store) MarkImported(ctx context.Context, appIDs []int64, at time.Time) error {
	if len(appIDs) == 0 {
		return nil
	}
	stamp := at.UTC().Format(time.RFC3339Nano)
	args := make([]any, 0, len(appIDs)+2)
	args = append(args, stamp, stamp)
	for _, id := range appIDs {
		args = append(args, id)
	}
	if _, err := s.exec(ctx,
		`UPDATE games SET imported_at = ?, updated_at = ? WHERE app_id IN (`+makePlaceholders(len(appIDs))+`)`,
		args...,
	); err != nil {
		return fmt.Errorf("mark imported: %w", err)
	}
	return nil
}

// Failures lists games whose last image download or tag scrape failed.
func (s *Store) Failures(ctx context.Context) ([]Failure, error) {
	games, err := s.query(ctx,
		`SELECT `+gameColumns+` FROM games WHERE image_error IS NOT NULL OR tag_error IS NOT NULL ORDER BY app_id`)
	if err != nil {
		return nil, err
	}
	failures := make([]Failure, 0, len(games))
	for _, game := range games {
		failures = append(failures, Failure{
			AppID:             game.AppID,
			Name:              game.Name,
			ImgDownloadFailed: game.ImageFailed(),
			TagDownloadFailed: game.TagsFailed(),
			ImageError:        game.ImageError,
			TagError:          game.TagError,
		})
	}
	return failures, nil
}

// Stats summarizes the catalog.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT
        COUNT(1),
        COALESCE(SUM(CASE WHEN image_path IS NOT NULL THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN tags_json IS NOT NULL THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN image_error IS NOT NULL THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN tag_error IS NOT NULL THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN imported_at IS NOT NULL THEN 1 ELSE 0 END), 0)
        FROM games`)
	if err := row.Scan(&stats.Total, &stats.WithImage, &stats.WithTags, &stats.ImageFailures, &stats.TagFailures, &stats.Imported); err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	stats.Pending = stats.Total - stats.Imported
	return stats, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Game, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

func requireRow(res sql.Result, appID int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %d: %w", appID, ErrUnknownGame)
	}
	return nil
}
