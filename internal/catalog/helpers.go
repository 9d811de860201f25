package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrUnknownGame is returned when a sync result is recorded for a game that
// is not in the catalog.
var ErrUnknownGame = errors.New("game not catalogued")

func scanGame(scanner interface{ Scan(dest ...any) error }) (*Game, error) {
	var (
		appID        int64
		name         string
		playtime     int64
		imagePath    sql.NullString
		imageError   sql.NullString
		imageUpdated sql.NullString
		tagsJSON     sql.NullString
		tagError     sql.NullString
		tagsUpdated  sql.NullString
		importedRaw  sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&appID,
		&name,
		&playtime,
		&imagePath,
		&imageError,
		&imageUpdated,
		&tagsJSON,
		&tagError,
		&tagsUpdated,
		&importedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	game := &Game{
		AppID:           appID,
		Name:            name,
		PlaytimeMinutes: playtime,
		ImagePath:       imagePath.String,
		ImageError:      imageError.String,
		TagError:        tagError.String,
		Tags:            []string{},
		ImageUpdatedAt:  parseNullableTime(imageUpdated),
		TagsUpdatedAt:   parseNullableTime(tagsUpdated),
		ImportedAt:      parseNullableTime(importedRaw),
	}
	if tagsJSON.Valid {
		game.TagsFetched = true
		if err := json.Unmarshal([]byte(tagsJSON.String), &game.Tags); err != nil {
			return nil, err
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		game.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		game.UpdatedAt = updated
	}
	return game, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func errorText(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}

func parseNullableTime(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	t, err := parseTimeString(value.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
