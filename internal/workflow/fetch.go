package workflow

import (
	"context"
	"time"

	"steameagle/internal/catalog"
	"steameagle/internal/logging"
	"steameagle/internal/services"
)

const stageFetch = "fetch"

// FetchSummary reports the outcome of the fetch stage.
type FetchSummary struct {
	Games    int           `json:"games"`
	NewGames int           `json:"new_games"`
	Duration time.Duration `json:"duration"`
}

// FetchOwnedGames refreshes the catalog from the Steam owned games list.
func (m *Manager) FetchOwnedGames(ctx context.Context) (FetchSummary, error) {
	ctx, release, err := m.begin(ctx, stageFetch)
	if err != nil {
		return FetchSummary{}, err
	}
	defer release()

	summary, err := m.fetch(ctx)
	if err != nil {
		m.notifyError(ctx, stageFetch, err)
	}
	return summary, err
}

func (m *Manager) fetch(ctx context.Context) (FetchSummary, error) {
	ctx = services.WithStage(ctx, stageFetch)
	logger := m.stageLogger(ctx)
	start := m.now()

	steamID := m.cfg.SteamID64()
	logger.Info("fetching owned games", logging.Uint64("steam_id", steamID))

	owned, err := m.steam.GetOwnedGames(ctx, steamID)
	if err != nil {
		return FetchSummary{}, err
	}
	if len(owned) == 0 {
		logging.WarnWithContext(logger, "steam returned no owned games", "owned_games_empty",
			logging.String(logging.FieldErrorHint, "set Steam profile game details to public"),
			logging.String(logging.FieldImpact, "catalog unchanged"),
		)
	}

	games := make([]catalog.Game, 0, len(owned))
	for _, game := range owned {
		games = append(games, catalog.Game{
			AppID:           game.AppID,
			Name:            game.Name,
			PlaytimeMinutes: game.PlaytimeMinutes,
		})
	}
	added, err := m.store.UpsertGames(ctx, games)
	if err != nil {
		return FetchSummary{}, services.Wrap(services.ErrTransient, stageFetch, "catalog", "store owned games", err)
	}

	summary := FetchSummary{Games: len(games), NewGames: added, Duration: m.now().Sub(start)}
	logger.Info("owned games catalogued",
		logging.String(logging.FieldEventType, "fetch_complete"),
		logging.Int("games", summary.Games),
		logging.Int("new_games", summary.NewGames),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}
