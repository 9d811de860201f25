package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"steameagle/internal/catalog"
	"steameagle/internal/services/steam"
	"steameagle/internal/testsupport"
)

func TestSyncCommandImportsLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"sync"}, env.configPath)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out, "Fetched 2 owned games (2 new)")
	requireContains(t, out, "Cover art: 2 downloaded, 0 skipped, 0 failed")
	requireContains(t, out, "Imported 2 games into Eagle folder")

	imports := env.eagle.Imports()
	if len(imports) != 1 || len(imports[0].Items) != 2 {
		t.Fatalf("expected one import call with two items, got %+v", imports)
	}

	out, _, err = runCLI(t, []string{"games"}, env.configPath)
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	requireContains(t, out, "Portal 2")
	requireContains(t, out, "Puzzle, Co-op")
	requireContains(t, out, "12h34m")
}

func TestSyncCommandJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"sync", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sync --json: %v", err)
	}
	var summary struct {
		RunID string `json:"run_id"`
		Load  struct {
			Imported int `json:"imported"`
		} `json:"load"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.RunID == "" || summary.Load.Imported != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestStageCommandsRunIndividually(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"fetch"}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Fetched 2 owned games")

	out, _, err = runCLI(t, []string{"download"}, env.configPath)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	requireContains(t, out, "Tags: 2 fetched, 0 skipped, 0 failed")

	out, _, err = runCLI(t, []string{"load"}, env.configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	requireContains(t, out, "Imported 2 games")

	out, _, err = runCLI(t, []string{"load"}, env.configPath)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	requireContains(t, out, "Imported 0 games")
	requireContains(t, out, "2 already imported")

	out, _, err = runCLI(t, []string{"load", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("load --all: %v", err)
	}
	requireContains(t, out, "Imported 2 games")
}

func TestGamesFailedListsDownloadFailures(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithOwnedGames(
			steam.Game{AppID: 620, Name: "Portal 2"},
			steam.Game{AppID: 999, Name: "Delisted"},
		),
		testsupport.WithStoreTags(620, "Puzzle"),
		testsupport.WithMissingImage(999),
		testsupport.WithStoreStatus(999, 404),
	)

	out, _, err := runCLI(t, []string{"sync"}, env.configPath)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out, "1 failed")
	requireContains(t, out, "  - app 999 (Delisted) image:")
	requireContains(t, out, "  - app 999 (Delisted) tags:")
	requireContains(t, out, "Failure report:")

	out, _, err = runCLI(t, []string{"games", "--failed"}, env.configPath)
	if err != nil {
		t.Fatalf("games --failed: %v", err)
	}
	requireContains(t, out, "999")
	requireContains(t, out, "Delisted")
	if strings.Contains(out, "Portal 2") {
		t.Fatalf("healthy game listed as failed: %s", out)
	}

	out, _, err = runCLI(t, []string{"games", "--failed", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("games --failed --json: %v", err)
	}
	var failures []catalog.Failure
	if err := json.Unmarshal([]byte(out), &failures); err != nil {
		t.Fatalf("decode failures: %v", err)
	}
	if len(failures) != 1 || failures[0].AppID != 999 || !failures[0].ImgDownloadFailed || !failures[0].TagDownloadFailed {
		t.Fatalf("unexpected failures %+v", failures)
	}
}

func TestGamesOnEmptyCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"games"}, env.configPath)
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	requireContains(t, out, "Catalog is empty")
}

func TestIDCommandDecodesWithoutConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "config.toml")

	out, _, err := runCLI(t, []string{"id", "[U:1:132275970]"}, missing)
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	requireContains(t, out, "76561198092541698")
	requireContains(t, out, "STEAM_1:0:66137985")
	requireContains(t, out, "individual")
}

func TestIDCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"id", "--json", "103582791429521412"}, "")
	if err != nil {
		t.Fatalf("id --json: %v", err)
	}
	var view idView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.AccountType != "clan" || view.Universe != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Canonical != 103582791429521412 || view.CanonicalErr != "" {
		t.Fatalf("expected clan id to rebuild, got %+v", view)
	}
}

func TestIDCommandRejectsGarbage(t *testing.T) {
	if _, _, err := runCLI(t, []string{"id", "not-an-id"}, ""); err == nil {
		t.Fatal("expected error for invalid identifier")
	}
}

func TestStatusCommandReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "Steam Web API:")
	requireContains(t, out, "[OK] key valid (2 games visible)")
	requireContains(t, out, "Eagle:")
	requireContains(t, out, "Config: "+env.configPath)
}

func TestStatusCommandFailsWhenEagleMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Eagle.URL = "http://127.0.0.1:1"
	path := testsupport.WriteConfigFile(t, env.cfg)

	out, _, err := runCLI(t, []string{"status"}, path)
	if err == nil {
		t.Fatalf("expected failing preflight, got output %s", out)
	}
	requireContains(t, out, "[ERROR]")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications disabled")
}
