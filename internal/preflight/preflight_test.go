package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"steameagle/internal/preflight"
	"steameagle/internal/services/steam"
	"steameagle/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckSteamAPI(t *testing.T) {
	fake := testsupport.NewFakeSteam(t, testsupport.WithOwnedGames(steam.Game{AppID: 620, Name: "Portal 2"}))
	cfg := testsupport.NewConfig(t, testsupport.WithSteamServer(fake))

	result := preflight.CheckSteamAPI(context.Background(), cfg)
	if !result.Passed || !strings.Contains(result.Detail, "1 games visible") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckSteamAPI_BadKey(t *testing.T) {
	fake := testsupport.NewFakeSteam(t, testsupport.WithAPIKey("expected"))
	cfg := testsupport.NewConfig(t, testsupport.WithSteamServer(fake))

	result := preflight.CheckSteamAPI(context.Background(), cfg)
	if result.Passed || !strings.HasPrefix(result.Detail, "rejected") {
		t.Fatalf("expected rejection, got %+v", result)
	}
}

func TestCheckSteamAPI_MissingKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Steam.APIKey = ""
	result := preflight.CheckSteamAPI(context.Background(), cfg)
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckEagle(t *testing.T) {
	fake := testsupport.NewFakeEagle(t, testsupport.WithLibraryName("Games"))
	cfg := testsupport.NewConfig(t, testsupport.WithEagleServer(fake))

	if result := preflight.CheckEagle(context.Background(), cfg); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}

	cfg.Eagle.LibraryName = "Other"
	if result := preflight.CheckEagle(context.Background(), cfg); result.Passed {
		t.Fatalf("expected mismatch failure, got %+v", result)
	}
}

func TestCheckEagle_Unreachable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Eagle.URL = "http://127.0.0.1:1"
	if result := preflight.CheckEagle(context.Background(), cfg); result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	fakeSteam := testsupport.NewFakeSteam(t)
	fakeEagle := testsupport.NewFakeEagle(t)
	cfg := testsupport.NewConfig(t, testsupport.WithSteamServer(fakeSteam), testsupport.WithEagleServer(fakeEagle))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if !preflight.AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}
