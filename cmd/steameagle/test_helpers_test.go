package main

import (
	"bytes"
	"strings"
	"testing"

	"steameagle/internal/config"
	"steameagle/internal/services/steam"
	"steameagle/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	steam      *testsupport.FakeSteam
	eagle      *testsupport.FakeEagle
}

func setupCLITestEnv(t *testing.T, steamOpts ...testsupport.FakeSteamOption) *cliTestEnv {
	t.Helper()

	if len(steamOpts) == 0 {
		steamOpts = []testsupport.FakeSteamOption{
			testsupport.WithOwnedGames(
				steam.Game{AppID: 620, Name: "Portal 2", PlaytimeMinutes: 754},
				steam.Game{AppID: 440, Name: "Team Fortress 2", PlaytimeMinutes: 30},
			),
			testsupport.WithStoreTags(620, "Puzzle", "Co-op"),
			testsupport.WithStoreTags(440, "Free to Play", "FPS"),
		}
	}
	steamServer := testsupport.NewFakeSteam(t, steamOpts...)
	eagleServer := testsupport.NewFakeEagle(t)

	cfg := testsupport.NewConfig(t,
		testsupport.WithSteamServer(steamServer),
		testsupport.WithEagleServer(eagleServer),
	)
	cfg.Steam.StoreRequestsPerSecond = 50

	return &cliTestEnv{
		cfg:        cfg,
		configPath: testsupport.WriteConfigFile(t, cfg),
		steam:      steamServer,
		eagle:      eagleServer,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
