package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"steameagle/internal/config"
	"steameagle/internal/services"
	"steameagle/internal/services/eagle"
	"steameagle/internal/services/steam"
)

const checkTimeout = 30 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSteamAPI verifies the API key by listing the configured account's
// owned games. A single attempt is made.
func CheckSteamAPI(ctx context.Context, cfg *config.Config) Result {
	const name = "Steam Web API"

	if cfg.Steam.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	steamID := cfg.SteamID64()
	if steamID == 0 {
		return Result{Name: name, Detail: "steam_id missing"}
	}

	client, err := steam.New(cfg.Steam)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	games, err := client.GetOwnedGames(checkCtx, steamID)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	if len(games) == 0 {
		return Result{Name: name, Passed: true, Detail: "key valid (no games visible; is the profile private?)"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("key valid (%d games visible)", len(games))}
}

// CheckEagle verifies that Eagle is running and has the configured library open.
func CheckEagle(ctx context.Context, cfg *config.Config) Result {
	const name = "Eagle"

	client, err := eagle.New(cfg.Eagle)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	lib, err := client.LibraryInfo(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	if cfg.Eagle.LibraryName == "" {
		return Result{Name: name, Detail: fmt.Sprintf("library_name not configured (Eagle has %q open)", lib.Name)}
	}
	if lib.Name != cfg.Eagle.LibraryName {
		return Result{Name: name, Detail: fmt.Sprintf("library %q open, expected %q", lib.Name, cfg.Eagle.LibraryName)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("library %q open", lib.Name)}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, services.ErrTimeout) {
		return "timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (service unreachable)"
	}
	if errors.Is(err, services.ErrConfiguration) {
		return "rejected: " + err.Error()
	}
	return err.Error()
}
