// SPDX-License-Identifier: MIT

package health

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vpolyany/polyansky-bot/internal/log"
)

// PerformStartupChecks validates the environment before the bot starts
// polling. It verifies the database directory exists and is writable.
func PerformStartupChecks(dbPath string) error {
	logger := log.WithComponent("startup-check")

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("data directory %s not writable: %w", dir, err)
	}
	if err := os.Remove(probe); err != nil {
		logger.Warn().Err(err).Str("path", probe).Msg("could not remove write probe")
	}

	logger.Info().Str("dir", dir).Msg("startup checks passed")
	return nil
}
