// internal/steps/screenshot.go
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// takeScreenshot captures the viewport and writes it under
// <screenshot_dir>/<version>/<scenario-basename>.png. The path is a pure
// function of the scenario and the configured version, so repeating the
// step overwrites the same file; directory creation is a no-op when the
// directory already exists.
func (s *Steps) takeScreenshot(ctx context.Context) error {
	shot, err := s.drv.Screenshot(ctx)
	if err != nil {
		return err
	}

	path := s.screenshotPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot directory %q: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot %q: %w", path, err)
	}

	s.logger.Info("Screenshot saved.", zap.String("path", path))
	return nil
}

// screenshotPath derives the output path from the current scenario's
// feature file basename, extension stripped.
func (s *Steps) screenshotPath() string {
	base := filepath.Base(s.scenarioURI)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "scenario"
	}
	return filepath.Join(s.cfg.Artifacts.ScreenshotDir, s.cfg.Artifacts.Version, base+".png")
}
