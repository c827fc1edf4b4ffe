package screenshot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"rental-autotest/internal/entity"
	"time"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Save writes shot to dir as <YYYYMMDD_HHMMSS>_<name>.png and returns the path.
func Save(dir, name string, shot *entity.Screenshot, at time.Time) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", fmt.Errorf("no screenshot to save")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.png", at.Format("20060102_150405"), unsafeName.ReplaceAllString(name, "_"))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	return path, nil
}
