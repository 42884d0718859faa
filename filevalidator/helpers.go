package filevalidator

import (
	"context"
	"fmt"
	"math"
	"os"
)

// FormatSizeReadable converts a size in bytes to a human-readable string
func FormatSizeReadable(size int64) string {
	if size < KB {
		return fmt.Sprintf("%d B", size)
	}
	unit, suffix := KB, "KB"
	switch {
	case size >= GB:
		unit, suffix = GB, "GB"
	case size >= MB:
		unit, suffix = MB, "MB"
	}
	// Round to 1 decimal place
	rounded := math.Round(float64(size)/float64(unit)*10) / 10
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("%.0f %s", rounded, suffix)
	}
	return fmt.Sprintf("%.1f %s", rounded, suffix)
}

// ValidateLocalFile validates a file on disk, streaming it through the
// validator. earlyExit selects ValidateReaderEarlyExit.
func ValidateLocalFile(ctx context.Context, v *Validator, path string, earlyExit bool) (*ValidationResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	if earlyExit {
		return v.ValidateReaderEarlyExit(ctx, path, f, info.Size())
	}
	return v.ValidateReader(ctx, path, f, info.Size())
}
