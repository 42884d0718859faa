package filevalidator

import (
	"strings"

	"github.com/gobeaver/filesniff"
)

// Size constants for easier file size configuration
const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// Constraints defines the configuration for file validation
type Constraints struct {
	// AllowedMIMETypes is a comma-separated allow-list, matched
	// case-insensitively. Empty or whitespace-only allows every type.
	AllowedMIMETypes string

	// MaxFileSize is the maximum allowed file size in bytes.
	// Zero disables the check.
	MaxFileSize int64

	// MinFileSize is the minimum allowed file size in bytes
	MinFileSize int64
}

// DefaultConstraints creates a new set of constraints with sensible defaults
func DefaultConstraints() Constraints {
	return Constraints{
		MaxFileSize: 10 * MB,
	}
}

// ImageOnlyConstraints allows the image formats of the default table
func ImageOnlyConstraints() Constraints {
	c := DefaultConstraints()
	c.AllowedMIMETypes = strings.Join([]string{
		filesniff.MIMEImagePNG,
		filesniff.MIMEImageJPEG,
		filesniff.MIMEImageGIF,
		filesniff.MIMEImageBMP,
	}, ",")
	return c
}

// DocumentOnlyConstraints allows PDF and Office documents
func DocumentOnlyConstraints() Constraints {
	c := DefaultConstraints()
	c.MaxFileSize = 50 * MB
	c.AllowedMIMETypes = strings.Join([]string{
		filesniff.MIMEApplicationPDF,
		filesniff.MIMEApplicationMSWord,
		filesniff.MIMEApplicationDOCX,
		filesniff.MIMEApplicationExcel,
		filesniff.MIMEApplicationXLSX,
		filesniff.MIMEApplicationPowerPoint,
		filesniff.MIMEApplicationPPTX,
	}, ",")
	return c
}

// MediaOnlyConstraints allows video files
func MediaOnlyConstraints() Constraints {
	c := DefaultConstraints()
	c.MaxFileSize = 500 * MB
	c.AllowedMIMETypes = filesniff.MIMEVideoMP4
	return c
}

// ParseMIMEList splits a comma-separated allow-list, trimming whitespace and
// dropping empty entries.
func ParseMIMEList(list string) []string {
	return filesniff.SplitList(list)
}

// isAllowed reports whether mime is in the allow-list. An empty list allows
// everything.
func isAllowed(allowed []string, mime string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, mime) {
			return true
		}
	}
	return false
}
