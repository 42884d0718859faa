package scanner

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint reads r to the end and returns the xxhash of its content.
// Equal fingerprints identify duplicate files within a scan.
func Fingerprint(r io.Reader) (uint64, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, fmt.Errorf("failed to calculate fingerprint: %w", err)
	}
	return h.Sum64(), nil
}

// FormatFingerprint renders a fingerprint as fixed-width hex.
func FormatFingerprint(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// Duplicates groups the paths of reports sharing a fingerprint. Reports
// without a fingerprint are ignored; groups of one are dropped.
func Duplicates(reports []Report) map[uint64][]string {
	groups := make(map[uint64][]string)
	for _, r := range reports {
		if r.Err != nil || r.Fingerprint == 0 {
			continue
		}
		groups[r.Fingerprint] = append(groups[r.Fingerprint], r.Path)
	}
	for sum, paths := range groups {
		if len(paths) < 2 {
			delete(groups, sum)
		}
	}
	return groups
}
