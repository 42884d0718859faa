package filesniff

import (
	"bytes"
	"strings"
)

// Outcome is the result kind of a signature match.
type Outcome int

const (
	// NotFound means no signature for the extension matched the content.
	NotFound Outcome = iota

	// Found means a signature matched and was confirmed.
	Found

	// Inconclusive means a header matched but the trailer or content check
	// needed a seek the stream did not support.
	Inconclusive
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Inconclusive:
		return "inconclusive"
	default:
		return "not found"
	}
}

// Match is returned by the matchers. Signature is set when Outcome is Found,
// and also for Inconclusive to name the unconfirmed candidate.
type Match struct {
	Signature *FileTypeSignature
	Outcome   Outcome
}

// Found reports whether the match is confirmed.
func (m Match) Found() bool {
	return m.Outcome == Found && m.Signature != nil
}

var notFound = Match{Outcome: NotFound}

// MatchBytes identifies data against the signature registered for the
// extension of fileName. The extension is a hard filter: content is never
// matched against other extensions' signatures.
func (t *Table) MatchBytes(fileName string, data []byte) Match {
	ext := extensionOf(fileName)
	if ext == "" {
		return notFound
	}
	sig, ok := t.Lookup(ext)
	if !ok {
		return notFound
	}

	for _, header := range sig.Headers {
		if !matchHeader(data, header) {
			continue
		}

		if len(sig.Trailers) == 0 {
			return Match{Signature: sig, Outcome: Found}
		}

		for _, trailer := range sig.Trailers {
			if !matchTrailer(data, trailer) {
				continue
			}
			// The first trailer hit commits to the content check.
			if sig.ContentSniffTarget == "" || containsTarget(data, sig.ContentSniffTarget) {
				return Match{Signature: sig, Outcome: Found}
			}
			return notFound
		}

		if sig.ContentSniffTarget != "" && containsTarget(data, sig.ContentSniffTarget) {
			return Match{Signature: sig, Outcome: Found}
		}
	}

	return notFound
}

// matchHeader compares h against data at h.Offset from the start.
// Buffers too short for the pattern never match.
func matchHeader(data []byte, h Signature) bool {
	if h.Offset < 0 || len(data) < h.Offset+len(h.Bytes) {
		return false
	}
	return bytes.Equal(data[h.Offset:h.Offset+len(h.Bytes)], h.Bytes)
}

// matchTrailer compares t against data ending t.Offset bytes before the end.
func matchTrailer(data []byte, t Signature) bool {
	pos := len(data) - len(t.Bytes) - t.Offset
	if t.Offset < 0 || pos < 0 {
		return false
	}
	return bytes.Equal(data[pos:pos+len(t.Bytes)], t.Bytes)
}

// containsTarget decodes data as UTF-8 text and searches for target.
// Invalid sequences become U+FFFD, so ASCII targets inside binary
// containers are still found.
func containsTarget(data []byte, target string) bool {
	return strings.Contains(strings.ToValidUTF8(string(data), "�"), target)
}
