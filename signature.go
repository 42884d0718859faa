package filesniff

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Signature is a byte pattern expected at a fixed offset.
// For headers the offset counts from the start of the file, for trailers it
// counts back from the end.
type Signature struct {
	Bytes  []byte
	Offset int
}

// FileTypeSignature describes how to recognise one file extension.
type FileTypeSignature struct {
	// Extension is the canonical upper-case key including the dot, e.g. ".PDF".
	Extension string

	// MIMEType is the canonical MIME type reported on a match.
	MIMEType string

	// Headers are checked in order; any one matching is enough to proceed.
	Headers []Signature

	// Trailers, when present, must confirm a header match; any one is enough.
	Trailers []Signature

	// ContentSniffTarget, when set, must occur in the decoded file text.
	ContentSniffTarget string
}

// FileType returns the result value for a matched signature.
func (s *FileTypeSignature) FileType() FileType {
	return FileType{
		MIME:      s.MIMEType,
		Extension: strings.ToLower(s.Extension),
	}
}

// Table is an immutable, ordered set of signatures indexed by extension.
// It is built once and is safe for concurrent use.
type Table struct {
	entries []FileTypeSignature
	index   map[string]int
}

// NewTable builds a table from the given entries.
// It panics when two entries share an extension key or an entry has no
// headers, both of which are programming errors in the table definition.
func NewTable(entries []FileTypeSignature) *Table {
	t := &Table{
		entries: make([]FileTypeSignature, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)

	for i := range t.entries {
		e := &t.entries[i]
		key := normalizeExtension(e.Extension)
		if key == "" {
			panic(fmt.Sprintf("filesniff: signature %d has no extension", i))
		}
		if len(e.Headers) == 0 {
			panic(fmt.Sprintf("filesniff: signature %s has no headers", key))
		}
		if _, dup := t.index[key]; dup {
			panic(fmt.Sprintf("filesniff: duplicate signature for extension %s", key))
		}
		e.Extension = key
		t.index[key] = i
	}
	return t
}

// Signatures returns a copy of the table entries in definition order.
// The byte patterns are shared with the table and must not be modified.
func (t *Table) Signatures() []FileTypeSignature {
	return slices.Clone(t.entries)
}

// Lookup returns the entry registered for ext. The extension is matched
// case-insensitively, with or without the leading dot.
func (t *Table) Lookup(ext string) (*FileTypeSignature, bool) {
	i, ok := t.index[normalizeExtension(ext)]
	if !ok {
		return nil, false
	}
	return &t.entries[i], true
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// normalizeExtension returns ext upper-cased with a single leading dot.
func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + strings.ToUpper(ext)
}

// extensionOf extracts the normalized extension from a file name, or ""
// when the name has none.
func extensionOf(fileName string) string {
	ext := filepath.Ext(filepath.Base(fileName))
	if len(ext) <= 1 {
		return ""
	}
	return normalizeExtension(ext)
}
