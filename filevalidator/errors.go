package filevalidator

import "strings"

// ValidationErrors is a set of validation failures for one file.
// Flags combine with bitwise OR; None means the file is valid.
type ValidationErrors uint8

const (
	None               ValidationErrors = 0
	FileTypeNotAllowed ValidationErrors = 1 << (iota - 1)
	FileTooLarge
	FileTooSmall
	FileTypeUnknown
)

var errorNames = []struct {
	flag ValidationErrors
	name string
}{
	{FileTypeNotAllowed, "FileTypeNotAllowed"},
	{FileTooLarge, "FileTooLarge"},
	{FileTooSmall, "FileTooSmall"},
	{FileTypeUnknown, "FileTypeUnknown"},
}

// Has reports whether all flags in f are set in e.
func (e ValidationErrors) Has(f ValidationErrors) bool {
	return f != None && e&f == f
}

// String joins the names of the set flags with "|".
func (e ValidationErrors) String() string {
	if e == None {
		return "None"
	}
	var parts []string
	for _, n := range errorNames {
		if e&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Messages returns a human-readable message per set flag.
func (e ValidationErrors) Messages() []string {
	var msgs []string
	if e.Has(FileTypeNotAllowed) {
		msgs = append(msgs, "file type is not allowed")
	}
	if e.Has(FileTooLarge) {
		msgs = append(msgs, "file is too large")
	}
	if e.Has(FileTooSmall) {
		msgs = append(msgs, "file is too small")
	}
	if e.Has(FileTypeUnknown) {
		msgs = append(msgs, "file type is unknown")
	}
	return msgs
}
