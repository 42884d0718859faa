package filevalidator

import (
	"fmt"
	"strings"
)

// InvalidFile records the failures for one file
type InvalidFile struct {
	FileName string
	Errors   ValidationErrors
}

// Error implements the error interface
func (f InvalidFile) Error() string {
	return fmt.Sprintf("%s: %s", f.FileName, strings.Join(f.Errors.Messages(), ", "))
}

// ValidationResult collects the invalid files of one or more validations.
// Valid files produce no entry.
type ValidationResult struct {
	InvalidFiles []InvalidFile
}

// HasFailed reports whether any file failed validation
func (r *ValidationResult) HasFailed() bool {
	return r != nil && len(r.InvalidFiles) > 0
}

// Add records errs for fileName. A None value is ignored.
func (r *ValidationResult) Add(fileName string, errs ValidationErrors) {
	if errs == None {
		return
	}
	r.InvalidFiles = append(r.InvalidFiles, InvalidFile{FileName: fileName, Errors: errs})
}

// Merge appends the invalid files of other, preserving order
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.InvalidFiles = append(r.InvalidFiles, other.InvalidFiles...)
}

// ErrorsFor returns the combined flags recorded for fileName
func (r *ValidationResult) ErrorsFor(fileName string) ValidationErrors {
	if r == nil {
		return None
	}
	var errs ValidationErrors
	for _, f := range r.InvalidFiles {
		if f.FileName == fileName {
			errs |= f.Errors
		}
	}
	return errs
}

// Err returns nil when validation passed, otherwise an error listing every
// invalid file
func (r *ValidationResult) Err() error {
	if !r.HasFailed() {
		return nil
	}
	msgs := make([]string, len(r.InvalidFiles))
	for i, f := range r.InvalidFiles {
		msgs[i] = f.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// Summary returns a human-readable summary of the validation
func (r *ValidationResult) Summary() string {
	if !r.HasFailed() {
		return "✓ all files valid"
	}
	return fmt.Sprintf("✗ %d invalid file(s): %s", len(r.InvalidFiles), r.InvalidFiles[0].Error())
}
