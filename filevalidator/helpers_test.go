package filevalidator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatSizeReadable(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1 * KB, "1 KB"},
		{1536, "1.5 KB"},
		{10 * MB, "10 MB"},
		{MB + MB/4, "1.3 MB"},
		{2 * GB, "2 GB"},
	}

	for _, tt := range tests {
		if got := FormatSizeReadable(tt.size); got != tt.want {
			t.Errorf("FormatSizeReadable(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestValidateLocalFile(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(pdf, pdfData(4*KB), 0o644); err != nil {
		t.Fatal(err)
	}

	v := New(Constraints{MaxFileSize: 1 * KB})

	result, err := ValidateLocalFile(context.Background(), v, pdf, false)
	if err != nil {
		t.Fatalf("ValidateLocalFile() error = %v", err)
	}
	if got := result.ErrorsFor(pdf); got != FileTooLarge {
		t.Errorf("errors = %s, want FileTooLarge", got)
	}

	result, err = ValidateLocalFile(context.Background(), v, pdf, true)
	if err != nil {
		t.Fatalf("ValidateLocalFile(earlyExit) error = %v", err)
	}
	if got := result.ErrorsFor(pdf); got != FileTooLarge {
		t.Errorf("early exit errors = %s, want FileTooLarge", got)
	}

	if _, err := ValidateLocalFile(context.Background(), v, filepath.Join(dir, "missing.pdf"), false); err == nil {
		t.Error("missing file: error = nil")
	}
	if _, err := ValidateLocalFile(context.Background(), v, dir, false); err == nil {
		t.Error("directory: error = nil")
	}
}
