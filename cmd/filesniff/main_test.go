package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pdfFile(t *testing.T, dir, name string) string {
	t.Helper()
	data := []byte("%PDF-1.7\n")
	data = append(data, bytes.Repeat([]byte(" "), 2048)...)
	data = append(data, "\n%%EOF"...)
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	pdf := pdfFile(t, dir, "report.pdf")
	pdfFile(t, dir, "copy.pdf")
	bogus := filepath.Join(dir, "bogus.pdf")
	if err := os.WriteFile(bogus, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{
			name:     "no command",
			args:     nil,
			wantCode: 2,
		},
		{
			name:     "unknown command",
			args:     []string{"explode"},
			wantCode: 2,
		},
		{
			name:     "help",
			args:     []string{"help"},
			wantCode: 0,
			wantOut:  []string{"usage: filesniff"},
		},
		{
			name:     "signatures",
			args:     []string{"signatures"},
			wantCode: 0,
			wantOut:  []string{".PDF", "application/pdf", "word/document.xml"},
		},
		{
			name:     "detect",
			args:     []string{"detect", pdf},
			wantCode: 0,
			wantOut:  []string{"application/pdf", ".pdf"},
		},
		{
			name:     "detect unknown",
			args:     []string{"detect", pdf, bogus},
			wantCode: 1,
			wantOut:  []string{"application/pdf", "unknown"},
		},
		{
			name:     "detect missing file",
			args:     []string{"detect", pdf, filepath.Join(dir, "missing.pdf")},
			wantCode: 2,
		},
		{
			name:     "signatures with common flags",
			args:     []string{"signatures", "-window", "2048", "-log-level", "debug", "-log-format", "json"},
			wantCode: 0,
			wantOut:  []string{".PNG", "image/png"},
		},
		{
			name:     "signatures invalid window",
			args:     []string{"signatures", "-window", "0"},
			wantCode: 2,
		},
		{
			name:     "signatures extra argument",
			args:     []string{"signatures", "x.pdf"},
			wantCode: 2,
		},
		{
			name:     "detect without files",
			args:     []string{"detect"},
			wantCode: 2,
		},
		{
			name:     "validate",
			args:     []string{"validate", "-allow", "application/pdf", pdf},
			wantCode: 0,
			wantOut:  []string{"all files valid"},
		},
		{
			name:     "validate too large",
			args:     []string{"validate", "-max", "100", pdf},
			wantCode: 1,
			wantOut:  []string{"FileTooLarge"},
		},
		{
			name:     "validate not allowed",
			args:     []string{"validate", "-allow", "image/png", pdf},
			wantCode: 1,
			wantOut:  []string{"FileTypeNotAllowed"},
		},
		{
			name:     "validate missing file",
			args:     []string{"validate", filepath.Join(dir, "missing.pdf")},
			wantCode: 2,
		},
		{
			name:     "scan",
			args:     []string{"scan", "-include", "*.pdf", "-exclude", "bogus.*", dir},
			wantCode: 0,
			wantOut:  []string{"report.pdf", "copy.pdf", "duplicate"},
		},
		{
			name:     "scan reports invalid",
			args:     []string{"scan", dir},
			wantCode: 1,
			wantOut:  []string{"FileTypeUnknown"},
		},
		{
			name:     "scan needs directory",
			args:     []string{"scan"},
			wantCode: 2,
		},
		{
			name:     "bad flag",
			args:     []string{"validate", "-nope", pdf},
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Fatalf("run(%q) = %d, want %d\nstdout: %s\nstderr: %s", tt.args, code, tt.wantCode, stdout, stderr)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestRunUsesEnvironment(t *testing.T) {
	dir := t.TempDir()
	pdf := pdfFile(t, dir, "report.pdf")
	t.Setenv("BEAVER_FILESNIFF_ALLOWED_MIME_TYPES", "image/png")

	code, stdout, _ := runCLI(t, "validate", pdf)
	if code != 1 || !strings.Contains(stdout, "FileTypeNotAllowed") {
		t.Errorf("run() = %d, stdout %q", code, stdout)
	}

	// Flags override the environment.
	code, _, _ = runCLI(t, "validate", "-allow", "", pdf)
	if code != 0 {
		t.Errorf("run() with -allow override = %d, want 0", code)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv("BEAVER_FILESNIFF_WINDOW_SIZE", "0")
	code, _, stderr := runCLI(t, "detect", "x.pdf")
	if code != 2 || !strings.Contains(stderr, "window size") {
		t.Errorf("run() = %d, stderr %q", code, stderr)
	}
}
