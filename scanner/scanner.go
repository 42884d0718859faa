// Package scanner validates every file under a directory tree and can keep
// re-validating files as they change.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gobeaver/filesniff"
	"github.com/gobeaver/filesniff/filevalidator"
)

// Report is the outcome of scanning one file.
type Report struct {
	// Path is the file path as found under the scanned root.
	Path string

	Size int64

	// Fingerprint is the xxhash of the file content, or zero when
	// fingerprinting is disabled or was skipped.
	Fingerprint uint64

	// Type is the detected file type, zero when unknown.
	Type filesniff.FileType

	// Errors holds the validation flags.
	Errors filevalidator.ValidationErrors

	// Err is set when the file could not be read at all.
	Err error
}

// Valid reports whether the file was read and passed validation.
func (r Report) Valid() bool {
	return r.Err == nil && r.Errors == filevalidator.None
}

// Scanner validates files on the local filesystem.
type Scanner struct {
	validator   *filevalidator.Validator
	include     *matcher
	exclude     *matcher
	workers     int
	earlyExit   bool
	fingerprint bool
	debounce    time.Duration
	logger      *slog.Logger
}

// New creates a scanner that validates files with v.
func New(v *filevalidator.Validator, opts ...Option) (*Scanner, error) {
	if v == nil {
		return nil, errors.New("scanner: validator is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	include, err := compileMatcher(o.include)
	if err != nil {
		return nil, fmt.Errorf("scanner: include pattern: %w", err)
	}
	exclude, err := compileMatcher(o.exclude)
	if err != nil {
		return nil, fmt.Errorf("scanner: exclude pattern: %w", err)
	}

	return &Scanner{
		validator:   v,
		include:     include,
		exclude:     exclude,
		workers:     o.workers,
		earlyExit:   o.earlyExit,
		fingerprint: o.fingerprint,
		debounce:    o.debounce,
		logger:      o.logger,
	}, nil
}

// Scan walks root and validates every regular file that passes the
// include/exclude filters. Reports are sorted by path. Per-file read failures are recorded in the report; the walk only
// fails when root cannot be read or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Report, error) {
	paths, err := s.collect(ctx, root)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			r, err := s.ScanFile(gctx, path)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("scan complete",
		slog.String("root", root),
		slog.Int("files", len(reports)),
		slog.Int("invalid", countInvalid(reports)))
	return reports, nil
}

// ScanFile validates a single file. The returned error is non-nil only on
// cancellation; other failures are recorded in Report.Err.
func (s *Scanner) ScanFile(ctx context.Context, path string) (Report, error) {
	report := Report{Path: path}

	f, err := os.Open(path)
	if err != nil {
		report.Err = err
		s.logFailure(report)
		return report, nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		report.Err = err
		s.logFailure(report)
		return report, nil
	}
	report.Size = info.Size()

	in, err := s.validator.InspectReader(ctx, path, f, report.Size, s.earlyExit)
	if err != nil {
		if filevalidator.IsAborted(err) {
			return Report{}, err
		}
		report.Err = err
		s.logFailure(report)
		return report, nil
	}
	report.Type = in.Type
	report.Errors = in.Errors

	// Early exit skips files outside the size limits without reading them.
	skipped := s.earlyExit && in.Errors&(filevalidator.FileTooLarge|filevalidator.FileTooSmall) != 0
	if s.fingerprint && !skipped {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			report.Err = err
			s.logFailure(report)
			return report, nil
		}
		sum, err := Fingerprint(ctxReader{ctx: ctx, r: f})
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return Report{}, cerr
			}
			report.Err = err
			s.logFailure(report)
			return report, nil
		}
		report.Fingerprint = sum
	}

	s.logger.Debug("file scanned",
		slog.String("path", path),
		slog.Int64("size", report.Size),
		slog.String("type", report.Type.String()),
		slog.String("errors", report.Errors.String()))
	return report, nil
}

// collect lists the regular files under root that pass the filters.
func (s *Scanner) collect(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("skipping unreadable path",
				slog.String("path", path),
				slog.Any("error", err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if s.selected(root, path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	// WalkDir visits "sub/x" before the sibling "sub.pdf"
	slices.Sort(paths)
	return paths, nil
}

// selected applies the include and exclude patterns to path.
func (s *Scanner) selected(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	if s.include != nil && !s.include.match(rel) {
		return false
	}
	if s.exclude != nil && s.exclude.match(rel) {
		return false
	}
	return true
}

func (s *Scanner) logFailure(r Report) {
	s.logger.Warn("could not scan file",
		slog.String("path", r.Path),
		slog.Any("error", r.Err))
}

func countInvalid(reports []Report) int {
	n := 0
	for _, r := range reports {
		if !r.Valid() {
			n++
		}
	}
	return n
}

// ctxReader fails reads once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
