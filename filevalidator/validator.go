package filevalidator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gobeaver/filesniff"
)

// Validator checks files against its constraints. It is immutable and safe
// for concurrent use; a single stream must not be validated concurrently.
type Validator struct {
	constraints Constraints
	allowed     []string
	detector    *filesniff.Detector
	logger      *slog.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithDetector sets the detector used for type detection
func WithDetector(d *filesniff.Detector) Option {
	return func(v *Validator) {
		if d != nil {
			v.detector = d
		}
	}
}

// WithLogger sets the logger that receives swallowed detection failures
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// File is one input of ValidateFiles. Reader takes precedence over Data.
// Size is the stream length, or negative when unknown.
type File struct {
	Name   string
	Data   []byte
	Reader io.Reader
	Size   int64
}

// New creates a new file validator with the given constraints
func New(constraints Constraints, opts ...Option) *Validator {
	v := &Validator{
		constraints: constraints,
		allowed:     ParseMIMEList(constraints.AllowedMIMETypes),
		detector:    filesniff.DefaultDetector(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewDefault creates a new file validator with sensible default constraints
func NewDefault(opts ...Option) *Validator {
	return New(DefaultConstraints(), opts...)
}

// Constraints returns the validation constraints
func (v *Validator) Constraints() Constraints {
	return v.constraints
}

// ValidateBytes validates an in-memory file. An empty name or empty data is
// rejected with an error; every other failure is reported in the result.
func (v *Validator) ValidateBytes(fileName string, data []byte) (*ValidationResult, error) {
	if fileName == "" {
		return nil, filesniff.ErrEmptyFileName
	}
	if len(data) == 0 {
		return nil, &filesniff.DetectError{Op: "validate", FileName: fileName, Err: filesniff.ErrEmptyFileData}
	}

	errs := v.checkSize(int64(len(data)))
	errs |= v.checkType(fileName, v.detector.Match(fileName, data), nil)

	result := &ValidationResult{}
	result.Add(fileName, errs)
	return result, nil
}

// ValidateReader validates a stream. size is the stream length in bytes;
// pass a negative value to measure it from an io.Seeker, or to skip the size
// checks on a non-seekable stream. Cancellation and a nil stream are
// returned as errors.
func (v *Validator) ValidateReader(ctx context.Context, fileName string, r io.Reader, size int64) (*ValidationResult, error) {
	return v.validateReader(ctx, fileName, r, size, false)
}

// ValidateReaderEarlyExit is ValidateReader with a short-circuit: when the
// length is known up front and violates a size limit, detection is skipped
// and only the size flags are reported.
func (v *Validator) ValidateReaderEarlyExit(ctx context.Context, fileName string, r io.Reader, size int64) (*ValidationResult, error) {
	return v.validateReader(ctx, fileName, r, size, true)
}

// ValidateFiles validates each file in order and collects every failure in
// one result. The first invalid input or cancellation aborts the batch.
func (v *Validator) ValidateFiles(ctx context.Context, files []File) (*ValidationResult, error) {
	result := &ValidationResult{}
	for _, f := range files {
		var (
			r   *ValidationResult
			err error
		)
		if f.Reader != nil {
			r, err = v.ValidateReader(ctx, f.Name, f.Reader, f.Size)
		} else {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			r, err = v.ValidateBytes(f.Name, f.Data)
		}
		if err != nil {
			return nil, err
		}
		result.Merge(r)
	}
	return result, nil
}

func (v *Validator) validateReader(ctx context.Context, fileName string, r io.Reader, size int64, earlyExit bool) (*ValidationResult, error) {
	in, err := v.InspectReader(ctx, fileName, r, size, earlyExit)
	if err != nil {
		return nil, err
	}
	result := &ValidationResult{}
	result.Add(fileName, in.Errors)
	return result, nil
}

// Inspection is the per-file detail behind a validation: the detected type
// and the measured size alongside the error flags.
type Inspection struct {
	FileName string

	// Size is the stream length; valid only when SizeKnown is set.
	Size      int64
	SizeKnown bool

	// Type is the zero value when detection failed or was skipped.
	Type filesniff.FileType

	// Outcome is the matcher result; NotFound when detection was skipped.
	Outcome filesniff.Outcome

	Errors ValidationErrors
}

// Valid reports whether no validation flag is set
func (in Inspection) Valid() bool {
	return in.Errors == None
}

// InspectReader validates a stream and returns the detail of the check.
// See ValidateReader and ValidateReaderEarlyExit for the size and earlyExit
// semantics.
func (v *Validator) InspectReader(ctx context.Context, fileName string, r io.Reader, size int64, earlyExit bool) (Inspection, error) {
	if err := ctx.Err(); err != nil {
		return Inspection{}, err
	}
	if fileName == "" {
		return Inspection{}, filesniff.ErrEmptyFileName
	}
	if r == nil {
		return Inspection{}, filesniff.ErrNilStream
	}

	in := Inspection{FileName: fileName}

	length, known, err := streamLength(r, size)
	if err != nil {
		v.logger.Warn("could not measure stream length",
			slog.String("file", fileName),
			slog.Any("error", err))
	}
	if known {
		in.Size, in.SizeKnown = length, true
		in.Errors = v.checkSize(length)
	}

	if earlyExit && in.Errors != None {
		v.logger.Debug("skipping detection for file outside size limits",
			slog.String("file", fileName),
			slog.Int64("size", length),
			slog.String("errors", in.Errors.String()))
		return in, nil
	}

	m, err := v.detector.MatchReader(ctx, fileName, r)
	if cerr := ctx.Err(); cerr != nil {
		return Inspection{}, cerr
	}
	in.Outcome = m.Outcome
	if err == nil && m.Found() {
		in.Type = m.Signature.FileType()
	}
	in.Errors |= v.checkType(fileName, m, err)
	return in, nil
}

// checkSize evaluates both size limits independently.
func (v *Validator) checkSize(size int64) ValidationErrors {
	var errs ValidationErrors
	if v.constraints.MaxFileSize > 0 && size > v.constraints.MaxFileSize {
		errs |= FileTooLarge
	}
	if size < v.constraints.MinFileSize {
		errs |= FileTooSmall
	}
	return errs
}

// checkType folds any detection failure into FileTypeUnknown and applies the
// allow-list to a confirmed match.
func (v *Validator) checkType(fileName string, m filesniff.Match, err error) ValidationErrors {
	if err != nil {
		v.logger.Warn("file type detection failed",
			slog.String("file", fileName),
			slog.Any("error", err))
		return FileTypeUnknown
	}
	if !m.Found() {
		v.logger.Debug("file type not recognized",
			slog.String("file", fileName),
			slog.String("outcome", m.Outcome.String()))
		return FileTypeUnknown
	}

	mime := m.Signature.MIMEType
	if !isAllowed(v.allowed, mime) {
		v.logger.Debug("file type not allowed",
			slog.String("file", fileName),
			slog.String("mime", mime))
		return FileTypeNotAllowed
	}
	return None
}

// streamLength returns the total length of r. A non-negative size is
// trusted; otherwise the length is measured when r is an io.Seeker and the
// position restored.
func streamLength(r io.Reader, size int64) (int64, bool, error) {
	if size >= 0 {
		return size, true, nil
	}
	seeker, ok := r.(io.Seeker)
	if !ok {
		return 0, false, nil
	}

	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false, fmt.Errorf("get stream position: %w", err)
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, false, fmt.Errorf("seek to stream end: %w", err)
	}
	if _, err := seeker.Seek(pos, io.SeekStart); err != nil {
		return 0, false, fmt.Errorf("restore stream position: %w", err)
	}
	return end, true, nil
}

// IsAborted reports whether err came from cancellation rather than invalid
// input.
func IsAborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
