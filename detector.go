package filesniff

import (
	"context"
	"io"
	"log/slog"
)

// Detector identifies file types against a signature table.
// A Detector is immutable and safe for concurrent use.
type Detector struct {
	table      *Table
	windowSize int
	logger     *slog.Logger
}

// DetectorOption configures a Detector
type DetectorOption func(*Detector)

// WithTable sets the signature table. Defaults to DefaultTable().
func WithTable(t *Table) DetectorOption {
	return func(d *Detector) {
		if t != nil {
			d.table = t
		}
	}
}

// WithWindowSize sets how many bytes are read from each end of a stream.
func WithWindowSize(n int) DetectorOption {
	return func(d *Detector) {
		if n > 0 {
			d.windowSize = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) DetectorOption {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDetector creates a detector over the default table.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		table:      DefaultTable(),
		windowSize: WindowSize,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Table returns the detector's signature table.
func (d *Detector) Table() *Table {
	return d.table
}

// WindowSize returns the stream window size in bytes.
func (d *Detector) WindowSize() int {
	return d.windowSize
}

// Match runs the buffer matcher without converting the outcome to an error.
func (d *Detector) Match(fileName string, data []byte) Match {
	return d.table.MatchBytes(fileName, data)
}

// MatchReader runs the streaming matcher with the detector's window size.
func (d *Detector) MatchReader(ctx context.Context, fileName string, r io.Reader) (Match, error) {
	return d.table.matchReader(ctx, fileName, r, d.windowSize)
}

// Detect identifies data by its content, using the extension of fileName to
// select the signature. It fails with ErrEmptyFileName, ErrEmptyFileData or
// ErrUnknownFileType.
func (d *Detector) Detect(fileName string, data []byte) (FileType, error) {
	if fileName == "" {
		return FileType{}, ErrEmptyFileName
	}
	if len(data) == 0 {
		return FileType{}, &DetectError{Op: "detect", FileName: fileName, Err: ErrEmptyFileData}
	}

	m := d.Match(fileName, data)
	if !m.Found() {
		d.logger.Debug("file type not recognized",
			slog.String("file", fileName),
			slog.Int("size", len(data)))
		return FileType{}, &DetectError{Op: "detect", FileName: fileName, Err: ErrUnknownFileType}
	}

	ft := m.Signature.FileType()
	d.logger.Debug("file type detected",
		slog.String("file", fileName),
		slog.String("mime", ft.MIME))
	return ft, nil
}

// DetectReader is the streaming form of Detect. Besides the Detect errors it
// returns ErrNilStream, ErrInconclusive for non-seekable streams that need
// trailer confirmation, and the context's error on cancellation.
func (d *Detector) DetectReader(ctx context.Context, fileName string, r io.Reader) (FileType, error) {
	if fileName == "" {
		return FileType{}, ErrEmptyFileName
	}
	if r == nil {
		return FileType{}, ErrNilStream
	}

	m, err := d.MatchReader(ctx, fileName, r)
	if err != nil {
		if ctx.Err() != nil {
			return FileType{}, err
		}
		return FileType{}, &DetectError{Op: "detect stream", FileName: fileName, Err: err}
	}

	switch m.Outcome {
	case Found:
		ft := m.Signature.FileType()
		d.logger.Debug("file type detected",
			slog.String("file", fileName),
			slog.String("mime", ft.MIME))
		return ft, nil
	case Inconclusive:
		d.logger.Debug("file type unconfirmed on non-seekable stream",
			slog.String("file", fileName),
			slog.String("candidate", m.Signature.MIMEType))
		return FileType{}, &DetectError{Op: "detect stream", FileName: fileName, Err: ErrInconclusive}
	default:
		d.logger.Debug("file type not recognized", slog.String("file", fileName))
		return FileType{}, &DetectError{Op: "detect stream", FileName: fileName, Err: ErrUnknownFileType}
	}
}

// Detect identifies data using the default detector.
func Detect(fileName string, data []byte) (FileType, error) {
	return DefaultDetector().Detect(fileName, data)
}

// DetectReader identifies a stream using the default detector.
func DetectReader(ctx context.Context, fileName string, r io.Reader) (FileType, error) {
	return DefaultDetector().DetectReader(ctx, fileName, r)
}
