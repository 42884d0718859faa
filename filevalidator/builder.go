package filevalidator

import (
	"log/slog"
	"strings"

	"github.com/gobeaver/filesniff"
)

// Builder provides a fluent API for constructing validators
type Builder struct {
	constraints Constraints
	accepted    []string
	opts        []Option
}

// NewBuilder creates a new validator builder with sensible defaults
func NewBuilder() *Builder {
	return &Builder{
		constraints: DefaultConstraints(),
	}
}

// Empty creates a builder with no restrictions
func Empty() *Builder {
	return &Builder{}
}

// --- Size constraints ---

// MaxSize sets the maximum allowed file size
func (b *Builder) MaxSize(size int64) *Builder {
	b.constraints.MaxFileSize = size
	return b
}

// MinSize sets the minimum required file size
func (b *Builder) MinSize(size int64) *Builder {
	b.constraints.MinFileSize = size
	return b
}

// SizeRange sets both minimum and maximum file size
func (b *Builder) SizeRange(minSize, maxSize int64) *Builder {
	b.constraints.MinFileSize = minSize
	b.constraints.MaxFileSize = maxSize
	return b
}

// --- MIME type constraints ---

// Accept adds allowed MIME types (e.g., "image/png", "application/pdf")
func (b *Builder) Accept(mimeTypes ...string) *Builder {
	for _, m := range mimeTypes {
		b.accepted = append(b.accepted, ParseMIMEList(m)...)
	}
	return b
}

// AcceptList adds a comma-separated list of allowed MIME types
func (b *Builder) AcceptList(list string) *Builder {
	return b.Accept(list)
}

// AcceptImages allows the image formats of the default table
func (b *Builder) AcceptImages() *Builder {
	return b.AcceptList(ImageOnlyConstraints().AllowedMIMETypes)
}

// AcceptDocuments allows PDF and Office documents
func (b *Builder) AcceptDocuments() *Builder {
	return b.AcceptList(DocumentOnlyConstraints().AllowedMIMETypes)
}

// AcceptVideo allows video formats
func (b *Builder) AcceptVideo() *Builder {
	return b.AcceptList(MediaOnlyConstraints().AllowedMIMETypes)
}

// --- Collaborators ---

// WithDetector sets the detector used by the validator
func (b *Builder) WithDetector(d *filesniff.Detector) *Builder {
	b.opts = append(b.opts, WithDetector(d))
	return b
}

// WithLogger sets the validator's logger
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.opts = append(b.opts, WithLogger(l))
	return b
}

// --- Build ---

// Build creates the validator with the configured constraints
func (b *Builder) Build() *Validator {
	return New(b.Constraints(), b.opts...)
}

// Constraints returns the current constraints (for inspection)
func (b *Builder) Constraints() Constraints {
	c := b.constraints
	if len(b.accepted) > 0 {
		c.AllowedMIMETypes = strings.Join(append(ParseMIMEList(c.AllowedMIMETypes), b.accepted...), ",")
	}
	return c
}

// --- Presets ---

// ForImages creates a builder pre-configured for image uploads
func ForImages() *Builder {
	return NewBuilder().
		AcceptImages().
		MaxSize(10 * MB)
}

// ForDocuments creates a builder pre-configured for document uploads
func ForDocuments() *Builder {
	return NewBuilder().
		AcceptDocuments().
		MaxSize(50 * MB)
}

// ForWeb creates a builder for typical web uploads (images + documents)
func ForWeb() *Builder {
	return NewBuilder().
		AcceptImages().
		AcceptDocuments().
		MaxSize(25 * MB)
}

// FromConfig creates a builder from the environment configuration
func FromConfig(cfg *filesniff.Config) *Builder {
	return Empty().
		SizeRange(cfg.MinFileSize, cfg.MaxFileSize).
		AcceptList(cfg.AllowedMimeTypes)
}
