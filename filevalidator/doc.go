// Package filevalidator validates files against size limits and a MIME
// allow-list, identifying each file's type from its content rather than its
// name.
//
// Validation failures are data, not errors: every check that fails sets a
// flag in [ValidationErrors], and a file with any flag set is recorded as an
// [InvalidFile] in the [ValidationResult]. Only invalid input (an empty name,
// empty data, a nil stream) and cancellation are returned as errors.
//
// # Quick Start
//
// Using presets:
//
//	v := filevalidator.ForDocuments().Build()
//	result, err := v.ValidateBytes("report.pdf", data)
//	if err != nil {
//	    return err
//	}
//	if result.HasFailed() {
//	    log.Println(result.Summary())
//	}
//
// Using the builder API:
//
//	v := filevalidator.NewBuilder().
//	    MaxSize(1 * filevalidator.MB).
//	    AcceptList("application/pdf, image/png").
//	    Build()
//
// # Validation Methods
//
//	// From a byte slice
//	result, err := v.ValidateBytes("photo.png", data)
//
//	// From a stream; a negative size is measured via io.Seeker
//	result, err := v.ValidateReader(ctx, "photo.png", f, -1)
//
//	// Skip detection when the size limits already fail
//	result, err := v.ValidateReaderEarlyExit(ctx, "photo.png", f, -1)
//
//	// Several files into one result
//	result, err := v.ValidateFiles(ctx, files)
//
// # Error Flags
//
// Size flags ([FileTooLarge], [FileTooSmall]) and type flags
// ([FileTypeUnknown], [FileTypeNotAllowed]) are evaluated independently and
// combine in one entry:
//
//	if result.ErrorsFor("photo.png").Has(filevalidator.FileTooLarge) {
//	    // ...
//	}
//
// Any detection failure, including a read error on the stream, is reported
// as [FileTypeUnknown] and logged through the configured [slog.Logger].
package filevalidator
