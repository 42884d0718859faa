// Package filesniff identifies files by their magic numbers.
//
// Detection is keyed by the file's extension: the extension selects one
// entry of the signature [Table], and the content must then match that
// entry's header, trailer and content rules. Content that matches some
// other format is never reported, so a PNG renamed to photo.jpg is simply
// unknown.
//
// # Matching Rules
//
// An entry lists one or more headers, optional trailers and an optional
// content sniff target:
//
//   - Any one header must match at its offset from the start.
//   - If trailers are listed, the first one that matches at its offset from
//     the end decides: the match is confirmed unless a content target is set
//     and missing.
//   - If no trailer matches but a content target is set, finding the target
//     alone confirms the match.
//
// # Basic Usage
//
//	ft, err := filesniff.Detect("report.pdf", data)
//	if errors.Is(err, filesniff.ErrUnknownFileType) {
//	    // content does not match the .pdf signature
//	}
//	fmt.Println(ft.MIME) // application/pdf
//
// # Streams
//
// [Detector.DetectReader] reads at most one window (1024 bytes by default)
// from the start of the stream and, when a trailer must be checked, one
// window from the end. Seekable streams are returned to their original
// position. A non-seekable stream whose header matches but whose trailer
// cannot be reached yields [ErrInconclusive], which also matches
// [ErrUnknownFileType].
//
//	f, _ := os.Open("report.pdf")
//	defer f.Close()
//	ft, err := filesniff.DetectReader(ctx, f.Name(), f)
//
// # Configuration
//
// The package-level functions use a detector configured from environment
// variables with the BEAVER_ prefix:
//
//	BEAVER_FILESNIFF_WINDOW_SIZE=1024
//	BEAVER_FILESNIFF_MAX_FILE_SIZE=10485760
//	BEAVER_FILESNIFF_ALLOWED_MIME_TYPES=application/pdf,image/png
//	BEAVER_FILESNIFF_LOG_LEVEL=info
//
// Use [WithPrefix] to read the same settings under another prefix, or [New]
// to build a detector from an explicit [Config].
//
// # Related Packages
//
// Package filevalidator applies size limits and a MIME allow-list on top of
// detection. Package scanner validates whole directory trees and can watch
// them for changes.
package filesniff
