package filesniff

import "strings"

// MIME types reported by the default table
const (
	MIMEImagePNG              = "image/png"
	MIMEImageJPEG             = "image/jpeg"
	MIMEImageGIF              = "image/gif"
	MIMEImageBMP              = "image/bmp"
	MIMEVideoMP4              = "video/mp4"
	MIMEApplicationPDF        = "application/pdf"
	MIMEApplicationZip        = "application/zip"
	MIMEApplicationMSWord     = "application/msword"
	MIMEApplicationExcel      = "application/vnd.ms-excel"
	MIMEApplicationPowerPoint = "application/vnd.ms-powerpoint"
	MIMEApplicationDOCX       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEApplicationXLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEApplicationPPTX       = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// FileType is the result of a successful detection.
type FileType struct {
	// MIME is the canonical MIME type, e.g. "application/pdf".
	MIME string

	// Extension is lower-case with a leading dot, e.g. ".pdf".
	Extension string
}

// Well-known file types. These are conveniences for callers comparing
// results and take no part in matching.
var (
	PDF  = FileType{MIME: MIMEApplicationPDF, Extension: ".pdf"}
	DOC  = FileType{MIME: MIMEApplicationMSWord, Extension: ".doc"}
	DOCX = FileType{MIME: MIMEApplicationDOCX, Extension: ".docx"}
	XLS  = FileType{MIME: MIMEApplicationExcel, Extension: ".xls"}
	XLSX = FileType{MIME: MIMEApplicationXLSX, Extension: ".xlsx"}
	PPT  = FileType{MIME: MIMEApplicationPowerPoint, Extension: ".ppt"}
	PPTX = FileType{MIME: MIMEApplicationPPTX, Extension: ".pptx"}
	JPEG = FileType{MIME: MIMEImageJPEG, Extension: ".jpeg"}
	PNG  = FileType{MIME: MIMEImagePNG, Extension: ".png"}
	BMP  = FileType{MIME: MIMEImageBMP, Extension: ".bmp"}
	MP4  = FileType{MIME: MIMEVideoMP4, Extension: ".mp4"}
)

// IsZero reports whether ft is the zero value.
func (ft FileType) IsZero() bool {
	return ft.MIME == "" && ft.Extension == ""
}

// String returns "mime (ext)".
func (ft FileType) String() string {
	if ft.IsZero() {
		return "unknown"
	}
	return ft.MIME + " (" + ft.Extension + ")"
}

// Category returns a human-readable category for the MIME type
func (ft FileType) Category() string {
	mime := ft.MIME
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case strings.Contains(mime, "zip"):
		return "archive"
	case strings.Contains(mime, "document") || mime == MIMEApplicationPDF ||
		strings.Contains(mime, "msword") || strings.Contains(mime, "excel") ||
		strings.Contains(mime, "powerpoint"):
		return "document"
	case mime == "":
		return "unknown"
	default:
		return "other"
	}
}
