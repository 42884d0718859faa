package filesniff

import "sync"

// OLE2 compound document header shared by the legacy Office formats.
var oleHeader = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ooxmlHeaders is the local file header written by Office for OOXML packages.
var ooxmlHeaders = []Signature{
	{Bytes: []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}},
}

// ooxmlTrailers locate the ZIP end-of-central-directory record (22 bytes
// without a comment) or a trailing data descriptor.
var ooxmlTrailers = []Signature{
	{Bytes: []byte{0x50, 0x4B, 0x05, 0x06}, Offset: 18},
	{Bytes: []byte{0x50, 0x4B, 0x07, 0x08}},
}

var jpegSignature = FileTypeSignature{
	MIMEType: MIMEImageJPEG,
	Headers: []Signature{
		{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE0}},
		{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE1}},
		{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xDB}},
		{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xEE}},
		{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE2}},
		{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE3}},
	},
	Trailers: []Signature{
		{Bytes: []byte{0xFF, 0xD9}},
	},
}

// defaultSignatures lists the compiled-in signatures.
// Add a format by appending one entry; extensions must be unique.
func defaultSignatures() []FileTypeSignature {
	jpg := jpegSignature
	jpg.Extension = ".JPG"
	jpeg := jpegSignature
	jpeg.Extension = ".JPEG"

	return []FileTypeSignature{
		// Images
		{
			Extension: ".PNG",
			MIMEType:  MIMEImagePNG,
			Headers: []Signature{
				{Bytes: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
			},
			Trailers: []Signature{
				{Bytes: []byte{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}},
			},
		},
		jpg,
		jpeg,
		{
			Extension: ".GIF",
			MIMEType:  MIMEImageGIF,
			Headers: []Signature{
				{Bytes: []byte("GIF87a")},
				{Bytes: []byte("GIF89a")},
			},
			Trailers: []Signature{
				{Bytes: []byte{0x00, 0x3B}},
			},
		},
		{
			Extension: ".BMP",
			MIMEType:  MIMEImageBMP,
			Headers: []Signature{
				{Bytes: []byte{0x42, 0x4D}},
			},
		},

		// Documents
		{
			Extension: ".PDF",
			MIMEType:  MIMEApplicationPDF,
			Headers: []Signature{
				{Bytes: []byte{0x25, 0x50, 0x44, 0x46}},
			},
			Trailers: []Signature{
				{Bytes: []byte("\n%%EOF")},
				{Bytes: []byte("\n%%EOF\n")},
				{Bytes: []byte("\r\n%%EOF\r\n")},
				{Bytes: []byte("\r%%EOF\r")},
			},
		},
		{
			Extension: ".DOC",
			MIMEType:  MIMEApplicationMSWord,
			Headers:   []Signature{{Bytes: oleHeader}},
		},
		{
			Extension: ".PPT",
			MIMEType:  MIMEApplicationPowerPoint,
			Headers:   []Signature{{Bytes: oleHeader}},
		},
		{
			Extension: ".XLS",
			MIMEType:  MIMEApplicationExcel,
			Headers: []Signature{
				{Bytes: []byte{0xFD, 0xFF, 0xFF, 0xFF}, Offset: 512},
				{Bytes: []byte{0x09, 0x08, 0x10, 0x00, 0x00, 0x06, 0x05, 0x00}, Offset: 512},
			},
		},
		{
			Extension:          ".DOCX",
			MIMEType:           MIMEApplicationDOCX,
			Headers:            ooxmlHeaders,
			Trailers:           ooxmlTrailers,
			ContentSniffTarget: "word/document.xml",
		},
		{
			Extension:          ".XLSX",
			MIMEType:           MIMEApplicationXLSX,
			Headers:            ooxmlHeaders,
			Trailers:           ooxmlTrailers,
			ContentSniffTarget: "xl/workbook.xml",
		},
		{
			Extension:          ".PPTX",
			MIMEType:           MIMEApplicationPPTX,
			Headers:            ooxmlHeaders,
			Trailers:           ooxmlTrailers,
			ContentSniffTarget: "ppt/presentation.xml",
		},

		// Archives
		{
			Extension: ".ZIP",
			MIMEType:  MIMEApplicationZip,
			Headers: []Signature{
				{Bytes: []byte{0x50, 0x4B, 0x03, 0x04}},
				{Bytes: []byte{0x50, 0x4B, 0x05, 0x06}}, // Empty archive
				{Bytes: []byte{0x50, 0x4B, 0x07, 0x08}}, // Spanned archive
			},
		},

		// Video
		{
			Extension: ".MP4",
			MIMEType:  MIMEVideoMP4,
			Headers: []Signature{
				{Bytes: []byte{0x00, 0x00, 0x00, 0x20, 0x66, 0x74, 0x79, 0x70, 0x69, 0x73, 0x6F, 0x6D}},
				{Bytes: []byte{0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70, 0x69, 0x73, 0x6F, 0x6D}},
				{Bytes: []byte{0x00, 0x00, 0x00, 0x1C, 0x66, 0x74, 0x79, 0x70, 0x69, 0x73, 0x6F, 0x6D}},
			},
		},
	}
}

// DefaultTable returns the process-wide compiled-in signature table.
var DefaultTable = sync.OnceValue(func() *Table {
	return NewTable(defaultSignatures())
})

// Signatures returns the entries of the default table in definition order.
func Signatures() []FileTypeSignature {
	return DefaultTable().Signatures()
}
