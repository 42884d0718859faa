package filesniff

import (
	"bytes"
	"testing"
)

// pdfSample is a PDF whose header and trailer are a full window apart.
func pdfSample() []byte {
	data := []byte("%PDF-1.7\n")
	data = append(data, make([]byte, WindowSize)...)
	return append(data, "\n%%EOF"...)
}

// ooxmlSample builds an OOXML-like package with an optional part name and
// an optional end-of-central-directory record.
func ooxmlSample(part string, eocd bool) []byte {
	data := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}
	data = append(data, bytes.Repeat([]byte{0xAA}, 64)...)
	data = append(data, part...)
	data = append(data, bytes.Repeat([]byte{0xBB}, 64)...)
	if eocd {
		data = append(data, 0x50, 0x4B, 0x05, 0x06)
		data = append(data, make([]byte, 18)...)
	}
	return data
}

func TestMatchBytes(t *testing.T) {
	png := sampleFor(*mustLookup(t, ".png"))

	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     Outcome
		wantMIME string
	}{
		{
			name:     "pdf header and trailer",
			fileName: "report.pdf",
			data:     pdfSample(),
			want:     Found,
			wantMIME: MIMEApplicationPDF,
		},
		{
			name:     "pdf with crlf trailer",
			fileName: "report.pdf",
			data:     []byte("%PDF-1.4 body\r\n%%EOF\r\n"),
			want:     Found,
			wantMIME: MIMEApplicationPDF,
		},
		{
			name:     "zero-filled pdf",
			fileName: "x.pdf",
			data:     make([]byte, 1024),
			want:     NotFound,
		},
		{
			name:     "pdf without trailer",
			fileName: "report.pdf",
			data:     []byte("%PDF-1.4 truncated"),
			want:     NotFound,
		},
		{
			name:     "upper-case extension",
			fileName: "PHOTO.PNG",
			data:     png,
			want:     Found,
			wantMIME: MIMEImagePNG,
		},
		{
			name:     "content of another type",
			fileName: "photo.jpg",
			data:     png,
			want:     NotFound,
		},
		{
			name:     "no extension",
			fileName: "photo",
			data:     png,
			want:     NotFound,
		},
		{
			name:     "unregistered extension",
			fileName: "photo.webp",
			data:     png,
			want:     NotFound,
		},
		{
			name:     "buffer shorter than header",
			fileName: "photo.png",
			data:     []byte{0x89, 0x50, 0x4E},
			want:     NotFound,
		},
		{
			name:     "buffer shorter than header offset",
			fileName: "sheet.xls",
			data:     make([]byte, 100),
			want:     NotFound,
		},
		{
			name:     "empty buffer",
			fileName: "photo.png",
			data:     nil,
			want:     NotFound,
		},
		{
			name:     "legacy excel header at offset",
			fileName: "sheet.xls",
			data:     append(make([]byte, 512), 0x09, 0x08, 0x10, 0x00, 0x00, 0x06, 0x05, 0x00),
			want:     Found,
			wantMIME: MIMEApplicationExcel,
		},
		{
			name:     "docx with trailer and part",
			fileName: "letter.docx",
			data:     ooxmlSample("word/document.xml", true),
			want:     Found,
			wantMIME: MIMEApplicationDOCX,
		},
		{
			name:     "docx with trailer but no part",
			fileName: "letter.docx",
			data:     ooxmlSample("", true),
			want:     NotFound,
		},
		{
			name:     "docx part without trailer",
			fileName: "letter.docx",
			data:     ooxmlSample("word/document.xml", false),
			want:     Found,
			wantMIME: MIMEApplicationDOCX,
		},
		{
			name:     "xlsx named as docx",
			fileName: "letter.docx",
			data:     ooxmlSample("xl/workbook.xml", true),
			want:     NotFound,
		},
		{
			name:     "mp4 box",
			fileName: "clip.mp4",
			data:     []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00},
			want:     Found,
			wantMIME: MIMEVideoMP4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultTable().MatchBytes(tt.fileName, tt.data)
			if m.Outcome != tt.want {
				t.Fatalf("MatchBytes() outcome = %v, want %v", m.Outcome, tt.want)
			}
			if tt.want != Found {
				return
			}
			if m.Signature.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", m.Signature.MIMEType, tt.wantMIME)
			}
		})
	}
}

func TestMatchBytesIsRepeatable(t *testing.T) {
	data := ooxmlSample("ppt/presentation.xml", true)
	first := DefaultTable().MatchBytes("deck.pptx", data)
	for range 3 {
		if got := DefaultTable().MatchBytes("deck.pptx", data); got != first {
			t.Fatalf("MatchBytes() = %+v, want %+v", got, first)
		}
	}
	if !first.Found() {
		t.Errorf("MatchBytes() outcome = %v, want found", first.Outcome)
	}
}

func TestMatchBytesFirstTrailerCommits(t *testing.T) {
	table := NewTable([]FileTypeSignature{{
		Extension:          ".pkg",
		MIMEType:           "application/x-pkg",
		Headers:            []Signature{{Bytes: []byte("PKG")}},
		Trailers:           []Signature{{Bytes: []byte("END")}, {Bytes: []byte("ND")}},
		ContentSniffTarget: "manifest",
	}})

	// Both trailers match; the first one fails the content check and no
	// fallback to the bare content check is made.
	if m := table.MatchBytes("a.pkg", []byte("PKG....END")); m.Outcome != NotFound {
		t.Errorf("without target: outcome = %v, want not found", m.Outcome)
	}
	if m := table.MatchBytes("a.pkg", []byte("PKG manifest END")); !m.Found() {
		t.Errorf("with target: outcome = %v, want found", m.Outcome)
	}
}

func TestMatchTrailerOffset(t *testing.T) {
	trailer := Signature{Bytes: []byte{0x50, 0x4B, 0x05, 0x06}, Offset: 18}

	data := append([]byte("prefix"), trailer.Bytes...)
	data = append(data, make([]byte, 18)...)
	if !matchTrailer(data, trailer) {
		t.Error("matchTrailer() = false with record 18 bytes before the end")
	}
	if matchTrailer(data[:len(data)-1], trailer) {
		t.Error("matchTrailer() = true with record misaligned")
	}
	if matchTrailer(trailer.Bytes, trailer) {
		t.Error("matchTrailer() = true on a buffer shorter than offset")
	}
}

func TestContainsTarget(t *testing.T) {
	data := append([]byte{0xFF, 0xFE, 0x00}, "xl/workbook.xml"...)
	data = append(data, 0xC3)
	if !containsTarget(data, "xl/workbook.xml") {
		t.Error("containsTarget() = false for ASCII target among invalid UTF-8")
	}
	if containsTarget(data, "word/document.xml") {
		t.Error("containsTarget() = true for absent target")
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{
		NotFound:     "not found",
		Found:        "found",
		Inconclusive: "inconclusive",
	} {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}

func mustLookup(t testing.TB, ext string) *FileTypeSignature {
	t.Helper()
	sig, ok := DefaultTable().Lookup(ext)
	if !ok {
		t.Fatalf("no signature for %s", ext)
	}
	return sig
}
