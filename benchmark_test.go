package filesniff

import (
	"bytes"
	"context"
	"testing"
)

func BenchmarkMatchBytes(b *testing.B) {
	inputs := map[string]struct {
		name string
		data []byte
	}{
		"pdf":  {"report.pdf", pdfSample()},
		"docx": {"letter.docx", ooxmlSample("word/document.xml", true)},
		"miss": {"photo.png", bytes.Repeat([]byte{0x42}, 4096)},
	}

	for label, in := range inputs {
		b.Run(label, func(b *testing.B) {
			table := DefaultTable()
			b.ReportAllocs()
			for b.Loop() {
				table.MatchBytes(in.name, in.data)
			}
		})
	}
}

func BenchmarkMatchReader(b *testing.B) {
	large := ooxmlSample("word/document.xml", false)
	large = append(large, make([]byte, 1<<20)...)

	inputs := map[string]struct {
		name string
		data []byte
	}{
		"pdf":           {"report.pdf", pdfSample()},
		"docx_1MB_scan": {"letter.docx", large},
	}

	ctx := context.Background()
	for label, in := range inputs {
		b.Run(label, func(b *testing.B) {
			table := DefaultTable()
			r := bytes.NewReader(in.data)
			b.SetBytes(int64(len(in.data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := table.MatchReader(ctx, in.name, r); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
