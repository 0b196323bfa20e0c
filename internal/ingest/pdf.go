package ingest

import (
	"bytes"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"pedidos/internal"
)

// FromPDF extracts the plain text of every page and treats the whole
// document as one free-text submission. Pages that fail to render are
// skipped rather than failing the file.
func FromPDF(content []byte) ([]internal.Submission, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return nil, nil
	}
	return []internal.Submission{{
		RowNo:       1,
		Source:      internal.SourcePDF,
		Description: b.String(),
	}}, nil
}
