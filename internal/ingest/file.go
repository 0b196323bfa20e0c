package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pedidos/internal"
	"pedidos/internal/config"
)

// FromFile dispatches on the file extension: workbooks, HTML tables,
// saved emails, PDFs and plain text all land in the same Submission
// shape. Unknown extensions are an input error, not a silent skip.
func FromFile(path string, cfg config.Config) ([]internal.Submission, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return FromXLSXFile(path, cfg)
	case ".html", ".htm":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return FromHTML(string(blob), cfg)
	case ".eml":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		subs, _, _, _, err := FromEmailRaw(blob, cfg)
		return subs, err
	case ".pdf":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return FromPDF(blob)
	case ".txt":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return FromText(string(blob)), nil
	default:
		return nil, fmt.Errorf("unsupported input file: %s", filepath.Base(path))
	}
}
