package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"pedidos/internal"
	"pedidos/internal/config"
)

func FromXLSXFile(path string, cfg config.Config) ([]internal.Submission, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromXLSX(blob, cfg)
}

// FromXLSX decodes one form-response workbook into submissions. The
// preferred sheet is used when present, otherwise the first sheet. A
// workbook without a recognizable description column is a dataset-level
// error, surfaced once here rather than per row.
func FromXLSX(content []byte, cfg config.Config) ([]internal.Submission, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := pickSheet(f, cfg.PreferredSheet)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	headers := rows[0]
	descIdx := findAlias(headers, cfg.DescriptionAliases)
	if descIdx < 0 {
		return nil, fmt.Errorf("sheet %q has no description column (tried: %s)",
			sheet, strings.Join(cfg.DescriptionAliases, " | "))
	}
	analysisIdx := findAlias(headers, cfg.AnalysisAliases)
	stateIdx := findAlias(headers, cfg.StateAliases)
	requesterIdx := findAlias(headers, cfg.RequesterAliases)
	reasonIdx := findAlias(headers, cfg.ReasonAliases)
	dateIdx := findAlias(headers, cfg.DateAliases)

	out := make([]internal.Submission, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		description := pickCell(cells, descIdx)
		// The analysis column often repeats or completes the order text,
		// so both feed the same extraction pass.
		if analysis := pickCell(cells, analysisIdx); analysis != "" {
			description = strings.TrimSpace(description + " " + analysis)
		}

		sub := internal.Submission{
			RowNo:       i + 2,
			Source:      internal.SourceXLSX,
			Description: description,
			State:       pickCellPtr(cells, stateIdx),
			Requester:   pickCellPtr(cells, requesterIdx),
			Reason:      pickCellPtr(cells, reasonIdx),
			SubmittedAt: parseDate(pickCell(cells, dateIdx)),
			Meta:        map[string]any{"sheet": sheet},
		}
		if description == "" && sub.State == nil && sub.Requester == nil && sub.Reason == nil {
			continue
		}
		out = append(out, sub)
	}

	return out, nil
}

func pickSheet(f *excelize.File, preferred string) string {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(preferred)) {
			return s
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return preferred
}
