package ingest

import (
	"strings"
	"time"

	"pedidos/internal"
)

// findAlias resolves a logical column against the configured header
// aliases: the first alias present in the sheet wins, comparison is
// case-insensitive on trimmed headers. -1 means the column is absent.
func findAlias(headers []string, aliases []string) int {
	for _, alias := range aliases {
		want := strings.ToLower(strings.TrimSpace(alias))
		if want == "" {
			continue
		}
		for i, h := range headers {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func pickCellPtr(cells []string, idx int) *string {
	value := pickCell(cells, idx)
	if value == "" {
		return nil
	}
	return &value
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

// parseDate coerces the many spreadsheet date renderings into a time.
// Unparseable values become nil, mirroring how the rest of the pipeline
// treats bad per-row data: degrade, never fail the batch.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return internal.TimePtr(parsed)
		}
	}
	return nil
}
