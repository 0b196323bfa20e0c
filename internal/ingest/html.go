package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pedidos/internal"
	"pedidos/internal/config"
)

var spacesRe = regexp.MustCompile(`\s+`)

// FromHTML decodes form-response tables out of an HTML document (the
// shape form notification emails take when saved as HTML). Tables
// without a description column are skipped; a document where no table
// qualifies is a dataset-level error.
func FromHTML(html string, cfg config.Config) ([]internal.Submission, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	out := []internal.Submission{}
	sawTable := false
	rowNo := 0

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, normalizeSpaces(cell.Text()))
		})

		descIdx := findAlias(headers, cfg.DescriptionAliases)
		if descIdx < 0 {
			return
		}
		sawTable = true
		analysisIdx := findAlias(headers, cfg.AnalysisAliases)
		stateIdx := findAlias(headers, cfg.StateAliases)
		requesterIdx := findAlias(headers, cfg.RequesterAliases)
		reasonIdx := findAlias(headers, cfg.ReasonAliases)
		dateIdx := findAlias(headers, cfg.DateAliases)

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalizeSpaces(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}

			description := pickCell(cells, descIdx)
			if analysis := pickCell(cells, analysisIdx); analysis != "" {
				description = strings.TrimSpace(description + " " + analysis)
			}
			sub := internal.Submission{
				Source:      internal.SourceHTMLTable,
				Description: description,
				State:       pickCellPtr(cells, stateIdx),
				Requester:   pickCellPtr(cells, requesterIdx),
				Reason:      pickCellPtr(cells, reasonIdx),
				SubmittedAt: parseDate(pickCell(cells, dateIdx)),
				Meta:        map[string]any{"row": cells},
			}
			if description == "" && sub.State == nil && sub.Requester == nil && sub.Reason == nil {
				return
			}
			rowNo++
			sub.RowNo = rowNo
			out = append(out, sub)
		})
	})

	if !sawTable {
		return nil, fmt.Errorf("no table with a description column (tried: %s)",
			strings.Join(cfg.DescriptionAliases, " | "))
	}
	return out, nil
}

func normalizeSpaces(input string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(input, " "))
}
