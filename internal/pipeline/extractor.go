package pipeline

import (
	"strings"

	"pedidos/internal"
	"pedidos/internal/config"
	"pedidos/internal/extract"
	"pedidos/internal/normalize"
)

// Extractor turns one raw submission into zero or more canonical rows.
// It holds only the immutable matcher and vocabulary, so a single
// Extractor is safe to use from many goroutines at once.
type Extractor struct {
	matcher *extract.Matcher
	vocab   normalize.Vocabulary
}

func NewExtractor(cfg config.Config, vocab normalize.Vocabulary) *Extractor {
	return &Extractor{
		matcher: extract.NewMatcher(cfg.MaxQty, cfg.UnitTokens),
		vocab:   vocab,
	}
}

// Rows runs the full per-row pipeline: pattern matching, candidate
// resolution, price linking, labeled-field fallback and normalization.
// An empty description contributes nothing; that is a recovered outcome,
// not an error.
func (e *Extractor) Rows(sub internal.Submission) []internal.CanonicalRow {
	if strings.TrimSpace(sub.Description) == "" {
		return nil
	}

	items := extract.Resolve(e.matcher.Scan(sub.Description))
	if len(items) == 0 {
		return nil
	}
	extract.LinkPrices(items, extract.ScanPrices(sub.Description))

	fields := extract.ScanFields(sub.Description)
	state := e.vocab.State(preferStructured(sub.State, fields.State))
	requester := e.vocab.Requester(preferStructured(sub.Requester, fields.Requester))
	reasonRaw := preferStructured(sub.Reason, fields.Reason)
	reason := normalize.TextFieldPtr(reasonRaw)
	reasonGroup := e.vocab.Reason(reasonRaw)

	rows := make([]internal.CanonicalRow, 0, len(items))
	for _, item := range items {
		row := internal.CanonicalRow{
			Date:        sub.SubmittedAt,
			ProductCode: normalize.ProductCode(item.Code),
			Quantity:    item.Qty,
			UnitPrice:   item.UnitPrice,
			State:       state,
			Requester:   requester,
			Reason:      reason,
			ReasonGroup: reasonGroup,
		}
		if row.Quantity != nil && row.UnitPrice != nil {
			row.TotalValue = internal.FloatPtr(float64(*row.Quantity) * *row.UnitPrice)
		}
		rows = append(rows, row)
	}
	return rows
}

// preferStructured picks the structured column value unless it is absent
// or blank, in which case the value extracted from the text is used.
func preferStructured(structured, extracted *string) *string {
	if structured != nil && strings.TrimSpace(*structured) != "" {
		return structured
	}
	return extracted
}
