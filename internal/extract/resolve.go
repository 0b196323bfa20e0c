package extract

import "pedidos/internal"

// Resolve collapses the candidate stream into at most one line item per
// product code, in emission order. The first sighting of a code wins:
// later sightings (typically the bare-code scan re-finding a code that a
// pair rule already resolved) are skipped, never merged. A bare sighting
// with no earlier explicit quantity means "one unit requested": the
// quantity defaults to 1 by business rule and is indistinguishable
// downstream from an explicit quantity of 1.
func Resolve(candidates []Candidate) []internal.LineItem {
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]internal.LineItem, 0, len(candidates))
	for _, cand := range candidates {
		if _, dup := seen[cand.Code]; dup {
			continue
		}
		seen[cand.Code] = struct{}{}

		qty := 1
		if cand.Qty != nil {
			qty = *cand.Qty
		}
		out = append(out, internal.LineItem{Code: cand.Code, Qty: internal.IntPtr(qty)})
	}
	return out
}
