package extract

import (
	"regexp"
	"strconv"
	"strings"

	"pedidos/internal"
)

var priceRe = regexp.MustCompile(`R\$\s?([\d.,]+)`)

// ScanPrices collects every "R$ ..." amount in order of appearance. A slot
// that fails to convert stays in the sequence as nil so positional binding
// is not shifted by one bad amount.
func ScanPrices(text string) []*float64 {
	matches := priceRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]*float64, 0, len(matches))
	for _, groups := range matches {
		out = append(out, ParseAmount(groups[1]))
	}
	return out
}

// ParseAmount converts a pt-BR formatted amount ("1.234,56") to a decimal.
// Thousands separators are periods and the decimal separator is a comma;
// anything that still fails to parse yields nil.
func ParseAmount(raw string) *float64 {
	norm := strings.ReplaceAll(raw, ".", "")
	norm = strings.ReplaceAll(norm, ",", ".")
	value, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil
	}
	return &value
}

// LinkPrices binds the i-th detected price to the i-th resolved item, up
// to min(len(items), len(prices)). Items beyond the price count keep a nil
// price and leftover prices are dropped. When the order of items in the
// text differs from the order of prices this misattributes; that is a
// known limitation of positional binding.
func LinkPrices(items []internal.LineItem, prices []*float64) {
	n := len(items)
	if len(prices) < n {
		n = len(prices)
	}
	for i := 0; i < n; i++ {
		items[i].UnitPrice = prices[i]
	}
}
