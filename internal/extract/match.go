package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type RuleTag string

const (
	RuleCodeSepQty  RuleTag = "code_sep_qty"  // 00011279 - 12
	RuleQtyXCode    RuleTag = "qty_x_code"    // 10X 00101478
	RuleQtyUnitCode RuleTag = "qty_unit_code" // 6 UNIDADES 12971
	RuleCodeQty     RuleTag = "code_qty"      // 23391 4
	RuleBareCode    RuleTag = "bare_code"     // 00012026
)

// Candidate is one raw sighting of a product code, with the explicit
// quantity when the matching rule carried one.
type Candidate struct {
	Code string
	Qty  *int
	Rule RuleTag
}

type patternRule struct {
	tag RuleTag
	re  *regexp.Regexp
}

// Matcher applies the ordered pattern rules to a free-text description.
// Rule order is part of the contract: each rule sees the full text and
// emits all of its matches before the next rule runs, and the bare-code
// scan runs last over whatever the pair rules did not claim.
type Matcher struct {
	maxQty int
	rules  []patternRule
	bareRe *regexp.Regexp
}

func NewMatcher(maxQty int, unitTokens []string) *Matcher {
	if maxQty <= 0 {
		maxQty = 5000
	}
	return &Matcher{
		maxQty: maxQty,
		rules: []patternRule{
			{RuleCodeSepQty, regexp.MustCompile(`(\d{5,})\s*[- ]\s*(\d+)`)},
			{RuleQtyXCode, regexp.MustCompile(`(\d+)\s*[X ]\s*(\d{5,})`)},
			{RuleQtyUnitCode, regexp.MustCompile(`(\d+)\s*(?:` + unitAlternation(unitTokens) + `)\s*(\d{5,})`)},
			{RuleCodeQty, regexp.MustCompile(`(\d{5,})\s+(\d+)`)},
		},
		bareRe: regexp.MustCompile(`\b\d{5,}\b`),
	}
}

// Scan uppercases the text, runs the pair rules in priority order and then
// the bare-code scan. Pairs where both operands have 5+ digits are
// ambiguous and dropped as noise, as are pairs whose quantity is outside
// [1, maxQty]; their codes are claimed so the bare scan does not resurrect
// them as quantity-1 sightings.
func (m *Matcher) Scan(text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	upper := strings.ToUpper(text)

	out := make([]Candidate, 0, 4)
	claimed := map[string]struct{}{}

	for _, rule := range m.rules {
		for _, groups := range rule.re.FindAllStringSubmatch(upper, -1) {
			first, second := groups[1], groups[2]

			if len(first) >= 5 && len(second) >= 5 {
				claimed[first] = struct{}{}
				claimed[second] = struct{}{}
				continue
			}

			code, qtyRaw := first, second
			if len(second) >= 5 {
				code, qtyRaw = second, first
			}

			qty, err := strconv.Atoi(qtyRaw)
			if err != nil || qty < 1 || qty > m.maxQty {
				claimed[code] = struct{}{}
				continue
			}

			q := qty
			out = append(out, Candidate{Code: code, Qty: &q, Rule: rule.tag})
		}
	}

	for _, code := range m.bareRe.FindAllString(upper, -1) {
		if _, noisy := claimed[code]; noisy {
			continue
		}
		out = append(out, Candidate{Code: code, Rule: RuleBareCode})
	}

	return out
}

func unitAlternation(tokens []string) string {
	if len(tokens) == 0 {
		tokens = []string{"UN", "UNID", "UND", "UNIDADE", "UNIDADES"}
	}
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	// Longest first so "UNIDADES" is not swallowed by "UN".
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}
