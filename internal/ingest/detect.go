package ingest

import (
	"regexp"
	"strings"
)

type DetectResult struct {
	IsOrder bool
	Score   float64
	Reason  string
}

var detectKeywords = []string{
	"pedido", "solicita", "produto", "negocia", "cotac", "cotaç",
	"orcamento", "orçamento", "qtd", "quantidade", "desconto",
}

var codeTokenRe = regexp.MustCompile(`\b\d{5,}\b`)

// DetectOrderRequest scores a message on Portuguese order vocabulary,
// product-code density and attachment types. Everything at or above the
// threshold gets imported; the score is recorded so borderline skips can
// be audited later.
func DetectOrderRequest(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	codeHits := len(codeTokenRe.FindAllString(text, -1))
	if codeHits >= 2 {
		score += 0.4
	} else if codeHits == 1 {
		score += 0.2
	}

	if strings.Contains(text, "r$") {
		score += 0.2
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".xls") || strings.HasSuffix(ln, ".pdf") {
			score += 0.25
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isOrder := score >= 0.45
	reason := "rules_negative"
	if isOrder {
		reason = "rules_positive"
	}

	return DetectResult{IsOrder: isOrder, Score: score, Reason: reason}
}
