package normalize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReasonRule maps a keyword set onto one canonical bucket. Rules are
// evaluated top to bottom and the first rule with any matching keyword
// wins, so list order is part of the configuration contract.
type ReasonRule struct {
	Keywords []string `json:"keywords"`
	Bucket   string   `json:"bucket"`
}

// Vocabulary holds the process-wide lookup tables. It is loaded once at
// startup and never mutated afterwards; all lookups are read-only.
type Vocabulary struct {
	States     map[string]string
	Requesters map[string]string
	Reasons    []ReasonRule
}

type vocabFile struct {
	States     map[string]string `json:"states"`
	Requesters map[string]string `json:"requesters"`
	Reasons    []ReasonRule      `json:"reasons"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		States: map[string]string{
			"ms":                 "Mato Grosso do Sul",
			"mato grosso do sul": "Mato Grosso do Sul",
			"sc":                 "Santa Catarina",
			"santa catarina":     "Santa Catarina",
			"rs":                 "Rio Grande do Sul",
			"rio grande do sul":  "Rio Grande do Sul",
			"pr":                 "Paraná",
			"parana":             "Paraná",
			"sp":                 "São Paulo",
			"sao paulo":          "São Paulo",
		},
		Requesters: map[string]string{},
		Reasons: []ReasonRule{
			{Keywords: []string{"desconto", "promocao"}, Bucket: "Solicitou Desconto/Promoção"},
			{Keywords: []string{"volume", "quantidade", "aumentar"}, Bucket: "Aumento Volume / Quantidade"},
			{Keywords: []string{"negociacao", "melhorar", "melhores condicoes", "preço", "preco"}, Bucket: "Negociação / Melhor Condição de Preço"},
			{Keywords: []string{"pagou", "ultima vez"}, Bucket: "Cliente Pagou da Última Vez"},
			{Keywords: []string{"manter os valores"}, Bucket: "Manter Valores"},
			{Keywords: []string{"cliente solicitou", "cliente pediu", "solicitou", "pedido"}, Bucket: "Outra Solicitação do Cliente"},
		},
	}
}

// Load returns the defaults merged with the optional JSON file at path.
// State and requester entries extend the defaults; a reasons list in the
// file replaces the default list wholesale, since rule order is
// significant and merging two ordered lists has no sane semantics.
// Any malformed entry is fatal: the pipeline must not start on a broken
// vocabulary.
func Load(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	if strings.TrimSpace(path) == "" {
		return vocab, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary %s: %w", path, err)
	}

	var file vocabFile
	if err := json.Unmarshal(blob, &file); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}

	if err := mergeMap(vocab.States, file.States, "states"); err != nil {
		return Vocabulary{}, err
	}
	if err := mergeMap(vocab.Requesters, file.Requesters, "requesters"); err != nil {
		return Vocabulary{}, err
	}

	if file.Reasons != nil {
		for i, rule := range file.Reasons {
			if len(rule.Keywords) == 0 {
				return Vocabulary{}, fmt.Errorf("vocabulary reasons[%d]: empty keyword set", i)
			}
			if strings.TrimSpace(rule.Bucket) == "" {
				return Vocabulary{}, fmt.Errorf("vocabulary reasons[%d]: empty bucket", i)
			}
			for _, kw := range rule.Keywords {
				if strings.TrimSpace(kw) == "" {
					return Vocabulary{}, fmt.Errorf("vocabulary reasons[%d]: blank keyword", i)
				}
			}
		}
		vocab.Reasons = file.Reasons
	}

	return vocab, nil
}

func mergeMap(dst, src map[string]string, section string) error {
	for k, v := range src {
		if k != Key(k) {
			return fmt.Errorf("vocabulary %s: key %q must be lower-case and accent-free (want %q)", section, k, Key(k))
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("vocabulary %s: key %q has empty canonical value", section, k)
		}
		dst[k] = v
	}
	return nil
}

// State canonicalizes a state/region name: map hit wins, otherwise the
// trimmed title-cased original.
func (v Vocabulary) State(p *string) *string {
	return v.lookup(v.States, p)
}

// Requester canonicalizes a requester name the same way.
func (v Vocabulary) Requester(p *string) *string {
	return v.lookup(v.Requesters, p)
}

func (v Vocabulary) lookup(m map[string]string, p *string) *string {
	if p == nil {
		return nil
	}
	if canonical, ok := m[Key(*p)]; ok {
		out := canonical
		return &out
	}
	return TextField(*p)
}

// Reason buckets a free-text negotiation reason. Matching is on the
// lower-cased text, first rule wins; text that matches nothing falls back
// to its title-cased form.
func (v Vocabulary) Reason(p *string) string {
	if p == nil {
		return NotInformed
	}
	motivo := strings.ToLower(strings.TrimSpace(*p))
	if motivo == "" {
		return NotInformed
	}
	for _, rule := range v.Reasons {
		for _, kw := range rule.Keywords {
			if strings.Contains(motivo, kw) {
				return rule.Bucket
			}
		}
	}
	if out := TextField(*p); out != nil {
		return *out
	}
	return NotInformed
}
