package pipeline

import (
	"math"
	"testing"

	"pedidos/internal"
	"pedidos/internal/config"
	"pedidos/internal/normalize"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	return NewExtractor(cfg, normalize.DefaultVocabulary())
}

func TestRowsFullText(t *testing.T) {
	e := newTestExtractor(t)
	sub := internal.Submission{
		RowNo:       1,
		Source:      internal.SourceText,
		Description: "10X 00101478 por R$ 1.234,56\nsolicitante: maria souza\nestado: parana\nmotivo: cliente pediu desconto",
	}

	rows := e.Rows(sub)
	if len(rows) != 1 {
		t.Fatalf("rows=%v", rows)
	}
	row := rows[0]
	if row.ProductCode != "101478" {
		t.Fatalf("productCode=%q", row.ProductCode)
	}
	if row.Quantity == nil || *row.Quantity != 10 {
		t.Fatalf("quantity=%v", row.Quantity)
	}
	if row.UnitPrice == nil || *row.UnitPrice != 1234.56 {
		t.Fatalf("unitPrice=%v", row.UnitPrice)
	}
	if row.TotalValue == nil || math.Abs(*row.TotalValue-12345.6) > 1e-9 {
		t.Fatalf("totalValue=%v", row.TotalValue)
	}
	if row.State == nil || *row.State != "Paraná" {
		t.Fatalf("state=%v", row.State)
	}
	if row.Requester == nil || *row.Requester != "Maria Souza" {
		t.Fatalf("requester=%v", row.Requester)
	}
	if row.ReasonGroup != "Solicitou Desconto/Promoção" {
		t.Fatalf("reasonGroup=%q", row.ReasonGroup)
	}
}

func TestRowsEmptyDescription(t *testing.T) {
	e := newTestExtractor(t)
	if rows := e.Rows(internal.Submission{Description: "   "}); rows != nil {
		t.Fatalf("rows=%v", rows)
	}
}

func TestRowsNoCodes(t *testing.T) {
	e := newTestExtractor(t)
	if rows := e.Rows(internal.Submission{Description: "texto sem nenhum codigo"}); rows != nil {
		t.Fatalf("rows=%v", rows)
	}
}

func TestRowsStructuredColumnsWin(t *testing.T) {
	e := newTestExtractor(t)
	sub := internal.Submission{
		Description: "00011279 - 2\nestado: sp\nsolicitante: fulano",
		State:       internal.StringPtr("rs"),
		Requester:   internal.StringPtr("beltrano"),
	}

	rows := e.Rows(sub)
	if len(rows) != 1 {
		t.Fatalf("rows=%v", rows)
	}
	if *rows[0].State != "Rio Grande do Sul" {
		t.Fatalf("state=%q", *rows[0].State)
	}
	if *rows[0].Requester != "Beltrano" {
		t.Fatalf("requester=%q", *rows[0].Requester)
	}
}

func TestRowsBlankStructuredFallsBackToText(t *testing.T) {
	e := newTestExtractor(t)
	sub := internal.Submission{
		Description: "00011279 - 2\nestado: sp",
		State:       internal.StringPtr("   "),
	}

	rows := e.Rows(sub)
	if len(rows) != 1 || rows[0].State == nil || *rows[0].State != "São Paulo" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestRowsMissingReasonGroupsAsNotInformed(t *testing.T) {
	e := newTestExtractor(t)
	rows := e.Rows(internal.Submission{Description: "00011279 - 2"})
	if len(rows) != 1 || rows[0].ReasonGroup != normalize.NotInformed {
		t.Fatalf("rows=%v", rows)
	}
}

func TestRowsSharedFieldsAcrossItems(t *testing.T) {
	e := newTestExtractor(t)
	sub := internal.Submission{
		Description: "00011279 - 2 e 00012026 - 3\nestado: sc",
	}

	rows := e.Rows(sub)
	if len(rows) != 2 {
		t.Fatalf("rows=%v", rows)
	}
	for _, row := range rows {
		if row.State == nil || *row.State != "Santa Catarina" {
			t.Fatalf("row=%+v", row)
		}
	}
}
