package ingest

import "testing"

func TestDetectOrderRequestPositive(t *testing.T) {
	res := DetectOrderRequest(
		"Pedido de desconto",
		"favor cotar 00011279 - 12 e 00012026 por r$ 10,00, quantidade grande",
		nil,
	)
	if !res.IsOrder {
		t.Fatalf("res=%+v", res)
	}
	if res.Reason != "rules_positive" {
		t.Fatalf("reason=%q", res.Reason)
	}
}

func TestDetectOrderRequestNegative(t *testing.T) {
	res := DetectOrderRequest("Feliz aniversário", "parabéns pela data, abraços", nil)
	if res.IsOrder {
		t.Fatalf("res=%+v", res)
	}
	if res.Reason != "rules_negative" {
		t.Fatalf("reason=%q", res.Reason)
	}
}

func TestDetectOrderRequestAttachmentBonus(t *testing.T) {
	without := DetectOrderRequest("planilha", "segue em anexo", nil)
	with := DetectOrderRequest("planilha", "segue em anexo", []string{"respostas.xlsx"})
	if with.Score <= without.Score {
		t.Fatalf("with=%+v without=%+v", with, without)
	}
}

func TestDetectOrderRequestScoreCapped(t *testing.T) {
	res := DetectOrderRequest(
		"pedido solicita produto negociação cotação orçamento qtd quantidade desconto",
		"pedido solicita produto negociação cotação orçamento qtd quantidade desconto 00011279 00012026 r$ 10",
		[]string{"pedido.xlsx"},
	)
	if res.Score > 1 {
		t.Fatalf("score=%f", res.Score)
	}
}
