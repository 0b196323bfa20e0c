package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"pedidos/internal"
)

func TestFromFileText(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "pedido.txt")
	if err := os.WriteFile(path, []byte("00011279 - 12"), 0o644); err != nil {
		t.Fatal(err)
	}

	subs, err := FromFile(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Source != internal.SourceText {
		t.Fatalf("subs=%v", subs)
	}
}

func TestFromFileXLSX(t *testing.T) {
	cfg := testConfig(t)
	blob := mkXLSX(t, cfg.PreferredSheet, [][]any{
		{"DESCRICAO"},
		{"00011279 - 12"},
	})
	path := filepath.Join(t.TempDir(), "respostas.xlsx")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}

	subs, err := FromFile(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Source != internal.SourceXLSX {
		t.Fatalf("subs=%v", subs)
	}
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	cfg := testConfig(t)
	if _, err := FromFile("pedido.docx", cfg); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
