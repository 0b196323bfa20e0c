package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxQty != 5000 {
		t.Fatalf("maxQty=%d", cfg.MaxQty)
	}
	if cfg.PreferredSheet != "Respostas do Formulário 1" {
		t.Fatalf("preferredSheet=%q", cfg.PreferredSheet)
	}
	if len(cfg.DescriptionAliases) == 0 || len(cfg.UnitTokens) == 0 {
		t.Fatalf("aliases=%v unitTokens=%v", cfg.DescriptionAliases, cfg.UnitTokens)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_QTY", "100")
	t.Setenv("UNIT_TOKENS", "PC; CX ;")
	t.Setenv("IMAP_SECURE", "no")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxQty != 100 {
		t.Fatalf("maxQty=%d", cfg.MaxQty)
	}
	if len(cfg.UnitTokens) != 2 || cfg.UnitTokens[0] != "PC" || cfg.UnitTokens[1] != "CX" {
		t.Fatalf("unitTokens=%v", cfg.UnitTokens)
	}
	if cfg.IMAPSecure {
		t.Fatal("IMAP_SECURE=no should disable TLS")
	}
}

func TestLoadRejectsBadMaxQty(t *testing.T) {
	t.Setenv("MAX_QTY", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive MAX_QTY")
	}
}
