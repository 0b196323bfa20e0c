package normalize

import "testing"

func TestProductCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00012026", "12026"},
		{"12026", "12026"},
		{"000", "0"},
		{"  23391 ", "23391"},
		{"ABC123", "ABC123"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ProductCode(c.in); got != c.want {
			t.Fatalf("ProductCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProductCodeIdempotent(t *testing.T) {
	for _, in := range []string{"00012026", "12026", "0", "ABC123"} {
		once := ProductCode(in)
		if twice := ProductCode(once); twice != once {
			t.Fatalf("ProductCode not idempotent on %q: %q then %q", in, once, twice)
		}
	}
}

func TestTextField(t *testing.T) {
	if got := TextField("  joão da silva  "); got == nil || *got != "João Da Silva" {
		t.Fatalf("got %v", got)
	}
	if got := TextField("   "); got != nil {
		t.Fatalf("blank input should map to nil, got %q", *got)
	}
}

func TestStripDiacritics(t *testing.T) {
	if got := StripDiacritics("Paraná"); got != "Parana" {
		t.Fatalf("got %q", got)
	}
	if got := StripDiacritics("negociação"); got != "negociacao" {
		t.Fatalf("got %q", got)
	}
}

func TestKey(t *testing.T) {
	if Key("  PARANÁ ") != Key("parana") {
		t.Fatal("keys for accented and plain spellings must collide")
	}
}
