package extract

import "testing"

func scan(t *testing.T, text string) []Candidate {
	t.Helper()
	return NewMatcher(5000, nil).Scan(text)
}

func TestScanCodeSepQty(t *testing.T) {
	items := Resolve(scan(t, "00011279 - 12 unid"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if items[0].Code != "00011279" || items[0].Qty == nil || *items[0].Qty != 12 {
		t.Fatalf("got %+v", items[0])
	}
}

func TestScanQtyXCode(t *testing.T) {
	items := Resolve(scan(t, "10X 00101478"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if items[0].Code != "00101478" || *items[0].Qty != 10 {
		t.Fatalf("got %+v", items[0])
	}
}

func TestScanQtyUnitCode(t *testing.T) {
	items := Resolve(scan(t, "6 unidades 12971"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if items[0].Code != "12971" || *items[0].Qty != 6 {
		t.Fatalf("got %+v", items[0])
	}
}

func TestScanQtyUnitCodeSingular(t *testing.T) {
	items := Resolve(scan(t, "6 unidade 12971"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if items[0].Code != "12971" || *items[0].Qty != 6 {
		t.Fatalf("got %+v", items[0])
	}
}

func TestScanCodeQty(t *testing.T) {
	items := Resolve(scan(t, "favor cotar 23391 4"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if items[0].Code != "23391" || *items[0].Qty != 4 {
		t.Fatalf("got %+v", items[0])
	}
}

func TestScanBareCodeDefaultsToOne(t *testing.T) {
	items := Resolve(scan(t, "precisamos do 00012026"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if items[0].Code != "00012026" || items[0].Qty == nil || *items[0].Qty != 1 {
		t.Fatalf("got %+v", items[0])
	}
}

func TestScanAmbiguousPairDropped(t *testing.T) {
	// Two 5+ digit operands: no way to tell code from quantity, and the
	// bare scan must not resurrect either side.
	if items := Resolve(scan(t, "12345 67890")); len(items) != 0 {
		t.Fatalf("items=%v", items)
	}
}

func TestScanQtyCeiling(t *testing.T) {
	items := Resolve(scan(t, "00011279 - 5000"))
	if len(items) != 1 || *items[0].Qty != 5000 {
		t.Fatalf("items=%v", items)
	}
	if items := Resolve(scan(t, "00011279 - 5001")); len(items) != 0 {
		t.Fatalf("over-ceiling pair must be dropped, items=%v", items)
	}
}

func TestScanCustomCeiling(t *testing.T) {
	m := NewMatcher(10, nil)
	if items := Resolve(m.Scan("00011279 - 11")); len(items) != 0 {
		t.Fatalf("items=%v", items)
	}
	items := Resolve(m.Scan("00011279 - 10"))
	if len(items) != 1 || *items[0].Qty != 10 {
		t.Fatalf("items=%v", items)
	}
}

func TestResolveFirstSightingWins(t *testing.T) {
	items := Resolve(scan(t, "00011279 - 12 e depois 00011279"))
	if len(items) != 1 {
		t.Fatalf("items=%v", items)
	}
	if *items[0].Qty != 12 {
		t.Fatalf("explicit quantity lost: %+v", items[0])
	}
}

func TestScanMultipleCodes(t *testing.T) {
	items := Resolve(scan(t, "2x 00011279 e tambem 00012026 - 3 mais 99887"))
	if len(items) != 3 {
		t.Fatalf("items=%v", items)
	}
	byCode := map[string]int{}
	for _, item := range items {
		byCode[item.Code] = *item.Qty
	}
	if byCode["00011279"] != 2 || byCode["00012026"] != 3 || byCode["99887"] != 1 {
		t.Fatalf("byCode=%v", byCode)
	}
}

func TestScanEmpty(t *testing.T) {
	if got := scan(t, "   "); got != nil {
		t.Fatalf("got %v", got)
	}
	if got := scan(t, "sem codigos aqui"); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}
