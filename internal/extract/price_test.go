package extract

import (
	"testing"

	"pedidos/internal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"12,50", 12.5},
		{"1234", 1234},
		{"1.000.000,00", 1000000},
	}
	for _, c := range cases {
		got := ParseAmount(c.in)
		if got == nil || *got != c.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if got := ParseAmount(",,"); got != nil {
		t.Fatalf("garbage amount should be nil, got %v", *got)
	}
}

func TestScanPrices(t *testing.T) {
	prices := ScanPrices("12971 por R$ 1.234,56 e outro por R$12,50")
	if len(prices) != 2 {
		t.Fatalf("prices=%v", prices)
	}
	if prices[0] == nil || *prices[0] != 1234.56 || prices[1] == nil || *prices[1] != 12.5 {
		t.Fatalf("prices=%v %v", prices[0], prices[1])
	}
	if got := ScanPrices("sem preco nenhum"); got != nil {
		t.Fatalf("got %v", got)
	}
}

func TestLinkPricesPositional(t *testing.T) {
	items := []internal.LineItem{{Code: "11279"}, {Code: "12026"}, {Code: "99887"}}
	LinkPrices(items, []*float64{internal.FloatPtr(10), internal.FloatPtr(20)})
	if items[0].UnitPrice == nil || *items[0].UnitPrice != 10 {
		t.Fatalf("item 0: %+v", items[0])
	}
	if items[1].UnitPrice == nil || *items[1].UnitPrice != 20 {
		t.Fatalf("item 1: %+v", items[1])
	}
	if items[2].UnitPrice != nil {
		t.Fatalf("item beyond price count must stay nil: %+v", items[2])
	}
}

func TestLinkPricesExtraPricesDropped(t *testing.T) {
	items := []internal.LineItem{{Code: "11279"}}
	LinkPrices(items, []*float64{internal.FloatPtr(10), internal.FloatPtr(20), internal.FloatPtr(30)})
	if *items[0].UnitPrice != 10 {
		t.Fatalf("item 0: %+v", items[0])
	}
}

func TestLinkPricesKeepsNilSlot(t *testing.T) {
	items := []internal.LineItem{{Code: "11279"}, {Code: "12026"}}
	LinkPrices(items, []*float64{nil, internal.FloatPtr(20)})
	if items[0].UnitPrice != nil {
		t.Fatalf("bad amount should stay nil, got %v", *items[0].UnitPrice)
	}
	if *items[1].UnitPrice != 20 {
		t.Fatalf("item 1: %+v", items[1])
	}
}
