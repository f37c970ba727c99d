package footprint

import (
	"math"
	"strings"
	"testing"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestGrams(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"200 g", 200},
		{"0.3kg", 300},
		{"250 ml", 250},
		{"2", 2 * DefaultPortionGrams},
		{"1 slice", DefaultPortionGrams},
		{"", DefaultPortionGrams},
		{"a handful", DefaultPortionGrams},
	}
	for _, tc := range cases {
		if got := Grams(tc.in); !approx(got, tc.want) {
			t.Errorf("Grams(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestBundledTableEstimates(t *testing.T) {
	l := Default()

	v, ok := l.Estimate("Beef burger", "200 g")
	if !ok || !approx(v, 19.9) {
		t.Fatalf("expected 19.9 kg for 200 g beef, got %v %v", v, ok)
	}
	if _, ok := l.Estimate("mystery stew", "1 bowl"); ok {
		t.Fatalf("expected unknown food to have no estimate")
	}

	soy, _ := l.Factor("soy milk latte")
	milk, _ := l.Factor("milk")
	if soy == milk {
		t.Fatalf("expected the longer name to win, got %v for both", soy)
	}
}

func TestParseItems(t *testing.T) {
	items := Default().ParseItems("rice 200g, lentils 150 g; a green salad")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %+v", items)
	}
	if items[0].Name != "rice" || items[0].Quantity != "200g" || items[0].Footprint == nil || !approx(*items[0].Footprint, 0.9) {
		t.Fatalf("unexpected rice item %+v", items[0])
	}
	if items[2].Name != "a green salad" || items[2].Footprint != nil {
		t.Fatalf("unexpected salad item %+v", items[2])
	}
}

func TestParseItemsKeepsDishNames(t *testing.T) {
	tests := []struct {
		text     string
		name     string
		quantity string
	}{
		{"mac and cheese 200g", "mac and cheese", "200g"},
		{"rice with beans 150 g", "rice with beans", "150 g"},
		{"fish and chips", "fish and chips", ""},
	}
	for _, tt := range tests {
		items := Default().ParseItems(tt.text)
		if len(items) != 1 {
			t.Fatalf("ParseItems(%q) split into %+v", tt.text, items)
		}
		if items[0].Name != tt.name || items[0].Quantity != tt.quantity {
			t.Errorf("ParseItems(%q) = %q/%q, want %q/%q", tt.text, items[0].Name, items[0].Quantity, tt.name, tt.quantity)
		}
	}
}

func TestFillKeepsKnownFootprints(t *testing.T) {
	known := 0.1
	in := []domain.FoodItem{{Name: "beef", Quantity: "100 g", Footprint: &known}, {Name: "tofu", Quantity: "100 g"}}
	out := Default().Fill(in)

	if *out[0].Footprint != 0.1 {
		t.Fatalf("expected provided footprint kept")
	}
	if out[1].Footprint == nil || !approx(*out[1].Footprint, 0.32) {
		t.Fatalf("expected tofu estimate, got %+v", out[1])
	}
	if in[1].Footprint != nil {
		t.Fatalf("input must not be modified")
	}
}

func TestLoadRejectsBadTables(t *testing.T) {
	for _, raw := range []string{
		"food,kg_co2e_per_kg\n",
		"food,kg_co2e_per_kg\nbeef\n",
		"food,kg_co2e_per_kg\nbeef,lots\n",
	} {
		if _, err := Load(strings.NewReader(raw)); err == nil {
			t.Errorf("expected %q rejected", raw)
		}
	}
}
