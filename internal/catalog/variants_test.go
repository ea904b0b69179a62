package catalog

import "testing"

func TestGenerateVariants_CartesianProduct(t *testing.T) {
	attrs := []Attribute{
		{Name: "Size", Options: []Option{{Name: "S"}, {Name: "M"}, {Name: "L"}}},
		{Name: "Color", Options: []Option{{Name: "Red"}, {Name: "Blue"}}},
	}
	variants := GenerateVariants(attrs, nil)
	if len(variants) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(variants))
	}
	seen := make(map[string]bool)
	for _, v := range variants {
		if len(v.Combination) != 2 {
			t.Fatalf("combination must cover all attributes, got %v", v.Combination)
		}
		key := v.Combination["Size"] + "/" + v.Combination["Color"]
		if seen[key] {
			t.Fatalf("duplicate combination %s", key)
		}
		seen[key] = true
		if v.Price != 0 || v.Stock != StockOut {
			t.Fatalf("new combinations must start unpriced and out of stock, got %+v", v)
		}
	}
}

func TestGenerateVariants_PreservesSurvivingCombinations(t *testing.T) {
	attrs := []Attribute{
		{Name: "Size", Options: []Option{{Name: "S"}, {Name: "M"}}},
	}
	previous := []Variant{
		{Combination: map[string]string{"Size": "S"}, Price: 100, DiscountedPrice: f(80), Stock: StockIn},
		{Combination: map[string]string{"Size": "XL"}, Price: 999, Stock: StockIn}, // option removed by the seller
	}

	variants := GenerateVariants(attrs, previous)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	for _, v := range variants {
		switch v.Combination["Size"] {
		case "S":
			if v.Price != 100 || v.DiscountedPrice == nil || *v.DiscountedPrice != 80 || v.Stock != StockIn {
				t.Fatalf("surviving combination lost its data: %+v", v)
			}
		case "M":
			if v.Price != 0 || v.Stock != StockOut {
				t.Fatalf("new combination should start empty: %+v", v)
			}
		case "XL":
			t.Fatal("discarded combination must not be regenerated")
		}
	}
}

func TestGenerateVariants_EmptyInputs(t *testing.T) {
	if v := GenerateVariants(nil, nil); v != nil {
		t.Fatalf("no attributes means no variants, got %v", v)
	}
	attrs := []Attribute{{Name: "Size"}} // attribute without options
	if v := GenerateVariants(attrs, nil); v != nil {
		t.Fatalf("an optionless attribute produces no combinations, got %v", v)
	}
}
