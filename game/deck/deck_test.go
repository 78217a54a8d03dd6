package deck

import (
	"testing"
)

func TestBuildComposition(t *testing.T) {
	cards := BuildSeeded(1)

	if len(cards) != Size {
		t.Fatalf("Expected %d cards, got %d", Size, len(cards))
	}

	kinds := make(map[Kind]int)
	cityColor := make(map[string]int)
	for _, c := range cards {
		kinds[c.Kind]++
		if c.Kind == KindCity {
			cityColor[c.City+"/"+c.Color]++
		}
	}

	if kinds[KindCity] != 72 {
		t.Errorf("Expected 72 city cards, got %d", kinds[KindCity])
	}
	for _, special := range []Kind{KindSkip, KindReverse, KindDrawTwo, KindWildColor, KindWildCity} {
		if kinds[special] != 4 {
			t.Errorf("Expected 4 %s cards, got %d", special, kinds[special])
		}
	}
	if len(cityColor) != 36 {
		t.Errorf("Expected 36 city/color combinations, got %d", len(cityColor))
	}
	for combo, n := range cityColor {
		if n != 2 {
			t.Errorf("Expected 2 copies of %s, got %d", combo, n)
		}
	}
}

func TestBuildUniqueIDs(t *testing.T) {
	cards := Build()

	seen := make(map[int]bool)
	for _, c := range cards {
		if seen[c.ID] {
			t.Fatalf("Duplicate card ID %d", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestBuildSeededDeterministic(t *testing.T) {
	a := BuildSeeded(42)
	b := BuildSeeded(42)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Seeded decks diverge at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuildShuffles(t *testing.T) {
	a := BuildSeeded(1)
	b := BuildSeeded(2)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("Different seeds produced identical orderings")
	}
}

func TestIsCity(t *testing.T) {
	city := Card{Kind: KindCity, City: "Riyadh", Color: "red"}
	if !city.IsCity() {
		t.Error("City card not recognized as city")
	}

	skip := Card{Kind: KindSkip}
	if skip.IsCity() {
		t.Error("Skip card recognized as city")
	}
}
