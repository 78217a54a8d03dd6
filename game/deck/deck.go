// Package deck builds the card set used by every Jawla session.
//
// A deck is a fixed composition: every city/color combination appears
// twice, and every special action card appears four times. Decks are
// shuffled at construction and owned exclusively by a single session;
// cards only ever move out of the deck, into hands or the discard slot.
package deck

import (
	"math/rand"
	"time"
)

// Kind identifies what a card does when played.
type Kind string

const (
	KindCity      Kind = "city"
	KindSkip      Kind = "skip"
	KindReverse   Kind = "reverse"
	KindDrawTwo   Kind = "draw2"
	KindWildColor Kind = "wildColor"
	KindWildCity  Kind = "wildCity"
)

// Card is immutable once dealt. ID is unique within its deck.
type Card struct {
	ID       int    `json:"id"`
	Kind     Kind   `json:"kind"`
	City     string `json:"city,omitempty"`
	Color    string `json:"color,omitempty"`
	ColorHex string `json:"color_hex,omitempty"`
}

// IsCity reports whether the card is a plain city card.
func (c Card) IsCity() bool {
	return c.Kind == KindCity
}

// City and color tables mirror the card art shipped with the client.
var cities = []string{
	"Mecca",
	"Medina",
	"Riyadh",
	"Jeddah",
	"Dammam",
	"Diriyah",
	"Abha",
	"AlUla",
	"Neom",
}

var colors = []struct {
	Name string
	Hex  string
}{
	{"red", "#ef4444"},
	{"blue", "#3b82f6"},
	{"green", "#10b981"},
	{"yellow", "#fbbf24"},
}

var specials = []Kind{
	KindSkip,
	KindReverse,
	KindDrawTwo,
	KindWildColor,
	KindWildCity,
}

const (
	cityCopies    = 2
	specialCopies = 4

	// Size is the total number of cards in a freshly built deck:
	// 9 cities × 4 colors × 2 copies plus 5 specials × 4 copies.
	Size = 9*4*cityCopies + 5*specialCopies
)

// Build returns a new shuffled deck with the fixed composition:
// 9 cities × 4 colors × 2 copies plus 4 copies of each special.
func Build() []Card {
	return BuildSeeded(0)
}

// BuildSeeded builds a deck shuffled from the given seed. A zero seed
// uses the current time; tests pass a fixed seed for repeatability.
func BuildSeeded(seed int64) []Card {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	cards := make([]Card, 0, Size)
	id := 0
	for _, city := range cities {
		for _, color := range colors {
			for i := 0; i < cityCopies; i++ {
				cards = append(cards, Card{
					ID:       id,
					Kind:     KindCity,
					City:     city,
					Color:    color.Name,
					ColorHex: color.Hex,
				})
				id++
			}
		}
	}
	for _, kind := range specials {
		hex := "#8b5cf6"
		if kind == KindWildColor || kind == KindWildCity {
			hex = "#6b21a8"
		}
		for i := 0; i < specialCopies; i++ {
			cards = append(cards, Card{
				ID:       id,
				Kind:     kind,
				ColorHex: hex,
			})
			id++
		}
	}

	// Fisher–Yates
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}
