// Package recommend holds the static result copy and theme tokens shown on
// the result screen. The tables are read-only; lookups hand out copies.
package recommend

import (
	"fmt"

	"github.com/kingrea/tastematch/internal/quiz"
)

// Recommendation is the copy shown for a verdict.
type Recommendation struct {
	Header         string   `yaml:"header"`
	Title          string   `yaml:"title"`
	Subtitle       string   `yaml:"subtitle"`
	Lines          []string `yaml:"lines"`
	CTA            string   `yaml:"cta"`
	Icon           string   `yaml:"icon"`
	DecorativeIcon string   `yaml:"decorative_icon"`
}

var records = map[quiz.Category]Recommendation{
	quiz.CategoryA: {
		Header:   "YAMAS",
		Title:    "The Groove Lover",
		Subtitle: "YAMAS",
		Lines: []string{
			"You're all about good vibes, great music, and creamy Baileys cocktails.",
			"Your perfect match: Yamas: where rhythm meets indulgence.",
		},
		CTA:            "Complimentary Baileys cocktail treat.",
		Icon:           "🍸",
		DecorativeIcon: "✦",
	},
	quiz.CategoryB: {
		Header:   "ONZA",
		Title:    "The Indulgent Diner",
		Subtitle: "ONZA",
		Lines: []string{
			"You enjoy life's finer things curated meals, laughter, and sophistication.",
			"Your Baileys match: Onza, the home of fine dining and decadent treats.",
		},
		CTA:            "Baileys dessert or cocktail pairing.",
		Icon:           "🍹",
		DecorativeIcon: "♪",
	},
	quiz.CategoryC: {
		Header:   "RAFAELO",
		Title:    "The Chill Connoisseur",
		Subtitle: "RAFAELO",
		Lines: []string{
			"You love cozy moments, great conversations, and sweet indulgences.",
			"Your match: Rafaelo, where Baileys meets coffee, ice cream, and milkshakes.",
		},
		CTA:            "Baileys coffee or ice cream treat.",
		Icon:           "🥃",
		DecorativeIcon: "❋",
	},
}

func init() {
	for _, c := range quiz.Eligible() {
		if _, ok := records[c]; !ok {
			panic(fmt.Sprintf("recommend: no record for eligible category %s", c))
		}
	}
}

// For returns the recommendation for an eligible verdict. Any other value
// falls back to the first eligible category's record.
func For(verdict quiz.Category) Recommendation {
	rec, ok := records[verdict]
	if !ok {
		rec = records[quiz.Eligible()[0]]
	}
	rec.Lines = append([]string(nil), rec.Lines...)
	return rec
}

// Lookup is For with an explicit miss signal.
func Lookup(verdict quiz.Category) (Recommendation, bool) {
	if _, ok := records[verdict]; !ok {
		return Recommendation{}, false
	}
	return For(verdict), true
}
