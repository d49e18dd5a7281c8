// internal/quiz/quiz.go
//
// Core quiz types and the verdict algorithm. Every question offers up to four
// options; the option at position i belongs to category i (A, B, C, D).
// A result screen tallies the answers per category and resolves a single
// verdict from the three eligible categories.

package quiz

import "strings"

// Category is one of the four answer buckets.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
	CategoryD Category = "D"
)

// NumCategories is the size of the fixed category set.
const NumCategories = 4

// Excluded is the category that may be tallied but never returned as a verdict.
const Excluded = CategoryD

var (
	canonicalOrder = [NumCategories]Category{CategoryA, CategoryB, CategoryC, CategoryD}
	eligibleOrder  = [NumCategories - 1]Category{CategoryA, CategoryB, CategoryC}
)

// Categories returns every category in canonical order.
func Categories() []Category {
	out := canonicalOrder
	return out[:]
}

// Eligible returns the categories that can be a verdict, in canonical order.
func Eligible() []Category {
	out := eligibleOrder
	return out[:]
}

// Index returns the option position bound to the category, or -1.
func (c Category) Index() int {
	for i, candidate := range canonicalOrder {
		if candidate == c {
			return i
		}
	}
	return -1
}

// IsEligible reports whether c may be returned as a verdict.
func (c Category) IsEligible() bool {
	return c.Index() >= 0 && c != Excluded
}

// ParseCategory accepts "a".."d" in any case.
func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(value)))
	if c.Index() < 0 {
		return "", false
	}
	return c, true
}

// Question is an immutable, ordered list of answer options.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
}

// OptionIndex returns the position of an exact option match, or -1.
func (q Question) OptionIndex(option string) int {
	for i, candidate := range q.Options {
		if candidate == option {
			return i
		}
	}
	return -1
}

// Answer is either a selected option or the skipped marker.
type Answer struct {
	Option  string
	Skipped bool
}

// Pick answers a question with the given option text.
func Pick(option string) Answer {
	return Answer{Option: option}
}

// Skip returns the skipped marker.
func Skip() Answer {
	return Answer{Skipped: true}
}

func (a Answer) String() string {
	if a.Skipped {
		return "<skipped>"
	}
	return a.Option
}
