package quiz

// Tally counts matched answers per category, indexed by Category.Index().
type Tally [NumCategories]int

// Get returns the count for c, zero for unknown categories.
func (t Tally) Get(c Category) int {
	idx := c.Index()
	if idx < 0 {
		return 0
	}
	return t[idx]
}

// Total is the number of answers that landed in any bucket.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Map returns the tally keyed by category label.
func (t Tally) Map() map[Category]int {
	out := make(map[Category]int, NumCategories)
	for i, c := range canonicalOrder {
		out[c] = t[i]
	}
	return out
}

// Winner returns the candidate with the highest count. Candidates are scanned
// in the order given and a later candidate only wins on a strictly greater
// count, so ties go to the first one listed.
func (t Tally) Winner(candidates ...Category) Category {
	var (
		best  Category
		count = -1
	)
	for _, c := range candidates {
		if n := t.Get(c); n > count {
			best, count = c, n
		}
	}
	return best
}

// Verdict picks the dominant category. When the excluded category wins
// outright the choice is repeated over the eligible categories only.
func (t Tally) Verdict() Category {
	winner := t.Winner(Categories()...)
	if winner == Excluded {
		winner = t.Winner(Eligible()...)
	}
	return winner
}

// Stats summarizes how the answers were consumed.
type Stats struct {
	Questions int `yaml:"questions"`
	Skipped   int `yaml:"skipped"`
	Unmatched int `yaml:"unmatched"`
	Matched   int `yaml:"matched"`
}

// Count tallies answers against their questions. Skipped answers, answers that
// match none of the question's options, and options past the fourth position
// leave the tally untouched. Only the aligned prefix of the two slices is read.
func Count(answers []Answer, questions []Question) (Tally, Stats) {
	var (
		tally Tally
		stats = Stats{Questions: len(questions)}
	)
	n := min(len(answers), len(questions))
	for i := 0; i < n; i++ {
		ans := answers[i]
		if ans.Skipped {
			stats.Skipped++
			continue
		}
		idx := questions[i].OptionIndex(ans.Option)
		if idx < 0 || idx >= NumCategories {
			stats.Unmatched++
			continue
		}
		tally[idx]++
		stats.Matched++
	}
	return tally, stats
}

// Resolve tallies the answers and returns the verdict. With nothing matched
// every count is zero and the verdict is the first eligible category.
func Resolve(answers []Answer, questions []Question) Category {
	tally, _ := Count(answers, questions)
	return tally.Verdict()
}
