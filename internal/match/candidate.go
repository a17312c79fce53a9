package match

import (
	"cmp"
	"slices"
)

// Thresholds for suggestions.
const (
	// DefaultMinScore is the similarity below which a name is not offered
	// as a suggestion.
	DefaultMinScore = 0.6
	// DefaultAmbiguityThreshold is the score gap under which two candidates
	// are considered equally likely.
	DefaultAmbiguityThreshold = 0.1
)

// Candidate is a name scored against the name that was wanted.
type Candidate struct {
	Name   string  // the candidate, as given
	Wanted string  // the name it was compared to
	Score  float64 // NormalizedLevenshteinScore(Name, Wanted)
}

// CandidateList is sorted by descending score, ties broken by name.
type CandidateList []Candidate

// Rank scores every candidate against wanted.
func Rank(wanted string, candidates []string) CandidateList {
	list := make(CandidateList, 0, len(candidates))
	for _, name := range candidates {
		list = append(list, Candidate{
			Name:   name,
			Wanted: wanted,
			Score:  NormalizedLevenshteinScore(name, wanted),
		})
	}

	slices.SortFunc(list, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return list
}

// Best returns the top candidate, or nil for an empty list.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// IsAmbiguous reports whether the top two candidates are within threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// Pair matches each missing name with the most similar unexpected name
// scoring at least minScore. Every unexpected name is used at most once,
// and a missing name whose best two candidates are ambiguous is left
// unpaired. The result follows the order of missing.
func Pair(missing, unexpected []string, minScore float64) []Candidate {
	used := make(map[string]bool, len(unexpected))

	var pairs []Candidate

	for _, want := range missing {
		var free []string

		for _, name := range unexpected {
			if !used[name] {
				free = append(free, name)
			}
		}

		ranked := Rank(want, free).AboveThreshold(minScore)
		if len(ranked) == 0 || ranked.IsAmbiguous(DefaultAmbiguityThreshold) {
			continue
		}

		best := ranked.Best()
		used[best.Name] = true
		pairs = append(pairs, *best)
	}

	return pairs
}
