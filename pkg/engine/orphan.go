package engine

import (
	"sort"

	"crossreg/pkg/schema"
)

const (
	suggestThreshold = 0.85
	maxSuggestions   = 3
)

// Candidate is a home student whose name resembles a host-only student's.
type Candidate struct {
	HomeID string  `json:"homeId"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// Suggestion pairs a host-only student with the home students it may
// actually be. Operators confirm a suggestion by adding the host ID to the
// override file.
type Suggestion struct {
	HostHomeID string      `json:"hostHomeId"`
	HostID     string      `json:"hostId"`
	Name       string      `json:"name"`
	Candidates []Candidate `json:"candidates"`
}

// Suggestions scores every host-only student against the home-anchored
// students without host data and returns those with at least one close
// name. Candidates are ordered by score, best first.
func (i *Institution) Suggestions() []Suggestion {
	var pool []*Student
	var orphans []*Student
	for _, s := range i.Students() {
		switch {
		case s.HostOnly:
			orphans = append(orphans, s)
		case !s.HasHostData():
			pool = append(pool, s)
		}
	}

	var out []Suggestion
	for _, o := range orphans {
		name := schema.NormalizeName(o.DisplayName)
		if name == "" {
			continue
		}

		var cands []Candidate
		for _, p := range pool {
			score := similarity(name, schema.NormalizeName(p.DisplayName))
			if score >= suggestThreshold {
				cands = append(cands, Candidate{HomeID: p.HomeID, Name: p.DisplayName, Score: score})
			}
		}
		if len(cands) == 0 {
			continue
		}

		sort.SliceStable(cands, func(a, b int) bool {
			return cands[a].Score > cands[b].Score
		})
		if len(cands) > maxSuggestions {
			cands = cands[:maxSuggestions]
		}
		out = append(out, Suggestion{
			HostHomeID: o.HomeID,
			HostID:     o.HostID,
			Name:       o.DisplayName,
			Candidates: cands,
		})
	}
	return out
}

// levenshteinDistance computes the Levenshtein edit distance between two strings.
// This is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to transform string a into string b.
func levenshteinDistance(a, b string) int {
	aRunes := []rune(a)
	bRunes := []rune(b)
	aLen := len(aRunes)
	bLen := len(bRunes)

	if aLen == 0 {
		return bLen
	}
	if bLen == 0 {
		return aLen
	}

	// Use two rows instead of a full matrix for O(min(m,n)) space complexity.
	// Ensure we iterate over the shorter string in the inner loop.
	if aLen > bLen {
		aRunes, bRunes = bRunes, aRunes
		aLen, bLen = bLen, aLen
	}

	prevRow := make([]int, aLen+1)
	currRow := make([]int, aLen+1)

	// Initialize the first row
	for i := 0; i <= aLen; i++ {
		prevRow[i] = i
	}

	for j := 1; j <= bLen; j++ {
		currRow[0] = j
		for i := 1; i <= aLen; i++ {
			cost := 1
			if aRunes[i-1] == bRunes[j-1] {
				cost = 0
			}

			deletion := prevRow[i] + 1
			insertion := currRow[i-1] + 1
			substitution := prevRow[i-1] + cost

			currRow[i] = min3(deletion, insertion, substitution)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[aLen]
}

// similarity computes a normalized similarity score between two strings.
// Returns a value between 0.0 (completely different) and 1.0 (identical).
// Formula: 1.0 - (levenshteinDistance(a, b) / max(len(a), len(b)))
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	aLen := len([]rune(a))
	bLen := len([]rune(b))

	maxLen := aLen
	if bLen > maxLen {
		maxLen = bLen
	}

	if maxLen == 0 {
		return 1.0
	}

	dist := levenshteinDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// min3 returns the minimum of three integers.
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
