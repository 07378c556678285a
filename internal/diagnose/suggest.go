// Package diagnose provides "did you mean" suggestions for unresolved
// identifiers, grounded on standardbeagle-lci/internal/semantic's
// FuzzyMatcher (edlib.StringsSimilarity with the Jaro-Winkler algorithm),
// narrowed from that package's multi-algorithm configuration surface to the
// one call the validation engine needs: given an unresolved name and the
// graph's candidate pool, pick the closest match above a threshold.
package diagnose

import "github.com/hbollon/go-edlib"

// DefaultSuggestionThreshold is the Jaro-Winkler score a candidate must
// clear to be offered as a suggestion.
const DefaultSuggestionThreshold = 0.80

// Suggest returns the candidate closest to name by Jaro-Winkler similarity,
// provided its score is at or above threshold. ok is false when candidates
// is empty or no candidate clears the threshold.
func Suggest(name string, candidates []string, threshold float64) (best string, score float64, ok bool) {
	for _, c := range candidates {
		if c == name {
			continue
		}
		s, err := edlib.StringsSimilarity(name, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		sim := float64(s)
		if sim > score {
			score, best = sim, c
		}
	}
	if best == "" || score < threshold {
		return "", 0, false
	}
	return best, score, true
}
