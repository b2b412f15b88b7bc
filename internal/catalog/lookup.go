package catalog

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// suggestThreshold is the minimum Jaro-Winkler score for a "did you mean" hint.
const suggestThreshold = 0.80

// Lookup resolves a series by exact id, then by case-insensitive title.
// On a miss the returned error wraps ErrNotFound and names the closest match, if any.
func (s *Store) Lookup(idOrTitle string) (Series, error) {
	q := strings.TrimSpace(idOrTitle)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(q); i >= 0 {
		return s.doc.Series[i].Clone(), nil
	}
	for _, series := range s.doc.Series {
		if strings.EqualFold(series.Title, q) {
			return series.Clone(), nil
		}
	}

	if hint := suggest(q, s.doc.Series); hint != "" {
		return Series{}, fmt.Errorf("series %q (did you mean %q?): %w", q, hint, ErrNotFound)
	}
	return Series{}, fmt.Errorf("series %q: %w", q, ErrNotFound)
}

// suggest returns the id of the series whose id or title is closest to q.
func suggest(q string, series []Series) string {
	needle := strings.ToLower(q)
	var (
		best      string
		bestScore float32
	)
	for _, s := range series {
		for _, candidate := range []string{s.ID, s.Title} {
			score := edlib.JaroWinklerSimilarity(needle, strings.ToLower(candidate))
			if score > bestScore {
				best, bestScore = s.ID, score
			}
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
