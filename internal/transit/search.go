// SPDX-License-Identifier: MIT

package transit

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Typo tolerance: allowed Levenshtein distance per query length.
func maxDistance(query string) int {
	switch n := len([]rune(query)); {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	case n <= 10:
		return 2
	default:
		return 3
	}
}

type scoredStop struct {
	stop DisplayStop
	tier int // 0 exact, 1 prefix, 2 substring, 3 subsequence, 4 typo
	dist int
}

// SearchStops ranks display stops against a free-text query. It tolerates
// partial words ("побед" finds "улица Победы") and typos ("бальница" finds
// "Центральная районная больница").
func SearchStops(query string, stops []DisplayStop, limit int) []DisplayStop {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var scored []scoredStop
	for _, ds := range stops {
		hay := strings.ToLower(ds.Search)
		if hay == "" {
			hay = strings.ToLower(ds.Name)
		}

		s := scoredStop{stop: ds, dist: len([]rune(hay))}
		switch {
		case hay == query:
			s.tier = 0
			s.dist = 0
		case strings.HasPrefix(hay, query):
			s.tier = 1
			s.dist = len(hay) - len(query)
		case strings.Contains(hay, query):
			s.tier = 2
			s.dist = strings.Index(hay, query)
		case fuzzy.MatchNormalizedFold(query, hay):
			s.tier = 3
			s.dist = fuzzy.RankMatchNormalizedFold(query, hay)
		default:
			// Word-level typo match.
			best := -1
			for _, word := range strings.Fields(hay) {
				d := fuzzy.LevenshteinDistance(query, word)
				if best == -1 || d < best {
					best = d
				}
				// Also compare against a prefix of the word: a truncated
				// query like "побед" should still match "победы".
				if r := []rune(word); len(r) > len([]rune(query)) {
					if d := fuzzy.LevenshteinDistance(query, string(r[:len([]rune(query))])); d < best {
						best = d
					}
				}
			}
			if best < 0 || best > maxDistance(query) {
				continue
			}
			s.tier = 4
			s.dist = best
		}
		scored = append(scored, s)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].tier != scored[j].tier {
			return scored[i].tier < scored[j].tier
		}
		if scored[i].dist != scored[j].dist {
			return scored[i].dist < scored[j].dist
		}
		return scored[i].stop.Name < scored[j].stop.Name
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]DisplayStop, len(scored))
	for i, s := range scored {
		out[i] = s.stop
	}
	return out
}
