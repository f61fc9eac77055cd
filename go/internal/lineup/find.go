package lineup

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mcdev12/korfscore/go/internal/models"
)

const similarityThreshold = 0.7

// FindPlayer returns the roster entry whose name best matches query. A
// subsequence match ("jdv" for "Jan de Vries") wins over an edit-distance
// match; typos are tolerated down to 70% similarity.
func FindPlayer(query string, players []models.LineupPlayer) (models.LineupPlayer, bool) {
	query = strings.TrimSpace(query)
	if query == "" || len(players) == 0 {
		return models.LineupPlayer{}, false
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return players[ranks[0].OriginalIndex], true
	}

	best := -1
	bestScore := similarityThreshold
	q := strings.ToLower(query)
	for i, name := range names {
		n := strings.ToLower(name)
		maxLen := float64(max(len(q), len(n)))
		similarity := 1 - float64(fuzzy.LevenshteinDistance(q, n))/maxLen
		if similarity > bestScore {
			best = i
			bestScore = similarity
		}
	}
	if best < 0 {
		return models.LineupPlayer{}, false
	}
	return players[best], true
}
