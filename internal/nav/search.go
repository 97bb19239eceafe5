package nav

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxPlaceDistance bounds fuzzy matches so unrelated queries find nothing.
const maxPlaceDistance = 3

// FindGroup returns the start of the first run whose location or group key
// matches query. Exact and substring matches win; otherwise the run with the
// smallest edit distance (at most maxPlaceDistance) is chosen.
func FindGroup(items []Item, query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(items) == 0 {
		return -1, false
	}

	starts := runStarts(items)
	for _, i := range starts {
		if strings.ToLower(items[i].Group) == q {
			return i, true
		}
	}
	for _, i := range starts {
		if runContains(items, i, q) {
			return i, true
		}
	}

	best, bestDist := -1, maxPlaceDistance+1
	for _, i := range starts {
		d := levenshtein.ComputeDistance(q, strings.ToLower(items[i].Group))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

func runStarts(items []Item) []int {
	var out []int
	for i := range items {
		if i == 0 || items[i].Group != items[i-1].Group {
			out = append(out, i)
		}
	}
	return out
}

func runContains(items []Item, start int, q string) bool {
	g := items[start].Group
	for i := start; i < len(items) && items[i].Group == g; i++ {
		if strings.Contains(strings.ToLower(items[i].Photo.Location), q) {
			return true
		}
	}
	return false
}
