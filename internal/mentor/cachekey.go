package mentor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

// DeriveWeakAreasKey canonicalizes a set of weak areas into a cache key:
// distinct chapter numbers, ascending, joined with "-". The key depends only
// on WHICH chapters are weak, not on scores or concepts, so small score
// movements within the same weak set still hit the same cached quiz.
// No weak areas yields the empty key, which is itself a valid cache key.
func DeriveWeakAreasKey(weakAreas []models.WeakArea) string {
	if len(weakAreas) == 0 {
		return ""
	}

	seen := make(map[int]bool, len(weakAreas))
	var numbers []int
	for _, wa := range weakAreas {
		if seen[wa.ChapterNumber] {
			continue
		}
		seen[wa.ChapterNumber] = true
		numbers = append(numbers, wa.ChapterNumber)
	}
	sort.Ints(numbers)

	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}
