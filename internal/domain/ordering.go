package domain

import "sort"

// SortNewestFirst orders results by attempt time, latest first. Results must be passed in
// reverse insertion order so that equal timestamps keep the most recent append on top.
func SortNewestFirst(results []QuizResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AttemptedAt.After(results[j].AttemptedAt)
	})
}
