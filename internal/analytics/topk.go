// Package analytics holds the trip statistics used by the API and the loader.
package analytics

import "slices"

// ZoneCount is one entry of a top-K frequency result
type ZoneCount struct {
	Zone  string `json:"zone"`
	Count int    `json:"count"`
}

// TopKFrequent returns the k most frequent items, most frequent first.
// Items with equal counts keep the order in which they were first seen.
// Callers drop unknown zones before counting.
func TopKFrequent(items []string, k int) []ZoneCount {
	if k <= 0 {
		return []ZoneCount{}
	}

	index := make(map[string]int)
	pairs := make([]ZoneCount, 0)
	for _, item := range items {
		if i, ok := index[item]; ok {
			pairs[i].Count++
			continue
		}
		index[item] = len(pairs)
		pairs = append(pairs, ZoneCount{Zone: item, Count: 1})
	}

	n := min(k, len(pairs))
	result := make([]ZoneCount, 0, n)
	for range n {
		maxIdx := 0
		for i := 1; i < len(pairs); i++ {
			if pairs[i].Count > pairs[maxIdx].Count {
				maxIdx = i
			}
		}
		result = append(result, pairs[maxIdx])
		pairs = slices.Delete(pairs, maxIdx, maxIdx+1)
	}

	return result
}
