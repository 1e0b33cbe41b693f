package stats

import (
	"sort"

	"github.com/verte-zerg/keygrid/internal/model"
)

// TopKeysByFrequency returns the n most pressed keys.
func TopKeysByFrequency(aggs []model.KeyAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := append([]model.KeyAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Presses == sorted[j].Presses {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].Presses > sorted[j].Presses
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Key
	}
	return out
}
