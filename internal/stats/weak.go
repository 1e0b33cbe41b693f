package stats

import (
	"sort"

	"github.com/verte-zerg/keygrid/internal/model"
)

// SelectWeakKeys picks the keys with the highest undo rate. Ties fall back
// to the slower key, then to key order. Keys never undone are not weak.
func SelectWeakKeys(aggs []model.KeyAggregate, top int) map[rune]struct{} {
	weak := map[rune]struct{}{}
	candidates := make([]model.KeyAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Undone > 0 && agg.Key != "" {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri, rj := UndoRate(candidates[i]), UndoRate(candidates[j])
		if ri != rj {
			return ri > rj
		}
		li, lj := AvgLatency(candidates[i]), AvgLatency(candidates[j])
		if li != lj {
			return li > lj
		}
		return candidates[i].Key < candidates[j].Key
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		weak[[]rune(agg.Key)[0]] = struct{}{}
	}
	return weak
}
