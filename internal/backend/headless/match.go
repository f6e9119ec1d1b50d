package headless

import (
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// matchButton picks the button a scripted answer refers to. It accepts an
// exact label, a label prefix, a zero-based index, or a fuzzy match, in that
// order. -1 means nothing matched.
func matchButton(buttons []string, answer string) int {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" || len(buttons) == 0 {
		return -1
	}
	for i, label := range buttons {
		if strings.EqualFold(label, trimmed) {
			return i
		}
	}
	lower := strings.ToLower(trimmed)
	for i, label := range buttons {
		if strings.HasPrefix(strings.ToLower(label), lower) {
			return i
		}
	}
	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx >= 0 && idx < len(buttons) {
			return idx
		}
		return -1
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, buttons)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(buttons) {
		return -1
	}
	return best.OriginalIndex
}
