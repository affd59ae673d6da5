package services

import (
	"sort"

	"github.com/Taraweeh/models"
)

// ComputeStreaks returns the run of consecutive nights ending at the latest
// marked night, and the longest run overall.
func ComputeStreaks(nights []int) (current int, best int) {
	if len(nights) == 0 {
		return 0, 0
	}

	sorted := append([]int{}, nights...)
	sort.Ints(sorted)

	run := 1
	best = 1
	for i := 1; i < len(sorted); i++ {
		switch {
		case sorted[i] == sorted[i-1]:
			continue
		case sorted[i] == sorted[i-1]+1:
			run++
		default:
			run = 1
		}
		if run > best {
			best = run
		}
	}

	return run, best
}

func TrackerStats(nights []int) models.TrackerStats {
	current, best := ComputeStreaks(nights)
	return models.TrackerStats{
		Attended:      len(nights),
		Total:         models.RamadanNights,
		CurrentStreak: current,
		BestStreak:    best,
	}
}
