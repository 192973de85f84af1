package engine

import "slices"

// vibrationPatterns holds one pattern per urgency level, each strictly more
// intense than the one before.
var vibrationPatterns = [][]int{
	{200, 100, 200},
	{200, 100, 200, 100, 200},
	{300, 100, 300, 100, 300, 100, 300},
	{500, 100, 500, 100, 500, 100, 500, 100, 500},
	{100, 50, 100, 50, 100, 50, 100, 50, 100, 50, 500, 100, 500},
}

// VibrationPattern returns the pattern for attempt, clamped to the most
// intense level.
func VibrationPattern(attempt int) []int {
	idx := min(max(attempt, 0), len(vibrationPatterns)-1)
	return slices.Clone(vibrationPatterns[idx])
}
