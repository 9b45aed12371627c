package drive

import (
	"slices"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
)

// instructions is illustrative turn-by-turn content. It is not derived from the route geometry.
var instructions = []models.Instruction{
	{Text: "Head north on Market St", LegMiles: 0.3},
	{Text: "Turn left onto 5th St", LegMiles: 0.5},
	{Text: "Turn right onto Mission St", LegMiles: 0.8},
	{Text: "Continue onto US-101 N", LegMiles: 5.2},
	{Text: "Take exit toward Airport", LegMiles: 2.1},
	{Text: "Arrive at destination", LegMiles: 0},
}

// Instructions returns a copy of the instruction list.
func Instructions() []models.Instruction {
	return slices.Clone(instructions)
}

// instructionIndex maps progress p in [0, 1] onto the instruction list.
func instructionIndex(p float64, n int) int {
	idx := int(p * float64(n))
	return min(max(idx, 0), n-1)
}
