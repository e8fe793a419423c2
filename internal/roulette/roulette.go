package roulette

import (
	"math/rand"
	"sort"
)

// Tier is one prize band: a roll lands in the tier with the smallest
// threshold that is >= the roll.
type Tier struct {
	Threshold int
	Prize     string
}

// Wheel rolls 1..100 and resolves the roll against an ascending threshold
// table. Rolls above every threshold lose.
type Wheel struct {
	tiers []Tier
}

func NewWheel(tiers []Tier) *Wheel {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })
	return &Wheel{tiers: sorted}
}

// Prize resolves a roll to a prize label, or false when the roll misses
// every tier.
func (w *Wheel) Prize(roll int) (string, bool) {
	for _, t := range w.tiers {
		if roll <= t.Threshold {
			return t.Prize, true
		}
	}
	return "", false
}

// Spin rolls once and resolves it.
func (w *Wheel) Spin() (roll int, prize string, won bool) {
	roll = rand.Intn(100) + 1
	prize, won = w.Prize(roll)
	return roll, prize, won
}
