package roulette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTiers = []Tier{
	{Threshold: 10, Prize: "Prize A"},
	{Threshold: 30, Prize: "Prize B"},
	{Threshold: 60, Prize: "Prize C"},
}

func TestPrize_Boundaries(t *testing.T) {
	w := NewWheel(testTiers)

	tests := []struct {
		roll  int
		prize string
		won   bool
	}{
		{1, "Prize A", true},
		{10, "Prize A", true},
		{11, "Prize B", true},
		{30, "Prize B", true},
		{31, "Prize C", true},
		{60, "Prize C", true},
		{61, "", false},
		{100, "", false},
	}
	for _, tt := range tests {
		prize, won := w.Prize(tt.roll)
		assert.Equal(t, tt.won, won, "roll %d", tt.roll)
		assert.Equal(t, tt.prize, prize, "roll %d", tt.roll)
	}
}

func TestNewWheel_SortsTiers(t *testing.T) {
	w := NewWheel([]Tier{
		{Threshold: 60, Prize: "Prize C"},
		{Threshold: 10, Prize: "Prize A"},
		{Threshold: 30, Prize: "Prize B"},
	})

	prize, won := w.Prize(5)
	assert.True(t, won)
	assert.Equal(t, "Prize A", prize, "the smallest matching threshold wins")
}

func TestSpin_RollInRangeAndConsistent(t *testing.T) {
	w := NewWheel(testTiers)

	for i := 0; i < 1000; i++ {
		roll, prize, won := w.Spin()
		assert.GreaterOrEqual(t, roll, 1)
		assert.LessOrEqual(t, roll, 100)

		expected, expectedWon := w.Prize(roll)
		assert.Equal(t, expectedWon, won)
		assert.Equal(t, expected, prize)
	}
}
