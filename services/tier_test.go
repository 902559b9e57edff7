package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForBoundaries(t *testing.T) {
	cases := []struct {
		points   int
		name     string
		discount int
	}{
		{0, "Sem Desconto", 0},
		{150, "Sem Desconto", 0},
		{299, "Sem Desconto", 0},
		{300, "Participativo", 10},
		{599, "Participativo", 10},
		{600, "Premium", 25},
		{899, "Premium", 25},
		{900, "Elite", 50},
		{5000, "Elite", 50},
	}
	for _, tc := range cases {
		tier := TierFor(tc.points)
		assert.Equal(t, tc.name, tier.Name, "points=%d", tc.points)
		assert.Equal(t, tc.discount, tier.Discount, "points=%d", tc.points)
	}
}

func TestTierForNegativePoints(t *testing.T) {
	tier := TierFor(-10)
	assert.Equal(t, "Sem Desconto", tier.Name)
}

func TestTierProgress(t *testing.T) {
	assert.Equal(t, 0, TierProgress(0))
	assert.Equal(t, 50, TierProgress(150))
	assert.Equal(t, 99, TierProgress(299))
	assert.Equal(t, 0, TierProgress(300))
	assert.Equal(t, 50, TierProgress(450))
	// Elite has no next tier and always reports complete.
	assert.Equal(t, 100, TierProgress(900))
	assert.Equal(t, 100, TierProgress(10000))
}

func TestPointsToNextTier(t *testing.T) {
	assert.Equal(t, 300, PointsToNextTier(0))
	assert.Equal(t, 1, PointsToNextTier(299))
	assert.Equal(t, 300, PointsToNextTier(300))
	assert.Equal(t, 1, PointsToNextTier(899))
	assert.Equal(t, 0, PointsToNextTier(900))
}

func TestNextTier(t *testing.T) {
	next, ok := NextTier(0)
	assert.True(t, ok)
	assert.Equal(t, "Participativo", next.Name)

	_, ok = NextTier(950)
	assert.False(t, ok)
}
