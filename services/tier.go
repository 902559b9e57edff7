package services

// Tier is a named discount bracket. Tier membership is a pure function of the
// current month's points: it is recomputed whenever points change and
// re-derived on read, never trusted from storage.
type Tier struct {
	Name      string
	MinPoints int
	MaxPoints int // -1 for the open-ended top tier
	Discount  int
	BadgeSlug string // awarded when a month finalizes at this tier; empty for none
}

// tierTable is closed, non-overlapping, and ascending by MinPoints.
var tierTable = []Tier{
	{Name: "Sem Desconto", MinPoints: 0, MaxPoints: 299, Discount: 0},
	{Name: "Participativo", MinPoints: 300, MaxPoints: 599, Discount: 10, BadgeSlug: "participativo"},
	{Name: "Premium", MinPoints: 600, MaxPoints: 899, Discount: 25, BadgeSlug: "premium"},
	{Name: "Elite", MinPoints: 900, MaxPoints: -1, Discount: 50, BadgeSlug: "elite"},
}

// TierFor classifies a point total.
func TierFor(points int) Tier {
	if points < 0 {
		points = 0
	}
	for _, t := range tierTable {
		if t.MaxPoints < 0 || points <= t.MaxPoints {
			return t
		}
	}
	return tierTable[len(tierTable)-1]
}

// NextTier returns the tier above the current one, or false at the top.
func NextTier(points int) (Tier, bool) {
	cur := TierFor(points)
	for i, t := range tierTable {
		if t.Name == cur.Name && i+1 < len(tierTable) {
			return tierTable[i+1], true
		}
	}
	return Tier{}, false
}

// TierProgress reports progress through the current tier as a percentage
// clamped to [0, 100]. The top tier always reports 100.
func TierProgress(points int) int {
	t := TierFor(points)
	if t.MaxPoints < 0 {
		return 100
	}
	span := t.MaxPoints - t.MinPoints + 1
	pct := (points - t.MinPoints) * 100 / span
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// PointsToNextTier reports how many points are missing for promotion; zero at
// the top tier.
func PointsToNextTier(points int) int {
	next, ok := NextTier(points)
	if !ok {
		return 0
	}
	missing := next.MinPoints - points
	if missing < 0 {
		return 0
	}
	return missing
}
