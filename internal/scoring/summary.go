package scoring

// BreakdownEntry is one shot's line in the summary, 1-indexed in the order
// the holes were scored.
type BreakdownEntry struct {
	Shot       int     `json:"shot"`
	Score      float64 `json:"score"`
	Ring       string  `json:"ring"`
	DistanceMm float64 `json:"distance_mm"`
}

// Summary aggregates a card's scored holes for presentation layers.
type Summary struct {
	Total     float64          `json:"total"`
	ShotCount int              `json:"shot_count"`
	Average   float64          `json:"average"`
	Breakdown []BreakdownEntry `json:"breakdown"`
}

// Summarize folds scored holes into totals, a 2-decimal average, and an
// ordered per-shot breakdown. An empty input yields the zero summary with
// an empty (non-nil) breakdown.
func Summarize(scored []ScoredHole) Summary {
	summary := Summary{Breakdown: make([]BreakdownEntry, 0, len(scored))}
	if len(scored) == 0 {
		return summary
	}

	summary.Total = TotalScore(scored)
	summary.ShotCount = len(scored)
	summary.Average = round2(summary.Total / float64(summary.ShotCount))

	for i, h := range scored {
		summary.Breakdown = append(summary.Breakdown, BreakdownEntry{
			Shot:       i + 1,
			Score:      h.Score,
			Ring:       h.RingName,
			DistanceMm: round2(h.DistanceFromCenterMm),
		})
	}
	return summary
}
