package scoring

import (
	"math"
	"sync"

	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/target"
)

// Session tracks a live string of shots across successive frames of the
// same target. Each Update receives the full set of holes detected in a
// frame; holes already seen in earlier frames are ignored and only newly
// appeared ones are scored and appended.
//
// A hole counts as already known when it lies within the hole finder's
// minimum separation (max(8, 1.5*bulletRadiusPx)) of a known hole, so frame
// jitter does not re-score the same shot.
//
// Session is safe for concurrent use, though a single camera loop is the
// expected caller.
type Session struct {
	mu     sync.Mutex
	cfg    *target.Config
	scored []ScoredHole
}

// NewSession starts an empty shot string for the given target type.
func NewSession(cfg *target.Config) *Session {
	return &Session{cfg: cfg}
}

// Update scores the holes that appeared since the previous frame and
// returns them (possibly empty, never nil counts: len 0 means no new shot).
func (s *Session) Update(holes []detection.DetectedCircle, calib detection.TargetCalibration) []ScoredHole {
	tolerance := math.Max(8, 1.5*calib.MmToPx(s.cfg.BulletDiameterMm/2))

	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []ScoredHole
	for _, hole := range holes {
		known := false
		for _, prev := range s.scored {
			if prev.Hole.DistanceTo(hole.CenterX, hole.CenterY) < tolerance {
				known = true
				break
			}
		}
		if known {
			continue
		}
		sh := Score(hole, calib, s.cfg)
		s.scored = append(s.scored, sh)
		fresh = append(fresh, sh)
	}
	return fresh
}

// Scored returns a copy of every shot scored so far, in arrival order.
func (s *Session) Scored() []ScoredHole {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScoredHole, len(s.scored))
	copy(out, s.scored)
	return out
}

// Summary aggregates the session's shots.
func (s *Session) Summary() Summary {
	return Summarize(s.Scored())
}

// Reset clears the string, e.g. when a fresh card goes up.
func (s *Session) Reset() {
	s.mu.Lock()
	s.scored = nil
	s.mu.Unlock()
}
