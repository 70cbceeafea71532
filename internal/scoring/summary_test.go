package scoring

import (
	"testing"

	"github.com/shotmetrics/target-score/internal/detection"
)

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	if summary.Total != 0 || summary.ShotCount != 0 || summary.Average != 0 {
		t.Errorf("empty summary = %+v, want all zeros", summary)
	}
	if summary.Breakdown == nil || len(summary.Breakdown) != 0 {
		t.Errorf("breakdown = %#v, want empty non-nil slice", summary.Breakdown)
	}
}

func TestSummarize_Card(t *testing.T) {
	scored := []ScoredHole{
		{Score: 10, RingName: "10", DistanceFromCenterMm: 1.234},
		{Score: 9, RingName: "9", DistanceFromCenterMm: 12.5},
		{Score: 10, RingName: "10", DistanceFromCenterMm: 3.999},
	}

	summary := Summarize(scored)

	if summary.Total != 29 {
		t.Errorf("total = %g, want 29", summary.Total)
	}
	if summary.ShotCount != 3 {
		t.Errorf("shot count = %d, want 3", summary.ShotCount)
	}
	if summary.Average != 9.67 {
		t.Errorf("average = %g, want 9.67", summary.Average)
	}

	if len(summary.Breakdown) != 3 {
		t.Fatalf("breakdown has %d entries, want 3", len(summary.Breakdown))
	}
	for i, entry := range summary.Breakdown {
		if entry.Shot != i+1 {
			t.Errorf("entry %d shot number = %d, want %d", i, entry.Shot, i+1)
		}
		if entry.Score != scored[i].Score || entry.Ring != scored[i].RingName {
			t.Errorf("entry %d = %+v, does not match shot %+v", i, entry, scored[i])
		}
	}
	if summary.Breakdown[0].DistanceMm != 1.23 {
		t.Errorf("distance rounded to %g, want 1.23", summary.Breakdown[0].DistanceMm)
	}
	if summary.Breakdown[2].DistanceMm != 4.0 {
		t.Errorf("distance rounded to %g, want 4.0", summary.Breakdown[2].DistanceMm)
	}
}

func TestSession_DifferentialScoring(t *testing.T) {
	session := NewSession(testConfig())
	calib := testCalib()

	// First frame: one shot.
	fresh := session.Update([]detection.DetectedCircle{holeAt(100, 100)}, calib)
	if len(fresh) != 1 || fresh[0].Score != 10 {
		t.Fatalf("frame 1 fresh = %+v, want one 10", fresh)
	}

	// Second frame re-detects the first hole with jitter plus a new shot.
	fresh = session.Update([]detection.DetectedCircle{
		holeAt(101, 100), // same hole, 1px drift
		holeAt(116, 100), // new
	}, calib)
	if len(fresh) != 1 {
		t.Fatalf("frame 2 fresh = %+v, want exactly the new shot", fresh)
	}
	if fresh[0].Score != 9 {
		t.Errorf("new shot scored %g, want 9", fresh[0].Score)
	}

	// Third frame: nothing new.
	fresh = session.Update([]detection.DetectedCircle{holeAt(100, 100), holeAt(116, 100)}, calib)
	if len(fresh) != 0 {
		t.Errorf("frame 3 fresh = %+v, want none", fresh)
	}

	summary := session.Summary()
	if summary.ShotCount != 2 || summary.Total != 19 {
		t.Errorf("session summary = %+v, want 2 shots totalling 19", summary)
	}

	session.Reset()
	if got := session.Scored(); len(got) != 0 {
		t.Errorf("after reset, %d shots remain, want 0", len(got))
	}
}
