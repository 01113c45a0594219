package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func det(x1, y1, x2, y2, score float64, class int) Detection {
	return Detection{Rect: RectFromTlbr(x1, y1, x2, y2), Class: class, Score: score}
}

// idsByClass returns the track id of each track keyed by class
func idsByClass(tracks []*Track) map[int]int {
	out := make(map[int]int)
	for _, t := range tracks {
		out[t.Class()] = t.ID()
	}
	return out
}

func TestBYTETrackerKeepsIdentity(t *testing.T) {

	bt := NewBYTETracker(30, DefaultConfig())

	var first map[int]int

	// a car moving right and a person moving down, 3 pixels per frame
	for f := 0; f < 20; f++ {
		dx := float64(f * 3)

		tracks, err := bt.Update([]Detection{
			det(100+dx, 100, 200+dx, 160, 0.9, 2),
			det(400, 50+dx, 440, 150+dx, 0.8, 0),
		})
		require.NoError(t, err)
		require.Len(t, tracks, 2, "frame %d", f+1)

		ids := idsByClass(tracks)

		if first == nil {
			first = ids
			require.NotEqual(t, ids[0], ids[2])
			continue
		}

		require.Equal(t, first, ids, "frame %d", f+1)
	}

	// boxes follow the detections
	tracks, err := bt.Update([]Detection{
		det(160, 100, 260, 160, 0.9, 2),
		det(400, 110, 440, 210, 0.8, 0),
	})
	require.NoError(t, err)

	for _, tr := range tracks {
		if tr.Class() == 2 {
			require.InDelta(t, 160, tr.Rect().Tlbr()[0], 2)
		}
	}
}

func TestBYTETrackerNewObject(t *testing.T) {

	bt := NewBYTETracker(30, DefaultConfig())

	tracks, err := bt.Update([]Detection{det(10, 10, 60, 60, 0.9, 2)})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	firstID := tracks[0].ID()

	// a second object appears far away, it is not confirmed until seen in a
	// second frame
	tracks, err = bt.Update([]Detection{
		det(12, 10, 62, 60, 0.9, 2),
		det(300, 300, 360, 380, 0.9, 0),
	})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, firstID, tracks[0].ID())

	tracks, err = bt.Update([]Detection{
		det(14, 10, 64, 60, 0.9, 2),
		det(302, 300, 362, 380, 0.9, 0),
	})
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	ids := idsByClass(tracks)
	require.Equal(t, firstID, ids[2])
	require.NotEqual(t, firstID, ids[0])
	require.Greater(t, ids[0], firstID)
}

func TestBYTETrackerLowScoreSecondAssociation(t *testing.T) {

	bt := NewBYTETracker(30, DefaultConfig())

	for f := 0; f < 3; f++ {
		_, err := bt.Update([]Detection{det(100, 100, 200, 200, 0.9, 2)})
		require.NoError(t, err)
	}

	// the score drops below the high threshold but the track is kept by
	// the second association
	tracks, err := bt.Update([]Detection{det(101, 100, 201, 200, 0.15, 2)})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, 1, tracks[0].ID())
	require.InDelta(t, 0.15, tracks[0].Score(), 1e-9)

	// below the low threshold the detection is ignored entirely
	tracks, err = bt.Update([]Detection{det(102, 100, 202, 200, 0.05, 2)})
	require.NoError(t, err)
	require.Empty(t, tracks)
}

func TestBYTETrackerLostAndRecovered(t *testing.T) {

	bt := NewBYTETracker(30, DefaultConfig())

	for f := 0; f < 3; f++ {
		_, err := bt.Update([]Detection{det(100, 100, 200, 200, 0.9, 2)})
		require.NoError(t, err)
	}

	// occluded for a few frames
	for f := 0; f < 5; f++ {
		tracks, err := bt.Update(nil)
		require.NoError(t, err)
		require.Empty(t, tracks)
	}

	require.Len(t, bt.lost, 1)

	tracks, err := bt.Update([]Detection{det(100, 100, 200, 200, 0.9, 2)})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, 1, tracks[0].ID())
	require.Equal(t, Tracked, tracks[0].State())
	require.Empty(t, bt.lost)
}

func TestBYTETrackerRemovesStaleTracks(t *testing.T) {

	cfg := DefaultConfig()
	cfg.TrackBuffer = 3

	bt := NewBYTETracker(30, cfg)

	_, err := bt.Update([]Detection{det(100, 100, 200, 200, 0.9, 2)})
	require.NoError(t, err)

	for f := 0; f < 5; f++ {
		_, err := bt.Update(nil)
		require.NoError(t, err)
	}

	require.Empty(t, bt.lost)
	require.Len(t, bt.removed, 1)

	// a detection in the same place now starts a new identity
	tracks, err := bt.Update([]Detection{det(100, 100, 200, 200, 0.9, 2)})
	require.NoError(t, err)
	require.Empty(t, tracks)

	tracks, err = bt.Update([]Detection{det(100, 100, 200, 200, 0.9, 2)})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, 2, tracks[0].ID())
}

func TestBYTETrackerReset(t *testing.T) {

	bt := NewBYTETracker(25, DefaultConfig())

	_, err := bt.Update([]Detection{det(0, 0, 10, 10, 0.9, 0)})
	require.NoError(t, err)

	bt.Reset()

	tracks, err := bt.Update([]Detection{det(50, 50, 80, 80, 0.9, 0)})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, 1, tracks[0].ID())
}

func TestRectIoU(t *testing.T) {

	tests := []struct {
		a, b Rect
		iou  float64
	}{
		{RectFromTlbr(0, 0, 10, 10), RectFromTlbr(0, 0, 10, 10), 1},
		{RectFromTlbr(0, 0, 10, 10), RectFromTlbr(5, 0, 15, 10), 1.0 / 3},
		{RectFromTlbr(0, 0, 10, 10), RectFromTlbr(10, 10, 20, 20), 0},
		{Rect{}, Rect{}, 0},
	}

	for _, tc := range tests {
		require.InDelta(t, tc.iou, tc.a.IoU(tc.b), 1e-9)
	}

	r := RectFromTlbr(10, 20, 50, 100)
	require.InDeltaSlice(t, []float64{30, 60, 0.5, 80}, r.Xyah(), 1e-9)
	require.Equal(t, r, RectFromXyah(r.Xyah()))
}

func TestTrail(t *testing.T) {

	tr := NewTrail(3)

	for i := 0; i < 5; i++ {
		tr.Add(7, [4]int{i * 10, 0, i*10 + 10, 10})
	}

	pts := tr.Points(7)
	require.Len(t, pts, 3)
	require.Equal(t, 25, pts[0].X)
	require.Equal(t, 45, pts[2].X)
	require.Empty(t, tr.Points(8))

	tr.Reset()
	require.Empty(t, tr.Points(7))
}
