package tracker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TrackState is the lifecycle state of a Track
type TrackState int

const (
	// New is a track created from a detection but not yet activated
	New TrackState = iota
	// Tracked is a track matched in the most recent frame
	Tracked
	// Lost is a track that went unmatched and may still be recovered
	Lost
	// Removed is a track that has been discarded
	Removed
)

// Detection is an object detection given to the tracker
type Detection struct {
	// Rect is the bounding box of the object
	Rect Rect
	// Class is the detector class id
	Class int
	// Score is the detection confidence
	Score float64
}

// Track is a single tracked object
type Track struct {
	kf         *KalmanFilter
	mean       *mat.VecDense
	cov        *mat.SymDense
	rect       Rect
	state      TrackState
	activated  bool
	score      float64
	class      int
	id         int
	frameID    int
	startFrame int
	tracklet   int
}

// newTrack creates an unactivated track from a detection
func newTrack(kf *KalmanFilter, det Detection) *Track {
	return &Track{
		kf:    kf,
		rect:  det.Rect,
		state: New,
		score: det.Score,
		class: det.Class,
	}
}

// ID returns the track identity, unique within a tracker
func (t *Track) ID() int {
	return t.id
}

// Rect returns the current estimated bounding box
func (t *Track) Rect() Rect {
	return t.rect
}

// Score returns the score of the detection last associated with the track
func (t *Track) Score() float64 {
	return t.score
}

// Class returns the class of the detection last associated with the track
func (t *Track) Class() int {
	return t.class
}

// State returns the lifecycle state
func (t *Track) State() TrackState {
	return t.state
}

// IsActivated reports whether the track has been confirmed
func (t *Track) IsActivated() bool {
	return t.activated
}

// FrameID returns the frame the track was last updated on
func (t *Track) FrameID() int {
	return t.frameID
}

// activate starts a new tracklet with the given id.  Tracks started on the
// first frame are confirmed immediately, any later ones need a second
// matching detection.
func (t *Track) activate(frameID, id int) {

	t.mean, t.cov = t.kf.Initiate(t.rect.Xyah())
	t.syncRect()

	t.id = id
	t.state = Tracked
	t.activated = frameID == 1
	t.frameID = frameID
	t.startFrame = frameID
	t.tracklet = 0
}

// predict advances the Kalman state by one frame
func (t *Track) predict() {

	if t.mean == nil {
		return
	}

	// height velocity is frozen once the object is no longer seen
	if t.state != Tracked {
		t.mean.SetVec(7, 0)
	}

	t.mean, t.cov = t.kf.Predict(t.mean, t.cov)
	t.syncRect()
}

// update corrects the track with a newly matched detection
func (t *Track) update(det *Track, frameID int) error {

	mean, cov, err := t.kf.Update(t.mean, t.cov, det.rect.Xyah())

	if err != nil {
		return fmt.Errorf("error updating track %d: %w", t.id, err)
	}

	t.mean, t.cov = mean, cov
	t.syncRect()

	t.state = Tracked
	t.activated = true
	t.score = det.score
	t.class = det.class
	t.frameID = frameID
	t.tracklet++

	return nil
}

// reactivate recovers a lost track with a matched detection
func (t *Track) reactivate(det *Track, frameID int) error {

	if err := t.update(det, frameID); err != nil {
		return err
	}

	t.tracklet = 0
	return nil
}

func (t *Track) markLost() {
	t.state = Lost
}

func (t *Track) markRemoved() {
	t.state = Removed
}

// syncRect sets the bounding box from the Kalman mean
func (t *Track) syncRect() {
	t.rect = RectFromXyah([]float64{
		t.mean.AtVec(0), t.mean.AtVec(1), t.mean.AtVec(2), t.mean.AtVec(3),
	})
}
