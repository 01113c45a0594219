package tracker

import (
	"fmt"
)

// maxRemoved caps the history of removed tracks kept for de-duplication
const maxRemoved = 1000

// BYTETracker associates detections across frames using the ByteTrack
// algorithm.  Every detection box takes part in association, high scoring
// ones first and low scoring ones against the remaining tracks second.
//
// A BYTETracker keeps state across calls to Update so a new instance is
// needed for each video.
type BYTETracker struct {
	cfg         Config
	kf          *KalmanFilter
	maxTimeLost int
	frameID     int
	nextID      int
	tracked     []*Track
	lost        []*Track
	removed     []*Track
}

// NewBYTETracker returns a tracker for a video at the given frame rate
func NewBYTETracker(frameRate float64, cfg Config) *BYTETracker {

	bt := &BYTETracker{
		cfg:         cfg,
		kf:          NewKalmanFilter(1.0/20, 1.0/160),
		maxTimeLost: int(frameRate / 30.0 * float64(cfg.TrackBuffer)),
	}

	bt.Reset()
	return bt
}

// Reset clears all tracks and restarts ID assignment
func (bt *BYTETracker) Reset() {
	bt.frameID = 0
	bt.nextID = 0
	bt.tracked = make([]*Track, 0)
	bt.lost = make([]*Track, 0)
	bt.removed = make([]*Track, 0)
}

// Update associates the detections of the next frame with existing tracks
// and returns the activated tracks in the current frame
func (bt *BYTETracker) Update(dets []Detection) ([]*Track, error) {

	bt.frameID++

	var activated, refound, lost, removed []*Track

	// split detections by score
	var high, low []*Track

	for _, det := range dets {
		switch {
		case det.Score >= bt.cfg.HighThresh:
			high = append(high, newTrack(bt.kf, det))
		case det.Score > bt.cfg.LowThresh:
			low = append(low, newTrack(bt.kf, det))
		}
	}

	var unconfirmed, confirmed []*Track

	for _, t := range bt.tracked {
		if t.IsActivated() {
			confirmed = append(confirmed, t)
		} else {
			unconfirmed = append(unconfirmed, t)
		}
	}

	// first association, high score detections against confirmed and lost
	pool := joinTracks(confirmed, bt.lost)

	for _, t := range pool {
		t.predict()
	}

	matches, uTrack, uDet, err := linearAssignment(bt.distance(pool, high),
		len(pool), len(high), bt.cfg.MatchThresh)

	if err != nil {
		return nil, fmt.Errorf("first association: %w", err)
	}

	for _, m := range matches {
		t, det := pool[m[0]], high[m[1]]

		if t.State() == Tracked {
			if err := t.update(det, bt.frameID); err != nil {
				return nil, err
			}
			activated = append(activated, t)
		} else {
			if err := t.reactivate(det, bt.frameID); err != nil {
				return nil, err
			}
			refound = append(refound, t)
		}
	}

	// second association, low score detections against remaining tracks
	var remain []*Track

	for _, i := range uTrack {
		if pool[i].State() == Tracked {
			remain = append(remain, pool[i])
		}
	}

	matches, uRemain, _, err := linearAssignment(iouDistance(remain, low),
		len(remain), len(low), 0.5)

	if err != nil {
		return nil, fmt.Errorf("second association: %w", err)
	}

	for _, m := range matches {
		t, det := remain[m[0]], low[m[1]]

		if t.State() == Tracked {
			if err := t.update(det, bt.frameID); err != nil {
				return nil, err
			}
			activated = append(activated, t)
		} else {
			if err := t.reactivate(det, bt.frameID); err != nil {
				return nil, err
			}
			refound = append(refound, t)
		}
	}

	for _, i := range uRemain {
		if t := remain[i]; t.State() != Lost {
			t.markLost()
			lost = append(lost, t)
		}
	}

	// unconfirmed tracks only get one chance at a second detection
	var left []*Track

	for _, i := range uDet {
		left = append(left, high[i])
	}

	matches, uUnconfirmed, uDet, err := linearAssignment(bt.distance(unconfirmed, left),
		len(unconfirmed), len(left), 0.7)

	if err != nil {
		return nil, fmt.Errorf("unconfirmed association: %w", err)
	}

	for _, m := range matches {
		if err := unconfirmed[m[0]].update(left[m[1]], bt.frameID); err != nil {
			return nil, err
		}
		activated = append(activated, unconfirmed[m[0]])
	}

	for _, i := range uUnconfirmed {
		unconfirmed[i].markRemoved()
		removed = append(removed, unconfirmed[i])
	}

	// start new tracks
	for _, i := range uDet {
		t := left[i]

		if t.Score() < bt.cfg.NewTrackThresh {
			continue
		}

		bt.nextID++
		t.activate(bt.frameID, bt.nextID)
		activated = append(activated, t)
	}

	for _, t := range bt.lost {
		if bt.frameID-t.FrameID() > bt.maxTimeLost {
			t.markRemoved()
			removed = append(removed, t)
		}
	}

	// merge state
	var stillTracked []*Track

	for _, t := range bt.tracked {
		if t.State() == Tracked {
			stillTracked = append(stillTracked, t)
		}
	}

	bt.tracked = joinTracks(joinTracks(stillTracked, activated), refound)
	bt.lost = subTracks(bt.lost, bt.tracked)
	bt.lost = append(bt.lost, lost...)
	bt.lost = subTracks(bt.lost, bt.removed)
	bt.lost = subTracks(bt.lost, removed)
	bt.tracked, bt.lost = removeDuplicates(bt.tracked, bt.lost)

	bt.removed = append(bt.removed, removed...)

	if len(bt.removed) > maxRemoved {
		bt.removed = bt.removed[len(bt.removed)-maxRemoved:]
	}

	out := make([]*Track, 0, len(bt.tracked))

	for _, t := range bt.tracked {
		if t.IsActivated() {
			out = append(out, t)
		}
	}

	return out, nil
}

// distance is the cost used for the first and unconfirmed associations,
// IoU distance optionally fused with the detection score
func (bt *BYTETracker) distance(tracks, dets []*Track) [][]float64 {

	cost := iouDistance(tracks, dets)

	if bt.cfg.FuseScore {
		fuseScore(cost, dets)
	}

	return cost
}
