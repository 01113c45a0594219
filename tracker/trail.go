package tracker

import (
	"image"
)

// Trail keeps the recent centre points of each track, used for drawing the
// path an object has moved along
type Trail struct {
	// size is the maximum number of most recent points to keep per track
	size    int
	history map[int][]image.Point
}

// NewTrail returns a new trail history.  Size is the maximum length of the
// trail kept for each track.
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int][]image.Point),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.history = make(map[int][]image.Point)
}

// Add records the centre of a track's box, given as x1, y1, x2, y2
func (t *Trail) Add(id int, box [4]int) {

	pt := image.Pt((box[0]+box[2])/2, (box[1]+box[3])/2)
	points := append(t.history[id], pt)

	// drop the oldest point when history is exceeded
	if len(points) > t.size {
		points = points[len(points)-t.size:]
	}

	t.history[id] = points
}

// Prune drops the history of every track not listed in active
func (t *Trail) Prune(active []int) {

	keep := make(map[int]bool, len(active))

	for _, id := range active {
		keep[id] = true
	}

	for id := range t.history {
		if !keep[id] {
			delete(t.history, id)
		}
	}
}

// Points returns the point history of a track, oldest first
func (t *Trail) Points(id int) []image.Point {
	return t.history[id]
}
