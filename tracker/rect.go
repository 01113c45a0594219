package tracker

import "math"

// Rect is an axis aligned bounding box stored as top left corner plus width
// and height
type Rect struct {
	X, Y, W, H float64
}

// RectFromTlbr creates a Rect from its top left and bottom right corners
func RectFromTlbr(x1, y1, x2, y2 float64) Rect {
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// RectFromXyah creates a Rect from centre x, centre y, aspect ratio and
// height, the measurement space of the Kalman filter
func RectFromXyah(xyah []float64) Rect {
	w := xyah[2] * xyah[3]
	return Rect{
		X: xyah[0] - w/2,
		Y: xyah[1] - xyah[3]/2,
		W: w,
		H: xyah[3],
	}
}

// Tlbr returns the top left and bottom right corners
func (r Rect) Tlbr() [4]float64 {
	return [4]float64{r.X, r.Y, r.X + r.W, r.Y + r.H}
}

// Xyah returns the rect as centre x, centre y, aspect ratio and height
func (r Rect) Xyah() []float64 {
	aspect := 0.0
	if r.H != 0 {
		aspect = r.W / r.H
	}
	return []float64{r.X + r.W/2, r.Y + r.H/2, aspect, r.H}
}

// IoU returns the Intersection over Union of two rects
func (r Rect) IoU(o Rect) float64 {

	iw := math.Min(r.X+r.W, o.X+o.W) - math.Max(r.X, o.X)
	if iw <= 0 {
		return 0
	}

	ih := math.Min(r.Y+r.H, o.Y+o.H) - math.Max(r.Y, o.Y)
	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := r.W*r.H + o.W*o.H - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}
