package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	CircleRadius  int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleRadius:  3,
	}
}

// Trail draws the movement history of a single track as a poly line ending
// in a filled circle at the current position.  Nothing is drawn until
// there are at least three points.
func Trail(img *gocv.Mat, points []image.Point, objClr color.RGBA,
	style TrailStyle) {

	if len(points) <= 2 {
		return
	}

	lineClr := objClr

	if !style.LineSame {
		lineClr = style.LineColor
	}

	for i := 1; i < len(points); i++ {
		gocv.Line(img, points[i-1], points[i], lineClr, style.LineThickness)
	}

	gocv.Circle(img, points[len(points)-1], style.CircleRadius, objClr, -1)
}
