package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Alignment positions a label horizontally against its box
type Alignment int

const (
	Left Alignment = iota + 1
	Center
	Right
)

var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
)

// Font holds the Hershey text settings used for box labels
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// LeftPad, RightPad, TopPad and BottomPad grow the filled label
	// background beyond the measured text size
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	Alignment Alignment
}

// DefaultFont returns the label font, white Hershey Simplex at 0.6 scale
// sitting on a background 10 pixels taller than the text
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.6,
		Color:     White,
		Thickness: 2,
		LineType:  gocv.Line8,
		LeftPad:   0,
		RightPad:  0,
		TopPad:    5,
		BottomPad: 5,
		Alignment: Left,
	}
}
