package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var blue = color.RGBA{R: 0, G: 0, B: 255, A: 255}

func TestBoxes(t *testing.T) {

	img := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer img.Close()

	Boxes(&img, []Annotation{
		{Box: image.Rect(20, 40, 60, 80), Label: "Vehicle-#1", Color: blue},
	}, DefaultFont(), 2)

	// Mats are BGR
	require.Equal(t, gocv.Vecb{255, 0, 0}, img.GetVecbAt(60, 20), "left edge")
	require.Equal(t, gocv.Vecb{255, 0, 0}, img.GetVecbAt(80, 40), "bottom edge")
	require.Equal(t, gocv.Vecb{0, 0, 0}, img.GetVecbAt(60, 40), "inside")
}

func TestLabelPlacement(t *testing.T) {

	font := DefaultFont()
	ann := Annotation{Box: image.Rect(20, 40, 60, 80), Label: "Pedestrian-#12", Color: blue}
	size := gocv.GetTextSize(ann.Label, font.Face, font.Scale, font.Thickness)

	tests := []struct {
		align Alignment
		left  int
	}{
		{Left, 20},
		{Center, 40 - size.X/2},
		{Right, 60 - size.X},
	}

	for _, tc := range tests {
		font.Alignment = tc.align
		lbl := labelFor(ann, font)

		require.Equal(t, tc.left, lbl.textPos.X, "alignment %d", tc.align)
		require.Equal(t, 40, lbl.rect.Max.Y)
		require.Equal(t, 40-size.Y-10, lbl.rect.Min.Y)
		require.Equal(t, 40-5, lbl.textPos.Y)
	}

	// left aligned labels start exactly on the box edge
	font.Alignment = Left
	lbl := labelFor(ann, font)
	require.Equal(t, image.Rect(20, 40-size.Y-10, 20+size.X, 40), lbl.rect)
	require.Equal(t, image.Pt(20, 35), lbl.textPos)
	require.Equal(t, gocv.Line8, font.LineType)
}

func TestTrailNeedsThreePoints(t *testing.T) {

	img := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC3)
	defer img.Close()

	Trail(&img, []image.Point{{10, 10}, {20, 20}}, blue, DefaultTrailStyle())

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	require.Equal(t, 0, gocv.CountNonZero(gray))

	Trail(&img, []image.Point{{10, 10}, {20, 20}, {30, 30}}, blue, DefaultTrailStyle())
	require.Equal(t, gocv.Vecb{255, 0, 0}, img.GetVecbAt(30, 30))
}
