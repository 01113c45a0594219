package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Annotation is a box to draw on a frame along with its text label
type Annotation struct {
	// Box is the object bounding box in image pixels
	Box image.Rectangle
	// Label is the text placed above the box
	Label string
	// Color is used for the box outline and the label background
	Color color.RGBA
}

// boxLabel holds a precalculated label so all labels can be drawn after the
// boxes
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// Boxes renders the bounding box and label of each annotation onto img
func Boxes(img *gocv.Mat, anns []Annotation, font Font, lineThickness int) {

	boxLabels := make([]boxLabel, 0, len(anns))

	for _, ann := range anns {

		gocv.Rectangle(img, ann.Box, ann.Color, lineThickness)

		if ann.Label == "" {
			continue
		}

		boxLabels = append(boxLabels, labelFor(ann, font))
	}

	// labels are drawn last so a neighbouring box outline never crosses
	// the text
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// labelFor calculates the placement of an annotation's label according to
// the font alignment
func labelFor(ann Annotation, font Font) boxLabel {

	textSize := gocv.GetTextSize(ann.Label, font.Face, font.Scale, font.Thickness)

	var left int

	switch font.Alignment {
	case Center:
		left = (ann.Box.Min.X+ann.Box.Max.X)/2 - textSize.X/2

	case Right:
		left = ann.Box.Max.X - textSize.X - font.RightPad

	case Left:
		fallthrough
	default:
		left = ann.Box.Min.X + font.LeftPad
	}

	top := ann.Box.Min.Y

	return boxLabel{
		rect: image.Rect(left-font.LeftPad, top-textSize.Y-font.TopPad-font.BottomPad,
			left+textSize.X+font.RightPad, top),
		clr:     ann.Color,
		text:    ann.Label,
		textPos: image.Pt(left, top-font.BottomPad),
	}
}
