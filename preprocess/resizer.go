package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// LetterBoxColor is the gray used by YOLO models for letterbox padding
var LetterBoxColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// Resizer scales video frames into a model's square input whilst keeping
// their aspect, and maps boxes detected in the model input back to frame
// coordinates
type Resizer struct {
	srcWidth   int
	srcHeight  int
	destWidth  int
	destHeight int
	// tempMat holds the scaled frame before padding
	tempMat gocv.Mat
	xPad    int
	yPad    int
	scale   float32
	resizeW int
	resizeH int
}

// NewResizer returns a resizer for frames of srcWidth x srcHeight going into
// a model input of destWidth x destHeight
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		tempMat:    gocv.NewMat(),
	}

	r.preCalc()

	return r
}

// Close frees the intermediate Mat
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc works out the scale and padding, the smaller of the two axis
// scales is used so the whole frame fits
func (r *Resizer) preCalc() {

	r.resizeW = r.destWidth
	r.resizeH = r.destHeight

	scaleW := float32(r.destWidth) / float32(r.srcWidth)
	scaleH := float32(r.destHeight) / float32(r.srcHeight)
	r.scale = scaleH

	if scaleW < scaleH {
		r.scale = scaleW
		r.resizeH = int(float32(r.srcHeight) * r.scale)
	} else {
		r.resizeW = int(float32(r.srcWidth) * r.scale)
	}

	r.yPad = (r.destHeight - r.resizeH) / 2
	r.xPad = (r.destWidth - r.resizeW) / 2
}

// LetterBoxResize scales src into dest, padding the borders with color
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationLinear)

	gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
		r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, color)
}

// ToSource maps a box x1, y1, x2, y2 in model input coordinates back to the
// source frame, clamping it to the frame bounds
func (r *Resizer) ToSource(box [4]float32) [4]float32 {

	x1 := (box[0] - float32(r.xPad)) / r.scale
	y1 := (box[1] - float32(r.yPad)) / r.scale
	x2 := (box[2] - float32(r.xPad)) / r.scale
	y2 := (box[3] - float32(r.yPad)) / r.scale

	w := float32(r.srcWidth)
	h := float32(r.srcHeight)

	return [4]float32{
		clamp(x1, 0, w), clamp(y1, 0, h),
		clamp(x2, 0, w), clamp(y2, 0, h),
	}
}

// ScaleFactor returns the scale applied to the source frame
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// XPad returns the left padding
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the top padding
func (r *Resizer) YPad() int {
	return r.yPad
}

// Matches reports whether the resizer was set up for frames of the given
// dimensions
func (r *Resizer) Matches(width, height int) bool {
	return r.srcWidth == width && r.srcHeight == height
}

func clamp(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
