package vptrack

import (
	"fmt"
	"image"

	"github.com/swdee/go-vptrack/render"
	"github.com/swdee/go-vptrack/tracker"
	"gocv.io/x/gocv"
)

// FrameRenderer draws the detection records of a frame onto its image
type FrameRenderer interface {
	Render(img *gocv.Mat, recs []DetectionRecord)
}

// ResettableRenderer is a FrameRenderer holding state between frames.
// Reset is called before the first frame of every video.
type ResettableRenderer interface {
	FrameRenderer
	Reset()
}

// BoxRenderer draws a colored box per record with a "<Category>-#<id>"
// label, and optionally the movement trail of each track
type BoxRenderer struct {
	Font          render.Font
	LineThickness int
	// trail is nil when trails are disabled
	trail      *tracker.Trail
	trailStyle render.TrailStyle
}

// NewBoxRenderer returns the default renderer
func NewBoxRenderer() *BoxRenderer {
	return &BoxRenderer{
		Font:          render.DefaultFont(),
		LineThickness: 2,
	}
}

// WithTrails enables drawing the last size centre points of each track
func (b *BoxRenderer) WithTrails(size int) *BoxRenderer {
	b.trail = tracker.NewTrail(size)
	b.trailStyle = render.DefaultTrailStyle()
	return b
}

// Reset clears the trail history, track ids are only unique within a
// single video
func (b *BoxRenderer) Reset() {
	if b.trail != nil {
		b.trail.Reset()
	}
}

// Label returns the text drawn above a record's box
func Label(rec DetectionRecord) string {
	return fmt.Sprintf("%s-#%d", rec.Class.Title(), rec.ID)
}

// Render implements FrameRenderer
func (b *BoxRenderer) Render(img *gocv.Mat, recs []DetectionRecord) {

	anns := make([]render.Annotation, 0, len(recs))
	ids := make([]int, 0, len(recs))

	for _, rec := range recs {
		anns = append(anns, render.Annotation{
			Box:   image.Rect(rec.BBox[0], rec.BBox[1], rec.BBox[2], rec.BBox[3]),
			Label: Label(rec),
			Color: rec.Class.Color(),
		})

		ids = append(ids, rec.ID)

		if b.trail != nil {
			b.trail.Add(rec.ID, rec.BBox)
			render.Trail(img, b.trail.Points(rec.ID), rec.Class.Color(), b.trailStyle)
		}
	}

	if b.trail != nil {
		b.trail.Prune(ids)
	}

	render.Boxes(img, anns, b.Font, b.LineThickness)
}
