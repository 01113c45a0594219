package vptrack

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestLabel(t *testing.T) {
	require.Equal(t, "Vehicle-#3", Label(DetectionRecord{ID: 3, Class: Vehicle}))
	require.Equal(t, "Pedestrian-#12", Label(DetectionRecord{ID: 12, Class: Pedestrian}))
}

func TestBoxRendererColors(t *testing.T) {

	img := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC3)
	defer img.Close()

	NewBoxRenderer().Render(&img, []DetectionRecord{
		{ID: 1, Class: Pedestrian, Confidence: 0.9, BBox: BBox{20, 60, 60, 120}},
		{ID: 2, Class: Vehicle, Confidence: 0.9, BBox: BBox{100, 60, 180, 140}},
	})

	// left edges, pixels are BGR
	require.Equal(t, gocv.Vecb{0, 255, 0}, img.GetVecbAt(90, 20))
	require.Equal(t, gocv.Vecb{255, 0, 0}, img.GetVecbAt(100, 100))
}

func TestBoxRendererTrails(t *testing.T) {

	img := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC3)
	defer img.Close()

	r := NewBoxRenderer().WithTrails(5)

	for i := 0; i < 4; i++ {
		r.Render(&img, []DetectionRecord{
			{ID: 1, Class: Vehicle, BBox: BBox{20 + i*10, 60, 60 + i*10, 100}},
		})
	}

	require.Len(t, r.trail.Points(1), 4)
	require.Equal(t, 70, r.trail.Points(1)[3].X)
}

func TestBoxRendererTrailLifetime(t *testing.T) {

	img := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC3)
	defer img.Close()

	r := NewBoxRenderer().WithTrails(5)

	r.Render(&img, []DetectionRecord{
		{ID: 1, Class: Vehicle, BBox: BBox{20, 60, 60, 100}},
		{ID: 2, Class: Pedestrian, BBox: BBox{120, 60, 140, 100}},
	})
	r.Render(&img, []DetectionRecord{
		{ID: 2, Class: Pedestrian, BBox: BBox{122, 60, 142, 100}},
	})

	// tracks that leave the frame lose their history
	require.Empty(t, r.trail.Points(1))
	require.Len(t, r.trail.Points(2), 2)

	r.Reset()
	require.Empty(t, r.trail.Points(2))

	// without trails Reset is a no-op
	NewBoxRenderer().Reset()
}
