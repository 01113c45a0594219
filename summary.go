package vptrack

import (
	"gonum.org/v1/gonum/stat"
)

// Summary holds the analytics of a completed tracking run
type Summary struct {
	// Frames is the number of frames processed
	Frames int
	// UniqueObjects is the number of distinct track IDs seen
	UniqueObjects int
	// Detections is the total number of object records over all frames
	Detections int
	// Objects is the number of distinct track IDs per category
	Objects map[Category]int
	// MeanConfidence is the average confidence over all detections
	MeanConfidence float64
}

// Summarize calculates the analytics for a tracking run
func Summarize(run *TrackingRun) Summary {

	s := Summary{
		Frames:  run.Len(),
		Objects: map[Category]int{Vehicle: 0, Pedestrian: 0},
	}

	seen := make(map[int]bool)
	seenCat := make(map[Category]map[int]bool)
	var confs []float64

	for _, frame := range run.frames {
		for _, obj := range frame.Objects {
			s.Detections++
			confs = append(confs, float64(obj.Confidence))

			seen[obj.ID] = true

			if seenCat[obj.Class] == nil {
				seenCat[obj.Class] = make(map[int]bool)
			}
			seenCat[obj.Class][obj.ID] = true
		}
	}

	s.UniqueObjects = len(seen)

	for cat, ids := range seenCat {
		s.Objects[cat] = len(ids)
	}

	if len(confs) > 0 {
		s.MeanConfidence = stat.Mean(confs, nil)
	}

	return s
}
