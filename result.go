package vptrack

import (
	"encoding/json"
	"fmt"
	"os"
)

// BBox is a bounding box in integer pixel coordinates ordered as
// x1, y1, x2, y2
type BBox [4]int

// DetectionRecord is a single tracked object within a frame
type DetectionRecord struct {
	// ID is the track identity assigned by the tracker, it is stable for the
	// same object across frames
	ID int `json:"id"`
	// Class is the canonical category of the object
	Class Category `json:"class"`
	// Confidence is the detection score in the range [0,1]
	Confidence float32 `json:"confidence"`
	// BBox is the object location
	BBox BBox `json:"bbox"`
}

// FrameResult holds the tracked objects of one decoded frame
type FrameResult struct {
	// FrameID is the 1 based position of the frame in the video
	FrameID int `json:"frame_id"`
	// Objects are in the order the tracker produced them
	Objects []DetectionRecord `json:"objects"`
}

// MarshalJSON ensures a frame with no detections is written with an empty
// objects array rather than null
func (f FrameResult) MarshalJSON() ([]byte, error) {

	type frameJSON FrameResult

	out := frameJSON(f)

	if out.Objects == nil {
		out.Objects = []DetectionRecord{}
	}

	return json.Marshal(out)
}

// TrackingRun is the ordered list of frame results for one video
type TrackingRun struct {
	frames []FrameResult
}

// NewTrackingRun returns an empty run
func NewTrackingRun() *TrackingRun {
	return &TrackingRun{
		frames: make([]FrameResult, 0),
	}
}

// Append adds the objects of the next frame to the run and returns the
// FrameResult created.  Frame IDs are assigned contiguously from 1.
func (r *TrackingRun) Append(objects []DetectionRecord) FrameResult {

	if objects == nil {
		objects = []DetectionRecord{}
	}

	fr := FrameResult{
		FrameID: len(r.frames) + 1,
		Objects: objects,
	}

	r.frames = append(r.frames, fr)
	return fr
}

// Len returns the number of frames in the run
func (r *TrackingRun) Len() int {
	return len(r.frames)
}

// Frames returns a copy of the frame results
func (r *TrackingRun) Frames() []FrameResult {
	out := make([]FrameResult, len(r.frames))
	copy(out, r.frames)
	return out
}

// MarshalJSON writes the run as a JSON array of frames
func (r *TrackingRun) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.frames)
}

// UnmarshalJSON reads a JSON array of frames and checks the frame IDs are
// contiguous from 1
func (r *TrackingRun) UnmarshalJSON(b []byte) error {

	var frames []FrameResult

	if err := json.Unmarshal(b, &frames); err != nil {
		return err
	}

	for i := range frames {
		if frames[i].FrameID != i+1 {
			return fmt.Errorf("frame %d has frame_id %d, expected %d",
				i, frames[i].FrameID, i+1)
		}
		if frames[i].Objects == nil {
			frames[i].Objects = []DetectionRecord{}
		}
	}

	if frames == nil {
		frames = make([]FrameResult, 0)
	}

	r.frames = frames
	return nil
}

// WriteJSON serializes the run to the given file with two space indenting
func (r *TrackingRun) WriteJSON(file string) error {

	data, err := json.MarshalIndent(r, "", "  ")

	if err != nil {
		return fmt.Errorf("error encoding results: %w", err)
	}

	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("error writing results file: %w", err)
	}

	return nil
}

// ReadRun loads a results file previously written by WriteJSON
func ReadRun(file string) (*TrackingRun, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening results file: %w", err)
	}

	run := NewTrackingRun()

	if err := json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("error parsing results file %s: %w", file, err)
	}

	return run, nil
}
