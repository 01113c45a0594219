package vptrack

import "gocv.io/x/gocv"

const (
	// ConfThreshold is the minimum detection confidence requested from the
	// detector
	ConfThreshold = float32(0.5)
	// IoUThreshold is the maximum overlap allowed between two detections of
	// the same class before the lower scoring one is suppressed
	IoUThreshold = float32(0.7)
)

// TrackedObject is a detection that has been associated with a track
type TrackedObject struct {
	// TrackID is the persistent identity assigned by the tracker
	TrackID int
	// Class is the detector class id, resolve it with a LabelTable
	Class int
	// Confidence is the detection score
	Confidence float32
	// Box is x1, y1, x2, y2 in source image pixels
	Box [4]float32
}

// TrackedFrame is the result of detection and tracking on a single frame
type TrackedFrame struct {
	// Image is the decoded source frame, the receiver must Close it
	Image gocv.Mat
	// Tracked is false when the frame carries no identity data, in which
	// case Objects is empty
	Tracked bool
	// Objects are the tracked objects in tracker output order
	Objects []TrackedObject
}

// FrameSeq is a lazy, finite and ordered sequence of tracked frames.  Next
// blocks until the next frame has been processed and returns io.EOF once
// the video is exhausted.
type FrameSeq interface {
	Next() (*TrackedFrame, error)
	Close() error
}

// TrackSource runs a detector with tracking enabled over a video
type TrackSource interface {
	// Track starts detection and tracking of the video at the given
	// confidence and NMS IoU thresholds
	Track(file string, conf, iou float32) (FrameSeq, error)
}
