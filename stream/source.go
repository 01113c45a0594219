package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/cyclopcam/logs"
	"github.com/swdee/go-vptrack"
	"github.com/swdee/go-vptrack/postprocess"
	"github.com/swdee/go-vptrack/tracker"
	"gocv.io/x/gocv"
)

// Source decodes a video, runs the detector on every frame and associates
// the detections across frames with ByteTrack
type Source struct {
	detector Detector
	cfg      tracker.Config
	log      logs.Log
}

// NewSource returns a tracking source.  The detector is not owned by the
// source and must be closed by the caller.
func NewSource(log logs.Log, detector Detector, cfg tracker.Config) *Source {
	return &Source{
		detector: detector,
		cfg:      cfg,
		log:      log,
	}
}

// Track implements vptrack.TrackSource
func (s *Source) Track(file string, conf, iou float32) (vptrack.FrameSeq, error) {

	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", vptrack.ErrOpenInput, file, err)
	}

	video, err := gocv.VideoCaptureFile(file)

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", vptrack.ErrOpenInput, file, err)
	}

	fps := vptrack.SanitizeFPS(video.Get(gocv.VideoCaptureFPS))

	if s.log != nil {
		s.log.Debugf("Tracking %s at %.2f FPS, buffer %d frames", file, fps, s.cfg.TrackBuffer)
	}

	return &frameSeq{
		video:    video,
		detector: s.detector,
		tracker:  tracker.NewBYTETracker(fps, s.cfg),
		conf:     conf,
		iou:      iou,
		log:      s.log,
	}, nil
}

// frameSeq pulls one frame at a time from the video capture
type frameSeq struct {
	video    *gocv.VideoCapture
	detector Detector
	tracker  *tracker.BYTETracker
	conf     float32
	iou      float32
	log      logs.Log
	frames   int
	closed   bool
}

// Next implements vptrack.FrameSeq
func (f *frameSeq) Next() (*vptrack.TrackedFrame, error) {

	if f.closed {
		return nil, io.EOF
	}

	img := gocv.NewMat()

	if ok := f.video.Read(&img); !ok || img.Empty() {
		img.Close()
		return nil, io.EOF
	}

	f.frames++

	dets, err := f.detector.Detect(img, f.conf, f.iou)

	if err != nil {
		img.Close()
		return nil, fmt.Errorf("error detecting objects: %w", err)
	}

	tracks, err := f.tracker.Update(toDetections(dets))

	if err != nil {
		img.Close()
		return nil, fmt.Errorf("error updating tracker: %w", err)
	}

	if f.log != nil {
		f.log.Debugf("Frame %d: %d detections, %d tracks", f.frames, len(dets), len(tracks))
	}

	return &vptrack.TrackedFrame{
		Image:   img,
		Tracked: len(tracks) > 0,
		Objects: toObjects(tracks),
	}, nil
}

// Close implements vptrack.FrameSeq
func (f *frameSeq) Close() error {

	if f.closed {
		return nil
	}

	f.closed = true
	return f.video.Close()
}

// toDetections converts detector output into tracker input
func toDetections(dets []postprocess.DetectResult) []tracker.Detection {

	out := make([]tracker.Detection, 0, len(dets))

	for _, d := range dets {
		out = append(out, tracker.Detection{
			Rect: tracker.RectFromTlbr(float64(d.Box[0]), float64(d.Box[1]),
				float64(d.Box[2]), float64(d.Box[3])),
			Class: d.Class,
			Score: float64(d.Probability),
		})
	}

	return out
}

// toObjects converts the active tracks of a frame into tracked objects
func toObjects(tracks []*tracker.Track) []vptrack.TrackedObject {

	out := make([]vptrack.TrackedObject, 0, len(tracks))

	for _, t := range tracks {
		tlbr := t.Rect().Tlbr()

		out = append(out, vptrack.TrackedObject{
			TrackID:    t.ID(),
			Class:      t.Class(),
			Confidence: float32(t.Score()),
			Box: [4]float32{
				float32(tlbr[0]), float32(tlbr[1]),
				float32(tlbr[2]), float32(tlbr[3]),
			},
		})
	}

	return out
}
