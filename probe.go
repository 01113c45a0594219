package vptrack

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// VideoInfo is the stream metadata of a video file
type VideoInfo struct {
	// FPS is the frame rate as reported by the container, it may be zero or
	// NaN for some sources so must be passed through SanitizeFPS before use
	FPS    float64
	Width  int
	Height int
	// FrameCount is the container's estimate of the number of frames and
	// may be zero if unknown
	FrameCount int
}

// ProbeFunc reads the metadata of a video file
type ProbeFunc func(file string) (VideoInfo, error)

// ProbeVideo opens the video file, reads its metadata and closes it again
func ProbeVideo(file string) (VideoInfo, error) {

	// check first, OpenCV gives no detail on why a file failed to open
	if _, err := os.Stat(file); err != nil {
		return VideoInfo{}, fmt.Errorf("%w: %s: %w", ErrOpenInput, file, err)
	}

	video, err := gocv.VideoCaptureFile(file)

	if err != nil {
		return VideoInfo{}, fmt.Errorf("%w: %s: %w", ErrOpenInput, file, err)
	}

	defer video.Close()

	if !video.IsOpened() {
		return VideoInfo{}, fmt.Errorf("%w: %s", ErrOpenInput, file)
	}

	return VideoInfo{
		FPS:        video.Get(gocv.VideoCaptureFPS),
		Width:      int(video.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(video.Get(gocv.VideoCaptureFrameHeight)),
		FrameCount: int(video.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}
