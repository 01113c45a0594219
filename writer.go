package vptrack

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gocv.io/x/gocv"
)

// DefaultFPS is substituted for any frame rate that is not a positive
// finite number
const DefaultFPS = 25.0

// Codec pairs a FourCC video codec with the file extension of the container
// it is written into
type Codec struct {
	FourCC string
	Ext    string
}

// DefaultCodecs is the order in which codecs are tried when opening the
// output video
var DefaultCodecs = []Codec{
	{FourCC: "mp4v", Ext: ".mp4"},
	{FourCC: "XVID", Ext: ".avi"},
	{FourCC: "avc1", Ext: ".mp4"},
}

// FrameSink receives encoded video frames
type FrameSink interface {
	Write(img gocv.Mat) error
	Close() error
}

// EncoderFunc opens a video encoder writing to file with the given codec.
// It returns an error if the encoder could not be opened.
type EncoderFunc func(file, fourcc string, fps float64, width, height int) (FrameSink, error)

// SanitizeFPS returns fps if it is a positive finite number, otherwise
// DefaultFPS
func SanitizeFPS(fps float64) float64 {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return DefaultFPS
	}
	return fps
}

// ParseFPS converts a frame rate given as text, returning DefaultFPS if it
// is not numeric or not valid
func ParseFPS(s string) float64 {

	fps, err := strconv.ParseFloat(strings.TrimSpace(s), 64)

	if err != nil {
		return DefaultFPS
	}

	return SanitizeFPS(fps)
}

// Writer is the output video writer
type Writer struct {
	sink   FrameSink
	path   string
	codec  Codec
	frames int
	closed bool
}

// OpenWriter opens the output video by trying each codec in order until
// an encoder opens.  Any extension on base is discarded, the file written
// to takes the extension of the codec actually used, see Path().
func OpenWriter(base string, fps float64, width, height int,
	codecs []Codec, open EncoderFunc) (*Writer, error) {

	if len(codecs) == 0 {
		codecs = DefaultCodecs
	}

	if open == nil {
		open = GocvEncoder
	}

	stem := stripExt(base)
	fps = SanitizeFPS(fps)

	var errs []error

	for _, codec := range codecs {

		file := stem + codec.Ext
		sink, err := open(file, codec.FourCC, fps, width, height)

		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", codec.FourCC, err))
			continue
		}

		return &Writer{
			sink:  sink,
			path:  file,
			codec: codec,
		}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoCodec, errors.Join(errs...))
}

// stripExt removes the extension from the file name of path.  A name that
// only has a leading dot, such as ".tracked", has no extension.
func stripExt(path string) string {

	ext := filepath.Ext(path)

	if ext == filepath.Base(path) {
		return path
	}

	return strings.TrimSuffix(path, ext)
}

// Path returns the file the video is being written to
func (w *Writer) Path() string {
	return w.path
}

// Codec returns the codec the encoder was opened with
func (w *Writer) Codec() Codec {
	return w.codec
}

// Frames returns the number of frames written
func (w *Writer) Frames() int {
	return w.frames
}

// Write encodes the next frame
func (w *Writer) Write(img gocv.Mat) error {

	if w.closed {
		return errors.New("write to closed video writer")
	}

	if err := w.sink.Write(img); err != nil {
		return fmt.Errorf("error writing frame %d: %w", w.frames+1, err)
	}

	w.frames++
	return nil
}

// Close finalizes the video file.  It is safe to call more than once, only
// the first call releases the encoder.
func (w *Writer) Close() error {

	if w.closed {
		return nil
	}

	w.closed = true
	return w.sink.Close()
}

// gocvSink is a FrameSink backed by an OpenCV VideoWriter
type gocvSink struct {
	vw *gocv.VideoWriter
}

func (s *gocvSink) Write(img gocv.Mat) error {
	return s.vw.Write(img)
}

func (s *gocvSink) Close() error {
	return s.vw.Close()
}

// GocvEncoder is the EncoderFunc used by default, it opens an OpenCV
// VideoWriter
func GocvEncoder(file, fourcc string, fps float64, width, height int) (FrameSink, error) {

	// OpenCV rejects rates below 1
	vw, err := gocv.VideoWriterFile(file, fourcc, math.Max(fps, 1.0), width, height, true)

	if err != nil {
		return nil, err
	}

	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("encoder %s did not open %s", fourcc, file)
	}

	return &gocvSink{vw: vw}, nil
}
