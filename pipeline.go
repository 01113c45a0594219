package vptrack

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cyclopcam/logs"
)

// ProgressFunc is called once per processed frame with the frame ID
type ProgressFunc func(frameID int)

// Pipeline runs detection and tracking over a video, rendering an annotated
// output video and collecting the per frame results
type Pipeline struct {
	// Source produces the tracked frames
	Source TrackSource
	// Labels resolves detector class ids to names
	Labels *LabelTable
	// Codecs are tried in order when opening the output, DefaultCodecs
	// if empty
	Codecs []Codec
	// Encoder opens the output encoder, GocvEncoder if nil
	Encoder EncoderFunc
	// Probe reads the input video metadata, ProbeVideo if nil
	Probe ProbeFunc
	// Renderer draws the results onto each frame, a BoxRenderer if nil
	Renderer FrameRenderer
	// Progress is optional
	Progress ProgressFunc
	// Log is optional
	Log logs.Log
}

// NewPipeline returns a Pipeline with default codecs, encoder, probe and
// renderer
func NewPipeline(log logs.Log, source TrackSource, labels *LabelTable) *Pipeline {
	return &Pipeline{
		Source:   source,
		Labels:   labels,
		Codecs:   DefaultCodecs,
		Encoder:  GocvEncoder,
		Probe:    ProbeVideo,
		Renderer: NewBoxRenderer(),
		Log:      log,
	}
}

// Outcome describes a completed run
type Outcome struct {
	// Frames is the number of frames processed
	Frames int
	// OutputPath is the video file written, its extension depends on the
	// codec used
	OutputPath string
	// Codec is the codec the output was encoded with
	Codec Codec
	// ResultsPath is the JSON results file written
	ResultsPath string
	// Run holds the per frame results
	Run *TrackingRun
}

// Message returns a human readable description of the outcome
func (o *Outcome) Message() string {
	return fmt.Sprintf("Saved %d frames using %s at %s", o.Frames, o.Codec.FourCC, o.OutputPath)
}

// Run tracks objects in the input video.  The annotated video is written
// next to output with the extension of the codec used and the results are
// written to the results file as JSON.
//
// On failure any partially written output is left in place.
func (p *Pipeline) Run(input, output, results string) (*Outcome, error) {

	probe := p.Probe
	if probe == nil {
		probe = ProbeVideo
	}

	info, err := probe(input)

	if err != nil {
		return nil, err
	}

	fps := SanitizeFPS(info.FPS)

	p.infof("Input %s: %dx%d at %.2f FPS, %d frames", input, info.Width,
		info.Height, fps, info.FrameCount)

	if info.FPS != fps {
		p.warnf("Invalid frame rate %v reported, using %.1f", info.FPS, fps)
	}

	writer, err := OpenWriter(output, fps, info.Width, info.Height, p.Codecs, p.Encoder)

	if err != nil {
		return nil, err
	}

	defer writer.Close()

	p.infof("Writing %s using codec %s", writer.Path(), writer.Codec().FourCC)

	seq, err := p.Source.Track(input, ConfThreshold, IoUThreshold)

	if err != nil {
		return nil, fmt.Errorf("error starting tracker: %w", err)
	}

	defer seq.Close()

	renderer := p.Renderer
	if renderer == nil {
		renderer = NewBoxRenderer()
	}

	if r, ok := renderer.(ResettableRenderer); ok {
		r.Reset()
	}

	run := NewTrackingRun()

	for {
		frame, err := seq.Next()

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("error tracking frame %d: %w", run.Len()+1, err)
		}

		fr, err := p.processFrame(frame, run, renderer, writer)

		if err != nil {
			return nil, err
		}

		if p.Progress != nil {
			p.Progress(fr.FrameID)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing video: %w", err)
	}

	if err := run.WriteJSON(results); err != nil {
		return nil, err
	}

	p.infof("Tracked %d frames, results written to %s", run.Len(), results)

	return &Outcome{
		Frames:      run.Len(),
		OutputPath:  writer.Path(),
		Codec:       writer.Codec(),
		ResultsPath: results,
		Run:         run,
	}, nil
}

// processFrame converts the tracked objects of a frame into records, renders
// them onto a copy of the frame and writes it to the output
func (p *Pipeline) processFrame(frame *TrackedFrame, run *TrackingRun,
	renderer FrameRenderer, writer *Writer) (FrameResult, error) {

	defer frame.Image.Close()

	recs := p.records(frame)
	fr := run.Append(recs)

	img := frame.Image.Clone()
	defer img.Close()

	renderer.Render(&img, recs)

	if err := writer.Write(img); err != nil {
		return fr, err
	}

	return fr, nil
}

// records converts the tracked objects of a frame to detection records.
// Frames without identity data give no records.
func (p *Pipeline) records(frame *TrackedFrame) []DetectionRecord {

	recs := make([]DetectionRecord, 0, len(frame.Objects))

	if !frame.Tracked {
		return recs
	}

	for _, obj := range frame.Objects {
		cat, _ := Normalize(p.Labels.Name(obj.Class))

		recs = append(recs, DetectionRecord{
			ID:         obj.TrackID,
			Class:      cat,
			Confidence: obj.Confidence,
			BBox: BBox{
				int(obj.Box[0]), int(obj.Box[1]),
				int(obj.Box[2]), int(obj.Box[3]),
			},
		})
	}

	return recs
}

func (p *Pipeline) infof(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Infof(format, args...)
	}
}

func (p *Pipeline) warnf(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Warnf(format, args...)
	}
}

// TrackVideo runs the pipeline and reports the outcome as a success flag
// and message.  This is the only failure channel, errors and panics raised
// while processing are returned as a false flag with the reason.
func TrackVideo(p *Pipeline, input, output, results string) (ok bool, msg string) {

	defer func() {
		if r := recover(); r != nil {
			ok = false
			msg = fmt.Sprintf("An error occurred during processing: %v", r)
		}
	}()

	outcome, err := p.Run(input, output, results)

	if err != nil {
		if p.Log != nil {
			p.Log.Errorf("Tracking %s failed: %v", input, err)
		}
		return false, failureMessage(input, p.Codecs, err)
	}

	return true, outcome.Message()
}

// failureMessage gives the caller facing reason for err.  Codecs are the
// ones the pipeline tried to open the output with.
func failureMessage(input string, codecs []Codec, err error) string {

	switch {
	case errors.Is(err, ErrOpenInput):
		return fmt.Sprintf("Could not open video file: %s", input)

	case errors.Is(err, ErrNoCodec):
		if len(codecs) == 0 {
			codecs = DefaultCodecs
		}
		return fmt.Sprintf("Failed to initialize VideoWriter with %s",
			codecNames(codecs))
	}

	return fmt.Sprintf("An error occurred during processing: %v", err)
}

func codecNames(codecs []Codec) string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.FourCC
	}
	return strings.Join(names, "/")
}

// ensure the default implementations satisfy their interfaces
var (
	_ FrameRenderer      = (*BoxRenderer)(nil)
	_ ResettableRenderer = (*BoxRenderer)(nil)
	_ FrameSink          = (*gocvSink)(nil)
	_ EncoderFunc        = GocvEncoder
	_ ProbeFunc          = ProbeVideo
)
