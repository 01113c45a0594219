package vptrack

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// fakeSource yields a fixed list of frames, each with a fresh image
type fakeSource struct {
	frames []fakeFrame
	panic  bool
	conf   float32
	iou    float32
	closed bool
}

type fakeFrame struct {
	tracked bool
	objects []TrackedObject
}

func (s *fakeSource) Track(file string, conf, iou float32) (FrameSeq, error) {
	s.conf = conf
	s.iou = iou
	return &fakeSeq{src: s}, nil
}

type fakeSeq struct {
	src *fakeSource
	pos int
}

func (q *fakeSeq) Next() (*TrackedFrame, error) {

	if q.src.panic {
		panic("decoder exploded")
	}

	if q.pos >= len(q.src.frames) {
		return nil, io.EOF
	}

	f := q.src.frames[q.pos]
	q.pos++

	return &TrackedFrame{
		Image:   gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3),
		Tracked: f.tracked,
		Objects: f.objects,
	}, nil
}

func (q *fakeSeq) Close() error {
	q.src.closed = true
	return nil
}

func fakeProbe(info VideoInfo) ProbeFunc {
	return func(file string) (VideoInfo, error) {
		return info, nil
	}
}

func newTestPipeline(t *testing.T, src *fakeSource, enc *fakeEncoder) *Pipeline {
	p := NewPipeline(logs.NewTestingLog(t), src, NewLabelList([]string{"person", "car"}))
	p.Encoder = enc.open
	p.Probe = fakeProbe(VideoInfo{FPS: 30, Width: 160, Height: 120, FrameCount: 3})
	return p
}

func TestPipelineRun(t *testing.T) {

	src := &fakeSource{
		frames: []fakeFrame{
			{tracked: true, objects: []TrackedObject{
				{TrackID: 1, Class: 1, Confidence: 0.9, Box: [4]float32{10.7, 20.2, 50.9, 60.1}},
				{TrackID: 2, Class: 0, Confidence: 0.8, Box: [4]float32{70, 10, 90, 100}},
			}},
			{tracked: false},
			{tracked: true, objects: []TrackedObject{
				{TrackID: 2, Class: 0, Confidence: 0.85, Box: [4]float32{72, 11, 92, 101}},
				{TrackID: 3, Class: 7, Confidence: 0.6, Box: [4]float32{1, 1, 20, 20}},
			}},
		},
	}

	enc := &fakeEncoder{}
	p := newTestPipeline(t, src, enc)

	var progress []int
	p.Progress = func(frameID int) {
		progress = append(progress, frameID)
	}

	dir := t.TempDir()
	results := filepath.Join(dir, "results.json")

	out, err := p.Run("input.mp4", filepath.Join(dir, "out"), results)
	require.NoError(t, err)

	require.Equal(t, ConfThreshold, src.conf)
	require.Equal(t, IoUThreshold, src.iou)
	require.True(t, src.closed)

	require.Equal(t, 3, out.Frames)
	require.Equal(t, filepath.Join(dir, "out.mp4"), out.OutputPath)
	require.Equal(t, "Saved 3 frames using mp4v at "+out.OutputPath, out.Message())
	require.Equal(t, []int{1, 2, 3}, progress)

	require.Equal(t, 3, enc.sink.frames)
	require.Equal(t, 1, enc.sink.closes)
	require.Equal(t, 30.0, enc.sink.fps)

	frames := out.Run.Frames()
	require.Len(t, frames, 3)

	require.Equal(t, []DetectionRecord{
		{ID: 1, Class: Vehicle, Confidence: 0.9, BBox: BBox{10, 20, 50, 60}},
		{ID: 2, Class: Pedestrian, Confidence: 0.8, BBox: BBox{70, 10, 90, 100}},
	}, frames[0].Objects)

	require.Empty(t, frames[1].Objects)

	// unknown class ids fall back to vehicle
	require.Equal(t, Vehicle, frames[2].Objects[1].Class)

	back, err := ReadRun(results)
	require.NoError(t, err)
	require.Equal(t, frames, back.Frames())
}

func TestPipelineInvalidFPS(t *testing.T) {

	enc := &fakeEncoder{}
	p := newTestPipeline(t, &fakeSource{}, enc)
	p.Probe = fakeProbe(VideoInfo{FPS: 0, Width: 160, Height: 120})

	dir := t.TempDir()
	out, err := p.Run("input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))
	require.NoError(t, err)
	require.Equal(t, 0, out.Frames)
	require.Equal(t, DefaultFPS, enc.sink.fps)

	data, err := os.ReadFile(filepath.Join(dir, "r.json"))
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestTrackVideoCodecFallback(t *testing.T) {

	enc := &fakeEncoder{failing: map[string]bool{"mp4v": true}}
	p := newTestPipeline(t, &fakeSource{frames: []fakeFrame{{}, {}}}, enc)

	dir := t.TempDir()
	ok, msg := TrackVideo(p, "input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))

	require.True(t, ok, msg)
	require.Equal(t, "Saved 2 frames using XVID at "+filepath.Join(dir, "out.avi"), msg)
}

func TestTrackVideoNoCodec(t *testing.T) {

	enc := &fakeEncoder{failing: map[string]bool{"mp4v": true, "XVID": true, "avc1": true}}
	p := newTestPipeline(t, &fakeSource{}, enc)

	dir := t.TempDir()
	ok, msg := TrackVideo(p, "input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))

	require.False(t, ok)
	require.Equal(t, "Failed to initialize VideoWriter with mp4v/XVID/avc1", msg)
}

func TestTrackVideoMissingInput(t *testing.T) {

	dir := t.TempDir()
	input := filepath.Join(dir, "missing.mp4")

	p := NewPipeline(logs.NewTestingLog(t), &fakeSource{}, NewLabelList(nil))

	ok, msg := TrackVideo(p, input, filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))

	require.False(t, ok)
	require.Equal(t, "Could not open video file: "+input, msg)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTrackVideoRecoversPanic(t *testing.T) {

	enc := &fakeEncoder{}
	p := newTestPipeline(t, &fakeSource{panic: true}, enc)

	dir := t.TempDir()
	ok, msg := TrackVideo(p, "input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))

	require.False(t, ok)
	require.True(t, strings.HasPrefix(msg, "An error occurred during processing: "), msg)
	require.Contains(t, msg, "decoder exploded")
}

func TestPipelineNilLog(t *testing.T) {

	enc := &fakeEncoder{}
	p := newTestPipeline(t, &fakeSource{frames: []fakeFrame{{}}}, enc)
	p.Log = nil
	p.Renderer = nil

	dir := t.TempDir()
	ok, msg := TrackVideo(p, "input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))
	require.True(t, ok, msg)
}

func TestTrackVideoNoCustomCodec(t *testing.T) {

	enc := &fakeEncoder{failing: map[string]bool{"MJPG": true, "XVID": true}}
	p := newTestPipeline(t, &fakeSource{}, enc)
	p.Codecs = []Codec{{FourCC: "MJPG", Ext: ".avi"}, {FourCC: "XVID", Ext: ".avi"}}

	dir := t.TempDir()
	ok, msg := TrackVideo(p, "input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))

	require.False(t, ok)
	require.Equal(t, "Failed to initialize VideoWriter with MJPG/XVID", msg)
	require.Equal(t, []string{"MJPG", "XVID"}, enc.tried)
}

// countingRenderer records how often it is reset
type countingRenderer struct {
	resets int
	frames int
}

func (c *countingRenderer) Render(img *gocv.Mat, recs []DetectionRecord) {
	c.frames++
}

func (c *countingRenderer) Reset() {
	c.resets++
}

func TestPipelineResetsRendererPerVideo(t *testing.T) {

	r := &countingRenderer{}
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		p := newTestPipeline(t, &fakeSource{frames: []fakeFrame{{}, {}}}, &fakeEncoder{})
		p.Renderer = r

		_, err := p.Run("input.mp4", filepath.Join(dir, "out"), filepath.Join(dir, "r.json"))
		require.NoError(t, err)
	}

	require.Equal(t, 2, r.resets)
	require.Equal(t, 4, r.frames)
}
