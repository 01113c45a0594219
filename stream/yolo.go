package stream

import (
	"fmt"
	"image"

	"github.com/swdee/go-vptrack/postprocess"
	"github.com/swdee/go-vptrack/preprocess"
	"gocv.io/x/gocv"
)

// Detector finds objects in a single video frame
type Detector interface {
	// Detect returns the objects scoring at least conf in img, with
	// overlapping boxes of the same class above iou suppressed
	Detect(img gocv.Mat, conf, iou float32) ([]postprocess.DetectResult, error)
}

// YOLOOptions configures the YOLO detector
type YOLOOptions struct {
	// InputSize is the width and height of the model's square input
	InputSize int
	// CUDA runs inference on the GPU when OpenCV was built with CUDA
	CUDA bool
}

// DefaultYOLOOptions returns options for a stock 640 pixel YOLOv8 export
func DefaultYOLOOptions() YOLOOptions {
	return YOLOOptions{
		InputSize: 640,
	}
}

// YOLO runs a YOLOv8 ONNX model with the OpenCV DNN module
type YOLO struct {
	net     gocv.Net
	opts    YOLOOptions
	post    *postprocess.YOLOv8
	resizer *preprocess.Resizer
	input   gocv.Mat
}

// NewYOLO loads the ONNX model file
func NewYOLO(model string, opts YOLOOptions) (*YOLO, error) {

	if opts.InputSize <= 0 {
		return nil, fmt.Errorf("invalid model input size %d", opts.InputSize)
	}

	net := gocv.ReadNetFromONNX(model)

	if net.Empty() {
		return nil, fmt.Errorf("error reading model %s", model)
	}

	backend, target := gocv.NetBackendDefault, gocv.NetTargetCPU

	if opts.CUDA {
		backend, target = gocv.NetBackendCUDA, gocv.NetTargetCUDA
	}

	net.SetPreferableBackend(backend)
	net.SetPreferableTarget(target)

	return &YOLO{
		net:   net,
		opts:  opts,
		post:  postprocess.NewYOLOv8(postprocess.YOLOv8DefaultParams()),
		input: gocv.NewMat(),
	}, nil
}

// Detect implements Detector
func (y *YOLO) Detect(img gocv.Mat, conf, iou float32) ([]postprocess.DetectResult, error) {

	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	// the resizer is tied to the frame size which is fixed for a video but
	// not across videos
	if y.resizer == nil || !y.resizer.Matches(img.Cols(), img.Rows()) {
		if y.resizer != nil {
			y.resizer.Close()
		}
		y.resizer = preprocess.NewResizer(img.Cols(), img.Rows(),
			y.opts.InputSize, y.opts.InputSize)
	}

	y.resizer.LetterBoxResize(img, &y.input, preprocess.LetterBoxColor)

	size := image.Pt(y.opts.InputSize, y.opts.InputSize)
	blob := gocv.BlobFromImage(y.input, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	y.net.SetInput(blob, "")

	out := y.net.Forward("")
	defer out.Close()

	dims := out.Size()

	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}

	data, err := out.DataPtrFloat32()

	if err != nil {
		return nil, fmt.Errorf("error reading model output: %w", err)
	}

	y.post.Params.BoxThreshold = conf
	y.post.Params.NMSThreshold = iou

	return y.post.DetectObjects(data, dims[2], y.resizer)
}

// Close frees the model and buffers
func (y *YOLO) Close() error {

	if y.resizer != nil {
		y.resizer.Close()
		y.resizer = nil
	}

	y.input.Close()
	return y.net.Close()
}
