package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/akamensky/argparse"
	"github.com/cheggaaa/pb/v3"
	"github.com/cyclopcam/logs"
	"github.com/swdee/go-vptrack"
	"github.com/swdee/go-vptrack/stream"
	"github.com/swdee/go-vptrack/tracker"
)

const progressTemplate = `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	logger, err := logs.NewLog()
	check(err)

	parser := argparse.NewParser("vptrack", "Track vehicles and pedestrians in a video")

	trackCmd := parser.NewCommand("track", "Detect and track objects, writing an annotated video and JSON results")
	input := trackCmd.String("i", "input", &argparse.Options{Help: "Input video file", Required: true})
	output := trackCmd.String("o", "output", &argparse.Options{Help: "Output video path, the extension is set by the codec used", Required: true})
	results := trackCmd.String("r", "results", &argparse.Options{Help: "Results JSON file", Required: true})
	modelFile := trackCmd.String("m", "model", &argparse.Options{Help: "YOLOv8 ONNX model file", Required: true})
	labelFile := trackCmd.String("l", "labels", &argparse.Options{Help: "Class labels file (txt, yaml or json)", Required: true})
	trackerFile := trackCmd.String("t", "tracker", &argparse.Options{Help: "ByteTrack YAML config, stock values if not given"})
	inputSize := trackCmd.Int("s", "size", &argparse.Options{Help: "Model input size", Default: 640})
	trails := trackCmd.Flag("", "trails", &argparse.Options{Help: "Draw the movement trail of each object", Default: false})
	cuda := trackCmd.Flag("", "cuda", &argparse.Options{Help: "Run inference with the CUDA backend", Default: false})

	summaryCmd := parser.NewCommand("summary", "Print a summary of a results JSON file")
	summaryFile := summaryCmd.String("r", "results", &argparse.Options{Help: "Results JSON file", Required: true})

	err = parser.Parse(os.Args)
	if err != nil {
		logger.Errorf(parser.Usage(err))
		os.Exit(1)
	}

	switch {
	case trackCmd.Happened():
		os.Exit(runTrack(logger, trackOptions{
			input:     *input,
			output:    *output,
			results:   *results,
			model:     *modelFile,
			labels:    *labelFile,
			tracker:   *trackerFile,
			inputSize: *inputSize,
			trails:    *trails,
			cuda:      *cuda,
		}))

	case summaryCmd.Happened():
		os.Exit(runSummary(logger, *summaryFile))
	}
}

type trackOptions struct {
	input     string
	output    string
	results   string
	model     string
	labels    string
	tracker   string
	inputSize int
	trails    bool
	cuda      bool
}

func runTrack(logger logs.Log, opts trackOptions) int {

	labels, err := vptrack.LoadLabels(opts.labels)
	if err != nil {
		logger.Errorf("Failed to load labels: %v", err)
		return 1
	}

	cfg := tracker.DefaultConfig()

	if opts.tracker != "" {
		cfg, err = tracker.LoadConfig(opts.tracker)
		if err != nil {
			logger.Errorf("Failed to load tracker config: %v", err)
			return 1
		}
	}

	yoloOpts := stream.DefaultYOLOOptions()
	yoloOpts.InputSize = opts.inputSize
	yoloOpts.CUDA = opts.cuda

	yolo, err := stream.NewYOLO(opts.model, yoloOpts)
	if err != nil {
		logger.Errorf("Failed to load model '%v': %v", opts.model, err)
		return 1
	}
	defer yolo.Close()

	logger.Infof("Loaded model %v with %d labels", opts.model, labels.Len())

	pipeline := vptrack.NewPipeline(logger, stream.NewSource(logger, yolo, cfg), labels)

	if opts.trails {
		pipeline.Renderer = vptrack.NewBoxRenderer().WithTrails(30)
	}

	// the progress total is the container's estimate which may be missing
	total := 0
	if info, err := vptrack.ProbeVideo(opts.input); err == nil {
		total = info.FrameCount
	}

	bar := pb.ProgressBarTemplate(progressTemplate).Start(total)
	bar.Set("prefix", "Tracking")
	pipeline.Progress = func(frameID int) {
		bar.Increment()
	}

	ok, msg := vptrack.TrackVideo(pipeline, opts.input, opts.output, opts.results)
	bar.Finish()

	if !ok {
		logger.Errorf("%v", msg)
		return 1
	}

	logger.Infof("%v", msg)
	return 0
}

func runSummary(logger logs.Log, file string) int {

	run, err := vptrack.ReadRun(file)
	if err != nil {
		logger.Errorf("Failed to read results: %v", err)
		return 1
	}

	s := vptrack.Summarize(run)

	fmt.Printf("Frames:          %d\n", s.Frames)
	fmt.Printf("Detections:      %d\n", s.Detections)
	fmt.Printf("Unique objects:  %d\n", s.UniqueObjects)

	cats := make([]string, 0, len(s.Objects))
	for c := range s.Objects {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	for _, c := range cats {
		fmt.Printf("  %-14s %d\n", vptrack.Category(c).Title()+":", s.Objects[vptrack.Category(c)])
	}

	fmt.Printf("Mean confidence: %.3f\n", s.MeanConfidence)
	return 0
}
