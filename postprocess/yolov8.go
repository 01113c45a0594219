package postprocess

import (
	"fmt"

	"github.com/swdee/go-vptrack/preprocess"
)

// YOLOv8 defines the struct for YOLOv8 ONNX model output post processing
type YOLOv8 struct {
	// Params are the Model configuration parameters
	Params YOLOv8Params
}

// YOLOv8Params defines the struct containing the YOLOv8 parameters to use
// for post processing operations
type YOLOv8Params struct {
	// BoxThreshold is the minimum probability score required for a bounding box
	// region to be considered for processing
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes of the same class for both to be kept
	NMSThreshold float32
	// MaxObjectNumber is the maximum number of objects detected that can be
	// returned
	MaxObjectNumber int
}

// YOLOv8DefaultParams returns the parameters used for video tracking:
// - Box Threshold: 0.5
// - NMS Threshold: 0.7
// - Maximum Object Number: 300
func YOLOv8DefaultParams() YOLOv8Params {
	return YOLOv8Params{
		BoxThreshold:    0.5,
		NMSThreshold:    0.7,
		MaxObjectNumber: 300,
	}
}

// NewYOLOv8 returns an instance of the YOLOv8 post processor
func NewYOLOv8(p YOLOv8Params) *YOLOv8 {
	return &YOLOv8{
		Params: p,
	}
}

// DetectObjects decodes the output tensor of a YOLOv8 model.  The tensor is
// laid out as [4+classes][anchors], the first four rows holding the box
// centre x, centre y, width and height in model input pixels and the rest
// the per class scores.  Boxes are mapped back to the source frame using the
// resizer that prepared the input.
func (y *YOLOv8) DetectObjects(output []float32, anchors int,
	resizer *preprocess.Resizer) ([]DetectResult, error) {

	if anchors <= 0 || len(output)%anchors != 0 {
		return nil, fmt.Errorf("output of %d values does not divide into %d anchors",
			len(output), anchors)
	}

	rows := len(output) / anchors
	classNum := rows - 4

	if classNum < 1 {
		return nil, fmt.Errorf("output has %d rows, need at least 5", rows)
	}

	var boxes, probs []float32
	var classIDs []int

	for a := 0; a < anchors; a++ {

		maxClassID := -1
		maxScore := y.Params.BoxThreshold

		for c := 0; c < classNum; c++ {
			if score := output[(4+c)*anchors+a]; score >= maxScore {
				maxScore = score
				maxClassID = c
			}
		}

		if maxClassID < 0 {
			continue
		}

		cx := output[a]
		cy := output[anchors+a]
		w := output[2*anchors+a]
		h := output[3*anchors+a]

		boxes = append(boxes, cx-w/2, cy-h/2, cx+w/2, cy+h/2)
		probs = append(probs, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	validCount := len(probs)

	if validCount == 0 {
		return nil, nil
	}

	// keep the scores by box index as probs is reordered by the sort
	scores := make([]float32, validCount)
	copy(scores, probs)

	indexArray := make([]int, validCount)

	for i := range indexArray {
		indexArray[i] = i
	}

	quickSortIndiceInverse(probs, 0, validCount-1, indexArray)

	classSet := make(map[int]bool)

	for _, id := range classIDs {
		classSet[id] = true
	}

	for c := range classSet {
		nms(validCount, boxes, classIDs, indexArray, c, y.Params.NMSThreshold)
	}

	group := make([]DetectResult, 0)

	for i := 0; i < validCount; i++ {
		if indexArray[i] == -1 || len(group) >= y.Params.MaxObjectNumber {
			continue
		}

		n := indexArray[i]
		box := [4]float32{boxes[n*4+0], boxes[n*4+1], boxes[n*4+2], boxes[n*4+3]}

		if resizer != nil {
			box = resizer.ToSource(box)
		}

		group = append(group, DetectResult{
			Class:       classIDs[n],
			Box:         box,
			Probability: scores[n],
		})
	}

	return group, nil
}
