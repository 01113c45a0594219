package postprocess

import (
	"math"
)

// quickSortIndiceInverse sorts input in descending order and applies the
// same reordering to indices
func quickSortIndiceInverse(input []float32, left int, right int, indices []int) int {

	var key float32
	var keyIndex int

	low := left
	high := right

	if left < right {
		keyIndex = indices[left]
		key = input[left]

		for low < high {
			for low < high && input[high] <= key {
				high--
			}

			input[low] = input[high]
			indices[low] = indices[high]

			for low < high && input[low] >= key {
				low++
			}

			input[high] = input[low]
			indices[high] = indices[low]
		}

		input[low] = key
		indices[low] = keyIndex

		quickSortIndiceInverse(input, left, low-1, indices)
		quickSortIndiceInverse(input, low+1, right, indices)
	}

	return low
}

// nms runs Non-Maximum Suppression over the boxes of class filterID.  Order
// holds box indices sorted by descending score, suppressed entries are set
// to -1.  Boxes are stored as x1, y1, x2, y2.
func nms(validCount int, boxes []float32, classIDs, order []int,
	filterID int, threshold float32) {

	box := func(idx int) []float32 {
		return boxes[idx*4 : idx*4+4]
	}

	for i := 0; i < validCount; i++ {

		keep := order[i]

		if keep == -1 || classIDs[keep] != filterID {
			continue
		}

		for j := i + 1; j < validCount; j++ {
			other := order[j]

			if other == -1 || classIDs[other] != filterID {
				continue
			}

			if calculateOverlap(box(keep), box(other)) > threshold {
				order[j] = -1
			}
		}
	}
}

// calculateOverlap returns the IoU of two x1, y1, x2, y2 boxes
func calculateOverlap(a, b []float32) float32 {

	w := math.Max(0, float64(min(a[2], b[2])-max(a[0], b[0])))
	h := math.Max(0, float64(min(a[3], b[3])-max(a[1], b[1])))
	inter := float32(w * h)

	union := (a[2]-a[0])*(a[3]-a[1]) + (b[2]-b[0])*(b[3]-b[1]) - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}
