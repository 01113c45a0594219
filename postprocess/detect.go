package postprocess

// DetectResult defines the attributes of a single object detected
type DetectResult struct {
	// Class is the index of the class in the label table the Model was
	// trained on
	Class int
	// Box is the bounding box as x1, y1, x2, y2 in source frame pixels
	Box [4]float32
	// Probability is the confidence score of the object detected
	Probability float32
}
