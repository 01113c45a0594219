package vptrack

import "errors"

var (
	// ErrOpenInput is returned when the input video can not be opened or
	// decoded
	ErrOpenInput = errors.New("could not open video file")
	// ErrNoCodec is returned when none of the candidate codecs could open an
	// output video encoder
	ErrNoCodec = errors.New("no video codec could be opened")
)
