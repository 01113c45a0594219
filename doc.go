/*
go-vptrack runs a YOLO object detector with a ByteTrack multi-object tracker
over a video file and produces two outputs: an annotated copy of the video
and a JSON manifest listing every tracked object per frame.

All detector classes are collapsed into exactly two categories, "vehicle"
and "pedestrian".  Any class name that does not indicate a human subject is
reported as a vehicle.

The detector and tracker sit behind the TrackSource interface so the
pipeline in this package does not depend on a particular model runtime.  The
stream subpackage provides an implementation using an ONNX YOLOv8 model
through the GoCV DNN module and the tracker subpackage.

See cmd/vptrack for the command line tool.
*/
package vptrack
