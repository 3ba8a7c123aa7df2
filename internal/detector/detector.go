package detector

import "gocv.io/x/gocv"

// Detector defines the interface for face and eye landmark detection
// implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the eye landmarks of the
	// most prominent face. Returns nil (and no error) if the frame
	// contains no detectable face.
	Detect(frame *gocv.Mat) (*Face, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face detection.
type Config struct {
	// ModelPath is the path to the facial landmark model file.
	// Empty means the detector searches its default locations.
	ModelPath string

	// MinScore is the minimum face detection confidence threshold (0.0-1.0).
	MinScore float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinScore: 0.5,
	}
}
