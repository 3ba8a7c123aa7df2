// Package detector provides face and eye landmark detection for drowsiness monitoring.
package detector

// Eye landmark indices within a single eye contour, following the dlib
// 68-point convention: the contour starts at the outer corner and runs
// clockwise over the upper lid to the inner corner, then back along the
// lower lid.
const (
	OuterCorner  = 0
	UpperOuter   = 1
	UpperInner   = 2
	InnerCorner  = 3
	LowerInner   = 4
	LowerOuter   = 5
	NumEyePoints = 6
)

// Positions of the eye contours within the full dlib 68-point face shape.
const (
	RightEyeStart = 36
	RightEyeEnd   = 42
	LeftEyeStart  = 42
	LeftEyeEnd    = 48
)

// Point2D represents a 2D point in image-pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EyeLandmarks holds the 6 contour points of one eye.
type EyeLandmarks [NumEyePoints]Point2D

// Centroid returns the mean position of the eye contour points.
// Used for placing overlay labels next to the eye.
func (e EyeLandmarks) Centroid() Point2D {
	var sumX, sumY float64
	for _, p := range e {
		sumX += p.X
		sumY += p.Y
	}
	return Point2D{
		X: sumX / NumEyePoints,
		Y: sumY / NumEyePoints,
	}
}

// Face represents one detected face reduced to the landmarks the monitor
// consumes: the left and right eye contours.
type Face struct {
	Left  EyeLandmarks `json:"left"`
	Right EyeLandmarks `json:"right"`
	Score float64      `json:"score"`
}
