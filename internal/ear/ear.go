// Package ear computes the eye aspect ratio (EAR) from eye landmarks.
//
// The EAR is the ratio of the vertical lid distances to the horizontal
// eye width, per Soukupová and Čech (2016). It sits around 0.3 for an
// open eye and drops toward 0 as the eye closes.
package ear

import (
	"errors"
	"math"

	"github.com/ayusman/nidra/internal/detector"
)

// ErrInvalidLandmarks is returned when the eye contour is degenerate,
// i.e. the horizontal corner-to-corner distance is zero.
var ErrInvalidLandmarks = errors.New("invalid eye landmarks: zero horizontal distance")

// Compute returns the eye aspect ratio for a single eye contour.
//
// Vertical distances are taken between the lid point pairs (1,5) and
// (2,4); the horizontal distance between the corners (0,3):
//
//	EAR = (|p1-p5| + |p2-p4|) / (2 * |p0-p3|)
func Compute(eye detector.EyeLandmarks) (float64, error) {
	v1 := dist(eye[detector.UpperOuter], eye[detector.LowerOuter])
	v2 := dist(eye[detector.UpperInner], eye[detector.LowerInner])
	h := dist(eye[detector.OuterCorner], eye[detector.InnerCorner])

	if h == 0 {
		return 0, ErrInvalidLandmarks
	}

	return (v1 + v2) / (2 * h), nil
}

// FrameScore combines both eyes of a face into one frame-level sample.
// If one eye's contour is degenerate the other eye's EAR is used alone;
// if both are degenerate, or face is nil, the sample is absent.
func FrameScore(face *detector.Face) Sample {
	if face == nil {
		return Absent()
	}

	left, leftErr := Compute(face.Left)
	right, rightErr := Compute(face.Right)

	switch {
	case leftErr == nil && rightErr == nil:
		return Measured((left + right) / 2)
	case leftErr == nil:
		return Measured(left)
	case rightErr == nil:
		return Measured(right)
	default:
		return Absent()
	}
}

// dist calculates the Euclidean distance between two 2D points.
func dist(a, b detector.Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
