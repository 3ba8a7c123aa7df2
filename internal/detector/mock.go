package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	face *Face
	err  error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace sets the face that will be returned by Detect.
// Pass nil to simulate a frame without a detectable face.
func (m *MockDetector) SetFace(face *Face) {
	m.face = face
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured face or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Face, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.face, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenEyeLandmarks returns a preset eye contour for a wide-open eye.
// The lids sit 10px apart over a 30px wide eye, giving an EAR of 1/3.
func OpenEyeLandmarks() EyeLandmarks {
	return EyeLandmarks{
		{X: 100, Y: 100}, // outer corner
		{X: 108, Y: 95},  // upper lid, outer
		{X: 122, Y: 95},  // upper lid, inner
		{X: 130, Y: 100}, // inner corner
		{X: 122, Y: 105}, // lower lid, inner
		{X: 108, Y: 105}, // lower lid, outer
	}
}

// ClosedEyeLandmarks returns a preset eye contour for a nearly closed eye.
// The lids are 1px apart, giving an EAR of 1/30.
func ClosedEyeLandmarks() EyeLandmarks {
	return EyeLandmarks{
		{X: 100, Y: 100},
		{X: 108, Y: 99.5},
		{X: 122, Y: 99.5},
		{X: 130, Y: 100},
		{X: 122, Y: 100.5},
		{X: 108, Y: 100.5},
	}
}

// DegenerateEyeLandmarks returns an eye contour collapsed onto a single
// point, as produced by landmark predictors on occluded eyes. Its
// horizontal distance is zero.
func DegenerateEyeLandmarks() EyeLandmarks {
	var eye EyeLandmarks
	for i := range eye {
		eye[i] = Point2D{X: 115, Y: 100}
	}
	return eye
}

// OpenFace returns a face fixture with both eyes open.
func OpenFace() *Face {
	return &Face{
		Left:  OpenEyeLandmarks(),
		Right: shiftEye(OpenEyeLandmarks(), -60, 0),
		Score: 0.95,
	}
}

// ClosedFace returns a face fixture with both eyes nearly closed.
func ClosedFace() *Face {
	return &Face{
		Left:  ClosedEyeLandmarks(),
		Right: shiftEye(ClosedEyeLandmarks(), -60, 0),
		Score: 0.95,
	}
}

// OccludedEyeFace returns a face fixture where the right eye is
// degenerate and only the left eye carries a usable contour.
func OccludedEyeFace() *Face {
	return &Face{
		Left:  OpenEyeLandmarks(),
		Right: DegenerateEyeLandmarks(),
		Score: 0.95,
	}
}

func shiftEye(eye EyeLandmarks, dx, dy float64) EyeLandmarks {
	for i := range eye {
		eye[i].X += dx
		eye[i].Y += dy
	}
	return eye
}
