package overlay

import (
	"testing"

	"github.com/ayusman/nidra/internal/detector"
	"github.com/ayusman/nidra/internal/drowsy"
	"github.com/ayusman/nidra/internal/ear"
	"gocv.io/x/gocv"
)

func blackFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })
	return &frame
}

func nonZeroPixels(frame *gocv.Mat) int {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	return gocv.CountNonZero(gray)
}

func TestRenderer_DrawFace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	r := New(Options{Landmarks: true, EAR: true, FPS: true})
	frame := blackFrame(t)

	r.Draw(frame, detector.OpenFace(), ear.Measured(0.33), drowsy.Status{State: drowsy.StateAwake}, 15.0)

	// Landmarks, EAR readout and FPS readout all leave pixels behind
	if nonZeroPixels(frame) == 0 {
		t.Error("expected the overlay to draw onto the frame")
	}
}

func TestRenderer_DrawNoFace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	r := New(Options{Landmarks: true})
	frame := blackFrame(t)

	// A nil face draws the "No face detected" notice
	r.Draw(frame, nil, ear.Absent(), drowsy.Status{State: drowsy.StateAwake}, 0)

	if nonZeroPixels(frame) == 0 {
		t.Error("expected the no-face notice to be drawn")
	}
}

func TestRenderer_DrawAlert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	r := New(Options{})
	frame := blackFrame(t)

	status := drowsy.Status{State: drowsy.StateDrowsy, LowFrames: 25}
	r.Draw(frame, detector.ClosedFace(), ear.Measured(0.05), status, 0)

	// The red wash tints every pixel, so nearly the whole frame is lit
	lit := nonZeroPixels(frame)
	total := frame.Rows() * frame.Cols()
	if lit < total/2 {
		t.Errorf("expected the alert wash to tint the frame, only %d of %d pixels lit", lit, total)
	}
}

func TestRenderer_OptionsDisableReadouts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// With everything off and an awake face, nothing is drawn
	r := New(Options{})
	frame := blackFrame(t)

	r.Draw(frame, detector.OpenFace(), ear.Measured(0.33), drowsy.Status{State: drowsy.StateAwake}, 15.0)

	if nonZeroPixels(frame) != 0 {
		t.Error("expected no drawing with all readouts disabled")
	}
}

func TestRenderer_NilFrame(t *testing.T) {
	r := New(Options{Landmarks: true})

	// Must not panic
	r.Draw(nil, detector.OpenFace(), ear.Measured(0.33), drowsy.Status{}, 0)
}
