// Package overlay renders detection feedback onto video frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/nidra/internal/detector"
	"github.com/ayusman/nidra/internal/drowsy"
	"github.com/ayusman/nidra/internal/ear"
)

// Options selects which readouts are drawn.
type Options struct {
	Landmarks bool
	EAR       bool
	FPS       bool
}

var (
	colGreen  = color.RGBA{G: 255, A: 255}
	colRed    = color.RGBA{R: 255, A: 255}
	colBlue   = color.RGBA{B: 255, A: 255}
	colYellow = color.RGBA{R: 255, G: 255, A: 255}
)

// alertTint is the weight of the red wash applied while the alert is active.
const alertTint = 0.2

// Renderer draws eye landmarks, the EAR readout and the alert banner
// onto frames before they are streamed.
type Renderer struct {
	opts Options
}

// New creates a Renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Draw annotates the frame in place with the current detection result.
// face may be nil for frames without a detectable face.
func (r *Renderer) Draw(frame *gocv.Mat, face *detector.Face, sample ear.Sample, status drowsy.Status, fps float64) {
	if frame == nil || frame.Empty() {
		return
	}

	if face == nil {
		gocv.PutText(frame, "No face detected", image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, colRed, 2)
	} else if r.opts.Landmarks {
		r.drawEye(frame, face.Left, "L")
		r.drawEye(frame, face.Right, "R")
	}

	if r.opts.EAR && sample.Present {
		gocv.PutText(frame, fmt.Sprintf("EAR: %.2f", sample.Value), image.Pt(300, 30), gocv.FontHersheySimplex, 0.7, colBlue, 2)
	}

	if status.LowFrames > 0 {
		gocv.PutText(frame, fmt.Sprintf("Drowsy frames: %d", status.LowFrames), image.Pt(10, 60), gocv.FontHersheySimplex, 0.7, colYellow, 2)
	}

	if status.AlertActive() {
		r.drawAlert(frame)
	}

	if r.opts.FPS && fps > 0 {
		gocv.PutText(frame, fmt.Sprintf("FPS: %.2f", fps), image.Pt(frame.Cols()-120, 30), gocv.FontHersheySimplex, 0.7, colGreen, 2)
	}
}

// drawEye draws the eye contour points, the closed contour outline and
// a side label near the eye's centroid.
func (r *Renderer) drawEye(frame *gocv.Mat, eye detector.EyeLandmarks, label string) {
	for _, p := range eye {
		gocv.Circle(frame, image.Pt(int(p.X), int(p.Y)), 1, colGreen, -1)
	}

	for i := 0; i < detector.NumEyePoints; i++ {
		a := eye[i]
		b := eye[(i+1)%detector.NumEyePoints]
		gocv.Line(frame, image.Pt(int(a.X), int(a.Y)), image.Pt(int(b.X), int(b.Y)), colGreen, 1)
	}

	c := eye.Centroid()
	gocv.PutText(frame, label, image.Pt(int(c.X)-10, int(c.Y)-10), gocv.FontHersheySimplex, 0.5, colGreen, 1)
}

// drawAlert renders the alert banner and washes the frame red.
func (r *Renderer) drawAlert(frame *gocv.Mat) {
	gocv.PutText(frame, "DROWSINESS ALERT!", image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, colRed, 2)

	wash := frame.Clone()
	defer wash.Close()
	gocv.Rectangle(&wash, image.Rect(0, 0, frame.Cols(), frame.Rows()), colRed, -1)
	gocv.AddWeighted(wash, alertTint, *frame, 1-alertTint, 0, frame)
}
