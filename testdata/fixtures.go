// Package testdata provides synthetic frames for tests that need real
// gocv Mats without camera hardware.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// FrameWidth and FrameHeight are the dimensions of generated frames.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// BlankFrame returns a black frame.
func BlankFrame() *gocv.Mat {
	mat := gocv.NewMatWithSize(FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
	return &mat
}

// FrameWithBlock returns a black frame with a white square at (x, y).
// Moving the square between frames simulates driver movement.
func FrameWithBlock(x, y int) *gocv.Mat {
	mat := gocv.NewMatWithSize(FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
	rect := image.Rect(x, y, x+100, y+100)
	gocv.Rectangle(&mat, rect, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	return &mat
}

// StaticSequence returns n identical frames.
func StaticSequence(n int) []gocv.Mat {
	frames := make([]gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, *FrameWithBlock(100, 100))
	}
	return frames
}

// MovingSequence returns n frames with the block shifting each frame.
func MovingSequence(n int) []gocv.Mat {
	frames := make([]gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, *FrameWithBlock(100+i*40, 100))
	}
	return frames
}

// CloseAll releases every frame in the slice.
func CloseAll(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}
