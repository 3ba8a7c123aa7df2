package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// PresenceDetector spots movement in the cabin by differencing
// consecutive frames. The pipeline uses it to drop to a low frame rate
// when the seat has been empty and still for a while, and to wake back
// up the moment something moves into view.
type PresenceDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// Frame differencing constants
const (
	// blurKernelSize is the kernel size for the noise-reduction blur
	blurKernelSize = 21
	// pixelDiffThreshold is the binary threshold applied to the frame difference
	pixelDiffThreshold = 25
)

// NewPresenceDetector creates a PresenceDetector with the given threshold.
// The threshold is the percentage of pixels that must change between
// frames before movement is reported (1.0 means 1%).
func NewPresenceDetector(threshold float64) *PresenceDetector {
	return &PresenceDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one and reports whether
// movement was seen, along with the percentage of pixels that changed.
// The first frame only establishes the baseline.
func (p *PresenceDetector) Detect(frame *gocv.Mat) (bool, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	// Blur before differencing so sensor noise doesn't register as movement
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !p.initialized {
		blurred.CopyTo(&p.prevGray)
		p.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, p.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, pixelDiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&p.prevGray)

	return changePercent > p.threshold, changePercent
}

// Reset clears the baseline so the next frame starts a fresh comparison.
func (p *PresenceDetector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
}

// Close releases resources used by the detector.
func (p *PresenceDetector) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
}

// SetThreshold sets the movement threshold as a percentage of changed
// pixels. Values less than or equal to 0 are ignored.
func (p *PresenceDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.threshold = threshold
}
