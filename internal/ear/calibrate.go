package ear

import "fmt"

// Calibration constants.
const (
	// MinCalibrationSamples is the minimum number of open-eye samples
	// required before a personal threshold can be derived.
	MinCalibrationSamples = 15
	// CalibrationRatio is the fraction of the driver's mean open-eye
	// EAR used as their closure threshold.
	CalibrationRatio = 0.75
)

// Calibrator derives a personal EAR threshold from samples recorded
// while the driver looks at the camera with eyes open. Some drivers
// have naturally narrower eyes than the 0.25 default assumes.
type Calibrator struct {
	samples []float64
}

// NewCalibrator creates an empty Calibrator.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// Add records one open-eye sample. Absent samples are ignored.
func (c *Calibrator) Add(s Sample) {
	if !s.Present {
		return
	}
	c.samples = append(c.samples, s.Value)
}

// Count returns the number of recorded samples.
func (c *Calibrator) Count() int {
	return len(c.samples)
}

// Reset discards all recorded samples.
func (c *Calibrator) Reset() {
	c.samples = c.samples[:0]
}

// Threshold averages the recorded samples into a personal closure
// threshold. It fails if fewer than MinCalibrationSamples samples
// have been recorded.
func (c *Calibrator) Threshold() (float64, error) {
	if len(c.samples) < MinCalibrationSamples {
		return 0, fmt.Errorf("need at least %d samples, have %d", MinCalibrationSamples, len(c.samples))
	}

	var sum float64
	for _, v := range c.samples {
		sum += v
	}
	mean := sum / float64(len(c.samples))

	return mean * CalibrationRatio, nil
}
