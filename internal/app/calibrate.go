package app

import (
	"fmt"
	"log"
	"time"

	"github.com/ayusman/nidra/internal/ear"
)

// CalibrateThreshold records open-eye EAR samples from the camera and
// derives a personal closure threshold for the driver. The driver is
// expected to look at the camera with eyes open for the duration.
//
// The pipeline must not be running; calibration drives the camera
// directly. Frames without a usable face are skipped and do not count
// toward sampleCount.
func (a *App) CalibrateThreshold(sampleCount int) (float64, error) {
	if sampleCount < ear.MinCalibrationSamples {
		sampleCount = ear.MinCalibrationSamples
	}

	if err := a.camera.Open(); err != nil {
		return 0, fmt.Errorf("open camera: %w", err)
	}
	defer a.camera.Close()
	a.camera.SetFPS(ActiveFPS)

	calibrator := ear.NewCalibrator()
	interval := time.Second / time.Duration(ActiveFPS)

	// Allow twice as many frames as needed before giving up, so a few
	// no-face frames don't fail the run.
	for attempts := 0; calibrator.Count() < sampleCount && attempts < sampleCount*2; attempts++ {
		frame, err := a.camera.ReadFrame()
		if err != nil {
			return 0, fmt.Errorf("read frame: %w", err)
		}

		face := a.detectFace(frame)
		frame.Close()

		sample := ear.FrameScore(face)
		calibrator.Add(sample)

		time.Sleep(interval)
	}

	threshold, err := calibrator.Threshold()
	if err != nil {
		return 0, err
	}

	log.Printf("Calibrated EAR threshold: %.3f (%d samples)", threshold, calibrator.Count())
	return threshold, nil
}
