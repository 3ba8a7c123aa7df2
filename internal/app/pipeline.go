package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/nidra/internal/alert"
	"github.com/ayusman/nidra/internal/detector"
	"github.com/ayusman/nidra/internal/drowsy"
	"github.com/ayusman/nidra/internal/ear"
	"github.com/ayusman/nidra/internal/store"
	"github.com/google/uuid"
)

// runPipeline is the main detection loop that processes frames from the camera.
//
// Pipeline logic:
// 1. Start in active mode (activeFPS=15)
// 2. Each tick: read a frame, check for cabin movement
// 3. Run face detection, compute the frame's EAR score
// 4. Feed the score to the drowsiness monitor
// 5. On alert edges, persist the alert and fan out to hooks/sound
// 6. After 5s without a face or movement, drop to idle mode (idleFPS=5);
//    idle frames feed absent samples so no stale alert survives
// 7. Movement wakes the pipeline back into active mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	defer a.wg.Done()

	activeMode := true
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(ActiveFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if monitoring is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			moved, _ := a.presence.Detect(frame)

			if !activeMode {
				frame.Close()

				if moved {
					activeMode = true
					lastActivity = time.Now()
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Movement detected, resuming detection")
					continue
				}

				// Idle frames carry no measurement; feeding the
				// monitor absent samples keeps the fail-safe path
				// live and clears any lingering alert.
				sample := ear.Absent()
				status := a.monitor.Observe(sample)
				a.updateFPS()
				a.handleEdges(sample, status)
				a.publish(nil, sample, status)
				continue
			}

			face := a.detectFace(frame)
			frame.Close()

			sample := ear.FrameScore(face)
			status := a.monitor.Observe(sample)
			a.frames++
			a.updateFPS()

			if face != nil || moved {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) > time.Duration(IdleTimeoutMs)*time.Millisecond {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				log.Println("No driver in view, switching to idle mode")
			}

			a.handleEdges(sample, status)
			a.publish(face, sample, status)
		}
	}
}

func (a *App) detectFace(frame *gocv.Mat) *detector.Face {
	d := a.Detector()
	if d == nil {
		return nil
	}

	face, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting face: %v", err)
		return nil
	}
	return face
}

// handleEdges compares the monitor's decision against the previous tick
// and fires raise/clear actions exactly once per transition. Repeated
// drowsy ticks only update the alert's extremes; re-triggering the
// sound is deliberately left to the edges.
func (a *App) handleEdges(sample ear.Sample, status drowsy.Status) {
	active := status.AlertActive()

	switch {
	case active && !a.alertActive:
		a.raiseAlert(sample, status)
	case active:
		if status.LowFrames > a.peakLowFrames {
			a.peakLowFrames = status.LowFrames
		}
		if sample.Present && sample.Value < a.minEAR {
			a.minEAR = sample.Value
		}
	case !active && a.alertActive:
		a.clearAlert(sample, status)
	}

	a.alertActive = active
}

func (a *App) raiseAlert(sample ear.Sample, status drowsy.Status) {
	a.alertSeq++
	a.peakLowFrames = status.LowFrames
	a.minEAR = sample.Value

	log.Printf("Drowsiness detected! Alert #%d (EAR %.3f, %d low frames)", a.alertSeq, sample.Value, status.LowFrames)

	a.currentAlertID = uuid.NewString()
	if a.store != nil {
		err := a.store.Alerts().Create(&store.Alert{
			ID:            a.currentAlertID,
			SessionID:     a.sessionID,
			Seq:           a.alertSeq,
			PeakLowFrames: status.LowFrames,
			MinEAR:        sample.Value,
		})
		if err != nil {
			log.Printf("Error recording alert: %v", err)
		}
	}

	event := a.newEvent(alert.EventRaise, sample, status)
	a.dispatch(event)

	if a.player != nil {
		go func() {
			if err := a.player.Play(); err != nil {
				log.Printf("Error playing alert sound: %v", err)
			}
		}()
	}
}

func (a *App) clearAlert(sample ear.Sample, status drowsy.Status) {
	log.Printf("Alert #%d cleared", a.alertSeq)

	if a.store != nil && a.currentAlertID != "" {
		if err := a.store.Alerts().Clear(a.currentAlertID, a.peakLowFrames, a.minEAR); err != nil {
			log.Printf("Error clearing alert: %v", err)
		}
	}
	a.currentAlertID = ""

	a.dispatch(a.newEvent(alert.EventClear, sample, status))
}

func (a *App) newEvent(eventType string, sample ear.Sample, status drowsy.Status) alert.Event {
	return alert.Event{
		Type:      eventType,
		EAR:       sample.Value,
		LowFrames: status.LowFrames,
		AlertSeq:  a.alertSeq,
		Timestamp: time.Now().UnixMilli(),
	}
}

// dispatch fans an event out to all subscribed hooks without blocking
// the frame loop, then invokes the alert callback.
func (a *App) dispatch(event alert.Event) {
	for _, hook := range a.hooks.List() {
		if !hook.Wants(event.Type) {
			continue
		}
		go func(h *alert.Hook) {
			if _, err := a.hookExec.Execute(h, &event); err != nil {
				log.Printf("Hook %s failed: %v", h.Manifest.Name, err)
			}
		}(hook)
	}

	a.mu.RLock()
	callback := a.onAlert
	a.mu.RUnlock()
	if callback != nil {
		callback(event)
	}
}

// publish stores the latest per-frame result for the HTTP layer.
func (a *App) publish(face *detector.Face, sample ear.Sample, status drowsy.Status) {
	a.snapMu.Lock()
	defer a.snapMu.Unlock()

	a.lastFace = face
	a.lastSample = sample
	a.lastStatus = status
	a.snap = Snapshot{
		State:       status.State,
		LowFrames:   status.LowFrames,
		AlertActive: status.AlertActive(),
		EAR:         sample.Value,
		EARPresent:  sample.Present,
		FaceVisible: face != nil,
		AlertCount:  a.alertSeq,
		FPS:         a.fpsCached,
		SessionID:   a.sessionID,
	}
}

// Annotate draws the latest detection result onto a frame. Used by the
// MJPEG stream handler, which reads its own frames from the camera.
func (a *App) Annotate(frame *gocv.Mat) {
	a.snapMu.RLock()
	face := a.lastFace
	sample := a.lastSample
	status := a.lastStatus
	fps := a.fpsCached
	a.snapMu.RUnlock()

	a.renderer.Draw(frame, face, sample, status, fps)
}

// updateFPS recomputes the measured frame rate once per second.
func (a *App) updateFPS() {
	a.fpsCount++
	elapsed := time.Since(a.fpsStart)

	if elapsed > time.Second {
		a.snapMu.Lock()
		a.fpsCached = float64(a.fpsCount) / elapsed.Seconds()
		a.snapMu.Unlock()
		a.fpsCount = 0
		a.fpsStart = time.Now()
	}
}
