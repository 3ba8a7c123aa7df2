// Package app provides the main application logic for the Nidra drowsiness monitor.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/nidra/internal/alert"
	"github.com/ayusman/nidra/internal/capture"
	"github.com/ayusman/nidra/internal/config"
	"github.com/ayusman/nidra/internal/detector"
	"github.com/ayusman/nidra/internal/drowsy"
	"github.com/ayusman/nidra/internal/ear"
	"github.com/ayusman/nidra/internal/overlay"
	"github.com/ayusman/nidra/internal/store"
	"github.com/google/uuid"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no driver is in view.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is how long the seat must stay empty and still
	// before the pipeline drops to idle mode.
	IdleTimeoutMs = 5000
	// HookTimeoutMs bounds the execution of a single alert hook.
	HookTimeoutMs = 5000
	// PresenceThreshold is the percentage of changed pixels treated as
	// movement when waking from idle mode.
	PresenceThreshold = 1.0
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Settings config.Config
}

// Snapshot is the application's most recent per-frame result, exposed
// to the HTTP layer. It is a copy; readers never touch live state.
type Snapshot struct {
	Enabled     bool         `json:"enabled"`
	State       drowsy.State `json:"state"`
	LowFrames   int          `json:"low_frames"`
	AlertActive bool         `json:"alert_active"`
	EAR         float64      `json:"ear"`
	EARPresent  bool         `json:"ear_present"`
	FaceVisible bool         `json:"face_visible"`
	AlertCount  int          `json:"alert_count"`
	FPS         float64      `json:"fps"`
	SessionID   string       `json:"session_id"`
}

// App is the main application that orchestrates capture, detection and
// alert delivery.
type App struct {
	settings config.Config
	store    *store.Store
	camera   capture.Camera
	presence *capture.PresenceDetector
	detector detector.Detector
	monitor  *drowsy.Monitor
	renderer *overlay.Renderer
	hooks    *alert.Manager
	hookExec *alert.Executor
	player   *alert.Player
	onAlert  func(alert.Event)

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Session bookkeeping, touched only by the pipeline goroutine.
	sessionID      string
	frames         int64
	alertSeq       int
	alertActive    bool
	currentAlertID string
	peakLowFrames  int
	minEAR         float64

	// Latest per-frame result for the HTTP layer.
	snapMu     sync.RWMutex
	snap       Snapshot
	lastFace   *detector.Face
	lastSample ear.Sample
	lastStatus drowsy.Status

	// FPS measurement over a one second window.
	fpsCount  int
	fpsStart  time.Time
	fpsCached float64
}

// New creates a new App instance with the given configuration.
// The settings must already be validated.
func New(cfg Config) (*App, error) {
	monitor, err := drowsy.NewMonitor(cfg.Settings.EARThreshold, cfg.Settings.EARConsecFrames)
	if err != nil {
		return nil, err
	}

	a := &App{
		settings: cfg.Settings,
		store:    cfg.Store,
		camera:   capture.NewCamera(cfg.Settings.CameraIndex, cfg.Settings.FrameWidth, cfg.Settings.FrameHeight),
		presence: capture.NewPresenceDetector(PresenceThreshold),
		monitor:  monitor,
		renderer: overlay.New(overlay.Options{
			Landmarks: cfg.Settings.ShowLandmarks,
			EAR:       cfg.Settings.ShowEAR,
			FPS:       cfg.Settings.ShowFPS,
		}),
		hooks:    alert.NewManager(cfg.Settings.HooksDir),
		hookExec: alert.NewExecutor(HookTimeoutMs),
		enabled:  true,
		fpsStart: time.Now(),
	}

	if cfg.Settings.Sound.Enabled {
		a.player = alert.NewPlayer(cfg.Settings.Sound.Command, cfg.Settings.Sound.File)
	}

	// Try the dlib sidecar first, fall back to the mock detector
	detectorCfg := detector.DefaultConfig()
	detectorCfg.ModelPath = cfg.Settings.LandmarkModel
	if dl, err := detector.NewDlibDetector(detectorCfg); err == nil {
		a.detector = dl
		log.Println("Using dlib facial landmark detection")
	} else {
		log.Printf("dlib sidecar not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled enables or disables drowsiness monitoring.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether monitoring is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Monitor returns the drowsiness monitor.
func (a *App) Monitor() *drowsy.Monitor {
	return a.monitor
}

// Hooks returns the alert hook manager.
func (a *App) Hooks() *alert.Manager {
	return a.hooks
}

// OnAlert sets a callback invoked on every alert edge, after hooks and
// sound have been dispatched. Used by the tray to show the last alert.
func (a *App) OnAlert(fn func(alert.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAlert = fn
}

// DiscoverHooks scans the hooks directory for alert hooks.
func (a *App) DiscoverHooks() error {
	return a.hooks.Discover()
}

// Snapshot returns a copy of the latest per-frame result.
func (a *App) Snapshot() Snapshot {
	a.snapMu.RLock()
	defer a.snapMu.RUnlock()
	snap := a.snap
	snap.Enabled = a.IsEnabled()
	return snap
}

// Start begins the detection pipeline and opens a new session.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(ActiveFPS)

	a.sessionID = uuid.NewString()
	a.frames = 0
	a.alertSeq = 0
	a.alertActive = false
	a.monitor.Reset()

	if a.store != nil {
		if err := a.store.Sessions().Create(&store.Session{ID: a.sessionID}); err != nil {
			a.camera.Close()
			return err
		}
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	log.Printf("Detection pipeline started (session %s)", a.sessionID)
	return nil
}

// Stop halts the detection pipeline, finishes the session and releases
// resources. It is a no-op if the pipeline is not running.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.mu.Unlock()

	// The session counters belong to the pipeline goroutine; they can
	// only be read after it has exited.
	a.wg.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil && a.sessionID != "" {
		if err := a.store.Sessions().Finish(a.sessionID, a.frames, a.alertSeq); err != nil {
			log.Printf("Error finishing session: %v", err)
		}
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.presence.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}
