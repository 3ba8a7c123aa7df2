package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// DlibDetector implements Detector using a Python dlib subprocess.
// Frames are sent as length-prefixed JPEG and landmark results come
// back as one JSON object per line.
type DlibDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewDlibDetector creates a new dlib-based detector.
// The Python process is started lazily on first detection.
func NewDlibDetector(config Config) (*DlibDetector, error) {
	scriptPath := findFaceScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("face_service.py not found")
	}

	return &DlibDetector{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the most prominent face's eye
// landmarks, or nil if no face clears the confidence threshold.
func (d *DlibDetector) Detect(frame *gocv.Mat) (*Face, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Faces []jsonFace `json:"faces"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	// The service orders faces by detection score; take the first one
	// that clears the confidence threshold.
	for _, f := range response.Faces {
		if f.Score < d.config.MinScore {
			continue
		}
		face, ok := f.toFace()
		if !ok {
			continue
		}
		return face, nil
	}

	return nil, nil
}

// Close shuts down the Python process.
func (d *DlibDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *DlibDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findFaceScript()
	if scriptPath == "" {
		return fmt.Errorf("face_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{scriptPath}
	if d.config.ModelPath != "" {
		args = append(args, "--model", d.config.ModelPath)
	}
	d.cmd = exec.Command(pythonPath, args...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start face service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	return nil
}

func (d *DlibDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *DlibDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findFaceScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/face_service.py",
		"../scripts/face_service.py",
		filepath.Join(execDir, "scripts/face_service.py"),
		filepath.Join(os.Getenv("HOME"), ".nidra/scripts/face_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".nidra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonFace represents the JSON structure from the Python service.
type jsonFace struct {
	Left  []jsonPoint `json:"left"`
	Right []jsonPoint `json:"right"`
	Score float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (f jsonFace) toFace() (*Face, bool) {
	if len(f.Left) < NumEyePoints || len(f.Right) < NumEyePoints {
		return nil, false
	}

	face := &Face{Score: f.Score}
	for i := 0; i < NumEyePoints; i++ {
		face.Left[i] = Point2D{X: f.Left[i].X, Y: f.Left[i].Y}
		face.Right[i] = Point2D{X: f.Right[i].X, Y: f.Right[i].Y}
	}

	return face, true
}
