package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/ayusman/nidra/internal/alert"
	"github.com/ayusman/nidra/internal/app"
	"github.com/ayusman/nidra/internal/config"
	"github.com/ayusman/nidra/internal/server"
	"github.com/ayusman/nidra/internal/store"
	"github.com/ayusman/nidra/internal/tray"
)

func main() {
	fmt.Println("Nidra - Driver Drowsiness Monitor")

	configPath := flag.String("config", "", "path to config.yaml (default: ~/.nidra/config.yaml if present)")
	calibrate := flag.Bool("calibrate", false, "record open-eye samples and store a personal EAR threshold")
	flag.Parse()

	dataDir, err := dataDir()
	if err != nil {
		log.Fatalf("Failed to locate data directory: %v", err)
	}

	cfg, err := loadConfig(*configPath, dataDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "nidra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// A calibrated threshold from an earlier run overrides the default
	if value, err := st.Settings().Get(store.SettingCalibratedThreshold); err == nil {
		if threshold, err := strconv.ParseFloat(value, 64); err == nil && threshold > 0 {
			log.Printf("Using calibrated EAR threshold %.3f", threshold)
			cfg.EARThreshold = threshold
		}
	}

	if cfg.HooksDir == "" {
		cfg.HooksDir = filepath.Join(dataDir, "hooks")
	}

	application, err := app.New(app.Config{Store: st, Settings: cfg})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *calibrate {
		runCalibration(application, st)
		return
	}

	if err := application.DiscoverHooks(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	} else if n := len(application.Hooks().List()); n > 0 {
		log.Printf("Discovered %d alert hooks", n)
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start detection pipeline: %v", err)
	}

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	t.OnDashboard(func() {
		openBrowser(dashboardURL(cfg.ListenAddr))
	})
	t.OnQuit(func() {
		application.Stop()
	})
	application.OnAlert(func(event alert.Event) {
		if event.Type == alert.EventRaise {
			t.SetLastAlert(fmt.Sprintf("#%d at %s", event.AlertSeq, time.UnixMilli(event.Timestamp).Format("15:04:05")))
		}
	})

	// Blocks until Quit is selected
	t.Run()
}

// loadConfig resolves the configuration: an explicit path must load, the
// default path is used only if it exists.
func loadConfig(path, dataDir string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(defaultPath); err == nil {
		return config.Load(defaultPath)
	}

	return config.Default(), nil
}

func runCalibration(application *app.App, st *store.Store) {
	fmt.Println("Calibrating: look at the camera with your eyes open...")

	threshold, err := application.CalibrateThreshold(0)
	if err != nil {
		log.Fatalf("Calibration failed: %v", err)
	}

	if err := st.Settings().Set(store.SettingCalibratedThreshold, strconv.FormatFloat(threshold, 'f', 4, 64)); err != nil {
		log.Fatalf("Failed to store calibrated threshold: %v", err)
	}

	fmt.Printf("Calibrated EAR threshold %.3f saved\n", threshold)
}

func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".nidra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.nidra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".nidra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// dashboardURL turns the server listen address into a browsable URL.
// Bare ":port" and wildcard hosts map to localhost.
func dashboardURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "http://" + listenAddr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
