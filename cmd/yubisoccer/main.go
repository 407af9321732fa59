package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/naka6ryo/yubi-soccer/internal/app"
	"github.com/naka6ryo/yubi-soccer/internal/gesture"
	"github.com/naka6ryo/yubi-soccer/internal/server"
	"github.com/naka6ryo/yubi-soccer/internal/store"
	"github.com/naka6ryo/yubi-soccer/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	mirror := flag.Bool("mirror", true, "mirror camera frames (selfie view)")
	dbPath := flag.String("db", "", "database path (default ~/.yubisoccer/yubisoccer.db)")
	headless := flag.Bool("headless", false, "run without the system tray")
	hook := flag.String("hook", "", "external command to run for every event")
	flag.Parse()

	fmt.Println("Yubi Soccer - finger gesture control")

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".yubisoccer")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "yubisoccer.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg := app.Config{
		Store:      st,
		CameraID:   *cameraID,
		Mirror:     *mirror,
		Classifier: loadTuning(st),
	}
	if *hook != "" {
		cfg.EventHooks = []string{*hook}
	}

	a := app.New(cfg)

	hub := server.NewEventHub()
	a.AddSink(hub)

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		State:     a,
		Hub:       hub,
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *headless {
		select {}
	}

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnDashboard(func() {
		openBrowser("http://localhost" + *addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})
	a.OnState(func(state gesture.State) {
		t.SetState(string(state))
	})

	t.Run()
}

// loadTuning returns the active profile's config, or the default tuning
// when no profile is active.
func loadTuning(st *store.Store) gesture.Config {
	profile, err := st.Profiles().GetActive()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to load active profile: %v", err)
		}
		return gesture.DefaultConfig()
	}
	log.Printf("Using tuning profile %q", profile.Name)
	return profile.Config
}

// findWebDir searches for the dashboard directory in common locations.
func findWebDir() string {
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

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".yubisoccer", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL in the default browser.
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
