package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/validation"
)

var ErrNoArtwork = errors.New("no artwork available")

// StartFunc launches a detached process.
type StartFunc func(name string, args ...string) error

// Launcher opens artwork URLs in an external image viewer.
type Launcher struct {
	viewer    string
	registry  *ViewerRegistry
	validator *validation.EndpointValidator
	start     StartFunc
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewViewerRegistry(DefaultViewersPath())
	if err != nil {
		debuglog.Warnf("viewer overrides ignored: %v", err)
	}
	if registry == nil {
		registry = &ViewerRegistry{viewers: make(map[string]ViewerDefinition), goos: runtime.GOOS}
	}
	return newLauncher(cfg.Media, registry, runtime.GOOS, exec.LookPath)
}

func newLauncher(mc config.MediaConfig, registry *ViewerRegistry, goos string, lookPath func(string) (string, error)) *Launcher {
	var candidates []string
	switch goos {
	case "darwin":
		candidates = mc.Darwin
	case "windows":
		candidates = mc.Windows
	default:
		candidates = mc.Linux
	}

	viewer := findCommand(lookPath, candidates...)
	if viewer == "" {
		viewer = mc.DefaultOpener
	}

	return &Launcher{
		viewer:    viewer,
		registry:  registry,
		validator: validation.NewStrictEndpointValidator(),
		start:     startDetached,
	}
}

// WithStart replaces the process starter.
func (l *Launcher) WithStart(start StartFunc) *Launcher {
	l.start = start
	return l
}

func (l *Launcher) Viewer() string {
	return l.viewer
}

// Open validates url and hands it to the configured viewer.
func (l *Launcher) Open(url string) error {
	if url == "" {
		return ErrNoArtwork
	}
	clean, err := l.validator.ValidateAndNormalize(url)
	if err != nil {
		return fmt.Errorf("refusing to open artwork: %w", err)
	}
	if l.viewer == "" {
		return fmt.Errorf("no image viewer found")
	}

	name, args, err := l.registry.Command(l.viewer, clean)
	if err != nil {
		name, args = l.viewer, []string{clean}
	}

	debuglog.WithFields(map[string]interface{}{"viewer": name, "url": clean}).Debugf("opening artwork")
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(lookPath func(string) (string, error), commands ...string) string {
	for _, cmd := range commands {
		if _, err := lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
