package media

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/dex/internal/validation"
)

// URLPlaceholder is replaced by the artwork URL in viewer arguments.
// Templates without it get the URL appended.
const URLPlaceholder = "{url}"

const builtinViewers = `
[viewers.open]
description = "macOS default opener"
platforms = ["darwin"]
args = ["{url}"]

[viewers.preview]
description = "macOS Preview"
platforms = ["darwin"]
args = ["-a", "Preview", "{url}"]

[viewers.feh]
description = "feh image viewer"
platforms = ["linux"]
args = ["--scale-down", "--auto-zoom", "--title", "dex", "{url}"]

[viewers.sxiv]
description = "Simple X image viewer"
platforms = ["linux"]
args = ["-a", "{url}"]

[viewers.eog]
description = "Eye of GNOME"
platforms = ["linux"]

[viewers.xdg-open]
description = "freedesktop default opener"
platforms = ["linux"]

[viewers.start]
description = "Windows shell opener"
platforms = ["windows"]
args_windows = ["/c", "start", "", "{url}"]
`

// ViewerDefinition describes how an image viewer is invoked.
type ViewerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type ViewersConfig struct {
	Viewers map[string]ViewerDefinition `toml:"viewers"`
}

// ViewerRegistry holds argument templates keyed by executable name.
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
	goos    string
}

// DefaultViewersPath is where user overrides are looked up.
func DefaultViewersPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dex", "viewers.toml")
}

// NewViewerRegistry loads the built-in definitions and merges the user
// file at userPath on top. A missing user file is not an error.
func NewViewerRegistry(userPath string) (*ViewerRegistry, error) {
	var builtin ViewersConfig
	if err := toml.Unmarshal([]byte(builtinViewers), &builtin); err != nil {
		return nil, fmt.Errorf("parsing built-in viewers: %w", err)
	}

	r := &ViewerRegistry{viewers: builtin.Viewers, goos: runtime.GOOS}
	if r.viewers == nil {
		r.viewers = make(map[string]ViewerDefinition)
	}

	if userPath == "" {
		return r, nil
	}
	if err := r.LoadFile(userPath); err != nil && !os.IsNotExist(err) {
		return r, err
	}
	return r, nil
}

// LoadFile merges definitions from a TOML file, overriding existing names.
// The file names programs to run, so it must live under the home or temp
// directory.
func (r *ViewerRegistry) LoadFile(path string) error {
	clean, err := validation.NewPathValidator().Clean(path)
	if err != nil {
		return fmt.Errorf("viewers file: %w", err)
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return err
	}
	var user ViewersConfig
	if err := toml.Unmarshal(data, &user); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for name, def := range user.Viewers {
		r.viewers[name] = def
	}
	return nil
}

func (r *ViewerRegistry) Lookup(name string) (ViewerDefinition, bool) {
	def, ok := r.viewers[name]
	return def, ok
}

// Command builds the executable and argument list for opening url with
// the named viewer. Unknown viewers get the URL as their only argument.
func (r *ViewerRegistry) Command(name, url string) (string, []string, error) {
	def, ok := r.viewers[name]
	if !ok {
		return name, []string{url}, nil
	}
	if len(def.Platforms) > 0 && !slices.Contains(def.Platforms, r.goos) {
		return "", nil, fmt.Errorf("%s not supported on %s", name, r.goos)
	}

	exe := name
	template := r.args(def)
	if r.goos == "windows" && name == "start" {
		// start is a cmd.exe builtin
		exe = "cmd"
	}
	return exe, expand(template, url), nil
}

func (r *ViewerRegistry) args(def ViewerDefinition) []string {
	switch r.goos {
	case "darwin":
		if len(def.ArgsDarwin) > 0 {
			return def.ArgsDarwin
		}
	case "linux":
		if len(def.ArgsLinux) > 0 {
			return def.ArgsLinux
		}
	case "windows":
		if len(def.ArgsWindows) > 0 {
			return def.ArgsWindows
		}
	}
	return def.Args
}

func expand(template []string, url string) []string {
	out := make([]string, 0, len(template)+1)
	substituted := false
	for _, arg := range template {
		if strings.Contains(arg, URLPlaceholder) {
			arg = strings.ReplaceAll(arg, URLPlaceholder, url)
			substituted = true
		}
		out = append(out, arg)
	}
	if !substituted {
		out = append(out, url)
	}
	return out
}
