package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DisplayServer represents the type of display server in use
type DisplayServer string

const (
	DisplayServerWayland DisplayServer = "wayland"
	DisplayServerX11     DisplayServer = "x11"
	DisplayServerUnknown DisplayServer = "unknown"
)

// Dependency represents a required external dependency
type Dependency struct {
	Name        string // Command name (e.g., "grim")
	Description string // Human-readable description
	Required    bool   // If true, app cannot run without it
}

// CheckResult contains the result of checking a dependency
type CheckResult struct {
	Dependency Dependency
	Available  bool
	Path       string // Path to the executable if found
	Error      error  // Error if check failed
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// DetectDisplayServer determines if running on Wayland or X11
func DetectDisplayServer() DisplayServer {
	// Check for Wayland first
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	// Check for X11
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// GetDisplayServerName returns a human-readable name for the display server
func GetDisplayServerName() string {
	switch DetectDisplayServer() {
	case DisplayServerWayland:
		return "Wayland"
	case DisplayServerX11:
		return "X11"
	default:
		return "Unknown"
	}
}

// IsTerminalOnly checks if we're in a terminal-only environment (no graphical display)
func IsTerminalOnly() bool {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return true
	}

	return os.Getenv("XDG_SESSION_TYPE") == "tty"
}

// WaylandDeps lists dependencies specific to Wayland
var WaylandDeps = []Dependency{
	{
		Name:        "grim",
		Description: "Wayland screen capture",
		Required:    true,
	},
	{
		Name:        "hyprctl",
		Description: "Hyprland monitor layout",
		Required:    true,
	},
	{
		Name:        "wl-copy",
		Description: "Wayland clipboard",
		Required:    false,
	},
}

// X11Deps lists dependencies specific to X11
// Note: X11 capture and pointer polling talk to the server directly
var X11Deps = []Dependency{
	{
		Name:        "xclip",
		Description: "X11 clipboard",
		Required:    false,
	},
	{
		Name:        "xsel",
		Description: "Alternative X11 clipboard",
		Required:    false,
	},
}

// OptionalDeps lists optional dependencies that enhance functionality
var OptionalDeps = []Dependency{
	{
		Name:        "notify-send",
		Description: "Desktop notifications (falls back to D-Bus)",
		Required:    false,
	},
	{
		Name:        "paplay",
		Description: "Audio playback for the decode chime",
		Required:    false,
	},
}

func serverDeps() []Dependency {
	switch DetectDisplayServer() {
	case DisplayServerWayland:
		return WaylandDeps
	case DisplayServerX11:
		return X11Deps
	default:
		return nil
	}
}

// GetRequiredDeps returns the required dependencies based on current display server
func GetRequiredDeps() []Dependency {
	var deps []Dependency
	for _, d := range serverDeps() {
		if d.Required {
			deps = append(deps, d)
		}
	}
	return deps
}

// GetOptionalDeps returns the optional dependencies based on current display server
func GetOptionalDeps() []Dependency {
	var deps []Dependency
	for _, d := range serverDeps() {
		if !d.Required {
			deps = append(deps, d)
		}
	}
	return append(deps, OptionalDeps...)
}

// Check verifies if a single dependency is available
func Check(dep Dependency) CheckResult {
	result := CheckResult{Dependency: dep}

	path, err := lookPath(dep.Name)
	if err != nil {
		result.Available = false
		result.Error = err
	} else {
		result.Available = true
		result.Path = path
	}

	return result
}

// CheckAll verifies all required and optional dependencies
func CheckAll() (required []CheckResult, optional []CheckResult) {
	for _, dep := range GetRequiredDeps() {
		required = append(required, Check(dep))
	}
	for _, dep := range GetOptionalDeps() {
		optional = append(optional, Check(dep))
	}
	return required, optional
}

// MissingRequired returns a list of missing required dependencies
func MissingRequired() []CheckResult {
	var missing []CheckResult
	for _, dep := range GetRequiredDeps() {
		result := Check(dep)
		if !result.Available {
			missing = append(missing, result)
		}
	}
	return missing
}

// HasAllRequired returns true if all required dependencies are available
func HasAllRequired() bool {
	return len(MissingRequired()) == 0
}

// FormatMissing returns a formatted string of missing dependencies
func FormatMissing(results []CheckResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing dependencies:\n\n")

	for _, r := range results {
		status := "MISSING"
		if r.Dependency.Required {
			status = "REQUIRED"
		}
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", r.Dependency.Name, status))
		sb.WriteString(fmt.Sprintf("    %s\n\n", r.Dependency.Description))
	}

	return sb.String()
}
