package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kbinani/screenshot"

	"github.com/kartoza/kartoza-qrgrab/internal/deps"
	"github.com/kartoza/kartoza-qrgrab/internal/models"
)

var (
	// ErrEnumeration is returned when the monitor list cannot be obtained
	ErrEnumeration = errors.New("failed to enumerate monitors")
)

// Enumerator lists monitors in the backend's enumeration order
type Enumerator interface {
	ListMonitors(ctx context.Context) ([]models.Monitor, error)
}

// runOutput runs a command and returns its stdout; replaced in tests
var runOutput = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Hyprland lists monitors through hyprctl
type Hyprland struct{}

// ListMonitors returns all available monitors from Hyprland
func (Hyprland) ListMonitors(ctx context.Context) ([]models.Monitor, error) {
	output, err := runOutput(ctx, "hyprctl", "monitors", "-j")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to run hyprctl monitors: %w", ErrEnumeration, err)
	}

	return parseHyprctlMonitors(output)
}

func parseHyprctlMonitors(output []byte) ([]models.Monitor, error) {
	var monitors []models.Monitor
	if err := json.Unmarshal(output, &monitors); err != nil {
		return nil, fmt.Errorf("%w: failed to parse monitors JSON: %w", ErrEnumeration, err)
	}

	for i := range monitors {
		monitors[i].Index = -1
	}

	return monitors, nil
}

// Screenshot lists active displays as reported by kbinani/screenshot
// (X11, macOS, Windows)
type Screenshot struct{}

// displayBounds is indirected for tests
var (
	numActiveDisplays = screenshot.NumActiveDisplays
	getDisplayBounds  = screenshot.GetDisplayBounds
)

// ListMonitors returns one monitor per active display
func (Screenshot) ListMonitors(ctx context.Context) ([]models.Monitor, error) {
	n := numActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("%w: no active displays", ErrEnumeration)
	}

	monitors := make([]models.Monitor, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b := getDisplayBounds(i)
		monitors = append(monitors, models.Monitor{
			Name:    fmt.Sprintf("display-%d", i),
			X:       b.Min.X,
			Y:       b.Min.Y,
			Width:   b.Dx(),
			Height:  b.Dy(),
			Focused: i == 0,
			Scale:   1,
			Index:   i,
		})
	}

	return monitors, nil
}

// Detect picks the enumerator for the named backend; "auto" chooses by
// display server, preferring hyprctl on Wayland when it is installed
func Detect(backend string) (Enumerator, error) {
	switch backend {
	case "hyprland":
		return Hyprland{}, nil
	case "screenshot":
		return Screenshot{}, nil
	case "", "auto":
		if deps.DetectDisplayServer() == deps.DisplayServerWayland {
			if deps.Check(deps.Dependency{Name: "hyprctl"}).Available {
				return Hyprland{}, nil
			}
		}
		return Screenshot{}, nil
	default:
		return nil, fmt.Errorf("unknown monitor backend: %s", backend)
	}
}

// GetCursorPosition returns the current cursor position
func GetCursorPosition(ctx context.Context) (models.CursorPosition, error) {
	output, err := runOutput(ctx, "hyprctl", "cursorpos")
	if err != nil {
		return models.CursorPosition{}, fmt.Errorf("failed to get cursor position: %w", err)
	}

	return parseCursorPosition(output)
}

func parseCursorPosition(output []byte) (models.CursorPosition, error) {
	// Parse format: "x, y"
	parts := strings.Split(strings.TrimSpace(string(output)), ",")
	if len(parts) != 2 {
		return models.CursorPosition{}, fmt.Errorf("unexpected cursor position format: %s", output)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.CursorPosition{}, fmt.Errorf("failed to parse cursor X: %w", err)
	}

	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return models.CursorPosition{}, fmt.Errorf("failed to parse cursor Y: %w", err)
	}

	return models.CursorPosition{X: x, Y: y}, nil
}

// GetMouseMonitor returns the name of the monitor containing the mouse cursor
func GetMouseMonitor(ctx context.Context, monitors []models.Monitor) (string, error) {
	pos, err := GetCursorPosition(ctx)
	if err != nil {
		// Fallback to focused monitor
		return GetFocusedMonitor(monitors)
	}

	for _, m := range monitors {
		if m.ContainsCursor(pos) {
			return m.Name, nil
		}
	}

	// If no monitor found, return focused monitor
	return GetFocusedMonitor(monitors)
}

// GetFocusedMonitor returns the name of the currently focused monitor
func GetFocusedMonitor(monitors []models.Monitor) (string, error) {
	for _, m := range monitors {
		if m.Focused {
			return m.Name, nil
		}
	}

	// Return first monitor if none focused
	if len(monitors) > 0 {
		return monitors[0].Name, nil
	}

	return "", ErrNoMonitorFound
}

// GetMonitorByName returns the monitor with the given name
func GetMonitorByName(monitors []models.Monitor, name string) (*models.Monitor, error) {
	for _, m := range monitors {
		if m.Name == name {
			return &m, nil
		}
	}

	return nil, fmt.Errorf("monitor not found: %s", name)
}

// Named restricts an enumerator to the single monitor called Name
type Named struct {
	Enumerator
	Name string
}

func (n Named) ListMonitors(ctx context.Context) ([]models.Monitor, error) {
	monitors, err := n.Enumerator.ListMonitors(ctx)
	if err != nil {
		return nil, err
	}

	m, err := GetMonitorByName(monitors, n.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumeration, err)
	}

	return []models.Monitor{*m}, nil
}
