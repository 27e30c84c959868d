package monitor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/kartoza-qrgrab/internal/geometry"
	"github.com/kartoza/kartoza-qrgrab/internal/models"
	"github.com/kartoza/kartoza-qrgrab/internal/monitor"
)

type fakeEnumerator struct {
	monitors []models.Monitor
	err      error
}

func (f fakeEnumerator) ListMonitors(context.Context) ([]models.Monitor, error) {
	return f.monitors, f.err
}

// left and right sit side by side with a seam at x=1920
var (
	left  = models.Monitor{Name: "DP-1", X: 0, Y: 0, Width: 1920, Height: 1080}
	right = models.Monitor{Name: "DP-2", X: 1920, Y: 0, Width: 2560, Height: 1440}
	above = models.Monitor{Name: "HDMI-A-1", X: -1280, Y: -1024, Width: 1280, Height: 1024}
)

func TestResolve(t *testing.T) {
	monitors := []models.Monitor{left, right, above}

	tests := []struct {
		name      string
		selection geometry.BoundingBox
		expected  string
	}{
		{"inside left", geometry.NewFromCoords(10, 10, 200, 200), "DP-1"},
		{"inside right", geometry.NewFromCoords(2000, 100, 2100, 300), "DP-2"},
		{"negative origin", geometry.NewFromCoords(-500, -500, -400, -400), "HDMI-A-1"},
		{"straddling seam picks first", geometry.NewFromCoords(1900, 10, 1950, 50), "DP-1"},
		{"ending on seam stays left", geometry.NewFromCoords(1800, 10, 1920, 50), "DP-1"},
		{"starting on seam goes right", geometry.NewFromCoords(1920, 10, 2000, 50), "DP-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := monitor.Resolve(tt.selection, monitors)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.Name)
		})
	}
}

func TestResolve_EnumerationOrderWins(t *testing.T) {
	sel := geometry.NewFromCoords(1900, 10, 1950, 50)

	m, err := monitor.Resolve(sel, []models.Monitor{right, left})
	require.NoError(t, err)
	assert.Equal(t, "DP-2", m.Name)
}

func TestResolve_NoMonitorFound(t *testing.T) {
	tests := []struct {
		name      string
		selection geometry.BoundingBox
		monitors  []models.Monitor
	}{
		{"empty list", geometry.NewFromCoords(0, 0, 10, 10), nil},
		{"off screen", geometry.NewFromCoords(9000, 9000, 9100, 9100), []models.Monitor{left, right}},
		{"zero area on seam", geometry.NewFromCoords(1920, 10, 1920, 50), []models.Monitor{left, right}},
		{"click without drag", geometry.NewFromCoords(100, 100, 100, 100), []models.Monitor{left}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := monitor.Resolve(tt.selection, tt.monitors)
			assert.ErrorIs(t, err, monitor.ErrNoMonitorFound)
		})
	}
}

func TestResolveFrom(t *testing.T) {
	t.Run("resolves from enumerator", func(t *testing.T) {
		enum := fakeEnumerator{monitors: []models.Monitor{left, right}}
		m, err := monitor.ResolveFrom(context.Background(), enum, geometry.NewFromCoords(2000, 0, 2010, 10))
		require.NoError(t, err)
		assert.Equal(t, "DP-2", m.Name)
	})

	t.Run("enumeration failure", func(t *testing.T) {
		enum := fakeEnumerator{err: errors.New("no compositor")}
		_, err := monitor.ResolveFrom(context.Background(), enum, geometry.NewFromCoords(0, 0, 10, 10))
		assert.ErrorIs(t, err, monitor.ErrNoMonitorFound)
		assert.ErrorIs(t, err, monitor.ErrEnumeration)
	})
}

func TestNamed(t *testing.T) {
	enum := monitor.Named{Enumerator: fakeEnumerator{monitors: []models.Monitor{left, right, above}}, Name: "DP-2"}

	got, err := enum.ListMonitors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Monitor{right}, got)

	enum.Name = "eDP-1"
	_, err = enum.ListMonitors(context.Background())
	assert.ErrorIs(t, err, monitor.ErrEnumeration)

	boom := errors.New("boom")
	_, err = monitor.Named{Enumerator: fakeEnumerator{err: boom}, Name: "DP-2"}.ListMonitors(context.Background())
	assert.ErrorIs(t, err, boom)
}
