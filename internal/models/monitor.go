package models

import "github.com/kartoza/kartoza-qrgrab/internal/geometry"

// Monitor represents a display/monitor attached to the system
type Monitor struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Focused     bool    `json:"focused"`
	Scale       float64 `json:"scale"`
	// Index is the capture backend's display index, -1 when unknown
	Index int `json:"-"`
}

// CursorPosition represents the current cursor position
type CursorPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin returns the monitor's top left corner in virtual desktop space
func (m *Monitor) Origin() geometry.Coord {
	return geometry.Coord{X: m.X, Y: m.Y}
}

// Bounds returns the monitor's rectangle in virtual desktop space
func (m *Monitor) Bounds() geometry.BoundingBox {
	return geometry.NewFromCoords(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
}

// ContainsCursor checks if the monitor contains the given cursor position
func (m *Monitor) ContainsCursor(pos CursorPosition) bool {
	return pos.X >= m.X &&
		pos.X < m.X+m.Width &&
		pos.Y >= m.Y &&
		pos.Y < m.Y+m.Height
}
