package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/kartoza/kartoza-qrgrab/internal/geometry"
	"github.com/kartoza/kartoza-qrgrab/internal/models"
)

// ErrNoMonitorFound is returned when no monitor owns the selection
var ErrNoMonitorFound = errors.New("no monitor found for selection")

// Resolve returns the first monitor, in enumeration order, whose bounds
// intersect the selection. A selection spanning several monitors resolves to
// the first one only.
func Resolve(selection geometry.BoundingBox, monitors []models.Monitor) (models.Monitor, error) {
	if len(monitors) == 0 {
		return models.Monitor{}, fmt.Errorf("%w: monitor list is empty", ErrNoMonitorFound)
	}

	for _, m := range monitors {
		if m.Bounds().Intersects(selection) {
			return m, nil
		}
	}

	return models.Monitor{}, fmt.Errorf("%w: %s", ErrNoMonitorFound, selection)
}

// ResolveFrom enumerates monitors and resolves the selection against them.
// Enumeration failures match both ErrEnumeration and ErrNoMonitorFound.
func ResolveFrom(ctx context.Context, enum Enumerator, selection geometry.BoundingBox) (models.Monitor, error) {
	monitors, err := enum.ListMonitors(ctx)
	if err != nil {
		if !errors.Is(err, ErrEnumeration) {
			err = fmt.Errorf("%w: %w", ErrEnumeration, err)
		}
		return models.Monitor{}, fmt.Errorf("%w: %w", ErrNoMonitorFound, err)
	}

	return Resolve(selection, monitors)
}
