// Package pointer reads the live pointer state from the display server.
package pointer

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/kartoza/kartoza-qrgrab/internal/geometry"
	"github.com/kartoza/kartoza-qrgrab/internal/gesture"
)

// ErrUnavailable is returned when no pointer backend can be opened.
var ErrUnavailable = errors.New("pointer backend unavailable")

// X11 polls the pointer with QueryPointer against the root window. Under
// XWayland it only sees the pointer while it is over X clients.
type X11 struct {
	conn *xgb.Conn
	root xproto.Window
}

// OpenX11 connects to the display named by $DISPLAY, or display when set.
func OpenX11(display string) (*X11, error) {
	var (
		conn *xgb.Conn
		err  error
	)
	if display != "" {
		conn, err = xgb.NewConnDisplay(display)
	} else {
		conn, err = xgb.NewConn()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to X server: %w", ErrUnavailable, err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)

	return &X11{conn: conn, root: screen.Root}, nil
}

// Poll implements gesture.PointerSource.
func (p *X11) Poll() (gesture.Sample, error) {
	reply, err := xproto.QueryPointer(p.conn, p.root).Reply()
	if err != nil {
		return gesture.Sample{}, fmt.Errorf("failed to query pointer: %w", err)
	}

	return sampleFromMask(reply.RootX, reply.RootY, reply.Mask), nil
}

// Close releases the X connection.
func (p *X11) Close() error {
	p.conn.Close()
	return nil
}

func sampleFromMask(x, y int16, mask uint16) gesture.Sample {
	return gesture.Sample{
		Position: geometry.Coord{X: int(x), Y: int(y)},
		Pressed:  mask&xproto.KeyButMaskButton1 != 0,
	}
}
