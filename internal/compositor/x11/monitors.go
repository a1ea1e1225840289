// Package x11 reads monitor topology from an X server through Xinerama.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"

	"wsoverview/internal/compositor"
)

// QueryMonitors connects to the X server named by $DISPLAY and returns the
// Xinerama screen rectangles. The first screen is the primary one.
func QueryMonitors() ([]compositor.Rect, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X: %w", err)
	}
	defer conn.Close()

	if err := xinerama.Init(conn); err != nil {
		return nil, fmt.Errorf("xinerama: %w", err)
	}
	reply, err := xinerama.QueryScreens(conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("xinerama query screens: %w", err)
	}
	return screensToRects(reply.ScreenInfo), nil
}

func screensToRects(screens []xinerama.ScreenInfo) []compositor.Rect {
	out := make([]compositor.Rect, 0, len(screens))
	for _, si := range screens {
		out = append(out, compositor.Rect{
			X:      int(si.XOrg),
			Y:      int(si.YOrg),
			Width:  int(si.Width),
			Height: int(si.Height),
		})
	}
	return out
}
