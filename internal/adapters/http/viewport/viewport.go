// Package viewport decides how the navigation shell renders for a given
// screen width. Wide screens get a docked sidebar; narrow screens get a
// hamburger-toggled drawer. The client reports its width via a cookie so
// server-rendered pages pick the right shell on first paint.
package viewport

import (
	"net/http"
	"strconv"
)

// Breakpoint is the width in CSS pixels at which the shell switches.
// Widths >= Breakpoint dock the sidebar; anything narrower uses the drawer.
const Breakpoint = 768

// Mode is the navigation shell variant.
type Mode string

const (
	ModeDocked Mode = "docked"
	ModeDrawer Mode = "drawer"
)

const widthCookieName = "budo_viewport"

// ForWidth maps a viewport width to its shell mode.
// POST: width >= Breakpoint yields ModeDocked, otherwise ModeDrawer
func ForWidth(width int) Mode {
	if width >= Breakpoint {
		return ModeDocked
	}
	return ModeDrawer
}

// FromRequest reads the client-reported width cookie. Without one the shell
// defaults to docked; the client script corrects the cookie on resize.
func FromRequest(r *http.Request) Mode {
	cookie, err := r.Cookie(widthCookieName)
	if err != nil {
		return ModeDocked
	}
	width, err := strconv.Atoi(cookie.Value)
	if err != nil {
		return ModeDocked
	}
	return ForWidth(width)
}
