package viewport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestForWidth tests the breakpoint boundary.
func TestForWidth(t *testing.T) {
	tests := []struct {
		width int
		want  Mode
	}{
		{1440, ModeDocked},
		{768, ModeDocked}, // boundary is inclusive on the docked side
		{767, ModeDrawer},
		{320, ModeDrawer},
		{0, ModeDrawer},
	}
	for _, tt := range tests {
		if got := ForWidth(tt.width); got != tt.want {
			t.Errorf("ForWidth(%d) = %s, want %s", tt.width, got, tt.want)
		}
	}
}

// TestFromRequest tests cookie parsing and defaults.
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   Mode
	}{
		{"noCookie", "", ModeDocked},
		{"wide", "1024", ModeDocked},
		{"narrow", "375", ModeDrawer},
		{"garbage", "wide", ModeDocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: widthCookieName, Value: tt.cookie})
			}
			if got := FromRequest(r); got != tt.want {
				t.Errorf("FromRequest() = %s, want %s", got, tt.want)
			}
		})
	}
}
