package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// Viewport is the window geometry reported by the environment.
type Viewport struct {
	InnerWidth   int
	InnerHeight  int
	ScreenHeight int
}

// Unit returns the height of one viewport-height percent in pixels.
func (v Viewport) Unit() float64 {
	return float64(v.InnerHeight) * 0.01
}

// KeyboardVisible reports whether the visible height shrank below ratio of the
// screen height, which on Android means the soft keyboard is open.
func (v Viewport) KeyboardVisible(ratio float64) bool {
	if v.ScreenHeight <= 0 {
		return false
	}
	return float64(v.InnerHeight) < float64(v.ScreenHeight)*ratio
}

// Orientation is the device orientation derived from the rotation angle.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// OrientationFromAngle maps a rotation angle (0, 90, -90, 180) to an orientation.
func OrientationFromAngle(angle int) Orientation {
	if angle == 90 || angle == -90 {
		return OrientationLandscape
	}
	return OrientationPortrait
}

// ParseOrientation resolves "portrait" or "landscape", case-insensitively.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case OrientationPortrait, OrientationLandscape:
		return o, nil
	}
	return "", fmt.Errorf("orientation must be portrait or landscape, got %q", s)
}

// Angle returns the rotation angle reported for the orientation.
func (o Orientation) Angle() int {
	if o == OrientationLandscape {
		return 90
	}
	return 0
}

// DeviceProfile describes the client detected at startup.
type DeviceProfile struct {
	Mobile  bool
	Android bool
	Chrome  bool
}

var (
	mobileUA  = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
	androidUA = regexp.MustCompile(`(?i)Android`)
	chromeUA  = regexp.MustCompile(`(?i)Chrome`)
)

// DetectDevice classifies the client from its user agent, width and touch support.
func DetectDevice(userAgent string, viewport Viewport, touch bool, mobileMaxWidth int) DeviceProfile {
	android := androidUA.MatchString(userAgent)
	mobile := mobileUA.MatchString(userAgent) || touch ||
		(viewport.InnerWidth > 0 && viewport.InnerWidth <= mobileMaxWidth)
	return DeviceProfile{
		Mobile:  mobile,
		Android: android,
		Chrome:  android && chromeUA.MatchString(userAgent),
	}
}

// IntersectionEntry is one observation of a page section crossing the viewport.
type IntersectionEntry struct {
	TargetID     string
	Ratio        float64
	Intersecting bool
}
