package timemath

// Scale maps the window's continuous minute axis onto pixels.
type Scale struct {
	Window          Window
	PixelsPerMinute float64
	// Snap is the snap interval in minutes; DefaultSnap when zero.
	Snap int
}

// SnapInterval is Snap with the default applied.
func (s Scale) SnapInterval() int {
	if s.Snap <= 0 {
		return DefaultSnap
	}
	return s.Snap
}

// X is the pixel offset of a minute on the window axis.
func (s Scale) X(axisMinute int) float64 {
	return PositionOfMinutes(float64(axisMinute), s.Window.Normalized().StartHour, s.PixelsPerMinute)
}

// XOf is the pixel offset of a time-of-day label, applying the window's
// midnight wrap.
func (s Scale) XOf(label string) float64 {
	return s.X(s.Window.Unfold(TimeToMinutes(label)))
}

// MinuteAt is the window axis minute under a pixel offset (positionToMinutes).
func (s Scale) MinuteAt(x float64) float64 {
	return MinutesAt(x, s.Window.Normalized().StartHour, s.PixelsPerMinute)
}

// SnapAt snaps the minute under x.
func (s Scale) SnapAt(x float64) int {
	return Snap(s.MinuteAt(x), s.SnapInterval())
}

// Width is the rendered width of the whole window.
func (s Scale) Width() float64 {
	return float64(s.Window.Length()) * s.PixelsPerMinute
}
