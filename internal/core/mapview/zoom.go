package mapview

// zoomSteps maps a minimum radius in meters to a map zoom level. Ordered by
// descending radius; the first match wins.
var zoomSteps = []struct {
	minRadius float64
	zoom      int
}{
	{50000, 9},
	{25000, 10},
	{10000, 11},
	{5000, 12},
	{2500, 13},
	{1000, 14},
	{500, 15},
}

// MaxZoom is used for any radius below the smallest step.
const MaxZoom = 16

// ZoomForRadius derives the zoom level that fits a search radius.
// It is non-increasing in radius.
func ZoomForRadius(radius float64) int {
	for _, s := range zoomSteps {
		if radius >= s.minRadius {
			return s.zoom
		}
	}
	return MaxZoom
}
