// Package echarts renders a map view's overlays as a standalone HTML chart.
package echarts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/pkg/geospatial"
)

// circleSegments is how many points outline a radius circle.
const circleSegments = 72

var styleColors = map[domain.MarkerStyle]string{
	domain.MarkerCenter:  "#1a73e8",
	domain.MarkerDefault: "#d93025",
	domain.MarkerSaved:   "#f9ab00",
}

// Snapshot describes one rendering.
type Snapshot struct {
	Title    string
	Subtitle string
	Overlays []domain.Overlay
}

// Render writes s as an HTML page with longitude on x and latitude on y.
// Layers are drawn in ascending z-index so the top layer wins.
func Render(w io.Writer, s Snapshot) error {
	overlays := append([]domain.Overlay(nil), s.Overlays...)
	sort.SliceStable(overlays, func(i, j int) bool {
		return overlays[i].ZIndex < overlays[j].ZIndex
	})

	extent, ok := Extent(overlays)
	if !ok {
		return fmt.Errorf("nothing to render")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: s.Title,
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    s.Title,
			Subtitle: s.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "lng", Type: "value", Min: extent.MinLng, Max: extent.MaxLng}),
		charts.WithYAxisOpts(opts.YAxis{Name: "lat", Type: "value", Min: extent.MinLat, Max: extent.MaxLat}),
	)

	var circle, places, saved, center []opts.ScatterData
	for _, o := range overlays {
		switch o.Kind {
		case domain.OverlayRadiusCircle:
			circle = append(circle, circlePoints(o.Position, o.RadiusMeters)...)
		case domain.OverlayCenterMarker:
			center = append(center, point(o, 14))
		case domain.OverlayPlaceMarker:
			if o.Style == domain.MarkerSaved {
				saved = append(saved, point(o, 12))
			} else {
				places = append(places, point(o, 10))
			}
		}
	}

	addSeries(scatter, "radius", circle, "#1a73e8")
	addSeries(scatter, "places", places, styleColors[domain.MarkerDefault])
	addSeries(scatter, "saved", saved, styleColors[domain.MarkerSaved])
	addSeries(scatter, "center", center, styleColors[domain.MarkerCenter])

	return scatter.Render(w)
}

// RenderHTML is Render into a byte slice.
func RenderHTML(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extent returns the box covering every overlay, including the full extent
// of radius circles. It reports false when there is nothing to cover.
func Extent(overlays []domain.Overlay) (domain.Bounds, bool) {
	var b domain.Bounds
	seeded := false
	grow := func(p domain.GeoPoint) {
		if !seeded {
			b = domain.Bounds{MinLat: p.Lat, MinLng: p.Lng, MaxLat: p.Lat, MaxLng: p.Lng}
			seeded = true
			return
		}
		b = b.Extend(p)
	}

	for _, o := range overlays {
		if o.Kind == domain.OverlayRadiusCircle && o.RadiusMeters > 0 {
			box := geospatial.Around(o.Position, o.RadiusMeters)
			grow(domain.GeoPoint{Lat: box.MinLat, Lng: box.MinLng})
			grow(domain.GeoPoint{Lat: box.MaxLat, Lng: box.MaxLng})
			continue
		}
		grow(o.Position)
	}
	return b, seeded
}

func addSeries(chart *charts.Scatter, name string, data []opts.ScatterData, color string) {
	if len(data) == 0 {
		return
	}
	chart.AddSeries(name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
}

func point(o domain.Overlay, size int) opts.ScatterData {
	name := o.Title
	if name == "" {
		name = o.Key
	}
	return opts.ScatterData{
		Name:       name,
		Value:      []float64{o.Position.Lng, o.Position.Lat},
		SymbolSize: size,
	}
}

func circlePoints(center domain.GeoPoint, radius float64) []opts.ScatterData {
	box := geospatial.Around(center, radius)
	dLat := (box.MaxLat - box.MinLat) / 2
	dLng := (box.MaxLng - box.MinLng) / 2

	pts := make([]opts.ScatterData, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		pts = append(pts, opts.ScatterData{
			Name:       fmt.Sprintf("%.0fm", radius),
			Value:      []float64{center.Lng + dLng*math.Cos(theta), center.Lat + dLat*math.Sin(theta)},
			SymbolSize: 3,
		})
	}
	return pts
}
