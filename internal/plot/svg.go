package plot

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// Canvas geometry shared by all figures.
const (
	canvasWidth  = 720
	canvasHeight = 540
	marginLeft   = 70
	marginRight  = 30
	marginTop    = 50
	marginBottom = 60
)

// palette cycles through the region fill colors, mirroring the original
// matplotlib color order.
var palette = []string{
	"#4c72b0", "#55a868", "#c44e52", "#8172b2",
	"#ccb974", "#64b5cd", "#8c8c8c", "#dd8452",
}

// RenderSVG writes a standalone SVG document for the figure.
func RenderSVG(w io.Writer, fig Figure) error {
	plotW := canvasWidth - marginLeft - marginRight
	plotH := canvasHeight - marginTop - marginBottom

	// Parameter plane to pixel mapping; F grows upward
	x := func(a float64) int {
		return marginLeft + int(a/fig.AMax*float64(plotW))
	}
	y := func(f float64) int {
		return marginTop + plotH - int(f/fig.FMax*float64(plotH))
	}

	canvas := svg.New(w)
	canvas.Start(canvasWidth, canvasHeight)
	canvas.Rect(0, 0, canvasWidth, canvasHeight, "fill:white")
	canvas.Title(fig.Title)

	// Regions, colored per distinct label
	colors := map[string]string{}
	for _, region := range fig.Regions {
		color, ok := colors[region.Label]
		if !ok {
			color = palette[len(colors)%len(palette)]
			colors[region.Label] = color
		}
		xs := make([]int, len(region.Points))
		ys := make([]int, len(region.Points))
		for i, p := range region.Points {
			xs[i] = x(p.A)
			ys[i] = y(p.F)
		}
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:0.55;stroke:black;stroke-width:1", color))
	}

	// Region labels at polygon centroids
	for _, region := range fig.Regions {
		ca, cf := centroid(region.Points)
		canvas.Text(x(ca), y(cf), region.Label,
			"font-family:sans-serif;font-size:11px;text-anchor:middle;fill:black")
	}

	// Dashed threshold guides with edge labels
	for _, guide := range fig.Guides {
		if guide.Vertical {
			canvas.Line(x(guide.Value), y(0), x(guide.Value), y(fig.FMax),
				"stroke:black;stroke-width:1;stroke-dasharray:6,4")
			canvas.Text(x(guide.Value), y(0)+16, guide.Label,
				"font-family:sans-serif;font-size:11px;text-anchor:middle")
		} else {
			canvas.Line(x(0), y(guide.Value), x(fig.AMax), y(guide.Value),
				"stroke:black;stroke-width:1;stroke-dasharray:6,4")
			canvas.Text(x(0)-6, y(guide.Value)+4, guide.Label,
				"font-family:sans-serif;font-size:11px;text-anchor:end")
		}
	}

	// Axes
	canvas.Line(x(0), y(0), x(fig.AMax), y(0), "stroke:black;stroke-width:2")
	canvas.Line(x(0), y(0), x(0), y(fig.FMax), "stroke:black;stroke-width:2")
	canvas.Text((x(0)+x(fig.AMax))/2, canvasHeight-20, "assets of the entrant (A)",
		"font-family:sans-serif;font-size:13px;text-anchor:middle")
	canvas.TranslateRotate(20, (y(0)+y(fig.FMax))/2, -90)
	canvas.Text(0, 0, "fixed costs of copying (F)",
		"font-family:sans-serif;font-size:13px;text-anchor:middle")
	canvas.Gend()

	// Title
	canvas.Text(canvasWidth/2, 28, fig.Title,
		"font-family:sans-serif;font-size:16px;font-weight:bold;text-anchor:middle")

	canvas.End()
	return nil
}

// centroid returns the arithmetic mean of the polygon corners, good enough
// for placing labels on the rectangular regions produced here.
func centroid(points []Point) (a, f float64) {
	for _, p := range points {
		a += p.A
		f += p.F
	}
	n := float64(len(points))
	return a / n, f / n
}
