// Package monitor visualizes and summarizes computed corridors for offline
// inspection: per-cycle boundary plots and aggregate width statistics.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/corridor/internal/corridor"
	"github.com/banshee-data/corridor/internal/obstacle"
)

// BoundaryPlotter renders computed boundaries as PNG files, one per cycle:
// the lateral envelope against station, the running center line, and the
// padded obstacle footprints the corridor was threaded through.
type BoundaryPlotter struct {
	mu        sync.Mutex
	outputDir string
}

// NewBoundaryPlotter creates a plotter writing into outputDir.
func NewBoundaryPlotter(outputDir string) (*BoundaryPlotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &BoundaryPlotter{outputDir: outputDir}, nil
}

// Plot renders one cycle's boundary and returns the written file path.
func (bp *BoundaryPlotter) Plot(name string, bound *corridor.PathBoundary, polys []*obstacle.SLPolygon) (string, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bound == nil || len(bound.Points) == 0 {
		return "", fmt.Errorf("nothing to plot: empty boundary")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Path Boundary - %s", name)
	p.X.Label.Text = "Station (m)"
	p.Y.Label.Text = "Lateral (m)"

	upper := make(plotter.XYs, 0, len(bound.Points))
	lower := make(plotter.XYs, 0, len(bound.Points))
	center := make(plotter.XYs, 0, len(bound.Points))
	for _, pt := range bound.Points {
		upper = append(upper, plotter.XY{X: pt.S, Y: pt.LMax})
		lower = append(lower, plotter.XY{X: pt.S, Y: pt.LMin})
		center = append(center, plotter.XY{X: pt.S, Y: pt.CenterL})
	}

	upperLine, err := plotter.NewLine(upper)
	if err != nil {
		return "", err
	}
	upperLine.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	upperLine.Width = vg.Points(1.5)
	p.Add(upperLine)
	p.Legend.Add("upper bound", upperLine)

	lowerLine, err := plotter.NewLine(lower)
	if err != nil {
		return "", err
	}
	lowerLine.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	lowerLine.Width = vg.Points(1.5)
	p.Add(lowerLine)
	p.Legend.Add("lower bound", lowerLine)

	centerLine, err := plotter.NewLine(center)
	if err != nil {
		return "", err
	}
	centerLine.Color = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	centerLine.Width = vg.Points(1)
	centerLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(centerLine)
	p.Legend.Add("center line", centerLine)

	for _, poly := range polys {
		if poly == nil {
			continue
		}
		corners := poly.Corners()
		xys := make(plotter.XYs, 0, len(corners)+1)
		for _, c := range corners {
			xys = append(xys, plotter.XY{X: c.S, Y: c.L})
		}
		xys = append(xys, xys[0]) // close the ring
		outline, err := plotter.NewLine(xys)
		if err != nil {
			return "", err
		}
		outline.Color = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}
		outline.Width = vg.Points(1)
		p.Add(outline)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	file := filepath.Join(bp.outputDir, fmt.Sprintf("%s_boundary.png", name))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return "", fmt.Errorf("save boundary plot: %w", err)
	}
	return file, nil
}
