package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

// outputFileName is written inside the output directory.
const outputFileName = "benchmark_gmi_robinsonfoulds_heatmap.svg"

// Output path errors.
var (
	errOutputDirNotFound = errors.New("output directory not found")
	errOutputNotDir      = errors.New("output path is not a directory")
)

// outputPath returns the heatmap path inside dir. dir must already exist.
func outputPath(dir string) (string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", errOutputDirNotFound, dir)
		}
		return "", fmt.Errorf("stat output dir: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s", errOutputNotDir, dir)
	}
	return filepath.Join(dir, outputFileName), nil
}

// renderHeatmap builds the plot for m. Row 0 is drawn at the top, as in an
// image, and both axes are labeled with the participants in input order.
func renderHeatmap(m participantMatrix, cfg renderConfig) (*plot.Plot, error) {
	if m.Values == nil || m.size() == 0 {
		return nil, errEmptyMatrix
	}
	if cfg.Colors < 2 {
		return nil, fmt.Errorf("palette needs at least 2 colors, got %d", cfg.Colors)
	}

	p := plot.New()
	p.Title.Text = cfg.Title

	hm := newHeatMap(m, heatPalette(cfg.Colors))
	p.Add(hm)
	if cfg.Annotate {
		labels, err := newCellLabels(m, hm)
		if err != nil {
			return nil, fmt.Errorf("cell labels: %w", err)
		}
		p.Add(labels)
	}

	p.X.Tick.Marker = plot.ConstantTicks(columnTicks(m.Participants))
	p.Y.Tick.Marker = plot.ConstantTicks(rowTicks(m.Participants))

	p.X.Tick.Label.Rotation = cfg.LabelRotation
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YTop

	// Cells touch the axes.
	p.X.Padding = 0
	p.Y.Padding = 0
	return p, nil
}

// heatPalette samples n colors from the extended black body map, dark to light.
func heatPalette(n int) palette.Palette {
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(0)
	cm.SetMax(1)
	return cm.Palette(n)
}

// matrixGrid adapts a square matrix to plotter.GridXYZ with row 0 at the top.
type matrixGrid struct {
	m *mat.Dense
}

func (g matrixGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matrixGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

// newHeatMap scales the palette between the matrix extremes. A constant
// matrix gets a unit range around its value so every cell takes the middle
// color.
func newHeatMap(m participantMatrix, pal palette.Palette) *plotter.HeatMap {
	hm := plotter.NewHeatMap(matrixGrid{m: m.Values}, pal)
	lo, hi := m.valueRange()
	hm.Min, hm.Max = lo, hi
	if lo == hi {
		hm.Min, hm.Max = lo-0.5, hi+0.5
	}
	return hm
}

// newCellLabels prints every value (%.2f) centred on its cell, white on the
// dark half of the palette and black on the light half.
func newCellLabels(m participantMatrix, hm *plotter.HeatMap) (*plotter.Labels, error) {
	grid := matrixGrid{m: m.Values}
	cols, rows := grid.Dims()

	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, cols*rows),
		Labels: make([]string, 0, cols*rows),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			xyl.Labels = append(xyl.Labels, strconv.FormatFloat(grid.Z(c, r), 'f', 2, 64))
		}
	}

	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, err
	}
	mid := (hm.Min + hm.Max) / 2
	for i := range labels.TextStyle {
		sty := &labels.TextStyle[i]
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YCenter
		sty.Color = color.White
		if grid.Z(i%cols, i/cols) > mid {
			sty.Color = color.Black
		}
	}
	return labels, nil
}

// columnTicks places participant j at x = j.
func columnTicks(participants []string) []plot.Tick {
	ticks := make([]plot.Tick, len(participants))
	for j, name := range participants {
		ticks[j] = plot.Tick{Value: float64(j), Label: name}
	}
	return ticks
}

// rowTicks places participant i at y = n-1-i so the first row is on top.
func rowTicks(participants []string) []plot.Tick {
	n := len(participants)
	ticks := make([]plot.Tick, n)
	for i, name := range participants {
		ticks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	return ticks
}

// writeHeatmap draws p onto an SVG canvas and replaces path with the result.
func writeHeatmap(path string, p *plot.Plot, cfg renderConfig) error {
	c := vgsvg.New(cfg.Width, cfg.Height)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp heatmap: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace heatmap: %w", err)
	}
	return nil
}
