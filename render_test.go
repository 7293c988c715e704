package main

import (
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
)

func mustMatrix(t *testing.T, participants []string, values [][]float64) participantMatrix {
	t.Helper()
	m, err := newParticipantMatrix(participants, values)
	require.NoError(t, err)
	return m
}

// labelsBy returns tick labels ordered by tick value.
func labelsBy(ticks []plot.Tick, descending bool) []string {
	sorted := append([]plot.Tick(nil), ticks...)
	sort.Slice(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Value < sorted[j].Value
	})
	out := make([]string, len(sorted))
	for i, tk := range sorted {
		out[i] = tk.Label
	}
	return out
}

func TestRenderHeatmapTicksFollowParticipantOrder(t *testing.T) {
	t.Parallel()

	participants := []string{"zeta", "alpha", "mid"}
	m := mustMatrix(t, participants, [][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}})

	p, err := renderHeatmap(m, defaultRenderConfig())
	require.NoError(t, err)
	require.Equal(t, "Heat map for participants", p.Title.Text)

	xTicks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	yTicks := p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max)
	require.Len(t, xTicks, 3)
	require.Len(t, yTicks, 3)

	// Left to right and top to bottom, no sorting by name.
	assert.Equal(t, participants, labelsBy(xTicks, false))
	assert.Equal(t, participants, labelsBy(yTicks, true))

	assert.InDelta(t, defaultRenderConfig().LabelRotation, p.X.Tick.Label.Rotation, 1e-12)
	assert.Equal(t, draw.XRight, p.X.Tick.Label.XAlign)
	assert.Equal(t, draw.YTop, p.X.Tick.Label.YAlign)
}

func TestMatrixGridPutsFirstRowOnTop(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, []string{"A", "B", "C"}, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	grid := matrixGrid{m: m.Values}

	cols, rows := grid.Dims()
	require.Equal(t, 3, cols)
	require.Equal(t, 3, rows)

	// The top grid row (largest Y) holds matrix row 0.
	assert.Equal(t, 2.0, grid.Y(2))
	assert.Equal(t, []float64{1, 2, 3}, []float64{grid.Z(0, 2), grid.Z(1, 2), grid.Z(2, 2)})
	assert.Equal(t, []float64{7, 8, 9}, []float64{grid.Z(0, 0), grid.Z(1, 0), grid.Z(2, 0)})
	assert.Equal(t, 6.0, grid.Z(2, 1))
}

func TestNewHeatMapRange(t *testing.T) {
	t.Parallel()

	pal := heatPalette(16)
	require.Len(t, pal.Colors(), 16)

	hm := newHeatMap(mustMatrix(t, []string{"A", "B"}, [][]float64{{0.5, -2}, {3.25, 0}}), pal)
	assert.Equal(t, -2.0, hm.Min)
	assert.Equal(t, 3.25, hm.Max)

	xmin, xmax, ymin, ymax := hm.DataRange()
	assert.Equal(t, -0.5, xmin)
	assert.Equal(t, 1.5, xmax)
	assert.Equal(t, -0.5, ymin)
	assert.Equal(t, 1.5, ymax)

	flat := newHeatMap(mustMatrix(t, []string{"A", "B"}, [][]float64{{4, 4}, {4, 4}}), pal)
	assert.Equal(t, 3.5, flat.Min)
	assert.Equal(t, 4.5, flat.Max)
}

func TestNewCellLabels(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, []string{"A", "B"}, [][]float64{{0, 1}, {0.25, 0}})
	labels, err := newCellLabels(m, newHeatMap(m, heatPalette(8)))
	require.NoError(t, err)

	// Bottom row first: matrix row 1, then row 0.
	require.Equal(t, []string{"0.25", "0.00", "0.00", "1.00"}, labels.Labels)
	require.Len(t, labels.TextStyle, 4)
	assert.Equal(t, draw.XCenter, labels.TextStyle[0].XAlign)
	assert.Equal(t, color.White, labels.TextStyle[0].Color)
	assert.Equal(t, color.Black, labels.TextStyle[3].Color)
}

func TestRenderHeatmapRejects(t *testing.T) {
	t.Parallel()

	_, err := renderHeatmap(participantMatrix{}, defaultRenderConfig())
	require.ErrorIs(t, err, errEmptyMatrix)

	cfg := defaultRenderConfig()
	cfg.Colors = 1
	_, err = renderHeatmap(mustMatrix(t, []string{"A"}, [][]float64{{1}}), cfg)
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := outputPath(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "benchmark_gmi_robinsonfoulds_heatmap.svg"), got)

	_, err = outputPath(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, errOutputDirNotFound)

	regular := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(regular, nil, 0o644))
	_, err = outputPath(regular)
	require.ErrorIs(t, err, errOutputNotDir)
}

func TestWriteHeatmap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		annotate bool
	}{
		{"plain", false},
		{"annotated", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultRenderConfig()
			cfg.Annotate = tc.annotate
			m := mustMatrix(t, []string{"A", "B"}, [][]float64{{0, 1}, {1, 0}})

			p, err := renderHeatmap(m, cfg)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), outputFileName)
			require.NoError(t, writeHeatmap(path, p, cfg))

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			svg := string(b)
			assert.Contains(t, svg, "<svg")
			assert.Contains(t, svg, ">A<")
			assert.Contains(t, svg, ">B<")
			assert.Contains(t, svg, "Heat map for participants")
			assert.Equal(t, tc.annotate, strings.Contains(svg, ">1.00<"))

			_, err = os.Stat(path + ".tmp")
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestWriteHeatmapSingleParticipant(t *testing.T) {
	t.Parallel()

	cfg := defaultRenderConfig()
	p, err := renderHeatmap(mustMatrix(t, []string{"only"}, [][]float64{{0}}), cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), outputFileName)
	require.NoError(t, writeHeatmap(path, p, cfg))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}
