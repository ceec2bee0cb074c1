package heatmap

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	common "rnaseq_utils_go/utils"
)

// facetGrid adapts one facet's slice of the value matrix to the
// plotter.GridXYZ interface. Row 0 of the data is drawn on top.
type facetGrid struct {
	values [][]float64
	cols   []int
}

func (g facetGrid) Dims() (c, r int)   { return len(g.cols), len(g.values) }
func (g facetGrid) X(c int) float64    { return float64(c) }
func (g facetGrid) Y(r int) float64    { return float64(r) }
func (g facetGrid) Z(c, r int) float64 { return g.values[len(g.values)-1-r][g.cols[c]] }

// indexTicks labels integer grid positions with the given strings.
type indexTicks struct {
	labels  []string
	reverse bool
}

func (t indexTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i := int(math.Ceil(min)); i <= int(math.Floor(max)); i++ {
		j := i
		if t.reverse {
			j = len(t.labels) - 1 - i
		}
		if j < 0 || j >= len(t.labels) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: t.labels[j]})
	}
	return ticks
}

// Render draws the faceted heatmap: one aligned panel per facet group,
// diverging scale for centered or z-scored values, sequential scale
// for raw values. Tile dimensions are proportional to row and column
// counts so tiles stay square; the computed export size is returned
// with the composite.
func Render(d *Data) (*common.Composite, error) {
	var pal palette.Palette
	var minZ, maxZ float64
	if d.Scale == ScaleRaw {
		pal = palette.Heat(255, 1)
		minZ, maxZ = rawRange(d.Values)
	} else {
		var all []float64
		for _, row := range d.Values {
			all = append(all, row...)
		}
		m := common.SymmetricMax(all)
		if m == 0 {
			m = 1
		}
		cm := moreland.SmoothBlueRed()
		cm.SetMin(-m)
		cm.SetMax(m)
		pal = cm.Palette(255)
		minZ, maxZ = -m, m
	}

	panels := make([]*plot.Plot, len(d.Facets))
	totalCols := 0
	for i, f := range d.Facets {
		p := plot.New()
		p.Title.Text = f.Name
		p.X.Tick.Marker = indexTicks{labels: f.SampleLabels}
		p.X.Tick.Label.Rotation = math.Pi / 2
		if i == 0 {
			p.Y.Tick.Marker = indexTicks{labels: d.RowLabels, reverse: true}
		} else {
			p.Y.Tick.Marker = indexTicks{}
		}

		h := plotter.NewHeatMap(facetGrid{values: d.Values, cols: f.SampleIdx}, pal)
		h.Min, h.Max = minZ, maxZ
		p.Add(h)

		panels[i] = p
		totalCols += len(f.SampleIdx)
	}

	tile := vg.Length(0.3) * vg.Inch
	comp := &common.Composite{
		Plots:  [][]*plot.Plot{panels},
		Width:  vg.Length(totalCols)*tile + 2*vg.Inch,
		Height: vg.Length(len(d.RowLabels))*tile + 1.5*vg.Inch,
	}
	return comp, nil
}

func rawRange(values [][]float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for _, v := range row {
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if min > max {
		min, max = 0, 1
	}
	return min, max
}
