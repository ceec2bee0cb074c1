package ora

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	common "rnaseq_utils_go/utils"
)

// Layout selects which direction panels the composite contains.
type Layout int

const (
	LayoutBoth Layout = iota
	LayoutUpOnly
	LayoutDownOnly
)

// ParseLayout resolves a layout name, requiring an exact match.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "both":
		return LayoutBoth, nil
	case "up":
		return LayoutUpOnly, nil
	case "down":
		return LayoutDownOnly, nil
	}
	return 0, fmt.Errorf("invalid layout %q: must be one of both, up, down", s)
}

var directionColors = map[Direction]color.RGBA{
	Up:   {R: 202, G: 32, B: 38, A: 255},
	Down: {R: 35, G: 70, B: 156, A: 255},
}

// Plot renders up- and down-regulated enrichment as stacked horizontal
// bar panels sharing one maximum-ratio x-scale. Gene set names are
// drawn as inline labels truncated to labelWidth runes. It returns the
// composite and the recommended export height.
func Plot(results []Result, cutoff float64, layout Layout, labelWidth int) (*common.Composite, vg.Length, error) {
	byDir := map[Direction][]Result{}
	for _, r := range results {
		if r.AdjP > cutoff {
			continue
		}
		byDir[r.Direction] = append(byDir[r.Direction], r)
	}

	var dirs []Direction
	switch layout {
	case LayoutBoth:
		dirs = []Direction{Up, Down}
	case LayoutUpOnly:
		dirs = []Direction{Up}
	case LayoutDownOnly:
		dirs = []Direction{Down}
	}

	maxRatio := 0.0
	for _, dir := range dirs {
		for _, r := range byDir[dir] {
			if r.EnrichmentRatio > maxRatio {
				maxRatio = r.EnrichmentRatio
			}
		}
	}
	if maxRatio == 0 {
		return nil, 0, fmt.Errorf("no enrichment results pass adjusted p-value cutoff %g", cutoff)
	}

	var rows [][]*plot.Plot
	total := vg.Length(0)
	for _, dir := range dirs {
		kept := byDir[dir]
		if len(kept) == 0 {
			continue
		}
		p, h, err := directionPanel(kept, dir, maxRatio, labelWidth)
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, []*plot.Plot{p})
		total += h
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no enrichment results pass adjusted p-value cutoff %g", cutoff)
	}

	comp := &common.Composite{
		Plots:  rows,
		Width:  6 * vg.Inch,
		Height: total,
	}
	return comp, total, nil
}

// directionPanel draws one direction's bar panel. Panel height scales
// with the surviving row count.
func directionPanel(kept []Result, dir Direction, maxRatio float64, labelWidth int) (*plot.Plot, vg.Length, error) {
	sort.Slice(kept, func(i, j int) bool { return kept[i].EnrichmentRatio < kept[j].EnrichmentRatio })

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s-regulated", dir)
	p.X.Label.Text = "Enrichment Ratio"
	p.X.Max = maxRatio * 1.05

	vals := make(plotter.Values, len(kept))
	for i, r := range kept {
		vals[i] = r.EnrichmentRatio
	}
	b, err := plotter.NewBarChart(vals, vg.Points(10))
	if err != nil {
		return nil, 0, err
	}
	b.Horizontal = true
	b.Color = directionColors[dir]
	b.LineStyle.Width = 0
	p.Add(b)

	// Inline set-name labels instead of axis ticks.
	blank := make([]string, len(kept))
	p.NominalY(blank...)

	xys := make(plotter.XYs, len(kept))
	names := make([]string, len(kept))
	for i, r := range kept {
		xys[i] = plotter.XY{X: maxRatio * 0.01, Y: float64(i)}
		names[i] = common.Truncate(r.Set, labelWidth)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return nil, 0, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(8)
		labels.TextStyle[i].XAlign = text.XLeft
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)

	height := vg.Length(0.8)*vg.Inch + vg.Length(len(kept))*vg.Inch*3/10
	return p, height, nil
}
