package gsea

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Subset restricts the bar plot to one enrichment direction.
type Subset int

const (
	SubsetAll Subset = iota
	SubsetPositive
	SubsetNegative
)

// ParseSubset resolves a subset name, requiring an exact match.
func ParseSubset(s string) (Subset, error) {
	switch s {
	case "all":
		return SubsetAll, nil
	case "positive":
		return SubsetPositive, nil
	case "negative":
		return SubsetNegative, nil
	}
	return 0, fmt.Errorf("invalid subset %q: must be one of all, positive, negative", s)
}

// Significance bins for bar coloring, darkest first.
var nesBinColors = []struct {
	max float64
	col color.RGBA
}{
	{0.001, color.RGBA{R: 8, G: 48, B: 107, A: 255}},
	{0.01, color.RGBA{R: 33, G: 113, B: 181, A: 255}},
	{0.05, color.RGBA{R: 107, G: 174, B: 214, A: 255}},
	{1.0, color.RGBA{R: 198, G: 219, B: 239, A: 255}},
}

func nesBarColor(adjP float64) color.RGBA {
	for _, b := range nesBinColors {
		if adjP <= b.max {
			return b.col
		}
	}
	return nesBinColors[len(nesBinColors)-1].col
}

// BarPlot draws a horizontal bar chart of normalized enrichment
// scores. Sets with adjusted p-value above the cutoff are excluded,
// not grayed out. The returned height grows linearly with the number
// of surviving sets so multi-figure exports stay comparable.
func BarPlot(results []Result, cutoff float64, subset Subset) (*plot.Plot, vg.Length, error) {
	var kept []Result
	for _, r := range results {
		if r.AdjP > cutoff {
			continue
		}
		if subset == SubsetPositive && r.NES <= 0 {
			continue
		}
		if subset == SubsetNegative && r.NES >= 0 {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return nil, 0, fmt.Errorf("no gene sets pass adjusted p-value cutoff %g", cutoff)
	}

	// Bottom-to-top nominal axis: ascending NES puts the strongest
	// positive enrichment on top.
	sort.Slice(kept, func(i, j int) bool { return kept[i].NES < kept[j].NES })

	p := plot.New()
	p.Title.Text = "Gene Set Enrichment"
	p.X.Label.Text = "Normalized Enrichment Score"

	names := make([]string, len(kept))
	for i, r := range kept {
		names[i] = r.Set
	}

	// One BarChart per bar keeps per-bar significance coloring; all
	// charts share the nominal positions via zero padding.
	for i, r := range kept {
		vals := make(plotter.Values, len(kept))
		vals[i] = r.NES
		b, err := plotter.NewBarChart(vals, vg.Points(12))
		if err != nil {
			return nil, 0, err
		}
		b.Horizontal = true
		b.Color = nesBarColor(r.AdjP)
		b.LineStyle.Width = 0
		p.Add(b)
	}
	p.NominalY(names...)

	height := vg.Length(0.75)*vg.Inch + vg.Length(len(kept))*vg.Inch/4
	return p, height, nil
}
