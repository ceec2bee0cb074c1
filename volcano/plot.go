package volcano

import (
	"image/color"
	"math"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"rnaseq_utils_go/annotate"
	common "rnaseq_utils_go/utils"
)

var classColors = map[Class]color.RGBA{
	NotSig:  {R: 180, G: 180, B: 180, A: 255},
	UpReg:   {R: 202, G: 32, B: 38, A: 255},
	DownReg: {R: 35, G: 70, B: 156, A: 255},
}

// Plot renders the volcano scatter: symmetric x-range, dashed guides
// at the thresholds, direction-colored significant points, and
// repelled text labels for the top-scoring significant genes.
func Plot(rows []annotate.ResultRow, opts Options) (*plot.Plot, error) {
	labeled, err := labelSet(rows, opts)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Volcano Plot"
	p.X.Label.Text = "log2 Fold Change"
	p.Y.Label.Text = "-log10 Adjusted p-value"
	p.Add(plotter.NewGrid())

	byClass := map[Class]plotter.XYs{}
	var xs []float64
	yMax := 0.0
	type labelPoint struct {
		x, y float64
		text string
	}
	var labelPts []labelPoint
	var zeroP []string

	for _, r := range rows {
		if math.IsNaN(r.Log2FC) || math.IsNaN(r.AdjP) {
			continue
		}
		y := -math.Log10(r.AdjP)
		if math.IsInf(y, 1) {
			// p = 0 has no finite plotting position
			zeroP = append(zeroP, r.GeneID)
			continue
		}
		cls := Classify(r, opts.FCCutoff, opts.PadjCutoff)
		byClass[cls] = append(byClass[cls], plotter.XY{X: r.Log2FC, Y: y})
		xs = append(xs, r.Log2FC)
		if y > yMax {
			yMax = y
		}
		if labeled[r.GeneID] {
			name := r.Symbol
			if name == "" {
				name = r.GeneID
			}
			labelPts = append(labelPts, labelPoint{x: r.Log2FC, y: y, text: name})
		}
	}

	if len(zeroP) > 0 {
		log.Warnf("genes with adjusted p-value 0 cannot be plotted: %s", strings.Join(zeroP, ", "))
	}

	// Draw the non-significant cloud first so colored points sit on top.
	for _, cls := range []Class{NotSig, UpReg, DownReg} {
		pts := byClass[cls]
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  classColors[cls],
			Radius: vg.Points(1.5),
			Shape:  draw.CircleGlyph{},
		}
		p.Add(s)
	}

	xMax := common.SymmetricMax(xs) * 1.05
	if xMax == 0 {
		xMax = 1
	}
	p.X.Min, p.X.Max = -xMax, xMax
	p.Y.Min = 0

	for _, gx := range []float64{-opts.FCCutoff, opts.FCCutoff} {
		p.Add(guideLine(plotter.XYs{{X: gx, Y: 0}, {X: gx, Y: yMax * 1.05}}))
	}
	gy := -math.Log10(opts.PadjCutoff)
	p.Add(guideLine(plotter.XYs{{X: -xMax, Y: gy}, {X: xMax, Y: gy}}))

	if len(labelPts) > 0 {
		// Greedy vertical repulsion: sort by x then nudge labels that
		// collide with an already placed neighbor.
		sort.Slice(labelPts, func(i, j int) bool { return labelPts[i].x < labelPts[j].x })
		minDx := xMax * 0.08
		minDy := yMax * 0.03
		for i := 1; i < len(labelPts); i++ {
			prev, cur := &labelPts[i-1], &labelPts[i]
			if cur.x-prev.x < minDx && math.Abs(cur.y-prev.y) < minDy {
				cur.y = prev.y + minDy
			}
		}

		xys := make(plotter.XYs, len(labelPts))
		texts := make([]string, len(labelPts))
		for i, lp := range labelPts {
			xys[i] = plotter.XY{X: lp.x, Y: lp.y}
			texts[i] = lp.text
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Font.Size = vg.Points(7)
		}
		labels.Offset = vg.Point{X: vg.Points(3), Y: vg.Points(2)}
		p.Add(labels)
	}

	return p, nil
}

func guideLine(pts plotter.XYs) *plotter.Line {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return &plotter.Line{}
	}
	l.LineStyle.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	return l
}
