package gsea

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	common "rnaseq_utils_go/utils"
)

// Simplify drops interior trace points that sit strictly between
// their neighbors' running scores in monotonic fashion; removing them
// does not visibly alter the curve. The first and last points are
// always kept, as is any point next to a missing running score.
func Simplify(trace []TracePoint) []TracePoint {
	if len(trace) <= 2 {
		return trace
	}
	out := make([]TracePoint, 0, len(trace))
	out = append(out, trace[0])
	for i := 1; i < len(trace)-1; i++ {
		prev, cur, next := trace[i-1].Running, trace[i].Running, trace[i+1].Running
		if math.IsNaN(prev) || math.IsNaN(cur) || math.IsNaN(next) {
			out = append(out, trace[i])
			continue
		}
		if (prev < cur && cur < next) || (prev > cur && cur > next) {
			continue
		}
		out = append(out, trace[i])
	}
	out = append(out, trace[len(trace)-1])
	return out
}

// memberTicks draws one vertical tick per member gene in a horizontal
// band below the running-score axis.
type memberTicks struct {
	xs         []float64
	yTop, yBot float64
	style      draw.LineStyle
}

func (m memberTicks) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	yTop := trY(m.yTop)
	yBot := trY(m.yBot)
	for _, x := range m.xs {
		px := trX(x)
		if !c.ContainsX(px) {
			continue
		}
		c.StrokeLine2(m.style, px, yBot, px, yTop)
	}
}

func (m memberTicks) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, x := range m.xs {
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
	}
	return xmin, xmax, m.yBot, m.yTop
}

// CurvePlot overlays the running enrichment score curves of the named
// gene sets from one or more solved analyses on a single axis. When a
// set appears in several analyses its traces are concatenated. Below
// the axis, one membership tick band and one statistic annotation line
// are laid out per set, stacked with a fixed offset. Colors cycle the
// shared palette by set order.
func CurvePlot(analyses []*Analysis, setNames []string, simplify bool) (*plot.Plot, error) {
	if len(analyses) == 0 {
		return nil, fmt.Errorf("no analyses given")
	}

	type curve struct {
		name   string
		trace  []TracePoint
		result Result
	}
	var curves []curve
	for _, name := range setNames {
		var trace []TracePoint
		var res Result
		found := false
		for _, an := range analyses {
			t, ok := an.Traces[name]
			if !ok {
				continue
			}
			if !found {
				for _, r := range an.Results {
					if r.Set == name {
						res = r
						break
					}
				}
				found = true
			}
			trace = append(trace, t...)
		}
		if !found {
			continue
		}
		// Renumber positions so concatenated traces form one x-axis.
		for i := range trace {
			trace[i].Pos = i + 1
		}
		curves = append(curves, curve{name: name, trace: trace, result: res})
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("none of the requested gene sets are present in the analyses")
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, cv := range curves {
		for _, t := range cv.trace {
			if math.IsNaN(t.Running) {
				continue
			}
			yMin = math.Min(yMin, t.Running)
			yMax = math.Max(yMax, t.Running)
		}
	}
	if yMin > yMax {
		return nil, fmt.Errorf("traces contain no finite running scores")
	}
	yRange := yMax - yMin
	if yRange == 0 {
		yRange = 1
	}

	p := plot.New()
	p.Title.Text = "Running Enrichment Score"
	p.X.Label.Text = "Rank in Ordered Gene List"
	p.Y.Label.Text = "Enrichment Score"
	p.Add(plotter.NewGrid())

	// Layout below the axis: a tick band per set, then an annotation
	// line per set, each stacked with a fixed vertical offset.
	bandH := 0.06 * yRange
	annH := 0.07 * yRange
	bandTop := yMin - 0.04*yRange

	var labelXYs plotter.XYs
	var labelTexts []string

	for i, cv := range curves {
		col := common.PaletteColor(i)

		trace := cv.trace
		if simplify {
			trace = Simplify(trace)
		}
		pts := make(plotter.XYs, len(trace))
		for j, t := range trace {
			pts[j].X = float64(t.Pos)
			pts[j].Y = t.Running
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = col
		p.Add(line)
		p.Legend.Add(cv.name, line)

		var xs []float64
		for _, t := range cv.trace {
			if t.Member {
				xs = append(xs, float64(t.Pos))
			}
		}
		top := bandTop - float64(i)*bandH
		p.Add(memberTicks{
			xs:    xs,
			yTop:  top,
			yBot:  top - 0.8*bandH,
			style: draw.LineStyle{Color: col, Width: vg.Points(0.5)},
		})

		annY := bandTop - float64(len(curves))*bandH - float64(i+1)*annH
		labelXYs = append(labelXYs, plotter.XY{X: float64(len(cv.trace)) * 0.02, Y: annY})
		labelTexts = append(labelTexts, fmt.Sprintf("%s: NES=%v p=%v padj=%v",
			cv.name,
			common.Signif(cv.result.NES, 2),
			common.Signif(cv.result.PValue, 2),
			common.Signif(cv.result.AdjP, 2)))
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labelTexts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = common.PaletteColor(i)
		labels.TextStyle[i].Font.Size = vg.Points(8)
		labels.TextStyle[i].XAlign = text.XLeft
	}
	p.Add(labels)

	p.Legend.Top = true
	return p, nil
}
