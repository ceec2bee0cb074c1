package heatmap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"gonum.org/v1/gonum/stat"

	"rnaseq_utils_go/annotate"
	"rnaseq_utils_go/volcano"
)

// ScaleMode selects how per-gene values are transformed.
type ScaleMode int

const (
	ScaleZScore ScaleMode = iota
	ScaleCenter
	ScaleRaw
)

// ParseScaleMode resolves a scale mode name, requiring an exact match.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch s {
	case "zscore":
		return ScaleZScore, nil
	case "center":
		return ScaleCenter, nil
	case "raw":
		return ScaleRaw, nil
	}
	return 0, fmt.Errorf("invalid scale mode %q: must be one of zscore, center, raw", s)
}

// Options configures the reshape step.
type Options struct {
	Scale        ScaleMode
	DropConstant bool // drop genes whose values never vary
}

// Facet is one group of samples sharing a facet value.
type Facet struct {
	Name         string
	SampleIdx    []int // column indices into the matrix
	SampleLabels []string
}

// Data is the reshaped heatmap input: display rows by matrix columns,
// grouped into facets.
type Data struct {
	RowLabels []string
	Facets    []Facet
	Values    [][]float64 // len(RowLabels) rows over all matrix columns
	Scale     ScaleMode
}

// Build validates the requested gene symbols, orders them by combined
// score, scales per-gene values, and groups samples into facets.
// Symbols missing from the annotation table or the matrix are warned
// about and dropped, never fatal. Duplicate-mapped symbols keep both
// gene rows, disambiguated with the stripped gene identifier.
func Build(m *ExprMatrix, meta *SampleMeta, rows []annotate.ResultRow, symbols []string,
	ann annotate.AnnotationTable, xCol, facetCol string, opts Options) (*Data, error) {

	if !meta.HasColumn(xCol) {
		return nil, fmt.Errorf("metadata has no column %q for the x axis", xCol)
	}
	if !meta.HasColumn(facetCol) {
		return nil, fmt.Errorf("metadata has no column %q for faceting", facetCol)
	}

	symIdx := ann.SymbolIndex()

	var unknown []string
	type displayRow struct {
		label  string
		geneID string
	}
	var display []displayRow
	for _, sym := range symbols {
		ids, ok := symIdx[sym]
		if !ok {
			unknown = append(unknown, sym)
			continue
		}
		sort.Strings(ids)
		for _, id := range ids {
			label := sym
			if len(ids) > 1 {
				label = fmt.Sprintf("%s (%s)", sym, stripID(id))
			}
			display = append(display, displayRow{label: label, geneID: id})
		}
	}
	if len(unknown) > 0 {
		log.Warnf("gene symbols not found in annotation: %s", strings.Join(unknown, ", "))
	}

	var missing []string
	kept := display[:0]
	for _, d := range display {
		if !m.Has(d.geneID) {
			missing = append(missing, d.label)
			continue
		}
		kept = append(kept, d)
	}
	display = kept
	if len(missing) > 0 {
		log.Warnf("genes absent from the expression matrix: %s", strings.Join(missing, ", "))
	}
	if len(display) == 0 {
		return nil, fmt.Errorf("no requested genes left to plot")
	}

	// Rank rows by descending |combined score|; genes missing from the
	// result table score 0 and sort last.
	score := make(map[string]float64, len(rows))
	for _, r := range rows {
		s := volcano.DEScore(r)
		if math.IsNaN(s) {
			s = 0
		}
		score[r.GeneID] = s
	}
	sort.SliceStable(display, func(i, j int) bool {
		return score[display[i].geneID] > score[display[j].geneID]
	})

	var labels []string
	var values [][]float64
	for _, d := range display {
		raw := m.Row(d.geneID)
		if opts.DropConstant && isConstant(raw) {
			log.Warnf("dropping %s: constant across all samples", d.label)
			continue
		}
		values = append(values, scaleRow(raw, opts.Scale))
		labels = append(labels, d.label)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no requested genes left to plot")
	}

	facets, err := groupFacets(m, meta, xCol, facetCol)
	if err != nil {
		return nil, err
	}

	return &Data{RowLabels: labels, Facets: facets, Values: values, Scale: opts.Scale}, nil
}

// stripID shortens an Ensembl-style identifier for display: version
// suffix, alphabetic prefix, and leading zeros removed.
func stripID(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		id = id[:i]
	}
	trimmed := strings.TrimLeft(id, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	trimmed = strings.TrimLeft(trimmed, "0")
	if trimmed == "" {
		return id
	}
	return trimmed
}

func isConstant(vals []float64) bool {
	if len(vals) == 0 {
		return true
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// scaleRow transforms one gene's expression vector under the mode.
func scaleRow(raw []float64, mode ScaleMode) []float64 {
	out := make([]float64, len(raw))
	switch mode {
	case ScaleRaw:
		copy(out, raw)
	case ScaleCenter:
		mean := stat.Mean(raw, nil)
		for i, v := range raw {
			out[i] = v - mean
		}
	case ScaleZScore:
		mean := stat.Mean(raw, nil)
		sd := stat.StdDev(raw, nil)
		if sd == 0 || math.IsNaN(sd) {
			// degenerate z-score; keep the centered values
			for i, v := range raw {
				out[i] = v - mean
			}
			break
		}
		for i, v := range raw {
			out[i] = (v - mean) / sd
		}
	}
	return out
}

// groupFacets splits matrix columns by the facet column value,
// preserving metadata row order, and labels samples by the x column.
func groupFacets(m *ExprMatrix, meta *SampleMeta, xCol, facetCol string) ([]Facet, error) {
	byName := map[string]*Facet{}
	var order []string
	for j, sample := range m.Samples {
		fv, err := meta.Get(sample, facetCol)
		if err != nil {
			return nil, err
		}
		xv, err := meta.Get(sample, xCol)
		if err != nil {
			return nil, err
		}
		f, ok := byName[fv]
		if !ok {
			f = &Facet{Name: fv}
			byName[fv] = f
			order = append(order, fv)
		}
		f.SampleIdx = append(f.SampleIdx, j)
		f.SampleLabels = append(f.SampleLabels, xv)
	}

	facets := make([]Facet, len(order))
	for i, name := range order {
		facets[i] = *byName[name]
	}
	return facets, nil
}
