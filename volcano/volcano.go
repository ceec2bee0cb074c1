// Package volcano draws fold-change versus significance scatter plots
// with threshold guides and selective gene labeling.
package volcano

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"rnaseq_utils_go/annotate"
)

// Class is a gene's differential-expression call under the thresholds.
type Class int

const (
	NotSig Class = iota
	UpReg
	DownReg
)

// Options configures classification and labeling.
type Options struct {
	FCCutoff      float64 // |log2 fold change| threshold
	PadjCutoff    float64 // adjusted p-value threshold
	LabelFraction float64 // top fraction of significant genes labeled
	CodingOnly    bool    // restrict labels to protein_coding genes
}

// Classify calls a gene up, down, or not significant. Genes with
// missing statistics are never significant.
func Classify(r annotate.ResultRow, fcCutoff, padjCutoff float64) Class {
	if math.IsNaN(r.Log2FC) || math.IsNaN(r.AdjP) || r.AdjP >= padjCutoff {
		return NotSig
	}
	switch {
	case r.Log2FC > fcCutoff:
		return UpReg
	case r.Log2FC < -fcCutoff:
		return DownReg
	}
	return NotSig
}

// DEScore is the combined differential-expression score used to rank
// label candidates: |log2FC x -log10(p)|. Missing inputs yield NaN.
func DEScore(r annotate.ResultRow) float64 {
	return math.Abs(r.Log2FC * -math.Log10(r.PValue))
}

// labelSet selects the genes to label: among genes passing both
// thresholds (and the optional biotype filter), those at or above the
// (1 - fraction) quantile of DE score.
func labelSet(rows []annotate.ResultRow, opts Options) (map[string]bool, error) {
	labeled := make(map[string]bool)
	if opts.LabelFraction <= 0 {
		return labeled, nil
	}

	type candidate struct {
		id    string
		score float64
	}
	var cands []candidate
	for _, r := range rows {
		if Classify(r, opts.FCCutoff, opts.PadjCutoff) == NotSig {
			continue
		}
		if opts.CodingOnly && r.Biotype != "protein_coding" {
			continue
		}
		s := DEScore(r)
		if math.IsNaN(s) {
			s = 0
		}
		cands = append(cands, candidate{id: r.GeneID, score: s})
	}
	if len(cands) == 0 {
		return labeled, nil
	}

	if opts.LabelFraction >= 1 {
		for _, c := range cands {
			labeled[c.id] = true
		}
		return labeled, nil
	}

	scores := make([]float64, len(cands))
	for i, c := range cands {
		scores[i] = c.score
	}
	cutoff, err := stats.Percentile(scores, 100*(1-opts.LabelFraction))
	if err != nil {
		// the percentile index falls below 1 for large fractions over
		// small candidate sets; label every candidate instead
		cutoff, err = stats.Min(scores)
		if err != nil {
			return nil, fmt.Errorf("label quantile: %w", err)
		}
	}
	for _, c := range cands {
		if c.score >= cutoff {
			labeled[c.id] = true
		}
	}
	return labeled, nil
}
