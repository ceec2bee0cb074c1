// Package generank turns an annotated result table into the sorted,
// named score vector consumed by gene set enrichment testing.
package generank

import (
	"fmt"
	"math"
	"sort"

	"rnaseq_utils_go/annotate"
)

// Metric selects how the per-gene ranking score is computed.
type Metric int

const (
	MetricFoldChange Metric = iota
	MetricSignedPValue
	MetricCombined
)

// metricNames holds the exact accepted spellings. No partial matching.
var metricNames = map[string]Metric{
	"fold_change":    MetricFoldChange,
	"signed_p_value": MetricSignedPValue,
	"combined_score": MetricCombined,
}

// ParseMetric resolves a metric name, requiring an exact match.
func ParseMetric(s string) (Metric, error) {
	m, ok := metricNames[s]
	if !ok {
		return 0, fmt.Errorf("invalid ranking metric %q: must be one of fold_change, signed_p_value, combined_score", s)
	}
	return m, nil
}

func (m Metric) String() string {
	switch m {
	case MetricFoldChange:
		return "fold_change"
	case MetricSignedPValue:
		return "signed_p_value"
	case MetricCombined:
		return "combined_score"
	}
	return "unknown"
}

// MissingPolicy selects how genes with missing statistics are handled.
type MissingPolicy int

const (
	MissingDrop MissingPolicy = iota
	MissingImpute
)

// ParseMissingPolicy resolves a missing-data policy name exactly.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "drop":
		return MissingDrop, nil
	case "impute":
		return MissingImpute, nil
	}
	return 0, fmt.Errorf("invalid missing-data policy %q: must be one of drop, impute", s)
}

// RankedGene is one entry of the ranking vector.
type RankedGene struct {
	GeneID string
	Score  float64
}

// Ranking is a score vector sorted descending, ties in input order.
type Ranking []RankedGene

// Prepare computes the ranking vector for the given metric and
// missing-data policy. The result is stable-sorted descending by
// score and contains one entry per retained input row.
func Prepare(rows []annotate.ResultRow, metric Metric, policy MissingPolicy) (Ranking, error) {
	switch metric {
	case MetricFoldChange, MetricSignedPValue, MetricCombined:
	default:
		return nil, fmt.Errorf("invalid ranking metric: must be one of fold_change, signed_p_value, combined_score")
	}

	ranking := make(Ranking, 0, len(rows))
	for _, r := range rows {
		score, keep := score(r, metric, policy)
		if !keep {
			continue
		}
		ranking = append(ranking, RankedGene{GeneID: r.GeneID, Score: score})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking, nil
}

// score computes a single gene's ranking score, reporting keep=false
// when the row must be dropped under the drop policy.
func score(r annotate.ResultRow, metric Metric, policy MissingPolicy) (float64, bool) {
	switch metric {
	case MetricFoldChange:
		if math.IsNaN(r.Log2FC) {
			if policy == MissingDrop {
				return 0, false
			}
			return 0, true
		}
		return r.Log2FC, true

	case MetricSignedPValue:
		if policy == MissingDrop && (math.IsNaN(r.Log2FC) || math.IsNaN(r.PValue)) {
			return 0, false
		}
		p := r.PValue
		if math.IsNaN(p) {
			p = 1 // -log10(1) = 0
		}
		s := sign(r.Log2FC) // NaN fold change has sign 0
		return s * -math.Log10(p), true

	case MetricCombined:
		v := r.Log2FC * -math.Log10(r.PValue)
		if math.IsNaN(v) {
			if policy == MissingDrop {
				return 0, false
			}
			return 0, true
		}
		return v, true
	}
	return 0, false
}

func sign(v float64) float64 {
	switch {
	case math.IsNaN(v), v == 0:
		return 0
	case v > 0:
		return 1
	}
	return -1
}
