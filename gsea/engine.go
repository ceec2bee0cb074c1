// Package gsea runs permutation-based gene set enrichment analysis on
// a ranked gene list and renders its bar and running-score figures.
package gsea

import (
	"math"
	"math/rand"

	"rnaseq_utils_go/generank"
	common "rnaseq_utils_go/utils"
)

// Params holds the enrichment-test parameters.
type Params struct {
	MinSize      int
	MaxSize      int
	Permutations int
	Eps          float64 // lower bound on reported p-values
	Seed         int64
}

// TracePoint is one step of a running enrichment score trace.
type TracePoint struct {
	Pos     int // 1-based rank position
	Running float64
	Member  bool
}

// Result is the enrichment outcome for one gene set.
type Result struct {
	Set         string
	Size        int
	ES          float64
	NES         float64
	PValue      float64
	AdjP        float64
	LeadingEdge []string
}

// Analysis is a solved enrichment run: per-set results plus the
// running-score traces needed for curve plotting.
type Analysis struct {
	Results []Result
	Traces  map[string][]TracePoint
	Ranking generank.Ranking
}

// enrichmentScore computes the weighted Kolmogorov-Smirnov enrichment
// score for one membership vector over the ranked score list. It
// returns the signed score, the rank index of its peak, and the full
// running-score vector.
func enrichmentScore(scores []float64, member []bool) (es float64, peak int, running []float64) {
	n := len(scores)
	nh := 0
	nr := 0.0
	for i, m := range member {
		if m {
			nh++
			nr += math.Abs(scores[i])
		}
	}
	if nh == 0 || nh == n {
		return 0, 0, make([]float64, n)
	}
	if nr == 0 {
		// all member scores are zero; fall back to unweighted steps
		nr = float64(nh)
	}

	missStep := 1.0 / float64(n-nh)
	running = make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		if member[i] {
			w := math.Abs(scores[i]) / nr
			if w == 0 {
				w = 1.0 / nr
			}
			sum += w
		} else {
			sum -= missStep
		}
		running[i] = sum
		if math.Abs(sum) > math.Abs(es) {
			es = sum
			peak = i
		}
	}
	return es, peak, running
}

// permutationStats estimates the NES and p-value of an observed score
// against a gene-label permutation null. Normalization and counting
// are restricted to null scores of the observed sign.
func permutationStats(es float64, perm []float64, eps float64) (nes, p float64) {
	if es == 0 {
		return 0, 1
	}
	sameSign := 0
	asExtreme := 0
	sumAbs := 0.0
	for _, pe := range perm {
		if (es > 0) == (pe > 0) && pe != 0 {
			sameSign++
			sumAbs += math.Abs(pe)
			if math.Abs(pe) >= math.Abs(es) {
				asExtreme++
			}
		}
	}
	if sameSign == 0 {
		nes = 0
	} else {
		nes = es / (sumAbs / float64(sameSign))
	}
	p = (float64(asExtreme) + 1) / (float64(sameSign) + 1)
	if p < eps {
		p = eps
	}
	return nes, p
}

// solve runs the enrichment test for every set in members against the
// ranking, sharing one permutation stream across sets.
func solve(ranking generank.Ranking, setNames []string, members map[string][]bool, params Params) *Analysis {
	n := len(ranking)
	scores := make([]float64, n)
	for i, g := range ranking {
		scores[i] = g.Score
	}

	an := &Analysis{
		Traces:  make(map[string][]TracePoint, len(setNames)),
		Ranking: ranking,
	}

	// Permuted membership index vectors are shared across sets of the
	// same size, so group the permutation work by set size.
	rng := rand.New(rand.NewSource(params.Seed))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	type observed struct {
		es      float64
		peak    int
		running []float64
		size    int
	}
	obs := make(map[string]observed, len(setNames))
	for _, name := range setNames {
		mv := members[name]
		es, peak, running := enrichmentScore(scores, mv)
		size := 0
		for _, m := range mv {
			if m {
				size++
			}
		}
		obs[name] = observed{es: es, peak: peak, running: running, size: size}
	}

	permES := make(map[string][]float64, len(setNames))
	permMember := make([]bool, n)
	for perm := 0; perm < params.Permutations; perm++ {
		rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, name := range setNames {
			size := obs[name].size
			for i := range permMember {
				permMember[i] = false
			}
			for _, j := range idx[:size] {
				permMember[j] = true
			}
			es, _, _ := enrichmentScore(scores, permMember)
			permES[name] = append(permES[name], es)
		}
	}

	pvals := make([]float64, 0, len(setNames))
	for _, name := range setNames {
		o := obs[name]
		nes, p := permutationStats(o.es, permES[name], params.Eps)
		res := Result{
			Set:         name,
			Size:        o.size,
			ES:          o.es,
			NES:         nes,
			PValue:      p,
			LeadingEdge: leadingEdge(ranking, members[name], o.es, o.peak),
		}
		an.Results = append(an.Results, res)
		pvals = append(pvals, p)

		trace := make([]TracePoint, n)
		for i := 0; i < n; i++ {
			trace[i] = TracePoint{Pos: i + 1, Running: o.running[i], Member: members[name][i]}
		}
		an.Traces[name] = trace
	}

	adj := common.AdjustBH(pvals)
	for i := range an.Results {
		an.Results[i].AdjP = adj[i]
	}
	return an
}

// leadingEdge lists the member genes driving the enrichment peak:
// those at or before the peak for positive scores, at or after it for
// negative scores.
func leadingEdge(ranking generank.Ranking, member []bool, es float64, peak int) []string {
	var genes []string
	if es >= 0 {
		for i := 0; i <= peak && i < len(ranking); i++ {
			if member[i] {
				genes = append(genes, ranking[i].GeneID)
			}
		}
		return genes
	}
	for i := peak; i < len(ranking); i++ {
		if member[i] {
			genes = append(genes, ranking[i].GeneID)
		}
	}
	return genes
}
