// Package ora runs over-representation analysis separately on the up-
// and down-regulated gene subsets of a differential-expression result
// table, testing each gene set with a one-tailed Fisher exact test.
package ora

import (
	"fmt"
	"math"

	fet "github.com/glycerine/golang-fisher-exact"

	"rnaseq_utils_go/annotate"
	"rnaseq_utils_go/geneset"
	common "rnaseq_utils_go/utils"
)

// Direction tags a result with the regulated subset it came from.
type Direction string

const (
	Up   Direction = "Up"
	Down Direction = "Down"
)

// Result is the enrichment outcome for one gene set in one direction.
type Result struct {
	Set             string
	Direction       Direction
	GeneRatio       string // "hits/subset size"
	BgRatio         string // "set size/background size"
	EnrichmentRatio float64
	PValue          float64
	AdjP            float64
	Hits            int
}

// Params bounds the tested gene sets.
type Params struct {
	MinSize int
	MaxSize int
}

// Partition splits significant genes into up- and down-regulated
// subsets by the fold-change and adjusted-p thresholds. Genes with
// missing statistics never qualify.
func Partition(rows []annotate.ResultRow, fcCutoff, padjCutoff float64) (up, down []string) {
	for _, r := range rows {
		if math.IsNaN(r.Log2FC) || math.IsNaN(r.AdjP) || r.AdjP >= padjCutoff {
			continue
		}
		switch {
		case r.Log2FC > fcCutoff:
			up = append(up, r.GeneID)
		case r.Log2FC < -fcCutoff:
			down = append(down, r.GeneID)
		}
	}
	return up, down
}

// Run partitions the result table and tests each direction
// independently against the collection. The background is the set of
// measured genes present in the collection universe; adjusted p-values
// are computed per direction. Sets with no hits are not reported.
func Run(rows []annotate.ResultRow, coll *geneset.Collection, fcCutoff, padjCutoff float64, params Params) ([]Result, error) {
	universe := coll.Universe()
	var background []string
	for _, r := range rows {
		if universe[r.GeneID] {
			background = append(background, r.GeneID)
		}
	}
	if len(background) == 0 {
		return nil, fmt.Errorf("no measured genes overlap the gene set universe")
	}

	up, down := Partition(rows, fcCutoff, padjCutoff)

	var out []Result
	for _, dir := range []struct {
		tag   Direction
		genes []string
	}{{Up, up}, {Down, down}} {
		res, err := enrich(dir.genes, background, coll, params, dir.tag)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// enrich runs the hypergeometric test for one direction subset.
func enrich(subset, background []string, coll *geneset.Collection, params Params, dir Direction) ([]Result, error) {
	inBackground := make(map[string]bool, len(background))
	for _, id := range background {
		inBackground[id] = true
	}

	var observed []string
	for _, id := range subset {
		if inBackground[id] {
			observed = append(observed, id)
		}
	}
	n := len(observed)
	N := len(background)
	if n == 0 {
		return nil, nil
	}

	filtered := coll.FilterBySize(params.MinSize, params.MaxSize, inBackground)

	var results []Result
	var pvals []float64
	for _, name := range filtered.Names() {
		members := filtered.Members(name)

		K := 0
		for id := range members {
			if inBackground[id] {
				K++
			}
		}
		k := 0
		for _, id := range observed {
			if members[id] {
				k++
			}
		}
		if k == 0 {
			continue
		}

		// One-tailed Fisher exact test on the 2x2 overlap table.
		_, _, rightP, _ := fet.FisherExactTest(k, n-k, K-k, N-K-(n-k))

		geneRatio := fmt.Sprintf("%d/%d", k, n)
		bgRatio := fmt.Sprintf("%d/%d", K, N)
		ratio, err := EnrichmentRatio(geneRatio, bgRatio)
		if err != nil {
			return nil, err
		}

		results = append(results, Result{
			Set:             name,
			Direction:       dir,
			GeneRatio:       geneRatio,
			BgRatio:         bgRatio,
			EnrichmentRatio: ratio,
			PValue:          rightP,
			Hits:            k,
		})
		pvals = append(pvals, rightP)
	}

	adj := common.AdjustBH(pvals)
	for i := range results {
		results[i].AdjP = adj[i]
	}
	return results, nil
}

// EnrichmentRatio computes (observed ratio) / (background ratio) from
// the engine's "k/n" ratio strings.
func EnrichmentRatio(geneRatio, bgRatio string) (float64, error) {
	obs, err := common.ParseRatio(geneRatio)
	if err != nil {
		return 0, err
	}
	bg, err := common.ParseRatio(bgRatio)
	if err != nil {
		return 0, err
	}
	if bg == 0 {
		return 0, fmt.Errorf("zero background ratio %q", bgRatio)
	}
	return obs / bg, nil
}

// resultRecord is the on-disk form of one ORA result row.
type resultRecord struct {
	Set       string         `csv:"gs_name"`
	Direction string         `csv:"direction"`
	GeneRatio string         `csv:"gene_ratio"`
	BgRatio   string         `csv:"bg_ratio"`
	Ratio     common.NAFloat `csv:"enrichment_ratio"`
	PValue    common.NAFloat `csv:"pvalue"`
	AdjP      common.NAFloat `csv:"padj"`
	Hits      int            `csv:"hits"`
}

// WriteResults writes the ORA result table to a TSV file.
func WriteResults(path string, results []Result) error {
	recs := make([]resultRecord, len(results))
	for i, r := range results {
		recs[i] = resultRecord{
			Set:       r.Set,
			Direction: string(r.Direction),
			GeneRatio: r.GeneRatio,
			BgRatio:   r.BgRatio,
			Ratio:     common.NAFloat(r.EnrichmentRatio),
			PValue:    common.NAFloat(r.PValue),
			AdjP:      common.NAFloat(r.AdjP),
			Hits:      r.Hits,
		}
	}
	return common.WriteTSV(path, recs)
}
