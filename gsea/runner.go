package gsea

import (
	"fmt"

	"rnaseq_utils_go/annotate"
	"rnaseq_utils_go/generank"
	"rnaseq_utils_go/geneset"
	common "rnaseq_utils_go/utils"
)

// Run prepares the ranking vector from the result table, filters the
// gene set collection by size against the measured universe, and runs
// the permutation test. The returned Analysis keeps the traces for
// downstream curve plotting. Gene sets with no measured member are
// not tested.
func Run(rows []annotate.ResultRow, coll *geneset.Collection, metric generank.Metric, policy generank.MissingPolicy, params Params) (*Analysis, error) {
	if params.Permutations <= 0 {
		return nil, fmt.Errorf("permutation count must be positive, got %d", params.Permutations)
	}

	ranking, err := generank.Prepare(rows, metric, policy)
	if err != nil {
		return nil, err
	}
	if len(ranking) == 0 {
		return nil, fmt.Errorf("empty ranking vector: no genes retained")
	}

	universe := make(map[string]bool, len(ranking))
	pos := make(map[string]int, len(ranking))
	for i, g := range ranking {
		universe[g.GeneID] = true
		pos[g.GeneID] = i
	}

	filtered := coll.FilterBySize(params.MinSize, params.MaxSize, universe)

	var names []string
	members := make(map[string][]bool, filtered.Len())
	for _, name := range filtered.Names() {
		mv := make([]bool, len(ranking))
		hit := false
		for id := range filtered.Members(name) {
			if i, ok := pos[id]; ok {
				mv[i] = true
				hit = true
			}
		}
		if !hit {
			continue
		}
		names = append(names, name)
		members[name] = mv
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no gene sets overlap the ranking under size bounds [%d, %d]", params.MinSize, params.MaxSize)
	}

	return solve(ranking, names, members, params), nil
}

// resultRecord is the on-disk form of one enrichment result row.
type resultRecord struct {
	Set    string         `csv:"gs_name"`
	Size   int            `csv:"set_size"`
	ES     common.NAFloat `csv:"ES"`
	NES    common.NAFloat `csv:"NES"`
	PValue common.NAFloat `csv:"pvalue"`
	AdjP   common.NAFloat `csv:"padj"`
}

// WriteResults writes the enrichment result table to a TSV file.
func WriteResults(path string, results []Result) error {
	recs := make([]resultRecord, len(results))
	for i, r := range results {
		recs[i] = resultRecord{
			Set:    r.Set,
			Size:   r.Size,
			ES:     common.NAFloat(r.ES),
			NES:    common.NAFloat(r.NES),
			PValue: common.NAFloat(r.PValue),
			AdjP:   common.NAFloat(r.AdjP),
		}
	}
	return common.WriteTSV(path, recs)
}
