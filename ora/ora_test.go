package ora

import (
	"fmt"
	"math"
	"testing"

	"rnaseq_utils_go/annotate"
	"rnaseq_utils_go/geneset"
)

func TestEnrichmentRatioLiteral(t *testing.T) {
	r, err := EnrichmentRatio("3/50", "30/20000")
	if err != nil {
		t.Fatal(err)
	}
	if r != 40.0 {
		t.Fatalf("EnrichmentRatio(3/50, 30/20000) = %g, want 40", r)
	}
}

func TestEnrichmentRatioMalformed(t *testing.T) {
	for _, s := range []string{"3", "3/0", "a/5", "3/5/7"} {
		if _, err := EnrichmentRatio(s, "1/2"); err == nil {
			t.Errorf("ratio %q must fail", s)
		}
	}
}

func TestPartition(t *testing.T) {
	rows := []annotate.ResultRow{
		{GeneID: "up", Log2FC: 2, AdjP: 0.01},
		{GeneID: "down", Log2FC: -2, AdjP: 0.01},
		{GeneID: "weak", Log2FC: 0.5, AdjP: 0.01},
		{GeneID: "insig", Log2FC: 3, AdjP: 0.5},
		{GeneID: "noFC", Log2FC: math.NaN(), AdjP: 0.01},
		{GeneID: "noP", Log2FC: 3, AdjP: math.NaN()},
	}
	up, down := Partition(rows, 1, 0.05)
	if len(up) != 1 || up[0] != "up" {
		t.Errorf("up = %v, want [up]", up)
	}
	if len(down) != 1 || down[0] != "down" {
		t.Errorf("down = %v, want [down]", down)
	}
}

// buildCollection makes a collection with one enriched set and one
// background set over a numbered gene universe.
func buildCollection(n int) *geneset.Collection {
	var pairs []geneset.Pair
	for i := 0; i < 20; i++ {
		pairs = append(pairs, geneset.Pair{Set: "target_set", GeneID: gene(i)})
	}
	for i := 0; i < n; i++ {
		pairs = append(pairs, geneset.Pair{Set: "everything", GeneID: gene(i)})
	}
	return geneset.FromPairs(pairs)
}

func gene(i int) string { return fmt.Sprintf("ENSG%05d", i) }

func TestRunDirectionsAndRatios(t *testing.T) {
	// Genes 0-9 up-regulated and all inside target_set.
	var rows []annotate.ResultRow
	for i := 0; i < 100; i++ {
		r := annotate.ResultRow{GeneID: gene(i), Log2FC: 0, AdjP: 1, PValue: 1}
		if i < 10 {
			r.Log2FC = 3
			r.AdjP = 0.001
		}
		rows = append(rows, r)
	}

	results, err := Run(rows, buildCollection(100), 1, 0.05, Params{MinSize: 5, MaxSize: 500})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}

	var target *Result
	for i := range results {
		r := &results[i]
		if r.EnrichmentRatio < 0 {
			t.Errorf("%s: negative enrichment ratio %g", r.Set, r.EnrichmentRatio)
		}
		if r.PValue < 0 || r.PValue > 1 {
			t.Errorf("%s: p-value %g outside [0,1]", r.Set, r.PValue)
		}
		if r.Direction != Up {
			t.Errorf("%s: direction %s, want Up (no down-regulated genes)", r.Set, r.Direction)
		}
		want, err := EnrichmentRatio(r.GeneRatio, r.BgRatio)
		if err != nil {
			t.Fatal(err)
		}
		if r.EnrichmentRatio != want {
			t.Errorf("%s: ratio %g does not match its ratio strings (%s, %s)", r.Set, r.EnrichmentRatio, r.GeneRatio, r.BgRatio)
		}
		if r.Set == "target_set" {
			target = r
		}
	}
	if target == nil {
		t.Fatal("target_set not tested")
	}
	if target.GeneRatio != "10/10" || target.BgRatio != "20/100" {
		t.Errorf("target_set ratios = %s, %s; want 10/10, 20/100", target.GeneRatio, target.BgRatio)
	}
	if target.EnrichmentRatio != 5.0 {
		t.Errorf("target_set enrichment ratio = %g, want 5", target.EnrichmentRatio)
	}
	if target.PValue > 0.01 {
		t.Errorf("perfect overlap should be highly significant, got p = %g", target.PValue)
	}
}

func TestRunNoBackgroundOverlap(t *testing.T) {
	rows := []annotate.ResultRow{{GeneID: "unrelated", Log2FC: 2, AdjP: 0.01}}
	if _, err := Run(rows, buildCollection(10), 1, 0.05, Params{MinSize: 1}); err == nil {
		t.Fatal("disjoint universe must fail")
	}
}
