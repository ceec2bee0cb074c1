package gsea

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"rnaseq_utils_go/annotate"
	"rnaseq_utils_go/generank"
	"rnaseq_utils_go/geneset"
)

func TestEnrichmentScoreSimple(t *testing.T) {
	scores := []float64{3, 2, 1, 0.5}
	member := []bool{true, false, false, false}

	es, peak, running := enrichmentScore(scores, member)
	if es != 1 || peak != 0 {
		t.Fatalf("es = %g at %d, want 1 at 0", es, peak)
	}
	want := []float64{1, 1 - 1.0/3, 1 - 2.0/3, 0}
	for i := range want {
		if math.Abs(running[i]-want[i]) > 1e-12 {
			t.Errorf("running[%d] = %g, want %g", i, running[i], want[i])
		}
	}
}

func TestEnrichmentScoreDegenerate(t *testing.T) {
	scores := []float64{3, 2, 1}
	if es, _, _ := enrichmentScore(scores, []bool{false, false, false}); es != 0 {
		t.Errorf("empty membership: es = %g, want 0", es)
	}
	if es, _, _ := enrichmentScore(scores, []bool{true, true, true}); es != 0 {
		t.Errorf("full membership: es = %g, want 0", es)
	}
}

func TestPermutationStatsBounds(t *testing.T) {
	perm := []float64{0.5, -0.3, 0.8, 0.2, -0.6}
	nes, p := permutationStats(0.7, perm, 1e-10)
	if p <= 0 || p > 1 {
		t.Errorf("p = %g outside (0, 1]", p)
	}
	if nes <= 0 {
		t.Errorf("nes = %g, want positive for positive score", nes)
	}
	if _, p := permutationStats(0, perm, 1e-10); p != 1 {
		t.Errorf("zero score: p = %g, want 1", p)
	}
}

func testInput(nGenes int) ([]annotate.ResultRow, *geneset.Collection) {
	var rows []annotate.ResultRow
	var pairs []geneset.Pair
	for i := 0; i < nGenes; i++ {
		id := fmt.Sprintf("ENSG%04d", i)
		rows = append(rows, annotate.ResultRow{
			GeneID: id,
			Log2FC: float64(nGenes-i) / 10,
			PValue: 0.001 + float64(i)*0.002,
			AdjP:   0.01,
		})
		// top genes cluster in "head_set", a spread in "mixed_set"
		if i < 15 {
			pairs = append(pairs, geneset.Pair{Set: "head_set", GeneID: id})
		}
		if i%7 == 0 {
			pairs = append(pairs, geneset.Pair{Set: "mixed_set", GeneID: id})
		}
		pairs = append(pairs, geneset.Pair{Set: "tiny_set", GeneID: "ENSG0000"})
	}
	return rows, geneset.FromPairs(pairs)
}

func TestRunDeterministicUnderSeed(t *testing.T) {
	rows, coll := testInput(100)
	params := Params{MinSize: 5, MaxSize: 500, Permutations: 50, Eps: 1e-10, Seed: 7}

	a, err := Run(rows, coll, generank.MetricFoldChange, generank.MissingImpute, params)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(rows, coll, generank.MetricFoldChange, generank.MissingImpute, params)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Results, b.Results) {
		t.Error("same seed produced different results")
	}
}

func TestRunShape(t *testing.T) {
	rows, coll := testInput(100)
	an, err := Run(rows, coll, generank.MetricFoldChange, generank.MissingImpute,
		Params{MinSize: 5, MaxSize: 500, Permutations: 50, Eps: 1e-10, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}

	// tiny_set is below the minimum size and must not be tested
	for _, r := range an.Results {
		if r.Set == "tiny_set" {
			t.Error("undersized set was tested")
		}
		if r.PValue < 1e-10 || r.PValue > 1 {
			t.Errorf("%s: p = %g outside [eps, 1]", r.Set, r.PValue)
		}
		if r.AdjP < r.PValue {
			t.Errorf("%s: adjusted p %g below raw p %g", r.Set, r.AdjP, r.PValue)
		}
		trace := an.Traces[r.Set]
		if len(trace) != len(an.Ranking) {
			t.Errorf("%s: trace has %d points for %d ranked genes", r.Set, len(trace), len(an.Ranking))
		}
		members := 0
		for i, tp := range trace {
			if tp.Pos != i+1 {
				t.Fatalf("%s: trace position %d at index %d", r.Set, tp.Pos, i)
			}
			if tp.Member {
				members++
			}
		}
		if members != r.Size {
			t.Errorf("%s: %d member ticks for size %d", r.Set, members, r.Size)
		}
	}

	// head_set genes lead the ranking, so enrichment must be positive
	for _, r := range an.Results {
		if r.Set == "head_set" {
			if r.ES <= 0 {
				t.Errorf("head_set ES = %g, want positive", r.ES)
			}
			if len(r.LeadingEdge) == 0 {
				t.Error("head_set has no leading edge genes")
			}
		}
	}
}

func TestSimplifyKeepsEndpoints(t *testing.T) {
	trace := []TracePoint{
		{Pos: 1, Running: 0.1},
		{Pos: 2, Running: 0.2}, // monotone interior, dropped
		{Pos: 3, Running: 0.3},
		{Pos: 4, Running: 0.25}, // local turn, kept
		{Pos: 5, Running: 0.5},
	}
	got := Simplify(trace)
	if got[0] != trace[0] || got[len(got)-1] != trace[len(trace)-1] {
		t.Fatal("simplification removed an endpoint")
	}
	want := []TracePoint{trace[0], trace[2], trace[3], trace[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Simplify = %v, want %v", got, want)
	}
}

func TestSimplifyMissingNeighbor(t *testing.T) {
	trace := []TracePoint{
		{Pos: 1, Running: 0.1},
		{Pos: 2, Running: 0.2},
		{Pos: 3, Running: math.NaN()},
		{Pos: 4, Running: 0.4},
		{Pos: 5, Running: 0.5},
	}
	got := Simplify(trace)
	// points 2 and 4 neighbor the missing value and must survive
	for _, pos := range []int{2, 3, 4} {
		found := false
		for _, tp := range got {
			if tp.Pos == pos {
				found = true
			}
		}
		if !found {
			t.Errorf("point %d next to missing value was removed", pos)
		}
	}
}

func TestSimplifyShort(t *testing.T) {
	trace := []TracePoint{{Pos: 1, Running: 1}, {Pos: 2, Running: 2}}
	if got := Simplify(trace); len(got) != 2 {
		t.Errorf("two-point trace must be untouched, got %v", got)
	}
}

func TestBarPlotFiltering(t *testing.T) {
	results := []Result{
		{Set: "a", NES: 2.0, AdjP: 0.01},
		{Set: "b", NES: -1.5, AdjP: 0.02},
		{Set: "c", NES: 1.2, AdjP: 0.5}, // above cutoff, excluded
	}

	if _, _, err := BarPlot(results, 0.05, SubsetAll); err != nil {
		t.Fatal(err)
	}

	_, hPos, err := BarPlot(results, 0.05, SubsetPositive)
	if err != nil {
		t.Fatal(err)
	}
	_, hAll, err := BarPlot(results, 0.05, SubsetAll)
	if err != nil {
		t.Fatal(err)
	}
	if hAll <= hPos {
		t.Errorf("height must grow with surviving sets: all %v vs positive %v", hAll, hPos)
	}

	if _, _, err := BarPlot(results, 0.001, SubsetAll); err == nil {
		t.Error("no surviving sets must be an error")
	}
}

func TestCurvePlotUnknownSet(t *testing.T) {
	rows, coll := testInput(50)
	an, err := Run(rows, coll, generank.MetricFoldChange, generank.MissingImpute,
		Params{MinSize: 5, MaxSize: 500, Permutations: 20, Eps: 1e-10, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := CurvePlot([]*Analysis{an}, []string{"no_such_set"}, false); err == nil {
		t.Error("unknown set names must be an error")
	}
	if _, err := CurvePlot([]*Analysis{an}, []string{"head_set", "mixed_set"}, true); err != nil {
		t.Errorf("curve plot failed: %v", err)
	}
}
