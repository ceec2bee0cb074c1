package generank

import (
	"math"
	"strings"
	"testing"

	"rnaseq_utils_go/annotate"
)

func row(id string, l2fc, p float64) annotate.ResultRow {
	return annotate.ResultRow{GeneID: id, Log2FC: l2fc, PValue: p}
}

func TestPrepareDescendingOneEntryPerRow(t *testing.T) {
	rows := []annotate.ResultRow{
		row("g1", 1.5, 0.01),
		row("g2", -2.0, 0.001),
		row("g3", 0.5, 0.2),
		row("g4", 3.0, 0.5),
	}
	for _, metric := range []Metric{MetricFoldChange, MetricSignedPValue, MetricCombined} {
		r, err := Prepare(rows, metric, MissingImpute)
		if err != nil {
			t.Fatalf("Prepare(%v): %v", metric, err)
		}
		if len(r) != len(rows) {
			t.Fatalf("Prepare(%v): got %d entries, want %d", metric, len(r), len(rows))
		}
		for i := 1; i < len(r); i++ {
			if r[i].Score > r[i-1].Score {
				t.Errorf("Prepare(%v): entry %d score %g above previous %g", metric, i, r[i].Score, r[i-1].Score)
			}
		}
	}
}

func TestPrepareFoldChangeMissing(t *testing.T) {
	rows := []annotate.ResultRow{
		row("g1", 2, 0.1),
		row("g2", math.NaN(), 0.1),
	}

	r, err := Prepare(rows, MetricFoldChange, MissingDrop)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 1 || r[0].GeneID != "g1" {
		t.Fatalf("drop policy kept %v, want only g1", r)
	}

	r, err = Prepare(rows, MetricFoldChange, MissingImpute)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 {
		t.Fatalf("impute policy got %d entries, want 2", len(r))
	}
	if r[1].GeneID != "g2" || r[1].Score != 0 {
		t.Errorf("imputed fold change = %v, want g2 with score 0", r[1])
	}
}

func TestPrepareSignedPValueImputation(t *testing.T) {
	rows := []annotate.ResultRow{
		row("noP", 2, math.NaN()),    // p imputed to 1 -> score 0
		row("noFC", math.NaN(), 0.1), // sign 0 -> score 0
		row("neg", -1, 0.01),         // -2
		row("pos", 1, 0.001),         // 3
	}
	r, err := Prepare(rows, MetricSignedPValue, MissingImpute)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, g := range r {
		got[g.GeneID] = g.Score
	}
	if got["noP"] != 0 || got["noFC"] != 0 {
		t.Errorf("missing stats not imputed to 0: %v", got)
	}
	if math.Abs(got["pos"]-3) > 1e-12 || math.Abs(got["neg"]+2) > 1e-12 {
		t.Errorf("signed p-value scores wrong: %v", got)
	}
	if r[0].GeneID != "pos" || r[len(r)-1].GeneID != "neg" {
		t.Errorf("order wrong: %v", r)
	}
}

func TestPrepareCombinedMissing(t *testing.T) {
	rows := []annotate.ResultRow{
		row("ok", 2, 0.01), // 2 * 2 = 4
		row("bad", math.NaN(), 0.01),
	}

	r, err := Prepare(rows, MetricCombined, MissingImpute)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 || r[1].Score != 0 {
		t.Fatalf("impute: got %v", r)
	}
	if math.Abs(r[0].Score-4) > 1e-12 {
		t.Errorf("combined score = %g, want 4", r[0].Score)
	}

	r, err = Prepare(rows, MetricCombined, MissingDrop)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 1 || r[0].GeneID != "ok" {
		t.Fatalf("drop: got %v", r)
	}
}

func TestPrepareStableTies(t *testing.T) {
	rows := []annotate.ResultRow{
		row("first", 1, 0.1),
		row("second", 1, 0.1),
		row("third", 1, 0.1),
	}
	r, err := Prepare(rows, MetricFoldChange, MissingImpute)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if r[i].GeneID != want {
			t.Fatalf("tie order broken: %v", r)
		}
	}
}

func TestParseMetricInvalid(t *testing.T) {
	_, err := ParseMetric("fold")
	if err == nil {
		t.Fatal("partial metric name must not match")
	}
	for _, name := range []string{"fold_change", "signed_p_value", "combined_score"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name accepted value %q", err, name)
		}
	}
}

func TestParseMissingPolicyInvalid(t *testing.T) {
	if _, err := ParseMissingPolicy("imp"); err == nil {
		t.Fatal("partial policy name must not match")
	}
	if p, err := ParseMissingPolicy("drop"); err != nil || p != MissingDrop {
		t.Fatalf("drop: got %v, %v", p, err)
	}
}
