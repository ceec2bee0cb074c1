package geneset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFromPairsOrder(t *testing.T) {
	c := FromPairs([]Pair{
		{Set: "beta", GeneID: "g1"},
		{Set: "alpha", GeneID: "g2"},
		{Set: "beta", GeneID: "g3"},
		{Set: "", GeneID: "g4"},
		{Set: "alpha", GeneID: ""},
	})
	if got := c.Names(); !reflect.DeepEqual(got, []string{"beta", "alpha"}) {
		t.Errorf("Names() = %v, want first-seen order [beta alpha]", got)
	}
	if m := c.Members("beta"); len(m) != 2 || !m["g1"] || !m["g3"] {
		t.Errorf("Members(beta) = %v", m)
	}
	if m := c.Members("alpha"); len(m) != 1 || !m["g2"] {
		t.Errorf("empty fields must be skipped, Members(alpha) = %v", m)
	}
	if c.Members("nosuch") != nil {
		t.Error("Members of an unknown set must be nil")
	}
}

func TestUniverse(t *testing.T) {
	c := FromPairs([]Pair{
		{Set: "a", GeneID: "g1"},
		{Set: "a", GeneID: "g2"},
		{Set: "b", GeneID: "g2"},
		{Set: "b", GeneID: "g3"},
	})
	u := c.Universe()
	if len(u) != 3 {
		t.Fatalf("universe size = %d, want 3", len(u))
	}
	for _, g := range []string{"g1", "g2", "g3"} {
		if !u[g] {
			t.Errorf("universe missing %s", g)
		}
	}
}

func TestFilterBySize(t *testing.T) {
	c := FromPairs([]Pair{
		{Set: "small", GeneID: "g1"},
		{Set: "mid", GeneID: "g1"},
		{Set: "mid", GeneID: "g2"},
		{Set: "mid", GeneID: "g3"},
		{Set: "big", GeneID: "g1"},
		{Set: "big", GeneID: "g2"},
		{Set: "big", GeneID: "g3"},
		{Set: "big", GeneID: "g4"},
		{Set: "big", GeneID: "g5"},
	})

	got := c.FilterBySize(2, 4, nil)
	if names := got.Names(); !reflect.DeepEqual(names, []string{"mid"}) {
		t.Errorf("FilterBySize(2, 4, nil) kept %v, want [mid]", names)
	}

	// With max == 0 only the minimum applies.
	got = c.FilterBySize(2, 0, nil)
	if names := got.Names(); !reflect.DeepEqual(names, []string{"mid", "big"}) {
		t.Errorf("FilterBySize(2, 0, nil) kept %v, want [mid big]", names)
	}

	// Sizes count only genes present in the universe: big shrinks to 2,
	// mid to 1.
	universe := map[string]bool{"g1": true, "g4": true}
	got = c.FilterBySize(2, 4, universe)
	if names := got.Names(); !reflect.DeepEqual(names, []string{"big"}) {
		t.Errorf("universe-restricted filter kept %v, want [big]", names)
	}
	// Filtering restricts eligibility, not membership.
	if m := got.Members("big"); len(m) != 5 {
		t.Errorf("filtered set lost members: %v", m)
	}
}

func writeTerm2Gene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t2g.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTerm2Gene(t *testing.T) {
	path := writeTerm2Gene(t, "gs_name\tensembl_gene\tgs_subcat\n"+
		"HALLMARK_APOPTOSIS\tENSG01\tH\n"+
		"HALLMARK_APOPTOSIS\tENSG02\tH\n"+
		"GO_RESPONSE\tENSG03\tGO:BP\n")

	c, err := LoadTerm2Gene(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("unfiltered collection has %d sets, want 2", c.Len())
	}

	c, err = LoadTerm2Gene(path, "GO:BP")
	if err != nil {
		t.Fatal(err)
	}
	if names := c.Names(); !reflect.DeepEqual(names, []string{"GO_RESPONSE"}) {
		t.Errorf("subcategory filter kept %v, want [GO_RESPONSE]", names)
	}
}

func TestLoadTerm2GeneEmptyAfterFilter(t *testing.T) {
	path := writeTerm2Gene(t, "gs_name\tensembl_gene\tgs_subcat\n"+
		"HALLMARK_APOPTOSIS\tENSG01\tH\n")
	if _, err := LoadTerm2Gene(path, "CP:KEGG"); err == nil {
		t.Fatal("expected an error when every pair is filtered out")
	}
}
