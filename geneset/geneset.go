// Package geneset holds the term-to-gene annotation table used by the
// enrichment tools: named gene sets mapped to member gene IDs.
package geneset

import (
	"fmt"

	common "rnaseq_utils_go/utils"
)

// Pair is one (gene set, gene) membership record of a term-to-gene
// table, optionally tagged with a database subcategory.
type Pair struct {
	Set         string `csv:"gs_name"`
	GeneID      string `csv:"ensembl_gene"`
	Subcategory string `csv:"gs_subcat"`
}

// Collection is an ordered table of named gene sets.
type Collection struct {
	names []string
	sets  map[string]map[string]bool
}

// FromPairs assembles a collection from membership pairs, preserving
// first-seen set order.
func FromPairs(pairs []Pair) *Collection {
	c := &Collection{sets: make(map[string]map[string]bool)}
	for _, p := range pairs {
		if p.Set == "" || p.GeneID == "" {
			continue
		}
		m, ok := c.sets[p.Set]
		if !ok {
			m = make(map[string]bool)
			c.sets[p.Set] = m
			c.names = append(c.names, p.Set)
		}
		m[p.GeneID] = true
	}
	return c
}

// LoadTerm2Gene reads a term-to-gene TSV file. A non-empty subcategory
// keeps only pairs tagged with that subcategory key.
func LoadTerm2Gene(path, subcategory string) (*Collection, error) {
	var pairs []Pair
	if err := common.LoadTSV(path, &pairs); err != nil {
		return nil, err
	}
	if subcategory != "" {
		kept := pairs[:0]
		for _, p := range pairs {
			if p.Subcategory == subcategory {
				kept = append(kept, p)
			}
		}
		pairs = kept
	}
	c := FromPairs(pairs)
	if c.Len() == 0 {
		return nil, fmt.Errorf("%s: no gene sets after filtering (subcategory %q)", path, subcategory)
	}
	return c, nil
}

// Names returns the set names in collection order.
func (c *Collection) Names() []string {
	return c.names
}

// Members returns the member set of a named gene set, or nil.
func (c *Collection) Members(name string) map[string]bool {
	return c.sets[name]
}

// Len returns the number of gene sets.
func (c *Collection) Len() int {
	return len(c.names)
}

// Universe returns the union of all member gene IDs.
func (c *Collection) Universe() map[string]bool {
	u := make(map[string]bool)
	for _, m := range c.sets {
		for id := range m {
			u[id] = true
		}
	}
	return u
}

// FilterBySize keeps sets whose overlap with the universe of measured
// genes falls within [min, max]. A nil universe counts all members.
func (c *Collection) FilterBySize(min, max int, universe map[string]bool) *Collection {
	out := &Collection{sets: make(map[string]map[string]bool)}
	for _, name := range c.names {
		n := 0
		for id := range c.sets[name] {
			if universe == nil || universe[id] {
				n++
			}
		}
		if n < min || (max > 0 && n > max) {
			continue
		}
		out.names = append(out.names, name)
		out.sets[name] = c.sets[name]
	}
	return out
}
