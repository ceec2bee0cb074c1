// Package heatmap reshapes a normalized expression matrix into
// per-gene scaled values and renders a faceted tiled heatmap.
package heatmap

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
)

// ExprMatrix is a genes-by-samples expression matrix.
type ExprMatrix struct {
	Genes   []string
	Samples []string
	Values  [][]float64 // row-major, one row per gene

	rowIdx map[string]int
}

// Row returns a gene's expression vector, or nil when absent.
func (m *ExprMatrix) Row(geneID string) []float64 {
	i, ok := m.rowIdx[geneID]
	if !ok {
		return nil
	}
	return m.Values[i]
}

// Has reports whether the matrix contains a row for the gene.
func (m *ExprMatrix) Has(geneID string) bool {
	_, ok := m.rowIdx[geneID]
	return ok
}

// NewMatrix builds an indexed matrix from parallel slices.
func NewMatrix(genes, samples []string, values [][]float64) (*ExprMatrix, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("matrix has no sample columns")
	}
	if len(genes) != len(values) {
		return nil, fmt.Errorf("matrix has %d genes but %d value rows", len(genes), len(values))
	}
	m := &ExprMatrix{Genes: genes, Samples: samples, Values: values, rowIdx: make(map[string]int, len(genes))}
	for i, g := range genes {
		if len(values[i]) != len(samples) {
			return nil, fmt.Errorf("gene %s has %d values for %d samples", g, len(values[i]), len(samples))
		}
		m.rowIdx[g] = i
	}
	return m, nil
}

// LoadMatrix reads a TSV expression matrix: header row of sample
// names, first column gene IDs.
func LoadMatrix(path string) (*ExprMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("%s: matrix needs a header and at least one gene row", path)
	}

	samples := all[0][1:]
	genes := make([]string, 0, len(all)-1)
	values := make([][]float64, 0, len(all)-1)
	for _, rec := range all[1:] {
		if len(rec) != len(samples)+1 {
			return nil, fmt.Errorf("%s: gene %q has %d fields, want %d", path, rec[0], len(rec), len(samples)+1)
		}
		row := make([]float64, len(samples))
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: gene %q sample %q: %w", path, rec[0], samples[j], err)
			}
			row[j] = v
		}
		genes = append(genes, rec[0])
		values = append(values, row)
	}
	return NewMatrix(genes, samples, values)
}

// SampleMeta is a sample metadata table: first column sample name,
// remaining columns arbitrary annotations.
type SampleMeta struct {
	columns map[string]int
	rows    map[string][]string
	order   []string
}

// NewSampleMeta builds a metadata table from a header and records.
func NewSampleMeta(header []string, records [][]string) (*SampleMeta, error) {
	m := &SampleMeta{
		columns: make(map[string]int, len(header)),
		rows:    make(map[string][]string, len(records)),
	}
	for i, c := range header {
		m.columns[c] = i
	}
	for _, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("metadata row %q has %d fields, header has %d", rec[0], len(rec), len(header))
		}
		m.rows[rec[0]] = rec
		m.order = append(m.order, rec[0])
	}
	return m, nil
}

// LoadSampleMeta reads the metadata table from a TSV file.
func LoadSampleMeta(path string) (*SampleMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("%s: metadata needs a header and at least one sample row", path)
	}
	return NewSampleMeta(all[0], all[1:])
}

// Get looks up a metadata value for a sample.
func (m *SampleMeta) Get(sample, column string) (string, error) {
	i, ok := m.columns[column]
	if !ok {
		return "", fmt.Errorf("metadata has no column %q", column)
	}
	row, ok := m.rows[sample]
	if !ok {
		return "", fmt.Errorf("metadata has no sample %q", sample)
	}
	return row[i], nil
}

// HasColumn reports whether the metadata defines a column.
func (m *SampleMeta) HasColumn(column string) bool {
	_, ok := m.columns[column]
	return ok
}
