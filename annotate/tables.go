package annotate

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/carbocation/pfx"

	common "rnaseq_utils_go/utils"
)

// GeneAnnotation is one row of the external gene identifier mapping.
type GeneAnnotation struct {
	GeneID      string `csv:"ensembl_gene_id"`
	Symbol      string `csv:"external_gene_name"`
	Biotype     string `csv:"gene_biotype"`
	Description string `csv:"description"`
}

// AnnotationTable is the identifier mapping keyed by gene ID. It is
// loaded once and passed explicitly into every consumer.
type AnnotationTable map[string]GeneAnnotation

// BuildAnnotationTable indexes annotation rows by gene ID. Later rows
// for a repeated ID win.
func BuildAnnotationTable(rows []GeneAnnotation) AnnotationTable {
	t := make(AnnotationTable, len(rows))
	for _, r := range rows {
		t[r.GeneID] = r
	}
	return t
}

// LoadAnnotationTable reads the identifier mapping from a TSV file.
func LoadAnnotationTable(path string) (AnnotationTable, error) {
	var rows []GeneAnnotation
	if err := common.LoadTSV(path, &rows); err != nil {
		return nil, err
	}
	return BuildAnnotationTable(rows), nil
}

// SymbolIndex inverts the table to map display symbols to gene IDs.
// A symbol can map to more than one ID.
func (t AnnotationTable) SymbolIndex() map[string][]string {
	idx := make(map[string][]string)
	for id, g := range t {
		if g.Symbol == "" {
			continue
		}
		idx[g.Symbol] = append(idx[g.Symbol], id)
	}
	return idx
}

// resultRecord is the on-disk form of a unified result row.
type resultRecord struct {
	GeneID      string         `csv:"gene_id"`
	Symbol      string         `csv:"gene_name"`
	Log2FC      common.NAFloat `csv:"log2FoldChange"`
	PValue      common.NAFloat `csv:"pvalue"`
	AdjP        common.NAFloat `csv:"padj"`
	BaseMean    common.NAFloat `csv:"baseMean"`
	Biotype     string         `csv:"gene_biotype"`
	Description string         `csv:"description"`
}

// LoadResultTable reads a unified result table from a TSV file.
func LoadResultTable(path string) ([]ResultRow, error) {
	var recs []resultRecord
	if err := common.LoadTSV(path, &recs); err != nil {
		return nil, err
	}
	rows := make([]ResultRow, len(recs))
	for i, r := range recs {
		rows[i] = ResultRow{
			GeneID:      r.GeneID,
			Symbol:      r.Symbol,
			Log2FC:      float64(r.Log2FC),
			PValue:      float64(r.PValue),
			AdjP:        float64(r.AdjP),
			BaseMean:    float64(r.BaseMean),
			Biotype:     r.Biotype,
			Description: r.Description,
		}
	}
	return rows, nil
}

// WriteResultTable writes a unified result table to a TSV file.
func WriteResultTable(path string, rows []ResultRow) error {
	recs := make([]resultRecord, len(rows))
	for i, r := range rows {
		recs[i] = resultRecord{
			GeneID:      r.GeneID,
			Symbol:      r.Symbol,
			Log2FC:      common.NAFloat(r.Log2FC),
			PValue:      common.NAFloat(r.PValue),
			AdjP:        common.NAFloat(r.AdjP),
			BaseMean:    common.NAFloat(r.BaseMean),
			Biotype:     r.Biotype,
			Description: r.Description,
		}
	}
	return common.WriteTSV(path, recs)
}

// AnnotateFile loads an upstream result file and converts it with
// AnnotateRecords. The first column must hold the gene ID.
func AnnotateFile(path, pkg string, ann AnnotationTable) ([]ResultRow, error) {
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
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: empty result table", path)
	}
	return AnnotateRecords(all[0], all[1:], pkg, ann)
}
