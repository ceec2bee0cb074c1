// Package annotate converts differential-expression result tables from
// the supported upstream statistical packages into one unified schema,
// joined against a gene annotation table keyed by Ensembl gene ID.
package annotate

import (
	"fmt"
	"math"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// ResultRow is the unified per-gene differential-expression record.
// Missing statistics are NaN-encoded.
type ResultRow struct {
	GeneID      string
	Symbol      string
	Log2FC      float64
	PValue      float64
	AdjP        float64
	BaseMean    float64
	Biotype     string
	Description string
}

// columnMapping names the upstream columns that feed each unified field.
// Adding support for a third package is a data-only change here.
type columnMapping struct {
	log2FC   string
	pValue   string
	adjP     string
	baseMean string
}

var schemaColumns = map[string]columnMapping{
	"DESeq2": {log2FC: "log2FoldChange", pValue: "pvalue", adjP: "padj", baseMean: "baseMean"},
	"edgeR":  {log2FC: "logFC", pValue: "PValue", adjP: "FDR", baseMean: "logCPM"},
}

// SupportedPackages lists the recognized upstream package tags.
func SupportedPackages() []string {
	return []string{"DESeq2", "edgeR"}
}

// AnnotateRecords converts an upstream result table, given as a header
// row plus records with the gene ID in the first column, into unified
// ResultRows joined against the annotation table. An unrecognized
// package tag logs a warning and yields an empty table.
func AnnotateRecords(header []string, records [][]string, pkg string, ann AnnotationTable) ([]ResultRow, error) {
	mapping, ok := schemaColumns[pkg]
	if !ok {
		log.Warnf("unrecognized package %q, returning empty result table (supported: DESeq2, edgeR)", pkg)
		return []ResultRow{}, nil
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, want := range []string{mapping.log2FC, mapping.pValue, mapping.adjP, mapping.baseMean} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("%s result table is missing column %q", pkg, want)
		}
	}

	rows := make([]ResultRow, 0, len(records))
	for _, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("record for %q has %d fields, header has %d", rec[0], len(rec), len(header))
		}
		r := ResultRow{
			GeneID:   rec[0],
			Log2FC:   parseStat(rec[col[mapping.log2FC]]),
			PValue:   parseStat(rec[col[mapping.pValue]]),
			AdjP:     parseStat(rec[col[mapping.adjP]]),
			BaseMean: parseStat(rec[col[mapping.baseMean]]),
		}
		if g, ok := ann[r.GeneID]; ok {
			r.Symbol = g.Symbol
			r.Biotype = g.Biotype
			r.Description = g.Description
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// parseStat reads a numeric field, mapping NA and blanks to NaN.
func parseStat(field string) float64 {
	if field == "" || field == "NA" || field == "NaN" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
