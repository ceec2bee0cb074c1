package heatmap

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rnaseq_utils_go/annotate"
)

func Heatmap_Run(args []string) {

	fs := flag.NewFlagSet("heatmap", flag.ExitOnError) // Isolated flag set for the "heatmap" subcommand

	matrixFile := fs.String("matrix", "", "Normalized expression matrix (TSV, genes x samples)")
	metaFile := fs.String("metadata", "", "Sample metadata table (TSV, sample name in first column)")
	inFile := fs.String("in_file", "", "Annotated result table (TSV) used for gene ordering")
	annFile := fs.String("annotation", "", "Gene annotation table (TSV)")
	genes := fs.String("genes", "", "Comma-separated gene symbols to display")
	xCol := fs.String("x", "", "Metadata column for the x axis")
	facetCol := fs.String("facet", "", "Metadata column for facet grouping")
	scale := fs.String("scale", "zscore", "Value scaling: zscore, center, raw")
	dropConst := fs.Bool("drop_constant", false, "Drop genes constant across all samples")
	outFile := fs.String("out_file", "heatmap.svg", "Heatmap output")

	err := fs.Parse(args)
	if err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	if len(fs.Args()) > 0 {
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args())
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	if *matrixFile == "" || *metaFile == "" || *inFile == "" || *annFile == "" || *genes == "" || *xCol == "" || *facetCol == "" {
		fmt.Println("Error: matrix, metadata, in_file, annotation, genes, x and facet are required")
		fs.Usage()
		os.Exit(1)
	}

	mode, err := ParseScaleMode(*scale)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	var symbols []string
	for _, s := range strings.Split(*genes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	m, err := LoadMatrix(*matrixFile)
	if err != nil {
		fmt.Println("Failed to load expression matrix:", err)
		os.Exit(1)
	}
	meta, err := LoadSampleMeta(*metaFile)
	if err != nil {
		fmt.Println("Failed to load sample metadata:", err)
		os.Exit(1)
	}
	rows, err := annotate.LoadResultTable(*inFile)
	if err != nil {
		fmt.Println("Failed to load result table:", err)
		os.Exit(1)
	}
	ann, err := annotate.LoadAnnotationTable(*annFile)
	if err != nil {
		fmt.Println("Failed to load annotation table:", err)
		os.Exit(1)
	}

	data, err := Build(m, meta, rows, symbols, ann, *xCol, *facetCol, Options{
		Scale:        mode,
		DropConstant: *dropConst,
	})
	if err != nil {
		fmt.Println("Failed to build heatmap data:", err)
		os.Exit(1)
	}

	comp, err := Render(data)
	if err != nil {
		fmt.Println("Failed to render heatmap:", err)
		os.Exit(1)
	}
	if err := comp.Save(*outFile); err != nil {
		fmt.Println("Failed to save heatmap:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote heatmap (%d genes, %d facets) to: %s\n", len(data.RowLabels), len(data.Facets), *outFile)
}
