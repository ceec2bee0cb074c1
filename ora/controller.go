package ora

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/plot/vg"

	"rnaseq_utils_go/annotate"
	version_control "rnaseq_utils_go/config"
	"rnaseq_utils_go/geneset"
)

func ORA_Run(args []string) {

	fs := flag.NewFlagSet("ora", flag.ExitOnError) // Isolated flag set for the "ora" subcommand

	inFile := fs.String("in_file", "", "Annotated result table (TSV)")
	setsFile := fs.String("term2gene", "", "Term-to-gene table (TSV)")
	subcat := fs.String("subcategory", "", "Gene set subcategory filter (optional)")
	fcCutoff := fs.Float64("fc_cutoff", version_control.DefaultFCCutoff, "|log2 fold change| threshold")
	padjCutoff := fs.Float64("padj_cutoff", version_control.DefaultPadjCutoff, "Adjusted p-value threshold for DE calls")
	minSize := fs.Int("min_size", version_control.DefaultMinSetSize, "Minimum gene set size")
	maxSize := fs.Int("max_size", version_control.DefaultMaxSetSize, "Maximum gene set size")
	plotCutoff := fs.Float64("plot_cutoff", version_control.DefaultPadjCutoff, "Adjusted p-value cutoff for plotted sets")
	layout := fs.String("layout", "both", "Panel layout: both, up, down")
	labelWidth := fs.Int("label_width", version_control.DefaultLabelWidth, "Gene set label width before ellipsis")
	outPrefix := fs.String("out_prefix", "ora", "Prefix for output files")

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

	if *inFile == "" || *setsFile == "" {
		fmt.Println("Error: in_file and term2gene are required")
		fs.Usage()
		os.Exit(1)
	}

	lay, err := ParseLayout(*layout)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	rows, err := annotate.LoadResultTable(*inFile)
	if err != nil {
		fmt.Println("Failed to load result table:", err)
		os.Exit(1)
	}
	coll, err := geneset.LoadTerm2Gene(*setsFile, *subcat)
	if err != nil {
		fmt.Println("Failed to load gene sets:", err)
		os.Exit(1)
	}

	results, err := Run(rows, coll, *fcCutoff, *padjCutoff, Params{MinSize: *minSize, MaxSize: *maxSize})
	if err != nil {
		fmt.Println("ORA failed:", err)
		os.Exit(1)
	}

	resultsFile := *outPrefix + "_results.tsv"
	if err := WriteResults(resultsFile, results); err != nil {
		fmt.Println("Failed to write results:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d enrichment rows to: %s\n", len(results), resultsFile)

	comp, height, err := Plot(results, *plotCutoff, lay, *labelWidth)
	if err != nil {
		fmt.Println("Skipping enrichment plot:", err)
		return
	}
	plotFile := *outPrefix + "_enrichment.svg"
	if err := comp.Save(plotFile); err != nil {
		fmt.Println("Failed to save enrichment plot:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote enrichment plot to: %s (recommended height %.1f in)\n", plotFile, float64(height/vg.Inch))
}
