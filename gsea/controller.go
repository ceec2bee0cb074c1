package gsea

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rnaseq_utils_go/annotate"
	version_control "rnaseq_utils_go/config"
	"rnaseq_utils_go/generank"
	"rnaseq_utils_go/geneset"

	"gonum.org/v1/plot/vg"
)

// sharedFlags holds the flags common to the gsea and gseacurves tools.
type sharedFlags struct {
	inFile   *string
	setsFile *string
	subcat   *string
	metric   *string
	missing  *string
	minSize  *int
	maxSize  *int
	nperm    *int
	eps      *float64
	seed     *int64
}

func addSharedFlags(fs *flag.FlagSet) sharedFlags {
	return sharedFlags{
		inFile:   fs.String("in_file", "", "Annotated result table (TSV)"),
		setsFile: fs.String("term2gene", "", "Term-to-gene table (TSV)"),
		subcat:   fs.String("subcategory", "", "Gene set subcategory filter (optional)"),
		metric:   fs.String("metric", "signed_p_value", "Ranking metric: fold_change, signed_p_value, combined_score"),
		missing:  fs.String("missing", "impute", "Missing-data policy: drop or impute"),
		minSize:  fs.Int("min_size", version_control.DefaultMinSetSize, "Minimum gene set size"),
		maxSize:  fs.Int("max_size", version_control.DefaultMaxSetSize, "Maximum gene set size"),
		nperm:    fs.Int("nperm", version_control.DefaultPermutations, "Permutation count"),
		eps:      fs.Float64("eps", version_control.DefaultEps, "Lower bound on reported p-values"),
		seed:     fs.Int64("seed", 42, "Permutation RNG seed"),
	}
}

// runShared validates the shared flags and runs the enrichment.
func runShared(fs *flag.FlagSet, sf sharedFlags) *Analysis {
	if len(fs.Args()) > 0 {
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args())
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}
	if *sf.inFile == "" || *sf.setsFile == "" {
		fmt.Println("Error: in_file and term2gene are required")
		fs.Usage()
		os.Exit(1)
	}

	metric, err := generank.ParseMetric(*sf.metric)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	policy, err := generank.ParseMissingPolicy(*sf.missing)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	rows, err := annotate.LoadResultTable(*sf.inFile)
	if err != nil {
		fmt.Println("Failed to load result table:", err)
		os.Exit(1)
	}
	coll, err := geneset.LoadTerm2Gene(*sf.setsFile, *sf.subcat)
	if err != nil {
		fmt.Println("Failed to load gene sets:", err)
		os.Exit(1)
	}

	an, err := Run(rows, coll, metric, policy, Params{
		MinSize:      *sf.minSize,
		MaxSize:      *sf.maxSize,
		Permutations: *sf.nperm,
		Eps:          *sf.eps,
		Seed:         *sf.seed,
	})
	if err != nil {
		fmt.Println("GSEA failed:", err)
		os.Exit(1)
	}
	return an
}

func GSEA_Run(args []string) {

	fs := flag.NewFlagSet("gsea", flag.ExitOnError) // Isolated flag set for the "gsea" subcommand
	sf := addSharedFlags(fs)
	cutoff := fs.Float64("cutoff", version_control.DefaultPadjCutoff, "Adjusted p-value cutoff for the bar plot")
	subset := fs.String("subset", "all", "Bar plot subset: all, positive, negative")
	outPrefix := fs.String("out_prefix", "gsea", "Prefix for output files")

	if err := fs.Parse(args); err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	sub, err := ParseSubset(*subset)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	an := runShared(fs, sf)

	resultsFile := *outPrefix + "_results.tsv"
	if err := WriteResults(resultsFile, an.Results); err != nil {
		fmt.Println("Failed to write results:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d gene set results to: %s\n", len(an.Results), resultsFile)

	p, height, err := BarPlot(an.Results, *cutoff, sub)
	if err != nil {
		fmt.Println("Skipping bar plot:", err)
		return
	}
	plotFile := *outPrefix + "_nes.svg"
	if err := p.Save(6*vg.Inch, height, plotFile); err != nil {
		fmt.Println("Failed to save bar plot:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote NES bar plot to: %s\n", plotFile)
}

func GSEACurves_Run(args []string) {

	fs := flag.NewFlagSet("gseacurves", flag.ExitOnError) // Isolated flag set for the "gseacurves" subcommand
	sf := addSharedFlags(fs)
	sets := fs.String("sets", "", "Comma-separated gene set names to overlay")
	simplify := fs.Bool("simplify", true, "Simplify curves before rendering")
	outFile := fs.String("out_file", "gsea_curves.svg", "Curve plot output")

	if err := fs.Parse(args); err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	if *sets == "" {
		fmt.Println("Error: sets is required")
		fs.Usage()
		os.Exit(1)
	}
	var names []string
	for _, s := range strings.Split(*sets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}

	an := runShared(fs, sf)

	p, err := CurvePlot([]*Analysis{an}, names, *simplify)
	if err != nil {
		fmt.Println("Failed to draw curves:", err)
		os.Exit(1)
	}
	if err := p.Save(7*vg.Inch, 5*vg.Inch, *outFile); err != nil {
		fmt.Println("Failed to save curve plot:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote running-score curves to: %s\n", *outFile)
}
