package volcano

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/plot/vg"

	"rnaseq_utils_go/annotate"
	version_control "rnaseq_utils_go/config"
)

func Volcano_Run(args []string) {

	fs := flag.NewFlagSet("volcano", flag.ExitOnError) // Isolated flag set for the "volcano" subcommand

	inFile := fs.String("in_file", "", "Annotated result table (TSV)")
	fcCutoff := fs.Float64("fc_cutoff", version_control.DefaultFCCutoff, "|log2 fold change| threshold")
	padjCutoff := fs.Float64("padj_cutoff", version_control.DefaultPadjCutoff, "Adjusted p-value threshold")
	labelFrac := fs.Float64("label_fraction", version_control.DefaultLabelFraction, "Top fraction of significant genes to label")
	codingOnly := fs.Bool("coding_only", false, "Label protein_coding genes only")
	outFile := fs.String("out_file", "volcano.svg", "Volcano plot output")

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

	if *inFile == "" {
		fmt.Println("Error: in_file is required")
		fs.Usage()
		os.Exit(1)
	}

	rows, err := annotate.LoadResultTable(*inFile)
	if err != nil {
		fmt.Println("Failed to load result table:", err)
		os.Exit(1)
	}

	p, err := Plot(rows, Options{
		FCCutoff:      *fcCutoff,
		PadjCutoff:    *padjCutoff,
		LabelFraction: *labelFrac,
		CodingOnly:    *codingOnly,
	})
	if err != nil {
		fmt.Println("Failed to draw volcano plot:", err)
		os.Exit(1)
	}

	if err := p.Save(6*vg.Inch, 5*vg.Inch, *outFile); err != nil {
		fmt.Println("Failed to save volcano plot:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote volcano plot to: %s\n", *outFile)
}
