package annotate

import (
	"flag"
	"fmt"
	"os"
)

func Annotate_Run(args []string) {

	fs := flag.NewFlagSet("annotate", flag.ExitOnError) // Isolated flag set for the "annotate" subcommand

	inFile := fs.String("in_file", "", "Upstream result table (TSV, gene ID in first column)")
	pkg := fs.String("package", "DESeq2", "Upstream package: DESeq2 or edgeR")
	annFile := fs.String("annotation", "", "Gene annotation table (TSV)")
	outFile := fs.String("out_file", "annotated_results.tsv", "Unified result table output")

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

	if *inFile == "" || *annFile == "" {
		fmt.Println("Error: in_file and annotation are required")
		fs.Usage()
		os.Exit(1)
	}

	ann, err := LoadAnnotationTable(*annFile)
	if err != nil {
		fmt.Println("Failed to load annotation table:", err)
		os.Exit(1)
	}

	rows, err := AnnotateFile(*inFile, *pkg, ann)
	if err != nil {
		fmt.Println("Failed to annotate results:", err)
		os.Exit(1)
	}

	if err := WriteResultTable(*outFile, rows); err != nil {
		fmt.Println("Failed to write result table:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d annotated rows to: %s\n", len(rows), *outFile)
}
