package pdfclean

import (
	"flag"
	"fmt"
	"os"
)

func PDFClean_Run(args []string) {

	fs := flag.NewFlagSet("pdfclean", flag.ExitOnError) // Isolated flag set for the "pdfclean" subcommand

	inFile := fs.String("in_file", "", "PDF figure to normalize in place")

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

	if err := Normalize(*inFile); err != nil {
		fmt.Println("Failed to normalize PDF:", err)
		os.Exit(1)
	}
	fmt.Printf("Normalized PDF in place: %s\n", *inFile)
}
