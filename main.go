package main

import (
	"fmt"
	"os"
	"strings"

	"rnaseq_utils_go/annotate"
	"rnaseq_utils_go/benchmark"
	version_control "rnaseq_utils_go/config"
	"rnaseq_utils_go/generank"
	"rnaseq_utils_go/gsea"
	"rnaseq_utils_go/heatmap"
	"rnaseq_utils_go/ora"
	"rnaseq_utils_go/pdfclean"
	"rnaseq_utils_go/volcano"
)

// printCustomHelp formats a custom help menu
func printCustomHelp() {
	fmt.Println(`RNAseq Utils - Custom Help Menu
Usage:
  rnaseq_utils <tool> [options]

Tools:
  annotate	Convert DESeq2/edgeR results to the unified table
  rank		Build a ranked gene list for enrichment testing
  gsea		Run gene set enrichment analysis and plot NES bars
  gseacurves	Plot overlaid running enrichment score curves
  ora		Run over-representation analysis and plot ratios
  volcano	Draw a fold-change vs significance volcano plot
  heatmap	Draw a faceted expression heatmap
  pdfclean	Normalize an exported PDF figure for reproducibility

Global Flags:
  -h, -help		Show this help message
  -v, -version		Show version information

Benchmarking:
  -benchmark		Must be used in association with a tool.
			Displays computational resource usage
  `,
	)
	os.Exit(0)
}

func printVersion() {
	fmt.Println("RNAseq Utils - Version Information Menu")
	fmt.Println("Central Executable:")
	fmt.Printf("\tRNAseq Utils:\t\t%s\n", version_control.Main_version)
	fmt.Printf("\nModular tools:\n")
	fmt.Printf("\tResult Annotator:\t%s\n", version_control.Result_Annotate)
	fmt.Printf("\tGene Ranker:\t\t%s\n", version_control.Gene_Rank)
	fmt.Printf("\tGSEA:\t\t\t%s\n", version_control.GSEA)
	fmt.Printf("\tGSEA Curves:\t\t%s\n", version_control.GSEA_Curves)
	fmt.Printf("\tORA:\t\t\t%s\n", version_control.ORA)
	fmt.Printf("\tVolcano:\t\t%s\n", version_control.Volcano)
	fmt.Printf("\tHeatmap:\t\t%s\n", version_control.Heatmap)
	fmt.Printf("\tPDF Clean:\t\t%s\n", version_control.PDF_Clean)
	fmt.Printf("\tBenchmark:\t\t%s\n", version_control.Benchmark)

	fmt.Println("")

	os.Exit(0)
}

// Main controller
func main() {

	// If no arguments are given, show help
	if len(os.Args) < 2 {
		printCustomHelp()
	}

	// Scan for executible-specific help flags
	for _, arg := range os.Args[1:] {
		if len(os.Args) < 3 {
			if arg == "-h" || arg == "-help" {
				printCustomHelp()
			}
		}
	}

	// Version request
	if os.Args[1] == "-v" || os.Args[1] == "-version" {
		printVersion()
	}

	// Global benchmark flag can precede or follow the tool name
	runBenchmark := false
	var rest []string
	for _, arg := range os.Args[1:] {
		if arg == "-benchmark" {
			runBenchmark = true
			continue
		}
		rest = append(rest, arg)
	}
	if len(rest) == 0 {
		printCustomHelp()
	}

	tool := rest[0]
	args := rest[1:]

	run := func() {
		switch strings.ToLower(tool) {
		case "annotate":
			annotate.Annotate_Run(args)
		case "rank":
			generank.GeneRank_Run(args)
		case "gsea":
			gsea.GSEA_Run(args)
		case "gseacurves":
			gsea.GSEACurves_Run(args)
		case "ora":
			ora.ORA_Run(args)
		case "volcano":
			volcano.Volcano_Run(args)
		case "heatmap":
			heatmap.Heatmap_Run(args)
		case "pdfclean":
			pdfclean.PDFClean_Run(args)
		default:
			fmt.Printf("Unknown tool: %s\n\n", tool)
			printCustomHelp()
		}
	}

	if runBenchmark {
		benchmark.Run(tool, run)
		return
	}
	run()
}
