package generank

import (
	"flag"
	"fmt"
	"os"

	"rnaseq_utils_go/annotate"
	common "rnaseq_utils_go/utils"
)

// rankRecord is the on-disk form of one ranking entry.
type rankRecord struct {
	GeneID string         `csv:"gene_id"`
	Score  common.NAFloat `csv:"score"`
}

// WriteRanking writes a ranking vector to a TSV file.
func WriteRanking(path string, r Ranking) error {
	recs := make([]rankRecord, len(r))
	for i, g := range r {
		recs[i] = rankRecord{GeneID: g.GeneID, Score: common.NAFloat(g.Score)}
	}
	return common.WriteTSV(path, recs)
}

func GeneRank_Run(args []string) {

	fs := flag.NewFlagSet("rank", flag.ExitOnError) // Isolated flag set for the "rank" subcommand

	inFile := fs.String("in_file", "", "Annotated result table (TSV)")
	metric := fs.String("metric", "signed_p_value", "Ranking metric: fold_change, signed_p_value, combined_score")
	missing := fs.String("missing", "impute", "Missing-data policy: drop or impute")
	outFile := fs.String("out_file", "ranking.tsv", "Ranking vector output")

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

	m, err := ParseMetric(*metric)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	policy, err := ParseMissingPolicy(*missing)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	rows, err := annotate.LoadResultTable(*inFile)
	if err != nil {
		fmt.Println("Failed to load result table:", err)
		os.Exit(1)
	}

	ranking, err := Prepare(rows, m, policy)
	if err != nil {
		fmt.Println("Failed to prepare ranking:", err)
		os.Exit(1)
	}

	if err := WriteRanking(*outFile, ranking); err != nil {
		fmt.Println("Failed to write ranking:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d ranked genes to: %s\n", len(ranking), *outFile)
}
