package version_control // Shared analysis defaults

// Defaults used by every tool controller unless overridden on the
// command line. These match the thresholds the wet-lab side reports
// against, so changing them here changes every figure at once.
const (
	// Significance thresholds
	DefaultFCCutoff   = 1.0  // |log2 fold change|
	DefaultPadjCutoff = 0.05 // adjusted p-value

	// Gene set size bounds for enrichment testing
	DefaultMinSetSize = 10
	DefaultMaxSetSize = 500

	// GSEA permutation testing
	DefaultPermutations = 10000
	DefaultEps          = 1e-10

	// Volcano labeling
	DefaultLabelFraction = 0.10

	// ORA plotting
	DefaultLabelWidth = 40 // runes before ellipsis
)
