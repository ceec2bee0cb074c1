package version_control

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executible
	Main_version = "v1.0.0"

	// Modular tools
	Benchmark       = "v1.0.0"
	Result_Annotate = "v1.1.0"
	Gene_Rank       = "v1.0.0"
	GSEA            = "v1.2.0"
	GSEA_Curves     = "v1.0.1"
	ORA             = "v1.1.0"
	Volcano         = "v1.2.1"
	Heatmap         = "v1.1.0"
	PDF_Clean       = "v1.0.0"
)
