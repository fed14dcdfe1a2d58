package types

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	// IndexFile is the newline-delimited list of XML document paths to process.
	IndexFile string `json:"index_file" yaml:"index_file"`

	// OutputFile is the NDJSON destination. It is truncated at the start of a run.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// MaxRecords caps the number of emitted records. Zero emits nothing;
	// a negative value means unbounded.
	MaxRecords int `json:"max_records" yaml:"max_records"`
}

// CatalogConfig holds settings for the catalog stage.
type CatalogConfig struct {
	// CatalogDir is the directory holding the SQLite database and export files.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
