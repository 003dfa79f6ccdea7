// Package config resolves Maharajah's layered TOML + environment
// configuration: built-in defaults, then a machine-wide
// ~/.maharajah/maharajah.toml, then a project maharajah.toml, then
// MAHARAJAH_-prefixed environment variables.
package config

// Config is the fully resolved configuration for one project invocation.
type Config struct {
	Embed EmbedConfig `toml:"embed" mapstructure:"embed"`
	DB    DBConfig    `toml:"db" mapstructure:"db"`
	Index IndexConfig `toml:"index" mapstructure:"index"`
}

// EmbedConfig configures the embedding provider.
type EmbedConfig struct {
	ModelID  string `toml:"model_id" mapstructure:"model_id"`
	Provider string `toml:"provider" mapstructure:"provider"` // "local" or "mock"
}

// DBConfig configures the vector store.
type DBConfig struct {
	TableName    string `toml:"table_name" mapstructure:"table_name"`
	EmbeddingDim int    `toml:"embedding_dim" mapstructure:"embedding_dim"`
	Path         string `toml:"path" mapstructure:"path"` // relative to project root unless absolute
}

// IndexConfig configures the walker and chunker.
type IndexConfig struct {
	MaxChunkLines     int      `toml:"max_chunk_lines" mapstructure:"max_chunk_lines"`
	DefaultExtensions []string `toml:"default_extensions" mapstructure:"default_extensions"`
	DefaultExcludes   []string `toml:"default_excludes" mapstructure:"default_excludes"`
	BatchSize         int      `toml:"batch_size" mapstructure:"batch_size"`
}

// Default returns the built-in configuration, the lowest-priority layer in
// the resolution order.
func Default() *Config {
	return &Config{
		Embed: EmbedConfig{
			ModelID:  "nomic-ai/CodeRankEmbed",
			Provider: "local",
		},
		DB: DBConfig{
			TableName:    "chunks",
			EmbeddingDim: 768,
			Path:         ".maharajah",
		},
		Index: IndexConfig{
			MaxChunkLines: 150,
			DefaultExtensions: []string{
				".go", ".rs", ".py", ".pyi",
				".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs",
				".java", ".rb", ".c", ".h", ".php",
			},
			DefaultExcludes: []string{
				".git/**",
				"node_modules/**",
				"vendor/**",
				"target/**",
				"dist/**",
				"build/**",
				"__pycache__/**",
				".maharajah/**",
			},
			BatchSize: 32,
		},
	}
}
