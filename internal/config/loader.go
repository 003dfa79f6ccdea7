package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Loader resolves configuration for a project directory.
type Loader interface {
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader rooted at the given project
// directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load resolves configuration in the order built-in defaults → global
// ~/.maharajah/maharajah.toml (auto-created on first run if missing) →
// project <rootDir>/maharajah.toml (optional) → MAHARAJAH_-prefixed
// environment variables, using "__" as the nested-key separator.
func (l *loader) Load() (*Config, error) {
	globalPath, err := ensureGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("prepare global config: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(globalPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read global config %s: %w", globalPath, err)
	}

	projectPath := filepath.Join(l.rootDir, "maharajah.toml")
	if _, statErr := os.Stat(projectPath); statErr == nil {
		pv := viper.New()
		pv.SetConfigType("toml")
		pv.SetConfigFile(projectPath)
		if err := pv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read project config %s: %w", projectPath, err)
		}
		if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
			return nil, fmt.Errorf("merge project config: %w", err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("stat project config %s: %w", projectPath, statErr)
	}

	v.SetEnvPrefix("MAHARAJAH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	bindEnvVars(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("embed.model_id", d.Embed.ModelID)
	v.SetDefault("embed.provider", d.Embed.Provider)
	v.SetDefault("db.table_name", d.DB.TableName)
	v.SetDefault("db.embedding_dim", d.DB.EmbeddingDim)
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("index.max_chunk_lines", d.Index.MaxChunkLines)
	v.SetDefault("index.default_extensions", d.Index.DefaultExtensions)
	v.SetDefault("index.default_excludes", d.Index.DefaultExcludes)
	v.SetDefault("index.batch_size", d.Index.BatchSize)
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("embed.model_id")
	_ = v.BindEnv("embed.provider")
	_ = v.BindEnv("db.table_name")
	_ = v.BindEnv("db.embedding_dim")
	_ = v.BindEnv("db.path")
	_ = v.BindEnv("index.max_chunk_lines")
	_ = v.BindEnv("index.default_extensions")
	_ = v.BindEnv("index.default_excludes")
	_ = v.BindEnv("index.batch_size")
}

// ensureGlobalConfig returns the path to ~/.maharajah/maharajah.toml,
// writing the default configuration there on first run.
func ensureGlobalConfig() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".maharajah")
	path := filepath.Join(dir, "maharajah.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// LoadConfig loads configuration rooted at the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration rooted at rootDir.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
