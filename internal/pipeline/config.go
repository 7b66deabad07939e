package pipeline

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Config is the on-disk tool configuration, a small yaml file kept next
// to the mkdocs config.
type Config struct {
	// QuartoPath is the quarto executable; empty means look it up on
	// PATH.
	QuartoPath string `json:"quarto_path"`
	// DocsDir is the directory searched for .qmd sources.
	DocsDir string `json:"docs_dir"`
	// KeepOutputs leaves the intermediate files quarto generates in
	// place instead of removing them after conversion.
	KeepOutputs bool `json:"keep_outputs"`
	// MaxDepth caps block nesting in the transformer; 0 uses the
	// library default.
	MaxDepth int `json:"max_depth"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{DocsDir: "docs"}
}

// LoadConfig reads the configuration at path. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = DefaultConfig().DocsDir
	}
	return cfg, nil
}
