// Package nav rewrites mkdocs navigation entries that point at .qmd
// sources so they reference the rendered .md files instead.
package nav

import (
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Rewrite replaces the .qmd suffix with .md in every string of v,
// descending into lists and maps. The input value is not mutated.
func Rewrite(v interface{}) interface{} {
	switch node := v.(type) {
	case string:
		if strings.HasSuffix(node, ".qmd") {
			return strings.TrimSuffix(node, ".qmd") + ".md"
		}
		return node
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, item := range node {
			out[i] = Rewrite(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, item := range node {
			out[k] = Rewrite(item)
		}
		return out
	default:
		return v
	}
}

// RewriteFile loads an mkdocs config, rewrites its nav tree and writes
// the result back. A config without a nav section is left untouched.
func RewriteFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading mkdocs config")
	}
	var cfg map[string]interface{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	tree, ok := cfg["nav"]
	if !ok {
		return nil
	}
	cfg["nav"] = Rewrite(tree)
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding mkdocs config")
	}
	return errors.Wrapf(os.WriteFile(path, out, 0o644), "writing %s", path)
}
