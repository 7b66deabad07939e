// Package pipeline renders quarto sources and rewrites the output for
// mkdocs.
package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pkt.systems/quartodown"
	"pkt.systems/quartodown/internal/quarto"
)

const sourceExt = ".qmd"

// Pipeline discovers .qmd sources under a docs directory, renders them
// with quarto, converts the rendered markdown with the transformer and
// removes the intermediates quarto generated along the way.
type Pipeline struct {
	Config Config
	Runner *quarto.Runner
	Logger *zap.Logger
	// Force re-renders even when the target is newer than the source.
	Force bool
}

// TargetPath returns the markdown file a source renders to.
func TargetPath(src string) string {
	return strings.TrimSuffix(src, sourceExt) + ".md"
}

// Sources returns every .qmd file under the docs dir, sorted.
func (p *Pipeline) Sources() ([]string, error) {
	var out []string
	err := filepath.WalkDir(p.Config.DocsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == sourceExt {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", p.Config.DocsDir)
	}
	sort.Strings(out)
	return out, nil
}

// Run renders every stale source and writes its converted markdown
// target. Files quarto generated besides the targets are removed
// afterwards unless keep_outputs is set.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.logger()
	sources, err := p.Sources()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		logger.Warn("no quarto files found", zap.String("dir", p.Config.DocsDir))
		return nil
	}

	watcher, err := Watch(p.Config.DocsDir)
	if err != nil {
		return err
	}

	targets := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := TargetPath(src)
		targets[target] = struct{}{}
		if !p.Force {
			stale, err := needsRender(src, target)
			if err != nil {
				return err
			}
			if !stale {
				logger.Debug("target up to date", zap.String("source", src))
				continue
			}
		}
		logger.Info("rendering", zap.String("source", src))
		if err := p.Runner.Render(ctx, src); err != nil {
			return err
		}
		if err := p.convert(target); err != nil {
			return err
		}
	}

	generated, err := watcher.Cleanup(func(path string) error {
		if p.Config.KeepOutputs {
			return nil
		}
		if _, keep := targets[path]; keep {
			return nil
		}
		logger.Debug("removing generated file", zap.String("path", path))
		return os.RemoveAll(path)
	})
	if err != nil {
		return err
	}
	logger.Info("pipeline done",
		zap.Int("sources", len(sources)),
		zap.Int("generated", len(generated)))
	return nil
}

// convert rewrites one rendered markdown file in place.
func (p *Pipeline) convert(target string) error {
	data, err := os.ReadFile(target)
	if err != nil {
		return errors.Wrap(err, "reading rendered markdown")
	}
	var opts []quartodown.Option
	if p.Config.MaxDepth > 0 {
		opts = append(opts, quartodown.WithMaxDepth(p.Config.MaxDepth))
	}
	out, err := quartodown.TransformDocument(data, opts...)
	if err != nil {
		return errors.Wrapf(err, "converting %s", target)
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return errors.Wrap(err, "writing converted markdown")
	}
	return nil
}

// needsRender reports whether target is missing or older than src.
func needsRender(src, target string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", src)
	}
	targetInfo, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, "stat %s", target)
	}
	return targetInfo.ModTime().Before(srcInfo.ModTime()), nil
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.NewNop()
}
