// Package quarto runs the quarto CLI to render .qmd sources to markdown.
package quarto

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultBinary is the executable looked up on PATH when no explicit path
// is configured.
const DefaultBinary = "quarto"

const defaultMaxElapsed = 2 * time.Minute

// Locate resolves the quarto executable. An empty path means look up
// DefaultBinary on PATH.
func Locate(path string) (string, error) {
	if path == "" {
		path = DefaultBinary
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", errors.Wrapf(err, "locating quarto executable %q", path)
	}
	return resolved, nil
}

// Runner invokes quarto render as a subprocess.
type Runner struct {
	path    string
	logger  *zap.Logger
	maxWait time.Duration
}

// NewRunner resolves the quarto executable and returns a runner using it.
// A nil logger disables logging.
func NewRunner(path string, logger *zap.Logger) (*Runner, error) {
	resolved, err := Locate(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{path: resolved, logger: logger, maxWait: defaultMaxElapsed}, nil
}

// Path returns the resolved executable path.
func (r *Runner) Path() string {
	return r.path
}

// Render renders one .qmd source to markdown in place, retrying transient
// failures with exponential backoff. Context cancellation and a clean
// nonzero exit are permanent: quarto exits nonzero when the document
// itself is broken, and retrying cannot fix a document.
func (r *Runner) Render(ctx context.Context, src string) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = r.maxWait
	attempt := 0
	op := func() error {
		attempt++
		err := r.renderOnce(ctx, src)
		if err == nil {
			return nil
		}
		if !transient(err) {
			return backoff.Permanent(err)
		}
		r.logger.Warn("quarto render failed, retrying",
			zap.String("source", src),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return errors.Wrapf(err, "rendering %s", src)
	}
	return nil
}

func (r *Runner) renderOnce(ctx context.Context, src string) error {
	cmd := exec.CommandContext(ctx, r.path, "render", src, "--to=markdown")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	r.logger.Debug("running quarto", zap.Strings("args", cmd.Args))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrap(err, msg)
		}
		return err
	}
	return nil
}

// transient reports whether a render failure is worth retrying. A missing
// binary, a canceled context and a clean nonzero exit are permanent; a
// process killed by a signal (OOM, sandbox churn) and plain I/O failures
// are retried.
func transient(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var execErr *exec.Error
	if stderrors.As(err, &execErr) {
		return false
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode() == -1
	}
	return true
}
