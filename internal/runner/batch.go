package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// ResolveModels expands glob patterns (with ** support) into model files.
// Plain paths are kept as given so that a missing file surfaces as a model
// error of its own. Duplicates are dropped, first occurrence wins.
func ResolveModels(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		sort.Strings(matches)
		n := 0
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			add(match)
			n++
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}
	}

	return out, nil
}

// CheckOutputs reports models whose result files would overwrite each other.
func (r *Runner) CheckOutputs(paths []string) error {
	owner := make(map[string]string, len(paths))
	for _, p := range paths {
		out := r.OutputPath(p)
		key := out
		if abs, err := filepath.Abs(out); err == nil {
			key = abs
		}
		if prev, dup := owner[key]; dup {
			return fmt.Errorf("%w: %s and %s -> %s", ErrOutputCollision, prev, p, out)
		}
		owner[key] = p
	}

	return nil
}

// SolveAll solves paths concurrently, at most Solve.Workers at a time.
// Results are index-aligned with paths; entries of models that did not run
// are zero. By default the first failure cancels the rest of the batch and
// is returned; WithKeepGoing runs every model and joins all failures.
func (r *Runner) SolveAll(ctx context.Context, paths []string) ([]Result, error) {
	if err := r.CheckOutputs(paths); err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	errs := make([]error, len(paths))

	var (
		g    *errgroup.Group
		gctx = ctx
	)
	if r.keepGoing {
		g = new(errgroup.Group)
	} else {
		g, gctx = errgroup.WithContext(ctx)
	}
	workers := r.cfg.Solve.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil // canceled before start
			}
			res, err := r.Solve(gctx, path)
			results[i], errs[i] = res, err
			if r.keepGoing {
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	if r.keepGoing {
		err = errors.Join(errs...)
	}
	if err == nil {
		err = ctx.Err()
	}

	return results, err
}
