// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/TyRoXx/silicium/pkg/defaults"
	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/staging"
)

// ValidatePattern checks that pattern is a non-empty, well-formed glob.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}
	if strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern %q must be relative", pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return nil
}

// ValidatePatterns checks every pattern with ValidatePattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if err := ValidatePattern(p); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether the slash-separated relative path rel is selected
// by pattern.
func Matches(pattern, rel string) bool {
	subject := rel
	if !strings.Contains(pattern, "/") {
		subject = pathBase(rel)
	}
	ok, err := doublestar.Match(pattern, subject)
	return err == nil && ok
}

// Option adjusts a single Match or Seq call.
type Option func(*walker)

// WithExclude skips the given directories and everything below them.
// Directories are compared by canonical path; ones that do not exist are
// ignored.
func WithExclude(dirs ...string) Option {
	return func(w *walker) {
		w.exclude = append(w.exclude, dirs...)
	}
}

// Match returns the relative paths of all regular files under root selected
// by at least one pattern. Paths use the OS separator.
func Match(ctx context.Context, root string, patterns []string, opts ...Option) ([]string, error) {
	var out []string
	for rel, err := range Seq(ctx, root, patterns, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

// Seq returns a restartable sequence of the paths Match would return.
// An error is yielded at most once and ends the sequence.
func Seq(ctx context.Context, root string, patterns []string, opts ...Option) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := ValidatePatterns(patterns); err != nil {
			yield("", sierrors.Wrap(sierrors.ErrCodeInvalidRequest, "invalid match pattern", err))
			return
		}

		files, err := listFiles(ctx, root, opts)
		if err != nil {
			yield("", err)
			return
		}

		seen := make(map[string]struct{}, len(files))
		for _, pattern := range patterns {
			for _, rel := range files {
				if _, ok := seen[rel]; ok {
					continue
				}
				if !Matches(pattern, rel) {
					continue
				}
				seen[rel] = struct{}{}
				if !yield(filepath.FromSlash(rel), nil) {
					return
				}
			}
		}
	}
}

// walker lists regular files in lexical order, following symlinked
// directories at most once per canonical path.
type walker struct {
	ctx     context.Context
	root    string
	exclude []string
	visited map[string]struct{}
	files   []string
}

func listFiles(ctx context.Context, root string, opts []Option) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, sierrors.WrapWithContext(sierrors.ErrCodeIO, "match root is not accessible", err,
			map[string]any{"root": root})
	}
	if !info.IsDir() {
		return nil, sierrors.NewWithContext(sierrors.ErrCodeIO, "match root is not a directory",
			map[string]any{"root": root})
	}

	canonical, err := Canonical(root)
	if err != nil {
		return nil, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to resolve match root", err,
			map[string]any{"root": root})
	}

	w := &walker{
		ctx:     ctx,
		root:    root,
		visited: map[string]struct{}{canonical: {}},
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, dir := range w.exclude {
		c, err := Canonical(dir)
		if err != nil {
			continue
		}
		// Marked as visited so the walk never descends into it.
		w.visited[c] = struct{}{}
	}
	if err := w.walk(root, "", 0); err != nil {
		return nil, err
	}
	return w.files, nil
}

func (w *walker) walk(dir, rel string, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return sierrors.Wrap(sierrors.ErrCodeTimeout, "match cancelled", err)
	}
	if depth > defaults.MaxWalkDepth {
		slog.Warn("directory depth limit reached, not descending",
			"root", w.root,
			"path", rel,
			"max_depth", defaults.MaxWalkDepth,
		)
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to read directory", err,
			map[string]any{"path": dir})
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(full)
			if statErr != nil {
				slog.Debug("skipping broken symlink", "path", full, "error", statErr)
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			canonical, evalErr := Canonical(full)
			if evalErr != nil {
				return sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to resolve directory", evalErr,
					map[string]any{"path": full})
			}
			if _, ok := w.visited[canonical]; ok {
				slog.Debug("skipping already visited directory", "path", full, "canonical", canonical)
				continue
			}
			w.visited[canonical] = struct{}{}
			if err := w.walk(full, childRel, depth+1); err != nil {
				return err
			}
		case mode.IsRegular():
			if staging.IsTempName(name) {
				continue
			}
			w.files = append(w.files, childRel)
		}
	}
	return nil
}

// Canonical returns the absolute path of p with all symlinks resolved.
func Canonical(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func pathBase(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[i+1:]
	}
	return rel
}
