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

package staging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/TyRoXx/silicium/pkg/checksum"
	"github.com/TyRoXx/silicium/pkg/config"
	"github.com/TyRoXx/silicium/pkg/defaults"
	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/header"
)

// Applier executes staging plans.
type Applier struct {
	cfg     *config.Config
	limiter *rate.Limiter
}

// NewApplier returns an Applier for cfg. A nil cfg uses config.NewConfig().
func NewApplier(cfg *config.Config) (*Applier, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, sierrors.Wrap(sierrors.ErrCodeInvalidRequest, "invalid staging configuration", err)
	}

	a := &Applier{cfg: cfg}
	if cfg.RateLimit() > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit()), cfg.Parallelism())
	}
	return a, nil
}

// Config returns the configuration the Applier was created with.
func (a *Applier) Config() *config.Config {
	return a.cfg
}

// Apply copies every planned file that is missing or out of date.
//
// The returned Report is never nil. When some files failed, the error is a
// *PartialFailureError and all other files were still processed. An empty
// plan performs no filesystem access.
func (a *Applier) Apply(ctx context.Context, plan *Plan) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()

	report := &Report{
		Operation: plan.Operation,
		Recipe:    plan.Recipe,
		RunID:     runID,
		DestRoot:  plan.DestRoot,
		Planned:   len(plan.Entries),
		DryRun:    a.cfg.DryRun(),
	}
	report.Init(header.KindStagingReport, header.APIVersion, a.cfg.Version())

	if len(plan.Entries) == 0 {
		slog.Debug("nothing to stage",
			"operation", plan.Operation,
			"recipe", plan.Recipe,
		)
		report.Duration = time.Since(start)
		recordReport(report)
		return report, nil
	}

	slog.Info("applying staging plan",
		"operation", plan.Operation,
		"recipe", plan.Recipe,
		"run_id", runID,
		"file_count", len(plan.Entries),
		"parallelism", a.cfg.Parallelism(),
		"dry_run", a.cfg.DryRun(),
	)

	if a.cfg.CleanStale() && !a.cfg.DryRun() {
		removed, err := cleanupPlan(ctx, plan, runID, start)
		report.StaleRemoved = removed
		if err != nil {
			slog.Warn("stale temp cleanup incomplete",
				"dest_root", plan.DestRoot,
				"removed", removed,
				"error", err,
			)
		}
	}

	results := make([]FileResult, len(plan.Entries))
	errs := make([]error, len(plan.Entries))

	var g errgroup.Group
	g.SetLimit(a.cfg.Parallelism())

	for i, entry := range plan.Entries {
		g.Go(func() error {
			results[i], errs[i] = a.applyEntry(ctx, entry, runID)
			return nil
		})
	}

	// Per-file errors are collected in errs; the group itself never fails.
	_ = g.Wait()

	for i, res := range results {
		report.Files = append(report.Files, res)
		switch res.Action {
		case ActionCopied, ActionWouldCopy:
			report.Copied++
			report.BytesCopied += res.Bytes
		case ActionSkipped:
			report.Skipped++
		case ActionFailed:
			report.Failed = append(report.Failed, FileError{
				Source:      res.Source,
				Destination: res.Destination,
				Reason:      errs[i].Error(),
				Err:         errs[i],
			})
		}
	}
	report.Duration = time.Since(start)
	recordReport(report)

	slog.Info("staging plan applied", "summary", report.Summary())

	if report.HasFailures() {
		for _, f := range report.Failed {
			slog.Error("failed to stage file",
				"operation", plan.Operation,
				"source", f.Source,
				"destination", f.Destination,
				"error", f.Reason,
			)
		}
		return report, &PartialFailureError{Operation: plan.Operation, Failed: report.Failed}
	}
	return report, nil
}

// applyEntry stages a single file. It returns the failed result together
// with the cause when the file could not be staged.
func (a *Applier) applyEntry(ctx context.Context, e Entry, runID string) (FileResult, error) {
	res := FileResult{Source: e.Source, Destination: e.Destination, Action: ActionFailed}

	if err := ctx.Err(); err != nil {
		return res, sierrors.Wrap(sierrors.ErrCodeTimeout, "staging cancelled before copy", err)
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return res, sierrors.Wrap(sierrors.ErrCodeTimeout, "staging cancelled while rate limited", err)
		}
	}

	srcInfo, err := os.Stat(e.Source)
	if err != nil {
		return res, sierrors.Wrap(sierrors.ErrCodeIO, "failed to stat source", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return res, sierrors.New(sierrors.ErrCodeIO, "source is not a regular file")
	}

	upToDate, err := a.upToDate(e, srcInfo)
	if err != nil {
		return res, err
	}
	if upToDate {
		res.Action = ActionSkipped
		return res, nil
	}

	if a.cfg.DryRun() {
		res.Action = ActionWouldCopy
		res.Bytes = srcInfo.Size()
		return res, nil
	}

	n, err := copyAtomic(e.Source, e.Destination, srcInfo, runID)
	if err != nil {
		return res, err
	}

	slog.Debug("staged file",
		"source", e.Source,
		"destination", e.Destination,
		"bytes", n,
	)
	res.Action = ActionCopied
	res.Bytes = n
	return res, nil
}

// upToDate reports whether the destination already matches the source under
// the configured compare mode.
func (a *Applier) upToDate(e Entry, srcInfo fs.FileInfo) (bool, error) {
	dstInfo, err := os.Stat(e.Destination)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, sierrors.Wrap(sierrors.ErrCodeIO, "failed to stat destination", err)
	}
	if !dstInfo.Mode().IsRegular() {
		return false, sierrors.New(sierrors.ErrCodeIO, "destination exists and is not a regular file")
	}
	if dstInfo.Size() != srcInfo.Size() {
		return false, nil
	}

	switch a.cfg.CompareMode() {
	case config.CompareMtime:
		return !srcInfo.ModTime().After(dstInfo.ModTime()), nil
	default:
		same, err := checksum.SameContent(e.Source, e.Destination)
		if err != nil {
			return false, sierrors.Wrap(sierrors.ErrCodeIO, "failed to compare content", err)
		}
		return same, nil
	}
}

// copyAtomic writes src to a temp file next to dest and renames it into
// place. The temp file is removed on failure.
func copyAtomic(src, dest string, srcInfo fs.FileInfo, runID string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to open source", err)
	}
	defer in.Close()

	return writeAtomic(dest, runID, srcInfo.Mode().Perm(), srcInfo.ModTime(), func(w io.Writer) (int64, error) {
		return io.Copy(w, in)
	})
}

// WriteFile atomically replaces dest with data through a temp file of the
// run runID. It reports false without touching dest when dest already holds
// exactly data.
func WriteFile(dest string, data []byte, perm fs.FileMode, runID string) (bool, error) {
	current, err := os.ReadFile(dest)
	switch {
	case err == nil && bytes.Equal(current, data):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, sierrors.WrapWithContext(sierrors.ErrCodeIO, "failed to read destination", err,
			map[string]any{"path": dest})
	}

	_, err = writeAtomic(dest, runID, perm, time.Time{}, func(w io.Writer) (int64, error) {
		n, err := w.Write(data)
		return int64(n), err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// writeAtomic fills a temp file next to dest using fill, applies perm and
// mtime (unless zero) and renames it into place. The temp file is removed on
// failure.
func writeAtomic(dest, runID string, perm fs.FileMode, mtime time.Time, fill func(io.Writer) (int64, error)) (n int64, err error) {
	if err := os.MkdirAll(filepath.Dir(dest), defaults.DirMode); err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to create destination directory", err)
	}

	tmp := TempName(dest, runID)
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to create temp file", err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Warn("failed to remove temp file", "path", tmp, "error", rmErr)
			}
		}
	}()

	n, err = fill(out)
	if err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to write temp file", err)
	}
	if err = out.Sync(); err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to sync temp file", err)
	}
	if err = out.Close(); err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to close temp file", err)
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to set temp file mode", err)
	}
	if !mtime.IsZero() {
		if err = os.Chtimes(tmp, mtime, mtime); err != nil {
			return 0, sierrors.Wrap(sierrors.ErrCodeIO, "failed to set temp file times", err)
		}
	}
	if err = os.Rename(tmp, dest); err != nil {
		return 0, sierrors.Wrap(sierrors.ErrCodeIO, fmt.Sprintf("failed to rename temp file into %s", filepath.Base(dest)), err)
	}
	return n, nil
}
