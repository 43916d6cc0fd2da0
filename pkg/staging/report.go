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
	"fmt"
	"strconv"
	"time"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
	"github.com/TyRoXx/silicium/pkg/header"
)

// Action is what Apply did with one planned file.
type Action string

const (
	ActionCopied    Action = "copied"
	ActionSkipped   Action = "skipped"
	ActionFailed    Action = "failed"
	ActionWouldCopy Action = "would-copy"
)

// FileResult is the outcome for one planned file.
type FileResult struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Action      Action `json:"action" yaml:"action"`
	Bytes       int64  `json:"bytes,omitempty" yaml:"bytes,omitempty"`
}

// FileError records why one planned file was not staged.
type FileError struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Reason      string `json:"error" yaml:"error"`

	Err error `json:"-" yaml:"-"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s -> %s: %s", e.Source, e.Destination, e.Reason)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}

// Report is the result of applying a plan. It is always produced, also when
// files failed.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Operation    Operation     `json:"operation" yaml:"operation"`
	Recipe       string        `json:"recipe" yaml:"recipe"`
	RunID        string        `json:"runID" yaml:"runID"`
	DestRoot     string        `json:"destRoot" yaml:"destRoot"`
	Planned      int           `json:"planned" yaml:"planned"`
	Copied       int           `json:"copied" yaml:"copied"`
	Skipped      int           `json:"skipped" yaml:"skipped"`
	BytesCopied  int64         `json:"bytesCopied" yaml:"bytesCopied"`
	StaleRemoved int           `json:"staleRemoved" yaml:"staleRemoved"`
	DryRun       bool          `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	Checksums    string        `json:"checksums,omitempty" yaml:"checksums,omitempty"`
	Failed       []FileError   `json:"failed,omitempty" yaml:"failed,omitempty"`
	Files        []FileResult  `json:"files,omitempty" yaml:"files,omitempty"`
}

// HasFailures returns true if any file failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

// Summary returns a human-readable summary of the apply.
func (r *Report) Summary() string {
	verb := "Copied"
	if r.DryRun {
		verb = "Would copy"
	}
	return fmt.Sprintf(
		"%s %s: %s %d of %d files (%s), skipped %d, failed %d, removed %d stale temp files in %v.",
		r.Operation,
		r.Recipe,
		verb,
		r.Copied,
		r.Planned,
		formatBytes(r.BytesCopied),
		r.Skipped,
		len(r.Failed),
		r.StaleRemoved,
		r.Duration.Round(time.Millisecond),
	)
}

// Columns implements serializer.Tabular.
func (r *Report) Columns() []string {
	return []string{"action", "bytes", "destination"}
}

// Rows implements serializer.Tabular.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		rows = append(rows, []string{string(f.Action), strconv.FormatInt(f.Bytes, 10), f.Destination})
	}
	return rows
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PartialFailureError is returned by Apply when some planned files failed.
// The files that did not fail were staged.
type PartialFailureError struct {
	Operation Operation
	Failed    []FileError
}

// Name returns PartialExportFailure or PartialImportFailure.
func (e *PartialFailureError) Name() string {
	switch e.Operation {
	case OperationExport:
		return "PartialExportFailure"
	case OperationImport:
		return "PartialImportFailure"
	default:
		return "PartialFailure"
	}
}

func (e *PartialFailureError) Error() string {
	switch len(e.Failed) {
	case 0:
		return e.Name() + ": no files failed"
	case 1:
		return fmt.Sprintf("%s: 1 file failed: %v", e.Name(), e.Failed[0])
	default:
		return fmt.Sprintf("%s: %d files failed, first: %v", e.Name(), len(e.Failed), e.Failed[0])
	}
}

// Unwrap returns the per-file errors.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}

// ErrorCode implements the coded error contract of the errors package.
func (e *PartialFailureError) ErrorCode() sierrors.ErrorCode {
	return sierrors.ErrCodePartialFailure
}
