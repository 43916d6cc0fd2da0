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
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	sierrors "github.com/TyRoXx/silicium/pkg/errors"
)

func TestReportSummary(t *testing.T) {
	r := &Report{
		Operation:    OperationImport,
		Recipe:       "silicium/0.2.0",
		Planned:      3,
		Copied:       2,
		Skipped:      1,
		BytesCopied:  2048,
		StaleRemoved: 1,
		Duration:     1500 * time.Millisecond,
	}
	assert.Equal(t, "import silicium/0.2.0: Copied 2 of 3 files (2.0 KB), skipped 1, failed 0, removed 1 stale temp files in 1.5s.", r.Summary())
	assert.False(t, r.HasFailures())

	r.DryRun = true
	assert.Contains(t, r.Summary(), "Would copy 2 of 3 files")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBytes(tt.in))
		})
	}
}

func TestReportRows(t *testing.T) {
	r := &Report{Files: []FileResult{
		{Destination: "bin/a.dll", Action: ActionCopied, Bytes: 10},
		{Destination: "bin/b.dll", Action: ActionSkipped},
	}}
	assert.Equal(t, []string{"action", "bytes", "destination"}, r.Columns())
	assert.Equal(t, [][]string{
		{"copied", "10", "bin/a.dll"},
		{"skipped", "0", "bin/b.dll"},
	}, r.Rows())
}

func TestPartialFailureError(t *testing.T) {
	cause := sierrors.Wrap(sierrors.ErrCodeIO, "failed to stat source", fs.ErrNotExist)
	one := FileError{Source: "a", Destination: "b", Reason: cause.Error(), Err: cause}

	tests := []struct {
		name     string
		err      *PartialFailureError
		wantName string
		wantMsg  string
	}{
		{
			name:     "export single",
			err:      &PartialFailureError{Operation: OperationExport, Failed: []FileError{one}},
			wantName: "PartialExportFailure",
			wantMsg:  "PartialExportFailure: 1 file failed: a -> b: ",
		},
		{
			name:     "import many",
			err:      &PartialFailureError{Operation: OperationImport, Failed: []FileError{one, one}},
			wantName: "PartialImportFailure",
			wantMsg:  "PartialImportFailure: 2 files failed, first: a -> b: ",
		},
		{
			name:     "empty",
			err:      &PartialFailureError{Operation: OperationExport},
			wantName: "PartialExportFailure",
			wantMsg:  "PartialExportFailure: no files failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.err.Name())
			assert.Contains(t, tt.err.Error(), tt.wantMsg)
			assert.Equal(t, sierrors.ErrCodePartialFailure, sierrors.CodeOf(tt.err))
			assert.Equal(t, sierrors.ErrCodePartialFailure, sierrors.CodeOf(fmt.Errorf("export: %w", tt.err)))
			assert.Equal(t, len(tt.err.Failed) > 0, errors.Is(tt.err, fs.ErrNotExist))
		})
	}
}
