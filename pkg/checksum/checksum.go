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

package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/TyRoXx/silicium/pkg/defaults"
)

// FileSHA256 returns the hex encoded SHA256 digest of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SameContent reports whether the two files have identical SHA256 digests.
func SameContent(a, b string) (bool, error) {
	ha, err := FileSHA256(a)
	if err != nil {
		return false, err
	}
	hb, err := FileSHA256(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

// Manifest returns the content of a checksums.txt manifest listing the
// SHA256 digest of every file, with paths relative to dir. Lines follow the
// order of files.
//
// Returns an error if the context is canceled or any file cannot be read.
func Manifest(ctx context.Context, dir string, files []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var b strings.Builder
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}

		sum, err := FileSHA256(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s for checksum: %w", file, err)
		}

		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			relPath = file
		}
		fmt.Fprintf(&b, "%s  %s\n", sum, filepath.ToSlash(relPath))
	}

	slog.Debug("checksum manifest computed",
		"file_count", len(files),
		"dir", dir,
	)
	return []byte(b.String()), nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given directory.
func GetChecksumFilePath(dir string) string {
	return filepath.Join(dir, defaults.ChecksumFileName)
}
