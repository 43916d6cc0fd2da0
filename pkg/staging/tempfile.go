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
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/TyRoXx/silicium/pkg/defaults"
)

// TempName returns the temporary file name used while writing dest during
// the run identified by runID. The file lives next to dest and its name is
// bounded in length regardless of how long the base name of dest is.
func TempName(dest, runID string) string {
	dir, base := filepath.Split(dest)
	return filepath.Join(dir, "."+TempKey(base)+defaults.TempMarker+runID+defaults.TempSuffix)
}

// TempKey returns the part of a temp file name that identifies the
// destination base name. Names up to defaults.TempKeyMax bytes are used as
// they are; longer names are cut on a rune boundary and suffixed with a
// digest of the full name.
func TempKey(base string) string {
	if len(base) <= defaults.TempKeyMax {
		return base
	}
	cut := defaults.TempKeyMax - defaults.TempKeyHashLen - len(defaults.TempKeySep)
	for cut > 0 && !utf8.RuneStart(base[cut]) {
		cut--
	}
	sum := sha256.Sum256([]byte(base))
	return base[:cut] + defaults.TempKeySep + hex.EncodeToString(sum[:])[:defaults.TempKeyHashLen]
}

// ParseTempName reports whether base follows the staging temp file
// convention and returns the destination key (see TempKey) and run ID
// embedded in it.
func ParseTempName(base string) (key, runID string, ok bool) {
	if !strings.HasPrefix(base, ".") || !strings.HasSuffix(base, defaults.TempSuffix) {
		return "", "", false
	}
	trimmed := strings.TrimSuffix(base[1:], defaults.TempSuffix)
	idx := strings.LastIndex(trimmed, defaults.TempMarker)
	if idx <= 0 {
		return "", "", false
	}
	runID = trimmed[idx+len(defaults.TempMarker):]
	if runID == "" {
		return "", "", false
	}
	return trimmed[:idx], runID, true
}

// IsTempName reports whether base is a staging temp file name.
func IsTempName(base string) bool {
	_, _, ok := ParseTempName(base)
	return ok
}
