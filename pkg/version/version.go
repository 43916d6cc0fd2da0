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

// Package version orders recipe version strings.
//
// Recipe versions are opaque identifiers. When a version looks numeric
// ("1", "0.2", "v1.60.0", "1.2.3-rc1") it is parsed so tables can be sorted
// and queried with precision-aware prefixes; anything else only compares
// lexically and only matches itself.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version is a parsed numeric recipe version.
// Precision records how many components were written (1, 2, or 3).
type Version struct {
	Major     int
	Minor     int
	Patch     int
	Precision int
	// Extras holds a trailing "-suffix" or "+metadata" verbatim.
	Extras string
}

// String renders the version respecting its precision, followed by Extras.
func (v Version) String() string {
	var s string
	switch v.Precision {
	case 1:
		s = strconv.Itoa(v.Major)
	case 2:
		s = fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		s = fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return s + v.Extras
}

// Parse parses "1", "1.2", "1.2.3" with an optional "v" prefix and optional
// "-suffix"/"+metadata" extras.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	main := s
	if i := strings.IndexAny(s, "-+"); i > 0 {
		main, v.Extras = s[:i], s[i:]
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
			}
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	v.Precision = len(parts)
	return v, nil
}

// MustParse parses a version string and panics if parsing fails.
// Only use it for hardcoded strings or in tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("MustParse: %v", err))
	}
	return v
}

// Compare orders two versions by all numeric components (missing ones count
// as zero). A version without extras sorts after the same version with extras,
// so "1.0.0-rc1" < "1.0.0".
func (v Version) Compare(other Version) int {
	for _, d := range [][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}} {
		if d[0] != d[1] {
			if d[0] < d[1] {
				return -1
			}
			return 1
		}
	}
	switch {
	case v.Extras == other.Extras:
		return 0
	case v.Extras == "":
		return 1
	case other.Extras == "":
		return -1
	default:
		return strings.Compare(v.Extras, other.Extras)
	}
}

// Matches reports whether candidate falls under v used as a query: only the
// components up to v's precision are compared, and extras must be equal when
// the query carries them.
func (v Version) Matches(candidate Version) bool {
	if v.Major != candidate.Major {
		return false
	}
	if v.Precision >= 2 && v.Minor != candidate.Minor {
		return false
	}
	if v.Precision >= 3 && v.Patch != candidate.Patch {
		return false
	}
	if v.Extras != "" && v.Extras != candidate.Extras {
		return false
	}
	return true
}

// CompareStrings orders two raw version strings. Parseable versions compare
// numerically and sort before unparseable ones; two unparseable versions
// compare lexically.
func CompareStrings(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
