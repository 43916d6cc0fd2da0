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

package config

import (
	"fmt"

	"github.com/TyRoXx/silicium/pkg/defaults"
)

// CompareMode selects how an existing destination is compared with its source.
type CompareMode string

const (
	// CompareContent copies when sizes or sha256 digests differ.
	CompareContent CompareMode = "content"
	// CompareMtime copies when sizes differ or the source is newer.
	CompareMtime CompareMode = "mtime"
)

// IsValid reports whether m is a supported mode.
func (m CompareMode) IsValid() bool {
	return m == CompareContent || m == CompareMtime
}

// SupportedCompareModes returns all compare modes as strings.
func SupportedCompareModes() []string {
	return []string{string(CompareContent), string(CompareMtime)}
}

// Config provides immutable configuration options for staging.
// All fields are read-only after creation.
type Config struct {
	// parallelism is the number of files copied concurrently.
	parallelism int

	// dryRun computes copy decisions without writing.
	dryRun bool

	// compareMode decides whether an existing destination is stale.
	compareMode CompareMode

	// includeChecksums writes a checksums manifest after a clean export.
	includeChecksums bool

	// cleanStale removes orphaned temp files from earlier runs before applying.
	cleanStale bool

	// rateLimit caps file copies per second; 0 means unlimited.
	rateLimit float64

	// version is the tool version recorded in reports.
	version string
}

// Parallelism returns the number of concurrent file copies.
func (c *Config) Parallelism() int {
	return c.parallelism
}

// DryRun returns the dry-run setting.
func (c *Config) DryRun() bool {
	return c.dryRun
}

// CompareMode returns the destination compare mode.
func (c *Config) CompareMode() CompareMode {
	return c.compareMode
}

// IncludeChecksums returns the include checksums setting.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// CleanStale returns whether stale temp files are removed before applying.
func (c *Config) CleanStale() bool {
	return c.cleanStale
}

// RateLimit returns the maximum number of file copies per second.
// Zero means unlimited.
func (c *Config) RateLimit() float64 {
	return c.rateLimit
}

// Version returns the tool version.
func (c *Config) Version() string {
	return c.version
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if c.parallelism < 1 || c.parallelism > defaults.MaxApplyParallelism {
		return fmt.Errorf("invalid parallelism: %d (must be between 1 and %d)",
			c.parallelism, defaults.MaxApplyParallelism)
	}
	if c.rateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %v (must not be negative)", c.rateLimit)
	}
	if !c.compareMode.IsValid() {
		return fmt.Errorf("invalid compare mode: %q (must be one of %v)",
			c.compareMode, SupportedCompareModes())
	}
	return nil
}

// Option configures a Config.
type Option func(*Config)

// WithParallelism sets the number of files copied concurrently.
func WithParallelism(n int) Option {
	return func(c *Config) {
		c.parallelism = n
	}
}

// WithDryRun sets whether apply only reports what it would copy.
func WithDryRun(enabled bool) Option {
	return func(c *Config) {
		c.dryRun = enabled
	}
}

// WithCompareMode sets how existing destinations are compared.
func WithCompareMode(mode CompareMode) Option {
	return func(c *Config) {
		c.compareMode = mode
	}
}

// WithIncludeChecksums sets whether a checksums file is written after export.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// WithCleanStale sets whether orphaned temp files are removed before applying.
func WithCleanStale(enabled bool) Option {
	return func(c *Config) {
		c.cleanStale = enabled
	}
}

// WithRateLimit caps file copies per second. Zero disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Config) {
		c.rateLimit = perSecond
	}
}

// WithVersion sets the tool version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		parallelism:      defaults.ApplyParallelism,
		dryRun:           false,
		compareMode:      CompareContent,
		includeChecksums: false,
		cleanStale:       true,
		rateLimit:        0,
		version:          "dev",
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
