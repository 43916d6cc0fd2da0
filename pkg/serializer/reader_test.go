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

package serializer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Test data structures
type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type closeCounter struct {
	*strings.Reader
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"recipe.json", FormatJSON},
		{"recipe.JSON", FormatJSON},
		{"recipe.yaml", FormatYAML},
		{"dir/recipe.yml", FormatYAML},
		{"report.table", FormatTable},
		{"report.txt", FormatTable},
		{"recipe", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewReader(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table is write only", FormatTable, true},
		{"unknown", Format("xml"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.format, strings.NewReader("{}"))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewReader() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		opts    []ReaderOption
		want    testConfig
		wantErr bool
	}{
		{
			name:   "json",
			format: FormatJSON,
			input:  `{"name":"a","value":1}`,
			want:   testConfig{Name: "a", Value: 1},
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input:  "name: b\nvalue: 2\n",
			want:   testConfig{Name: "b", Value: 2},
		},
		{
			name:   "yaml accepts json",
			format: FormatYAML,
			input:  `{"name":"c","value":3}`,
			want:   testConfig{Name: "c", Value: 3},
		},
		{
			name:   "unknown json field ignored by default",
			format: FormatJSON,
			input:  `{"name":"d","extra":true}`,
			want:   testConfig{Name: "d"},
		},
		{
			name:    "unknown json field rejected when strict",
			format:  FormatJSON,
			input:   `{"name":"d","extra":true}`,
			opts:    []ReaderOption{WithStrictFields()},
			wantErr: true,
		},
		{
			name:    "unknown yaml field rejected when strict",
			format:  FormatYAML,
			input:   "name: e\nextra: true\n",
			opts:    []ReaderOption{WithStrictFields()},
			wantErr: true,
		},
		{
			name:    "empty yaml",
			format:  FormatYAML,
			input:   "",
			wantErr: true,
		},
		{
			name:    "malformed json",
			format:  FormatJSON,
			input:   `{"name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input), tt.opts...)
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}
			var got testConfig
			err = r.Deserialize(&got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Deserialize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Deserialize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReader_NilChecks(t *testing.T) {
	var r *Reader
	if err := r.Deserialize(&testConfig{}); err == nil {
		t.Error("expected error for nil reader")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil reader error = %v", err)
	}

	r, err := NewReader(FormatJSON, nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if err := r.Deserialize(&testConfig{}); err == nil {
		t.Error("expected error for nil input")
	}
}

func TestReader_Close(t *testing.T) {
	src := &closeCounter{Reader: strings.NewReader("{}")}
	r, err := NewReader(FormatJSON, src)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if src.closed != 1 {
		t.Errorf("underlying closer called %d times, want 1", src.closed)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip through writer", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		w := NewFileWriterOrStdout(FormatYAML, path)
		if err := w.Serialize(context.Background(), testConfig{Name: "rt", Value: 7}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		got, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile() error = %v", err)
		}
		if got.Name != "rt" || got.Value != 7 {
			t.Errorf("FromFile() = %+v", got)
		}
	})

	t.Run("json with strict fields", func(t *testing.T) {
		path := filepath.Join(dir, "strict.json")
		if err := os.WriteFile(path, []byte(`{"name":"s","unknown":1}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := FromFile[testConfig](path, WithStrictFields()); err == nil {
			t.Error("expected error for unknown field")
		}
		if _, err := FromFile[testConfig](path); err != nil {
			t.Errorf("lenient FromFile() error = %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := FromFile[testConfig](filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("table extension", func(t *testing.T) {
		path := filepath.Join(dir, "out.table")
		if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 3), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := FromFile[testConfig](path); err == nil {
			t.Error("expected error for table format")
		}
	})
}
