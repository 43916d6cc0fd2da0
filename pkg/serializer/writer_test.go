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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

const test1Name = "test1"

type fileTable struct {
	files [][]string
}

func (f fileTable) Columns() []string { return []string{"source", "destination"} }
func (f fileTable) Rows() [][]string  { return f.files }

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
	if result[0].Name != test1Name || result[0].Value != 123 {
		t.Errorf("Unexpected data: %+v", result[0])
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	if len(result) != 2 || result[1].Value != 456 {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := []any{
		testConfig{Name: test1Name, Value: 123},
		testConfig{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "FIELD") || !strings.Contains(output, "VALUE") {
		t.Error("Expected table header not found")
	}
	if !strings.Contains(output, "[0].Name") || !strings.Contains(output, "[1].Value") {
		t.Error("Expected flattened keys not found")
	}
}

func TestWriter_SerializeTable_Tabular(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := fileTable{files: [][]string{
		{"silicium/a.hpp", "include/silicium/a.hpp"},
		{"silicium/b/c.hpp", "include/silicium/b/c.hpp"},
	}}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "SOURCE") || !strings.Contains(lines[0], "DESTINATION") {
		t.Errorf("unexpected header line %q", lines[0])
	}
	if !strings.Contains(lines[3], "include/silicium/b/c.hpp") {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestWriter_SerializeTable_EmptyTabular(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), fileTable{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "<empty>" {
		t.Errorf("expected <empty>, got %q", buf.String())
	}
}

func TestWriter_SerializeTable_Stringers(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := struct {
		Duration time.Duration
	}{Duration: 1500 * time.Millisecond}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "1.5s") {
		t.Errorf("expected duration string, got %q", buf.String())
	}
}

func TestWriter_SerializeTable_EmbeddedStruct(t *testing.T) {
	type Meta struct {
		Name string
	}
	type Outer struct {
		Meta
		Extra string
	}

	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)
	if err := writer.Serialize(context.Background(), Outer{Meta: Meta{Name: "n"}, Extra: "e"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Name") || strings.Contains(output, "Meta.Name") {
		t.Errorf("embedded fields should be promoted, got %q", output)
	}
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter("invalid", &buf)

	data := testConfig{Name: "test", Value: 123}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize should not fail with unknown format: %v", err)
	}

	var result testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal as JSON: %v", err)
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := writer.Serialize(ctx, testConfig{}); err == nil {
		t.Error("expected error for cancelled context")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written after cancellation")
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path uses stdout", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, "  ")
		if w.closer != nil {
			t.Error("stdout writer should not own a closer")
		}
		if err := w.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		w := NewFileWriterOrStdout(FormatYAML, path)
		if err := w.Serialize(context.Background(), testConfig{Name: "file", Value: 1}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "name: file") {
			t.Errorf("unexpected file content %q", data)
		}
	})

	t.Run("invalid path falls back to stdout", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
		if w.closer != nil {
			t.Error("fallback writer should not own a closer")
		}
	})
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		if Format(f).IsUnknown() {
			t.Errorf("%s should be known", f)
		}
	}
	if !Format("xml").IsUnknown() {
		t.Error("xml should be unknown")
	}
}

func TestWriter_SerializeTable_NilAndMaps(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := struct {
		Labels map[string]string
		Ptr    *testConfig
	}{
		Labels: map[string]string{"recipe": "silicium/0.2.0"},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Labels.recipe") || !strings.Contains(output, "silicium/0.2.0") {
		t.Errorf("expected flattened map entry, got %q", output)
	}
	if !strings.Contains(output, "Ptr") {
		t.Errorf("expected nil pointer key, got %q", output)
	}
}
