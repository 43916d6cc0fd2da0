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

// Package serializer reads and writes structured documents.
//
// Three output formats are supported:
//   - JSON: Machine-readable structured data with indentation
//   - YAML: Human-readable document format
//   - Table: Human-readable tabular output
//
// Values implementing Tabular are rendered as a column table with one row
// per item. All other values are flattened into FIELD/VALUE rows.
//
// Usage:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer writer.Close() // Important: close to release file handles
//	if err := writer.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// Reading picks the format from the file extension:
//
//	doc, err := serializer.FromFile[recipe.Document]("silicium-0.2.0.yaml", serializer.WithStrictFields())
//
// WithStrictFields rejects unknown fields so typos in hand-written documents
// surface as errors instead of silently ignored keys.
package serializer
