// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
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

// Package serializer provides encoding and decoding of fleet data in multiple formats.
//
// # Overview
//
// The serializer package handles conversion between snapshot and recommendation
// data structures and various output formats including JSON, YAML, and
// human-readable tables. It supports both encoding (writing data) and decoding
// (reading data) operations with automatic format detection.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, compact representation
//   - Suitable for API responses and programmatic consumption
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files and version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened FIELD/VALUE text representation
//   - Suitable for terminal/console viewing
//   - Read-only (no deserialization support)
//
// # Usage - Encoding
//
// Write to stdout (YAML):
//
//	w := serializer.NewStdoutWriter(serializer.FormatYAML)
//	if err := w.Serialize(ctx, snapshot); err != nil {
//	    log.Fatal(err)
//	}
//
// Write to a file, falling back to stdout on error:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	defer func() {
//	    if c, ok := w.(serializer.Closer); ok {
//	        c.Close()
//	    }
//	}()
//	if err := w.Serialize(ctx, snapshot); err != nil {
//	    log.Fatal(err)
//	}
//
// # Usage - Decoding
//
// Read from a file with automatic format detection:
//
//	snap, err := serializer.FromFile[store.Snapshot]("snapshot.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// HTTP and HTTPS URLs are accepted anywhere a file path is, downloaded
// through HttpReader.
//
// # Format Detection
//
// File extension-based detection:
//   - .json → JSON
//   - .yaml, .yml → YAML
//   - .table, .txt → Table
//   - Other → JSON (default)
//
// # Integration
//
// Used throughout fleetscope for data I/O:
//   - pkg/cli - Command output formatting
//   - pkg/server - HTTP response encoding
//   - pkg/collector/fleet - Status page fetch via HttpReader
package serializer
