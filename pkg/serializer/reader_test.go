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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{"json lowercase", "snapshot.json", FormatJSON},
		{"json uppercase", "SNAPSHOT.JSON", FormatJSON},
		{"yaml extension", "config.yaml", FormatYAML},
		{"yml extension", "config.yml", FormatYAML},
		{"table extension", "output.table", FormatTable},
		{"txt extension", "output.txt", FormatTable},
		{"unknown extension defaults to json", "file.unknown", FormatJSON},
		{"no extension defaults to json", "filename", FormatJSON},
		{"path with directories", "/path/to/config.yaml", FormatYAML},
		{"url-like path", "https://example.com/data.yaml", FormatYAML},
		{"empty path", "", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FormatFromPath(tt.path); result != tt.expected {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestNewReader(t *testing.T) {
	t.Run("valid json format", func(t *testing.T) {
		reader, err := NewReader(FormatJSON, strings.NewReader(`{"name":"narwhal"}`))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if reader.format != FormatJSON {
			t.Errorf("Expected format %v, got %v", FormatJSON, reader.format)
		}
	})

	t.Run("table format returns error", func(t *testing.T) {
		reader, err := NewReader(FormatTable, strings.NewReader("data"))
		if err == nil {
			t.Fatal("Expected error for table format")
		}
		if reader != nil {
			t.Error("Expected nil reader for unsupported format")
		}
		if !strings.Contains(err.Error(), "table format does not support deserialization") {
			t.Errorf("Expected table format error, got: %v", err)
		}
	})

	t.Run("unknown format returns error", func(t *testing.T) {
		_, err := NewReader(Format("invalid"), strings.NewReader("data"))
		if err == nil {
			t.Fatal("Expected error for unknown format")
		}
		if !strings.Contains(err.Error(), "unknown format") {
			t.Errorf("Expected unknown format error, got: %v", err)
		}
	})

	t.Run("stores closer if input implements io.Closer", func(t *testing.T) {
		tmpfile, err := os.CreateTemp(t.TempDir(), "reader")
		if err != nil {
			t.Fatal(err)
		}

		reader, err := NewReader(FormatJSON, tmpfile)
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if reader.closer == nil {
			t.Error("Expected closer to be set for io.Closer input")
		}
		reader.Close()
	})
}

func TestReader_DeserializeJSON(t *testing.T) {
	t.Run("valid json object", func(t *testing.T) {
		reader, err := NewReader(FormatJSON, strings.NewReader(`{"name":"narwhal","value":128}`))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		var result testConfig
		if err := reader.Deserialize(&result); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if result.Name != "narwhal" || result.Value != 128 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("invalid json returns error", func(t *testing.T) {
		reader, err := NewReader(FormatJSON, strings.NewReader(`{invalid json}`))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		var result testConfig
		if err := reader.Deserialize(&result); err == nil {
			t.Fatal("Expected error for invalid JSON")
		} else if !strings.Contains(err.Error(), "failed to decode JSON") {
			t.Errorf("Expected JSON decode error, got: %v", err)
		}
	})

	t.Run("empty input returns error", func(t *testing.T) {
		reader, err := NewReader(FormatJSON, strings.NewReader(""))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		var result testConfig
		if err := reader.Deserialize(&result); err == nil {
			t.Fatal("Expected error for empty input")
		}
	})
}

func TestReader_DeserializeYAML(t *testing.T) {
	t.Run("valid yaml object", func(t *testing.T) {
		reader, err := NewReader(FormatYAML, strings.NewReader("name: narwhal\nvalue: 128"))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		var result testConfig
		if err := reader.Deserialize(&result); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if result.Name != "narwhal" || result.Value != 128 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		reader, err := NewReader(FormatYAML, strings.NewReader("name: test\nvalue: [unclosed array"))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}

		var result testConfig
		if err := reader.Deserialize(&result); err == nil {
			t.Fatal("Expected error for invalid YAML")
		} else if !strings.Contains(err.Error(), "failed to decode YAML") {
			t.Errorf("Expected YAML decode error, got: %v", err)
		}
	})
}

func TestReader_DeserializeNilChecks(t *testing.T) {
	t.Run("nil reader", func(t *testing.T) {
		var reader *Reader
		var result testConfig
		err := reader.Deserialize(&result)
		if err == nil || !strings.Contains(err.Error(), "reader is nil") {
			t.Errorf("Expected nil reader error, got: %v", err)
		}
	})

	t.Run("nil input", func(t *testing.T) {
		reader := &Reader{format: FormatJSON}
		var result testConfig
		err := reader.Deserialize(&result)
		if err == nil || !strings.Contains(err.Error(), "input source is nil") {
			t.Errorf("Expected nil input error, got: %v", err)
		}
	})
}

func TestNewFileReader(t *testing.T) {
	t.Run("valid json file", func(t *testing.T) {
		path := t.TempDir() + "/snapshot.json"
		data, _ := json.Marshal(testConfig{Name: "narwhal", Value: 128})
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatal(err)
		}

		reader, err := NewFileReader(FormatJSON, path)
		if err != nil {
			t.Fatalf("NewFileReader failed: %v", err)
		}
		defer reader.Close()

		var result testConfig
		if err := reader.Deserialize(&result); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if result.Name != "narwhal" || result.Value != 128 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("nonexistent file returns error", func(t *testing.T) {
		reader, err := NewFileReader(FormatJSON, "/nonexistent/file.json")
		if err == nil {
			t.Fatal("Expected error for nonexistent file")
		}
		if reader != nil {
			t.Error("Expected nil reader for nonexistent file")
		}
		if !strings.Contains(err.Error(), "failed to open file") {
			t.Errorf("Expected open file error, got: %v", err)
		}
	})

	t.Run("unknown format returns error", func(t *testing.T) {
		_, err := NewFileReader(Format("invalid"), "test.json")
		if err == nil || !strings.Contains(err.Error(), "unknown format") {
			t.Errorf("Expected unknown format error, got: %v", err)
		}
	})
}

func TestNewFileReaderAuto(t *testing.T) {
	t.Run("auto-detect yaml", func(t *testing.T) {
		path := t.TempDir() + "/config.yaml"
		data, _ := yaml.Marshal(testConfig{Name: "narwhal", Value: 128})
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatal(err)
		}

		reader, err := NewFileReaderAuto(path)
		if err != nil {
			t.Fatalf("NewFileReaderAuto failed: %v", err)
		}
		defer reader.Close()

		if reader.format != FormatYAML {
			t.Errorf("Expected format %v, got %v", FormatYAML, reader.format)
		}

		var result testConfig
		if err := reader.Deserialize(&result); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if result.Name != "narwhal" || result.Value != 128 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})
}

func TestReader_Close(t *testing.T) {
	t.Run("close file reader twice", func(t *testing.T) {
		path := t.TempDir() + "/snapshot.json"
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}

		reader, err := NewFileReader(FormatJSON, path)
		if err != nil {
			t.Fatalf("NewFileReader failed: %v", err)
		}

		if err := reader.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
		if err := reader.Close(); err != nil {
			t.Errorf("Second Close failed: %v", err)
		}
	})

	t.Run("close nil reader", func(t *testing.T) {
		var reader *Reader
		if err := reader.Close(); err != nil {
			t.Errorf("Close on nil reader should not error, got: %v", err)
		}
	})

	t.Run("close reader with no closer", func(t *testing.T) {
		reader, err := NewReader(FormatJSON, bytes.NewReader([]byte("{}")))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		if err := reader.Close(); err != nil {
			t.Errorf("Close should not error for non-closer input, got: %v", err)
		}
	})
}

func TestReader_RoundTrip(t *testing.T) {
	for _, ext := range []string{"json", "yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := t.TempDir() + "/fleet." + ext

			file, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}

			writer := NewWriter(FormatFromPath(path), file)
			original := []testConfig{
				{Name: "narwhal", Value: 128},
				{Name: "carpenter", Value: 192},
			}
			if err := writer.Serialize(context.Background(), original); err != nil {
				t.Fatalf("Writer.Serialize failed: %v", err)
			}
			if err := file.Close(); err != nil {
				t.Fatalf("file close failed: %v", err)
			}

			reader, err := NewFileReaderAuto(path)
			if err != nil {
				t.Fatalf("NewFileReaderAuto failed: %v", err)
			}
			defer reader.Close()

			var result []testConfig
			if err := reader.Deserialize(&result); err != nil {
				t.Fatalf("Reader.Deserialize failed: %v", err)
			}

			if len(result) != len(original) {
				t.Fatalf("Expected %d items, got %d", len(original), len(result))
			}
			for i := range original {
				if result[i] != original[i] {
					t.Errorf("Item %d mismatch: got %+v, want %+v", i, result[i], original[i])
				}
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	t.Run("load json file", func(t *testing.T) {
		path := t.TempDir() + "/snapshot.json"
		data, _ := json.Marshal(testConfig{Name: "narwhal", Value: 128})
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatal(err)
		}

		result, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if result.Name != "narwhal" || result.Value != 128 {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("load slice from yaml", func(t *testing.T) {
		path := t.TempDir() + "/fleet.yaml"
		data, _ := yaml.Marshal([]testConfig{
			{Name: "narwhal", Value: 128},
			{Name: "carpenter", Value: 192},
		})
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatal(err)
		}

		result, err := FromFile[[]testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if len(*result) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(*result))
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := FromFile[testConfig]("/nonexistent/file.json")
		if err == nil {
			t.Fatal("Expected error for nonexistent file")
		}
		if !strings.Contains(err.Error(), "failed to create serializer") {
			t.Errorf("Expected serializer creation error, got: %v", err)
		}
	})

	t.Run("invalid json format", func(t *testing.T) {
		path := t.TempDir() + "/bad.json"
		if err := os.WriteFile(path, []byte("{invalid json}"), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := FromFile[testConfig](path)
		if err == nil {
			t.Fatal("Expected error for invalid JSON")
		}
		if !strings.Contains(err.Error(), "failed to deserialize") {
			t.Errorf("Expected deserialization error, got: %v", err)
		}
	})
}
