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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRespondJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := testConfig{Name: "narwhal", Value: 128}

	RespondJSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var result testConfig
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if result != data {
		t.Errorf("expected %+v, got %+v", data, result)
	}
}

func TestRespondJSON_StatusCodes(t *testing.T) {
	for _, code := range []int{
		http.StatusOK,
		http.StatusCreated,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusInternalServerError,
	} {
		w := httptest.NewRecorder()
		RespondJSON(w, code, testConfig{Value: code})
		if w.Code != code {
			t.Errorf("expected status %d, got %d", code, w.Code)
		}
	}
}

func TestRespondJSON_EncodingErrorBuffersFirst(t *testing.T) {
	w := httptest.NewRecorder()

	// Channels cannot be marshaled to JSON; buffering means the
	// failure surfaces as a clean 500 rather than a partial 200.
	RespondJSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d for encoding error, got %d", http.StatusInternalServerError, w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("expected error message in body")
	}
}

func TestNewHttpReader_Defaults(t *testing.T) {
	reader := NewHttpReader()

	if reader.Client == nil {
		t.Error("expected non-nil Client")
	}
	if reader.UserAgent != HttpReaderUserAgent {
		t.Errorf("expected UserAgent %q, got %q", HttpReaderUserAgent, reader.UserAgent)
	}
}

func TestNewHttpReader_WithOptions(t *testing.T) {
	reader := NewHttpReader(
		WithUserAgent("TestAgent/1.0"),
		WithTotalTimeout(10*time.Second),
		WithInsecureSkipVerify(true),
	)

	if reader.UserAgent != "TestAgent/1.0" {
		t.Errorf("expected UserAgent TestAgent/1.0, got %s", reader.UserAgent)
	}
	if reader.Client.Timeout != 10*time.Second {
		t.Errorf("Client.Timeout = %v, want %v", reader.Client.Timeout, 10*time.Second)
	}

	tr, ok := reader.Client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected Client.Transport to be *http.Transport")
	}
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("expected transport TLS InsecureSkipVerify to be true")
	}
}

func TestNewHttpReader_ZeroOptionsKeepDefaults(t *testing.T) {
	reader := NewHttpReader(
		WithUserAgent(""),
		WithTotalTimeout(0),
	)

	if reader.UserAgent != HttpReaderUserAgent {
		t.Errorf("expected default UserAgent, got %q", reader.UserAgent)
	}
	if reader.Client.Timeout == 0 {
		t.Error("expected default timeout to survive a zero option")
	}
}

func TestHttpReader_Read_Success(t *testing.T) {
	testData := []byte("test response data")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	reader := NewHttpReader()
	data, err := reader.Read(server.URL)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected data %q, got %q", string(testData), string(data))
	}
}

func TestHttpReader_Read_EmptyURL(t *testing.T) {
	reader := NewHttpReader()
	_, err := reader.Read("")
	if err == nil || err.Error() != "url is empty" {
		t.Errorf("expected 'url is empty' error, got %v", err)
	}
}

func TestHttpReader_Read_NonOKStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		reader := NewHttpReader()
		if _, err := reader.Read(server.URL); err == nil {
			t.Errorf("expected error for status %d", code)
		}
		server.Close()
	}
}

func TestHttpReader_Read_SetsUserAgent(t *testing.T) {
	seen := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	reader := NewHttpReader(WithUserAgent("TestAgent/9.9"))
	if _, err := reader.Read(server.URL); err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	select {
	case ua := <-seen:
		if ua != "TestAgent/9.9" {
			t.Fatalf("expected User-Agent %q, got %q", "TestAgent/9.9", ua)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to receive request")
	}
}

func TestHttpReader_ReadWithContext_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If the request isn't canceled, block for long enough to fail the test.
		time.Sleep(5 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewHttpReader()
	_, err := reader.ReadWithContext(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected error to wrap context.Canceled, got %v", err)
	}
}

func TestHttpReader_Download_Success(t *testing.T) {
	testData := []byte("test file content")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	filePath := filepath.Join(t.TempDir(), "output.txt")

	reader := NewHttpReader()
	if err := reader.Download(server.URL, filePath); err != nil {
		t.Fatalf("Download() failed: %v", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected file content %q, got %q", string(testData), string(data))
	}
}

func TestHttpReader_Download_Errors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		reader := NewHttpReader()
		if err := reader.Download("not-a-valid-url", filepath.Join(t.TempDir(), "out.txt")); err == nil {
			t.Error("expected error for invalid URL")
		}
	})

	t.Run("invalid file path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		reader := NewHttpReader()
		if err := reader.Download(server.URL, "/nonexistent/directory/file.txt"); err == nil {
			t.Error("expected error for invalid file path")
		}
	})
}
