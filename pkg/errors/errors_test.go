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

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredErrorFormat(t *testing.T) {
	e := New(ErrCodeTimeout, "collection deadline exceeded")
	assert.Equal(t, "[TIMEOUT] collection deadline exceeded", e.Error())

	cause := stderrors.New("dial tcp: i/o timeout")
	wrapped := Wrap(ErrCodeCollector, "fetch failed", cause)
	assert.Equal(t, "[COLLECTOR] fetch failed: dial tcp: i/o timeout", wrapped.Error())
	assert.Equal(t, cause, wrapped.Unwrap())
}

func TestUnwrapSupportsErrorsIs(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := Wrap(ErrCodePersistence, "cache write", cause)

	require.True(t, stderrors.Is(wrapped, cause))

	var se *StructuredError
	require.True(t, stderrors.As(wrapped, &se))
	assert.Equal(t, ErrCodePersistence, se.Code)
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsTimeout(New(ErrCodeTimeout, "t")))
	assert.True(t, IsRateLimited(New(ErrCodeRateLimited, "r")))
	assert.True(t, IsCircuitOpen(New(ErrCodeCircuitOpen, "c")))
	assert.True(t, IsPersistence(New(ErrCodePersistence, "p")))

	assert.True(t, IsDenied(New(ErrCodeRateLimited, "r")))
	assert.True(t, IsDenied(New(ErrCodeCircuitOpen, "c")))
	assert.False(t, IsDenied(New(ErrCodeTimeout, "t")))
	assert.False(t, IsDenied(stderrors.New("plain")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := New(ErrCodeRateLimited, "min interval not elapsed")
	outer := fmt.Errorf("acquire narwhal: %w", inner)

	assert.True(t, IsRateLimited(outer))
	assert.True(t, IsDenied(outer))
	assert.Equal(t, ErrCodeRateLimited, CodeOf(outer))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("boom")))
}

func TestNewWithContext(t *testing.T) {
	e := NewWithContext(ErrCodeCollector, "bad table", map[string]any{"line": 42})
	assert.Equal(t, 42, e.Context["line"])
}
