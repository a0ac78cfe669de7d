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

package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/pkg/errors"
	"github.com/fleetscope/fleetscope/pkg/model"
)

const dfHome = `Filesystem      Size  Used Avail Use% Mounted on
/dev/sda1       100G   50G   50G  50% /p/home
`

const dfWorkWrapped = `Filesystem      Size  Used Avail Use% Mounted on
narwhal-fs01:/work
                1.5T  1.4T  100G  94% /p/work
`

const dfScratchFull = `Filesystem      Size  Used Avail Use% Mounted on
scratchfs        10T  9.6T  400G  96% /scratch
`

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, target, command string) (string, error) {
	key := target + " " + command
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	out, ok := f.outputs[key]
	if !ok {
		return "", fmt.Errorf("no route to %s", target)
	}
	return out, nil
}

func TestParseDF(t *testing.T) {
	info, ok := ParseDF(dfHome)
	require.True(t, ok)
	assert.Equal(t, "/dev/sda1", info.Filesystem)
	assert.Equal(t, int64(100)<<30, info.TotalBytes)
	assert.Equal(t, int64(50)<<30, info.UsedBytes)
	assert.Equal(t, int64(50)<<30, info.AvailableBytes)
	assert.Equal(t, 50.0, info.PercentUsed)
	assert.Equal(t, model.StorageHealthy, info.Status())
}

func TestParseDFWrappedLine(t *testing.T) {
	info, ok := ParseDF(dfWorkWrapped)
	require.True(t, ok)
	assert.Equal(t, "narwhal-fs01:/work", info.Filesystem)
	assert.Equal(t, int64(float64(1.5)*float64(1<<40)), info.TotalBytes)
	assert.Equal(t, 94.0, info.PercentUsed)
	assert.Equal(t, model.StorageWarning, info.Status())
}

func TestParseDFRejectsGarbage(t *testing.T) {
	for _, out := range []string{
		"",
		"df: /scratch: No such file or directory",
		"Filesystem Size Used Avail Use% Mounted on",
		"Filesystem Size Used Avail Use% Mounted on\nsda - - - - /",
	} {
		_, ok := ParseDF(out)
		assert.False(t, ok, "output %q must not parse", out)
	}
}

func TestCollect(t *testing.T) {
	target := "user/clusters/narwhal"
	runner := &fakeRunner{
		outputs: map[string]string{
			target + " df -h $HOME":    dfHome,
			target + " df -h /scratch": dfScratchFull,
		},
		errs: map[string]error{
			target + " df -h $WORKDIR": fmt.Errorf("permission denied"),
		},
	}
	c := New(Config{Runner: runner, Targets: []string{target}})

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Contains(t, res.Clusters, "narwhal")

	st := res.Clusters["narwhal"].Storage
	require.Len(t, st, 2, "the denied mount is skipped")
	assert.Equal(t, "$HOME", st[0].MountPoint)
	assert.Equal(t, "narwhal", st[0].System)
	assert.Equal(t, "/scratch", st[1].MountPoint)
	assert.Equal(t, model.StorageCritical, st[1].Status())
}

func TestCollectAllTargetsFail(t *testing.T) {
	c := New(Config{Runner: &fakeRunner{}, Targets: []string{"a"}})
	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCollector, errors.CodeOf(err))
}

func TestCollectNoTargets(t *testing.T) {
	c := New(Config{Runner: &fakeRunner{}})
	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Clusters)
}
