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

package refresh

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/pkg/admission"
	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/store"
)

// fakeCollector returns a fixed result or error.
type fakeCollector struct {
	name      string
	result    *collector.Result
	err       error
	offline   bool
	collected int
}

func (f *fakeCollector) Name() string                      { return f.name }
func (f *fakeCollector) DisplayName() string               { return f.name }
func (f *fakeCollector) Available(context.Context) bool    { return !f.offline }
func (f *fakeCollector) Collect(context.Context) (*collector.Result, error) {
	f.collected++
	return f.result, f.err
}

func statusResult(name, system string, st model.OperationalStatus) *collector.Result {
	res := collector.NewResult(name)
	res.Cluster(system).Status = model.SystemStatus{
		System:     system,
		Status:     st,
		Scheduler:  "PBS",
		ObservedAt: time.Now().UTC(),
	}
	return res
}

func queueResult(name, system string) *collector.Result {
	res := collector.NewResult(name)
	res.Cluster(system).Queues = []model.QueueInfo{
		{System: system, Name: "standard", State: model.QueueActive, Type: model.QueueTypeBatch},
	}
	return res
}

func newOrchestrator(t *testing.T, cols ...collector.Collector) *Orchestrator {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	admit := admission.New(admission.Config{MinInterval: time.Nanosecond})
	return New(Config{}, admit, st, cols...)
}

func TestRefreshMergesCollectors(t *testing.T) {
	o := newOrchestrator(t,
		&fakeCollector{name: "fleet", result: statusResult("fleet", "narwhal", model.StatusUp)},
		&fakeCollector{name: "session", result: queueResult("session", "narwhal")},
	)

	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Contains(t, snap.Clusters, "narwhal")

	cs := snap.Clusters["narwhal"]
	assert.Equal(t, model.StatusUp, cs.Status.Status)
	assert.Len(t, cs.Queues, 1, "both collector views must merge")

	require.NotNil(t, snap.Summary)
	assert.Equal(t, 1, snap.Summary.TotalSystems)
	assert.NotEmpty(t, snap.ID, "commit must assign an id")

	// the snapshot must also be durable
	reloaded, err := o.store.Latest(0)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, snap.ID, reloaded.ID)
}

func TestRefreshToleratesPartialFailure(t *testing.T) {
	bad := &fakeCollector{name: "session", err: fmt.Errorf("ssh unreachable")}
	o := newOrchestrator(t,
		&fakeCollector{name: "fleet", result: statusResult("fleet", "narwhal", model.StatusUp)},
		bad,
	)

	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Contains(t, snap.Clusters, "narwhal")
	assert.Equal(t, 1, bad.collected)
}

func TestRefreshRetainsFailedCollectorState(t *testing.T) {
	alpha := &fakeCollector{name: "fleet", result: statusResult("fleet", "alpha", model.StatusUp)}
	beta := &fakeCollector{name: "session", result: statusResult("session", "beta", model.StatusUp)}
	o := newOrchestrator(t, alpha, beta)

	first, err := o.Refresh(context.Background())
	require.NoError(t, err)
	require.Contains(t, first.Clusters, "alpha")
	require.Contains(t, first.Clusters, "beta")
	betaObserved := first.Clusters["beta"].Status.ObservedAt

	beta.result = nil
	beta.err = fmt.Errorf("ssh unreachable")
	second, err := o.Refresh(context.Background())
	require.NoError(t, err)
	require.Contains(t, second.Clusters, "beta", "failed collector keeps its last state")
	assert.True(t, betaObserved.Equal(second.Clusters["beta"].Status.ObservedAt),
		"stale entries keep their original observation time")
}

func TestFillFromPrevious(t *testing.T) {
	prev := &store.Snapshot{Clusters: map[string]*model.ClusterState{
		"narwhal": {
			Status: model.SystemStatus{System: "narwhal", Status: model.StatusUp},
			Queues: []model.QueueInfo{{System: "narwhal", Name: "standard", State: model.QueueActive}},
		},
		"mustang": {
			Status: model.SystemStatus{System: "mustang", Status: model.StatusDown},
		},
	}}
	fresh := map[string]*model.ClusterState{
		"narwhal": {Status: model.SystemStatus{System: "narwhal", Status: model.StatusDegraded}},
	}

	out := fillFromPrevious(prev, fresh)
	require.Contains(t, out, "mustang", "unreported clusters carry over")
	assert.Equal(t, model.StatusDegraded, out["narwhal"].Status.Status)
	assert.Len(t, out["narwhal"].Queues, 1, "sections absent this cycle carry over")
}

func TestRefreshAllFailedKeepsLastSnapshot(t *testing.T) {
	good := &fakeCollector{name: "fleet", result: statusResult("fleet", "narwhal", model.StatusUp)}
	o := newOrchestrator(t, good)

	first, err := o.Refresh(context.Background())
	require.NoError(t, err)

	good.result = nil
	good.err = fmt.Errorf("page gone")
	snap, err := o.Refresh(context.Background())
	require.Error(t, err)
	require.NotNil(t, snap, "stale state beats no state")
	assert.Equal(t, first.ID, snap.ID)
	assert.Equal(t, first.ID, o.Current().ID)
}

func TestRefreshSkipsUnavailableCollector(t *testing.T) {
	offline := &fakeCollector{name: "session", offline: true, result: queueResult("session", "narwhal")}
	o := newOrchestrator(t,
		&fakeCollector{name: "fleet", result: statusResult("fleet", "narwhal", model.StatusUp)},
		offline,
	)

	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, offline.collected)
	assert.Empty(t, snap.Clusters["narwhal"].Queues)
}

func TestRefreshHonorsAdmissionDenial(t *testing.T) {
	col := &fakeCollector{name: "fleet", result: statusResult("fleet", "narwhal", model.StatusUp)}
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	admit := admission.New(admission.Config{MinInterval: time.Hour})
	o := New(Config{}, admit, st, col)

	first, err := o.Refresh(context.Background())
	require.NoError(t, err)

	// second cycle is inside the min interval, so the only collector
	// is denied and the cycle comes back empty
	snap, err := o.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, first.ID, snap.ID)
	assert.Equal(t, 1, col.collected)
}

func TestCurrentFallsBackToCache(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New(dir)
	require.NoError(t, err)
	require.NoError(t, st.Commit(&store.Snapshot{
		Clusters: map[string]*model.ClusterState{
			"narwhal": {Status: model.SystemStatus{System: "narwhal", Status: model.StatusUp}},
		},
	}))

	st2, err := store.New(dir)
	require.NoError(t, err)
	o := New(Config{}, admission.New(admission.Config{}), st2)

	snap := o.Current()
	require.NotNil(t, snap)
	assert.Contains(t, snap.Clusters, "narwhal")
	assert.Len(t, o.Systems(), 1)
}

func TestCurrentEmpty(t *testing.T) {
	o := newOrchestrator(t)
	assert.Nil(t, o.Current())
	assert.Nil(t, o.Systems())
}

func TestRunStopsOnCancel(t *testing.T) {
	o := newOrchestrator(t,
		&fakeCollector{name: "fleet", result: statusResult("fleet", "narwhal", model.StatusUp)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
	assert.Nil(t, o.Current(), "no tick elapsed, so nothing was collected")
}

func TestMergeStatusPrefersDefinitive(t *testing.T) {
	dst := model.SystemStatus{System: "narwhal", Status: model.StatusUnknown, Scheduler: "SLURM"}
	src := model.SystemStatus{
		System: "narwhal", Status: model.StatusDown, StatusReason: "maintenance window",
		Scheduler: "PBS", LoginHost: "narwhal.navydsrc.hpc.mil",
	}
	mergeStatus(&dst, src)

	assert.Equal(t, model.StatusDown, dst.Status)
	assert.Equal(t, "maintenance window", dst.StatusReason)
	assert.Equal(t, "SLURM", dst.Scheduler, "identity fields fill gaps only")
	assert.Equal(t, "narwhal.navydsrc.hpc.mil", dst.LoginHost)
}

func TestMergeStatusIgnoresEmpty(t *testing.T) {
	dst := model.SystemStatus{System: "narwhal", Status: model.StatusUp}
	mergeStatus(&dst, model.SystemStatus{})
	assert.Equal(t, model.StatusUp, dst.Status)
}

func TestMergeClusterAccumulatesStorage(t *testing.T) {
	dst := &model.ClusterState{
		Storage: []model.StorageInfo{{System: "narwhal", MountPoint: "$HOME"}},
	}
	mergeCluster(dst, &model.ClusterState{
		Storage: []model.StorageInfo{{System: "narwhal", MountPoint: "$WORKDIR"}},
	})
	assert.Len(t, dst.Storage, 2)
}
