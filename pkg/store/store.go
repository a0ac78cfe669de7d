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

package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetscope/fleetscope/pkg/errors"
	"github.com/fleetscope/fleetscope/pkg/model"
)

// Cache keys installed on every commit. fleet_status holds the full
// snapshot; the rest are per-dataset views for consumers that only
// need one slice of the fleet.
const (
	CacheFleetStatus   = "fleet_status"
	CacheClusterUsage  = "cluster_usage"
	CacheQueueStatus   = "queue_status"
	CacheStorageStatus = "storage_status"
)

const (
	cacheDirName   = "cache"
	historyDirName = "history"
	historyExt     = ".jsonl"

	// aggregateName keys merged fleet snapshots in history, alongside
	// the individual collectors' entries.
	aggregateName = "aggregate"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Snapshot is one persisted observation of the fleet: every cluster's
// state keyed by system slug, plus the derived summary.
type Snapshot struct {
	ID        string                         `json:"id"`
	CreatedAt time.Time                      `json:"created_at"`
	Clusters  map[string]*model.ClusterState `json:"clusters"`
	Summary   *model.FleetSummary            `json:"summary,omitempty"`
}

// Age returns how old the snapshot is at the given time.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// Record is one append-only history entry: what a collector (or the
// aggregation step) produced, and when.
type Record struct {
	Collector string          `json:"collector"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// cacheEntry wraps a named cache payload with its update time so age
// checks do not depend on file mtimes.
type cacheEntry struct {
	Name      string          `json:"name"`
	UpdatedAt time.Time       `json:"updated_at"`
	Payload   json.RawMessage `json:"payload"`
}

// UsageEntry is the per-system compute view kept under the
// cluster_usage cache key.
type UsageEntry struct {
	System     string                  `json:"system"`
	Status     model.OperationalStatus `json:"status"`
	Cores      *model.ResourcePool     `json:"cores,omitempty"`
	Nodes      *model.ResourcePool     `json:"nodes,omitempty"`
	ObservedAt time.Time               `json:"observed_at"`
}

// Store persists keyed cache entries and per-collector history under a
// data directory. A single mutex serializes writers; readers go
// through the same lock because commits replace cache entries out from
// under them otherwise.
type Store struct {
	dir string

	mu sync.Mutex

	now func() time.Time
}

// New creates a store rooted at dir, creating the cache and history
// directories if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "data directory is required")
	}
	for _, d := range []string{dir, filepath.Join(dir, cacheDirName), filepath.Join(dir, historyDirName)} {
		if err := os.MkdirAll(d, dirPerm); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence,
				fmt.Sprintf("creating data directory %s", d), err)
		}
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) cachePath(name string) string {
	return filepath.Join(s.dir, cacheDirName, name+".json")
}

func (s *Store) historyPath(collector string) string {
	return filepath.Join(s.dir, historyDirName, collector+historyExt)
}

// SaveCache atomically replaces the cache entry for name. Readers see
// either the old payload or the new one, never a partial write.
func (s *Store) SaveCache(name string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCacheLocked(name, payload)
}

func (s *Store) saveCacheLocked(name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("encoding cache entry %s", name), err)
	}
	data, err := json.Marshal(cacheEntry{Name: name, UpdatedAt: s.now(), Payload: raw})
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("encoding cache entry %s", name), err)
	}
	return replaceFile(filepath.Join(s.dir, cacheDirName), s.cachePath(name), data)
}

// replaceFile installs data atomically: write to a temp file in the
// same directory, then rename over the target path.
func replaceFile(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, "creating temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodePersistence, "writing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, "closing temp file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("installing %s", filepath.Base(path)), err)
	}
	return nil
}

// LoadCache reads the cache entry for name into out. Absent, stale, or
// corrupt entries report false with no error; callers treat false as
// "no data yet". maxAge <= 0 disables the age check.
func (s *Store) LoadCache(name string, maxAge time.Duration, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.cachePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			cacheMisses.WithLabelValues("absent").Inc()
			return false, nil
		}
		return false, errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("reading cache entry %s", name), err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry reads as absent; the next commit heals it.
		slog.Warn("discarding corrupt cache entry", "name", name, "error", err)
		cacheMisses.WithLabelValues("corrupt").Inc()
		return false, nil
	}
	if maxAge > 0 && s.now().Sub(entry.UpdatedAt) > maxAge {
		cacheMisses.WithLabelValues("stale").Inc()
		return false, nil
	}
	if err := json.Unmarshal(entry.Payload, out); err != nil {
		slog.Warn("discarding unreadable cache payload", "name", name, "error", err)
		cacheMisses.WithLabelValues("corrupt").Inc()
		return false, nil
	}
	cacheHits.Inc()
	return true, nil
}

// SaveSnapshot appends payload to the collector's history. Append-only:
// failures surface as persistence errors and never touch the cache.
func (s *Store) SaveSnapshot(collector string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(collector, payload)
}

func (s *Store) appendLocked(collector string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("encoding %s snapshot", collector), err)
	}
	line, err := json.Marshal(Record{Collector: collector, CreatedAt: s.now(), Payload: raw})
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("encoding %s history record", collector), err)
	}

	f, err := os.OpenFile(s.historyPath(collector), os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, "opening history file", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, "appending history record", err)
	}
	return f.Sync()
}

// GetLatest loads the most recent history record for collector into
// out, bounded by maxAge (<= 0 disables the bound). Reports the record
// time; false means no qualifying record, which callers treat as "no
// data yet".
func (s *Store) GetLatest(collector string, maxAge time.Duration, out any) (time.Time, bool, error) {
	recs, err := s.History(collector, 1)
	if err != nil || len(recs) == 0 {
		return time.Time{}, false, err
	}
	last := recs[len(recs)-1]
	if maxAge > 0 && s.now().Sub(last.CreatedAt) > maxAge {
		cacheMisses.WithLabelValues("stale").Inc()
		return time.Time{}, false, nil
	}
	if out != nil {
		if err := json.Unmarshal(last.Payload, out); err != nil {
			return time.Time{}, false, errors.Wrap(errors.ErrCodePersistence,
				fmt.Sprintf("decoding %s history record", collector), err)
		}
	}
	return last.CreatedAt, true, nil
}

// History returns up to limit most recent records for one collector,
// oldest first. limit <= 0 returns everything. Unparsable lines are
// skipped with a warning so one bad record does not hide the rest.
func (s *Store) History(collector string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readHistoryLocked(collector, limit)
}

func (s *Store) readHistoryLocked(collector string, limit int) ([]Record, error) {
	f, err := os.Open(s.historyPath(collector))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, "opening history file", err)
	}
	defer f.Close()

	var recs []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			slog.Warn("skipping unreadable history record", "collector", collector, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, "scanning history file", err)
	}

	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	return recs, nil
}

// Commit records a merged fleet snapshot as one logical commit: the
// snapshot is appended to history first, then the keyed cache views
// are installed, each via an atomic rename. A snapshot without an ID
// is assigned one; a zero CreatedAt is stamped with the current time.
// If the history append fails every cache entry is left untouched.
func (s *Store) Commit(snap *Snapshot) error {
	if snap == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "nil snapshot")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.appendLocked(aggregateName, snap); err != nil {
		commitTotal.WithLabelValues("error").Inc()
		return err
	}
	views := []struct {
		name    string
		payload any
	}{
		{CacheFleetStatus, snap},
		{CacheClusterUsage, snap.usageView()},
		{CacheQueueStatus, snap.queueView()},
		{CacheStorageStatus, snap.storageView()},
	}
	for _, v := range views {
		if err := s.saveCacheLocked(v.name, v.payload); err != nil {
			commitTotal.WithLabelValues("error").Inc()
			return err
		}
	}
	commitTotal.WithLabelValues("success").Inc()
	commitDuration.Observe(time.Since(start).Seconds())
	snapshotClusters.Set(float64(len(snap.Clusters)))

	slog.Debug("snapshot committed",
		"id", snap.ID,
		"clusters", len(snap.Clusters),
		"dir", s.dir)
	return nil
}

// usageView projects each system's operational status and compute
// pools, sorted by system for stable output.
func (s *Snapshot) usageView() []UsageEntry {
	entries := make([]UsageEntry, 0, len(s.Clusters))
	for _, cs := range s.Clusters {
		st := cs.Status
		if st.System == "" {
			continue
		}
		entries = append(entries, UsageEntry{
			System:     st.System,
			Status:     st.Status,
			Cores:      st.Cores,
			Nodes:      st.Nodes,
			ObservedAt: st.ObservedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].System < entries[j].System })
	return entries
}

func (s *Snapshot) queueView() []model.QueueInfo {
	var queues []model.QueueInfo
	for _, slug := range s.sortedSlugs() {
		queues = append(queues, s.Clusters[slug].Queues...)
	}
	return queues
}

func (s *Snapshot) storageView() []model.StorageInfo {
	var mounts []model.StorageInfo
	for _, slug := range s.sortedSlugs() {
		mounts = append(mounts, s.Clusters[slug].Storage...)
	}
	return mounts
}

func (s *Snapshot) sortedSlugs() []string {
	slugs := make([]string, 0, len(s.Clusters))
	for slug := range s.Clusters {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Latest returns the cached fleet snapshot no older than maxAge
// (<= 0 means any age), or nil when none exists.
func (s *Store) Latest(maxAge time.Duration) (*Snapshot, error) {
	var snap Snapshot
	ok, err := s.LoadCache(CacheFleetStatus, maxAge, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// CacheAge returns the age of the cached fleet snapshot. The boolean
// is false when no readable cache exists.
func (s *Store) CacheAge() (time.Duration, bool) {
	snap, err := s.Latest(0)
	if err != nil || snap == nil {
		return 0, false
	}
	return snap.Age(s.now()), true
}

// ClearCache removes every cache entry. Clearing an absent cache is
// not an error. History is unaffected.
func (s *Store) ClearCache() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.dir, cacheDirName)
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodePersistence, "reading cache directory", err)
	}
	for _, f := range files {
		if err := os.Remove(filepath.Join(dir, f.Name())); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodePersistence, "removing cache entry", err)
		}
	}
	return nil
}

// Prune rewrites every collector's history keeping only records newer
// than the retention window, using the same temp-and-rename pattern as
// the cache so a crash never loses a whole file. Returns the number of
// records dropped across all collectors.
func (s *Store) Prune(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidRequest, "retention must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	histDir := filepath.Join(s.dir, historyDirName)
	files, err := os.ReadDir(histDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(errors.ErrCodePersistence, "reading history directory", err)
	}

	cutoff := s.now().Add(-retention)
	dropped := 0
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), historyExt) {
			continue
		}
		collector := strings.TrimSuffix(f.Name(), historyExt)
		recs, err := s.readHistoryLocked(collector, 0)
		if err != nil {
			return dropped, err
		}
		kept := make([]Record, 0, len(recs))
		for _, rec := range recs {
			if rec.CreatedAt.After(cutoff) {
				kept = append(kept, rec)
			}
		}
		if len(kept) == len(recs) {
			continue
		}
		if err := s.writeHistoryLocked(collector, kept); err != nil {
			return dropped, err
		}
		dropped += len(recs) - len(kept)
	}

	if dropped > 0 {
		pruneDropped.Add(float64(dropped))
		slog.Info("history pruned", "dropped", dropped)
	}
	return dropped, nil
}

func (s *Store) writeHistoryLocked(collector string, recs []Record) error {
	var buf strings.Builder
	for _, rec := range recs {
		line, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrap(errors.ErrCodePersistence, "encoding retained record", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return replaceFile(filepath.Join(s.dir, historyDirName), s.historyPath(collector), []byte(buf.String()))
}
