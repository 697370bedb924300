// Package progress carries advisory progress for analysis runs. Snapshots
// are hints for callers; they have no correctness obligation and losing one
// is fine.
package progress

import (
	"context"
	"sync"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Snapshot is the full advisory state of one run, written by the pipeline
// and read concurrently by the delivery layer.
type Snapshot struct {
	RunID         string `json:"run_id"`
	Status        Status `json:"status"`
	CurrentGame   int    `json:"current_game"`
	TotalGames    int    `json:"total_games"`
	CurrentPly    int    `json:"current_ply"`
	TotalPlies    int    `json:"total_plies"`
	ErrorsFound   int    `json:"errors_found"`
	CurrentAction string `json:"current_action"`
}

// Sink receives snapshots while a run executes. It is created at run start
// and discarded at run end; the pipeline never touches ambient state.
type Sink interface {
	Publish(ctx context.Context, snap Snapshot)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, snap Snapshot)

func (f SinkFunc) Publish(ctx context.Context, snap Snapshot) { f(ctx, snap) }

// Discard drops every snapshot.
var Discard Sink = SinkFunc(func(context.Context, Snapshot) {})

// Store is a Sink whose latest snapshot per key can be read back.
type Store interface {
	Set(ctx context.Context, key string, snap Snapshot) error
	Get(ctx context.Context, key string) (Snapshot, error)
	Clear(ctx context.Context, key string) error
}

// MemoryStore keeps snapshots in a mutex-guarded map. Used in tests and as
// a fallback when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

func (s *MemoryStore) Set(_ context.Context, key string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[key] = snap
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[key]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, key)
	return nil
}
