// Package dashboard serves analytics views over the collector's sink
// file. All views derive from an immutable snapshot of the dataset,
// swapped atomically by an explicit reload, never from mutable globals.
package dashboard

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"pitwall/metrics"
	"pitwall/model"
	"pitwall/process"
	"pitwall/storage"
)

// Snapshot is one immutable view of the dataset. Version is a content
// hash, used as the cache key prefix for memoized filtering.
type Snapshot struct {
	Records  []model.VideoRecord
	Version  string
	LoadedAt time.Time
}

// Store holds the current snapshot. Handlers read it without locking;
// Reload swaps in a fresh one.
type Store struct {
	reader  storage.DatasetReader
	logger  *slog.Logger
	now     func() time.Time
	current atomic.Pointer[Snapshot]
}

func NewStore(reader storage.DatasetReader, logger *slog.Logger) *Store {
	s := &Store{
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
	s.current.Store(&Snapshot{Version: version(nil)})
	return s
}

// WithNow fixes the clock used for metric re-derivation in tests.
func (s *Store) WithNow(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload reads the sink file and re-derives the engagement metrics. A
// missing or unreadable file is recoverable: the dashboard falls back to
// an empty snapshot instead of crashing.
func (s *Store) Reload() *Snapshot {
	now := s.now()

	records, err := s.reader.Read()
	if err != nil {
		s.logger.Warn("dataset unavailable, serving empty snapshot", slog.Any("error", err))
		records = nil
	}
	records = process.Derive(records, now)

	snap := &Snapshot{
		Records:  records,
		Version:  version(records),
		LoadedAt: now,
	}
	s.current.Store(snap)
	metrics.SnapshotReloads.Inc()

	s.logger.Info("snapshot loaded",
		slog.Int("records", len(records)),
		slog.String("version", snap.Version))
	return snap
}

// version hashes the identifying fields of every record into a short
// content key.
func version(records []model.VideoRecord) string {
	h := sha256.New()
	for _, rec := range records {
		fmt.Fprintf(h, "%s|%d|%d|%d|%d\n",
			rec.VideoID, rec.PublishedAt.Unix(), rec.Views, rec.Likes, rec.Comments)
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:12])
}
