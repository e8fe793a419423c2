package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"roulettebot/types"
)

// Store owns every UserRecord in the process. The snapshot on disk (or in
// whatever sink was injected) mirrors the in-memory map: every mutating
// operation rewrites the whole snapshot before returning, so durability is
// write-through. A single mutex serializes each read-modify-persist
// sequence; two concurrent mutations can never interleave their saves.
//
// Reads hand out copies. Callers must route every mutation back through a
// Store method instead of editing a copy they obtained earlier.
type Store struct {
	mu    sync.Mutex
	users map[int64]*types.UserRecord
	sink  types.SnapshotSink
	now   func() time.Time
}

func New(sink types.SnapshotSink) *Store {
	return &Store{
		users: make(map[int64]*types.UserRecord),
		sink:  sink,
		now:   time.Now,
	}
}

// Load replaces the in-memory map with the sink's snapshot. It never
// fails the process: a missing or empty snapshot yields an empty map, and
// an unparsable one is backed up aside and replaced with an empty map.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*types.UserRecord)

	data, err := s.sink.Load(ctx)
	if err != nil {
		log.WithError(err).Error("failed to read ledger snapshot, starting with empty data")
		return
	}
	if len(data) == 0 {
		log.Info("no ledger snapshot found, starting with empty data")
		return
	}

	var users map[int64]*types.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		log.WithError(err).Error("ledger snapshot is corrupt, backing it up and starting with empty data")
		if berr := s.sink.Backup(ctx); berr != nil {
			log.WithError(berr).Error("failed to back up corrupt ledger snapshot")
		}
		return
	}

	for _, u := range users {
		if u.Wins == nil {
			u.Wins = []types.WinRecord{}
		}
		if u.PendingInvoices == nil {
			u.PendingInvoices = make(map[int64]*types.InvoiceRecord)
		}
	}
	s.users = users
	log.WithField("users", len(users)).Info("ledger snapshot loaded")
}

// Save flushes the current in-memory state. Mutating operations persist
// on their own; this is for shutdown.
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx)
}

// persistLocked writes the whole map through the sink. A failed save is
// logged and otherwise ignored: the in-memory state stays authoritative
// for the rest of the process lifetime.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		log.WithError(err).Error("failed to serialize ledger snapshot")
		return
	}
	if err := s.sink.Save(ctx, data); err != nil {
		log.WithError(err).Error("failed to persist ledger snapshot, in-memory state remains authoritative")
	}
}

func (s *Store) getOrCreateLocked(userID int64) *types.UserRecord {
	u, ok := s.users[userID]
	if !ok {
		now := s.now()
		u = &types.UserRecord{
			Wins:            []types.WinRecord{},
			PendingInvoices: make(map[int64]*types.InvoiceRecord),
			FirstSeen:       now,
			LastSeen:        now,
		}
		s.users[userID] = u
		log.WithField("user_id", userID).Info("new user registered")
	}
	u.LastSeen = s.now()
	return u
}

// User returns a copy of the user's record, creating a default one on
// first sight. It never fails.
func (s *Store) User(userID int64) types.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.getOrCreateLocked(userID))
}

func copyUser(u *types.UserRecord) types.UserRecord {
	out := *u
	out.Wins = make([]types.WinRecord, len(u.Wins))
	copy(out.Wins, u.Wins)
	out.PendingInvoices = make(map[int64]*types.InvoiceRecord, len(u.PendingInvoices))
	for id, inv := range u.PendingInvoices {
		cp := *inv
		out.PendingInvoices[id] = &cp
	}
	return out
}
