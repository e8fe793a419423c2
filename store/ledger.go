package store

import (
	"context"

	log "github.com/sirupsen/logrus"

	"roulettebot/types"
)

// SetUsername records the last-seen display name. Unchanged names are a
// no-op so routine traffic does not rewrite the snapshot.
func (s *Store) SetUsername(ctx context.Context, userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	if u.Username == username {
		return
	}
	u.Username = username
	log.WithFields(log.Fields{"user_id": userID, "username": username}).Info("username updated")
	s.persistLocked(ctx)
}

func (s *Store) IsBanned(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(userID).IsBanned
}

// Credit adds attempts to the user's balance. Non-positive amounts are
// rejected with a warning.
func (s *Store) Credit(ctx context.Context, userID int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount <= 0 {
		log.WithFields(log.Fields{"user_id": userID, "amount": amount}).Warn("refusing to credit non-positive amount")
		return
	}
	u := s.getOrCreateLocked(userID)
	u.Attempts += amount
	log.WithFields(log.Fields{"user_id": userID, "amount": amount, "balance": u.Attempts}).Info("attempts credited")
	s.persistLocked(ctx)
}

// Debit removes up to amount attempts, clamping at zero, and returns how
// many were actually removed so the caller can report a true figure.
func (s *Store) Debit(ctx context.Context, userID int64, amount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount <= 0 {
		log.WithFields(log.Fields{"user_id": userID, "amount": amount}).Warn("refusing to debit non-positive amount")
		return 0
	}
	u := s.getOrCreateLocked(userID)
	taken := amount
	if u.Attempts < taken {
		taken = u.Attempts
	}
	if taken == 0 {
		log.WithField("user_id", userID).Info("no attempts to debit")
		return 0
	}
	u.Attempts -= taken
	log.WithFields(log.Fields{"user_id": userID, "taken": taken, "balance": u.Attempts}).Info("attempts debited")
	s.persistLocked(ctx)
	return taken
}

// ConsumeOne is the gate for playing: it spends one attempt if the user
// has any, and reports whether the play may proceed.
func (s *Store) ConsumeOne(ctx context.Context, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	if u.Attempts <= 0 {
		log.WithField("user_id", userID).Warn("no attempts left")
		return false
	}
	u.Attempts--
	log.WithFields(log.Fields{"user_id": userID, "balance": u.Attempts}).Info("attempt consumed")
	s.persistLocked(ctx)
	return true
}

// Ban flips the ban flag on. Returns false if the user was already banned
// (nothing persisted).
func (s *Store) Ban(ctx context.Context, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	if u.IsBanned {
		return false
	}
	u.IsBanned = true
	log.WithField("user_id", userID).Info("user banned")
	s.persistLocked(ctx)
	return true
}

// Unban flips the ban flag off. Returns false if the user was not banned.
func (s *Store) Unban(ctx context.Context, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	if !u.IsBanned {
		return false
	}
	u.IsBanned = false
	log.WithField("user_id", userID).Info("user unbanned")
	s.persistLocked(ctx)
	return true
}

// Reset discards the user's balance, wins and pending invoices, keeping
// only the ban flag and the first-seen timestamp. Returns false if the
// user has no record yet.
func (s *Store) Reset(ctx context.Context, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[userID]
	if !ok {
		log.WithField("user_id", userID).Warn("refusing to reset unknown user")
		return false
	}
	now := s.now()
	s.users[userID] = &types.UserRecord{
		Wins:            []types.WinRecord{},
		PendingInvoices: make(map[int64]*types.InvoiceRecord),
		IsBanned:        old.IsBanned,
		FirstSeen:       old.FirstSeen,
		LastSeen:        now,
	}
	log.WithField("user_id", userID).Info("user data reset, ban flag preserved")
	s.persistLocked(ctx)
	return true
}
