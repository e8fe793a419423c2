package store

import (
	"context"
	"sort"

	log "github.com/sirupsen/logrus"

	"roulettebot/types"
)

// RecordWin appends a new win in the available state and returns a copy
// of it. This is the only way wins enter the system.
func (s *Store) RecordWin(ctx context.Context, userID int64, prize string, roll int) types.WinRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	win := types.WinRecord{
		ID:        u.NextWinID,
		Prize:     prize,
		Roll:      roll,
		Timestamp: s.now(),
	}
	u.NextWinID++
	u.Wins = append(u.Wins, win)
	log.WithFields(log.Fields{"user_id": userID, "prize": prize, "roll": roll, "win_id": win.ID}).Info("win recorded")
	s.persistLocked(ctx)
	return win
}

// UnclaimedWins lists the user's wins still in the available state, in
// the order they were won.
func (s *Store) UnclaimedWins(userID int64) []types.UnclaimedWin {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	var out []types.UnclaimedWin
	for i := range u.Wins {
		if u.Wins[i].State() == types.ClaimAvailable {
			out = append(out, types.UnclaimedWin{
				ID:    u.Wins[i].ID,
				Prize: u.Wins[i].Prize,
				WonAt: u.Wins[i].Timestamp,
			})
		}
	}
	return out
}

// RequestClaim moves an available win to the requested state and returns
// the prize label. A second request for the same win fails cleanly with
// ErrClaimUnavailable, so a button pressed twice cannot double-transition.
func (s *Store) RequestClaim(ctx context.Context, userID, winID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	win := findWin(u, winID)
	if win == nil {
		log.WithFields(log.Fields{"user_id": userID, "win_id": winID}).Error("claim request for unknown win")
		return "", ErrWinNotFound
	}
	if win.State() != types.ClaimAvailable {
		log.WithFields(log.Fields{"user_id": userID, "win_id": winID}).Warn("claim request for already requested or claimed win")
		return "", ErrClaimUnavailable
	}
	now := s.now()
	win.ClaimRequested = true
	win.ClaimRequestedAt = &now
	log.WithFields(log.Fields{"user_id": userID, "win_id": winID, "prize": win.Prize}).Info("claim requested")
	s.persistLocked(ctx)
	return win.Prize, nil
}

// PendingClaims scans every user for wins in the requested state and
// returns them oldest request first, missing request timestamps sorting
// earliest. This is the operators' FIFO queue.
func (s *Store) PendingClaims() []types.PendingClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []types.PendingClaim
	for userID, u := range s.users {
		for i := range u.Wins {
			if u.Wins[i].State() != types.ClaimRequested {
				continue
			}
			pending = append(pending, types.PendingClaim{
				UserID:      userID,
				Username:    u.Username,
				WinID:       u.Wins[i].ID,
				Prize:       u.Wins[i].Prize,
				RequestedAt: u.Wins[i].ClaimRequestedAt,
			})
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].RequestedAt, pending[j].RequestedAt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	return pending
}

// ConfirmClaim moves a requested win to the terminal claimed state,
// stamping the confirming admin. It returns the prize label and the
// user's display name for the operator's response. If another admin got
// there first the win is no longer requested and ErrClaimNotRequested
// comes back instead of a double payout.
func (s *Store) ConfirmClaim(ctx context.Context, adminID, userID, winID int64) (prize, username string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	win := findWin(u, winID)
	if win == nil {
		log.WithFields(log.Fields{"admin_id": adminID, "user_id": userID, "win_id": winID}).Error("claim confirmation for unknown win")
		return "", "", ErrWinNotFound
	}
	if win.State() != types.ClaimRequested {
		log.WithFields(log.Fields{"admin_id": adminID, "user_id": userID, "win_id": winID}).Warn("claim confirmation for win not awaiting one")
		return "", "", ErrClaimNotRequested
	}
	now := s.now()
	win.Claimed = true
	win.ClaimConfirmedAt = &now
	win.ConfirmedByAdmin = adminID
	log.WithFields(log.Fields{"admin_id": adminID, "user_id": userID, "win_id": winID, "prize": win.Prize}).Info("claim confirmed")
	s.persistLocked(ctx)
	return win.Prize, u.Username, nil
}

func findWin(u *types.UserRecord, winID int64) *types.WinRecord {
	for i := range u.Wins {
		if u.Wins[i].ID == winID {
			return &u.Wins[i]
		}
	}
	return nil
}
