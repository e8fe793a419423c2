package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roulettebot/types"
)

func TestRecordWin_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first := s.RecordWin(ctx, 42, "Prize A", 5)
	second := s.RecordWin(ctx, 42, "Prize B", 25)

	assert.Equal(t, int64(0), first.ID)
	assert.Equal(t, int64(1), second.ID)
	assert.Equal(t, types.ClaimAvailable, first.State())

	wins := s.User(42).Wins
	require.Len(t, wins, 2)
	assert.Equal(t, "Prize A", wins[0].Prize)
	assert.Equal(t, "Prize B", wins[1].Prize)
}

func TestUnclaimedWins_OnlyAvailable(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.RecordWin(ctx, 42, "Prize A", 5)
	s.RecordWin(ctx, 42, "Prize B", 25)
	s.RecordWin(ctx, 42, "Prize C", 60)

	_, err := s.RequestClaim(ctx, 42, 1)
	require.NoError(t, err)

	unclaimed := s.UnclaimedWins(42)
	require.Len(t, unclaimed, 2)
	assert.Equal(t, int64(0), unclaimed[0].ID)
	assert.Equal(t, int64(2), unclaimed[1].ID)
}

func TestClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.SetUsername(ctx, 42, "alice")
	s.RecordWin(ctx, 42, "Prize B", 25)

	prize, err := s.RequestClaim(ctx, 42, 0)
	require.NoError(t, err)
	assert.Equal(t, "Prize B", prize)
	assert.Equal(t, types.ClaimRequested, s.User(42).Wins[0].State())

	prize, username, err := s.ConfirmClaim(ctx, 7, 42, 0)
	require.NoError(t, err)
	assert.Equal(t, "Prize B", prize)
	assert.Equal(t, "alice", username)

	win := s.User(42).Wins[0]
	assert.Equal(t, types.ClaimConfirmed, win.State())
	assert.Equal(t, int64(7), win.ConfirmedByAdmin)
	require.NotNil(t, win.ClaimRequestedAt)
	require.NotNil(t, win.ClaimConfirmedAt)

	// A second confirmation observes the terminal state and fails.
	_, _, err = s.ConfirmClaim(ctx, 7, 42, 0)
	assert.ErrorIs(t, err, ErrClaimNotRequested)
}

func TestRequestClaim_TwiceFailsSecondTime(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.RecordWin(ctx, 42, "Prize A", 5)

	_, err := s.RequestClaim(ctx, 42, 0)
	require.NoError(t, err)

	_, err = s.RequestClaim(ctx, 42, 0)
	assert.ErrorIs(t, err, ErrClaimUnavailable)
	assert.Equal(t, types.ClaimRequested, s.User(42).Wins[0].State())
}

func TestRequestClaim_UnknownWin(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.RequestClaim(ctx, 42, 9)
	assert.ErrorIs(t, err, ErrWinNotFound)
}

func TestConfirmClaim_RequiresRequestedState(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.RecordWin(ctx, 42, "Prize A", 5)

	// Still available, never requested.
	_, _, err := s.ConfirmClaim(ctx, 7, 42, 0)
	assert.ErrorIs(t, err, ErrClaimNotRequested)

	// Unknown win id.
	_, _, err = s.ConfirmClaim(ctx, 7, 42, 99)
	assert.ErrorIs(t, err, ErrWinNotFound)
}

func TestPendingClaims_SortedByRequestTime(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time { return clock }

	s.SetUsername(ctx, 1, "first")
	s.SetUsername(ctx, 2, "second")
	s.RecordWin(ctx, 1, "Prize A", 5)
	s.RecordWin(ctx, 2, "Prize B", 25)

	clock = base.Add(2 * time.Hour)
	_, err := s.RequestClaim(ctx, 1, 0)
	require.NoError(t, err)

	clock = base.Add(1 * time.Hour)
	_, err = s.RequestClaim(ctx, 2, 0)
	require.NoError(t, err)

	pending := s.PendingClaims()
	require.Len(t, pending, 2)
	assert.Equal(t, int64(2), pending[0].UserID, "earlier request comes first")
	assert.Equal(t, int64(1), pending[1].UserID)
	assert.Equal(t, "second", pending[0].Username)
}

func TestPendingClaims_MissingTimestampSortsFirst(t *testing.T) {
	ctx := context.Background()

	// A snapshot written by an older build may carry a requested win
	// without a request timestamp; it must sort ahead of dated ones.
	sink := NewMemorySink()
	sink.Seed([]byte(`{
  "1": {
    "username": "old",
    "attempts": 0,
    "wins": [
      {"id": 0, "prize": "Prize X", "roll": 3, "timestamp": "2025-01-01T00:00:00Z",
       "claimed": false, "claim_requested": true,
       "claim_request_timestamp": null, "claim_confirmed_timestamp": null}
    ],
    "is_banned": false,
    "first_seen": "2025-01-01T00:00:00Z",
    "last_seen": "2025-01-01T00:00:00Z",
    "pending_invoices": {},
    "next_win_id": 1
  }
}`))
	s := New(sink)
	s.Load(ctx)

	s.RecordWin(ctx, 2, "Prize Y", 10)
	_, err := s.RequestClaim(ctx, 2, 0)
	require.NoError(t, err)

	pending := s.PendingClaims()
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].UserID, "missing timestamp is treated as earliest")
	assert.Nil(t, pending[0].RequestedAt)
}

func TestPendingClaims_ExcludesAvailableAndClaimed(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.RecordWin(ctx, 42, "Prize A", 5)  // stays available
	s.RecordWin(ctx, 42, "Prize B", 25) // requested then confirmed
	s.RecordWin(ctx, 42, "Prize C", 60) // requested

	_, err := s.RequestClaim(ctx, 42, 1)
	require.NoError(t, err)
	_, _, err = s.ConfirmClaim(ctx, 7, 42, 1)
	require.NoError(t, err)
	_, err = s.RequestClaim(ctx, 42, 2)
	require.NoError(t, err)

	pending := s.PendingClaims()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].WinID)
	assert.Equal(t, "Prize C", pending[0].Prize)
}

func TestWinIDs_SurviveSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, sink := newTestStore(t)

	s.RecordWin(ctx, 42, "Prize A", 5)
	s.RecordWin(ctx, 42, "Prize B", 25)

	restored := New(sink)
	restored.Load(ctx)

	// The id counter continues where it left off.
	win := restored.RecordWin(ctx, 42, "Prize C", 60)
	assert.Equal(t, int64(2), win.ID)
}
