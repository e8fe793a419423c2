package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredit_NewUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	u := s.User(42)
	assert.Equal(t, 0, u.Attempts)
	assert.Empty(t, u.Wins)

	s.Credit(ctx, 42, 5)
	assert.Equal(t, 5, s.User(42).Attempts)
}

func TestCredit_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Credit(ctx, 42, 0)
	s.Credit(ctx, 42, -3)
	assert.Equal(t, 0, s.User(42).Attempts)
}

func TestDebit_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Credit(ctx, 42, 3)
	taken := s.Debit(ctx, 42, 10)

	assert.Equal(t, 3, taken, "debit reports the amount actually removed")
	assert.Equal(t, 0, s.User(42).Attempts)

	assert.Equal(t, 0, s.Debit(ctx, 42, 5))
	assert.Equal(t, 0, s.User(42).Attempts)
}

func TestDebit_PartialBalanceRemains(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Credit(ctx, 42, 10)
	assert.Equal(t, 4, s.Debit(ctx, 42, 4))
	assert.Equal(t, 6, s.User(42).Attempts)
}

func TestConsumeOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Credit(ctx, 42, 1)

	assert.True(t, s.ConsumeOne(ctx, 42))
	assert.Equal(t, 0, s.User(42).Attempts)

	// Second call fails and leaves state unchanged.
	assert.False(t, s.ConsumeOne(ctx, 42))
	assert.Equal(t, 0, s.User(42).Attempts)
}

func TestSetUsername_OnlyPersistsChanges(t *testing.T) {
	ctx := context.Background()
	s, sink := newTestStore(t)

	s.SetUsername(ctx, 42, "alice")
	assert.Equal(t, 1, sink.Saves())

	s.SetUsername(ctx, 42, "alice")
	assert.Equal(t, 1, sink.Saves(), "unchanged username must not rewrite the snapshot")

	s.SetUsername(ctx, 42, "bob")
	assert.Equal(t, 2, sink.Saves())
	assert.Equal(t, "bob", s.User(42).Username)
}

func TestBanUnban_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, sink := newTestStore(t)

	assert.False(t, s.IsBanned(42))

	assert.True(t, s.Ban(ctx, 42))
	assert.True(t, s.IsBanned(42))
	saves := sink.Saves()

	assert.False(t, s.Ban(ctx, 42), "second ban is a no-op")
	assert.Equal(t, saves, sink.Saves())

	assert.True(t, s.Unban(ctx, 42))
	assert.False(t, s.IsBanned(42))

	assert.False(t, s.Unban(ctx, 42))
}

func TestReset_KeepsBanAndFirstSeen(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Credit(ctx, 42, 5)
	s.RecordWin(ctx, 42, "Prize A", 5)
	require.NoError(t, s.OpenInvoice(ctx, 42, 1, 0.1, "USDT", 1))
	s.Ban(ctx, 42)
	firstSeen := s.User(42).FirstSeen

	assert.True(t, s.Reset(ctx, 42))

	u := s.User(42)
	assert.Equal(t, 0, u.Attempts)
	assert.Empty(t, u.Wins)
	assert.Empty(t, u.PendingInvoices)
	assert.True(t, u.IsBanned, "ban flag survives a reset")
	assert.Equal(t, firstSeen, u.FirstSeen)
}

func TestReset_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s, sink := newTestStore(t)

	assert.False(t, s.Reset(ctx, 42))
	assert.Equal(t, 0, sink.Saves())
}

func TestBalance_NeverNegativeUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Credit(ctx, 42, 50)

	var wg sync.WaitGroup
	consumed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumed <- s.ConsumeOne(ctx, 42)
		}()
	}
	wg.Wait()
	close(consumed)

	successes := 0
	for ok := range consumed {
		if ok {
			successes++
		}
	}
	assert.Equal(t, 50, successes, "exactly the available attempts may be consumed")
	assert.Equal(t, 0, s.User(42).Attempts)
}
