package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.OpenInvoice(ctx, 42, 100, 0.5, "USDT", 5))

	inv, ok := s.PeekInvoice(42, 100)
	require.True(t, ok)
	assert.Equal(t, 0.5, inv.Amount)
	assert.Equal(t, "USDT", inv.Currency)
	assert.Equal(t, 5, inv.Attempts)
	assert.False(t, inv.CreatedAt.IsZero())

	closed, ok := s.CloseInvoice(ctx, 42, 100)
	require.True(t, ok)
	assert.Equal(t, inv.Attempts, closed.Attempts)

	// Resolved invoices are gone.
	_, ok = s.PeekInvoice(42, 100)
	assert.False(t, ok)
	_, ok = s.CloseInvoice(ctx, 42, 100)
	assert.False(t, ok)
}

func TestOpenInvoice_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.OpenInvoice(ctx, 42, 100, 0.5, "USDT", 5))
	assert.ErrorIs(t, s.OpenInvoice(ctx, 42, 100, 1.0, "USDT", 10), ErrInvoiceExists)

	// The original record is untouched.
	inv, ok := s.PeekInvoice(42, 100)
	require.True(t, ok)
	assert.Equal(t, 5, inv.Attempts)
}

func TestOpenInvoice_SameIDDifferentUsers(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// Invoice ids only need to be unique per user.
	require.NoError(t, s.OpenInvoice(ctx, 1, 100, 0.1, "USDT", 1))
	require.NoError(t, s.OpenInvoice(ctx, 2, 100, 0.2, "USDT", 2))

	inv, ok := s.PeekInvoice(2, 100)
	require.True(t, ok)
	assert.Equal(t, 2, inv.Attempts)
}

func TestPeekInvoice_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	s, sink := newTestStore(t)

	require.NoError(t, s.OpenInvoice(ctx, 42, 100, 0.5, "USDT", 5))
	saves := sink.Saves()

	s.PeekInvoice(42, 100)
	s.PeekInvoice(42, 999)
	assert.Equal(t, saves, sink.Saves())
}

func TestCloseInvoice_PaidFlowCreditsOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.OpenInvoice(ctx, 42, 100, 0.5, "USDT", 5))

	// The reconciliation composition: close, then credit what was bought.
	closed, ok := s.CloseInvoice(ctx, 42, 100)
	require.True(t, ok)
	s.Credit(ctx, 42, closed.Attempts)
	assert.Equal(t, 5, s.User(42).Attempts)

	// A racing second check finds the invoice gone and credits nothing.
	_, ok = s.CloseInvoice(ctx, 42, 100)
	assert.False(t, ok)
	assert.Equal(t, 5, s.User(42).Attempts)
}
