package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roulettebot/internal/config"
	"roulettebot/store"
	"roulettebot/types"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	st := store.New(store.NewMemorySink())
	st.Load(context.Background())
	cfg := &config.Config{
		AdminIDs:      []int64{1},
		PriceAmount:   0.1,
		PriceCurrency: "USDT",
		BuyPackages:   []int{1, 5, 10},
	}
	return New(st, nil, nil, cfg)
}

func TestParseIDAndAmount(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantID     int64
		wantAmount int
		wantOK     bool
	}{
		{"valid", []string{"42", "5"}, 42, 5, true},
		{"negative id is a valid telegram id", []string{"-100", "3"}, -100, 3, true},
		{"zero amount", []string{"42", "0"}, 0, 0, false},
		{"negative amount", []string{"42", "-5"}, 0, 0, false},
		{"non-numeric id", []string{"abc", "5"}, 0, 0, false},
		{"non-numeric amount", []string{"42", "five"}, 0, 0, false},
		{"too few args", []string{"42"}, 0, 0, false},
		{"too many args", []string{"42", "5", "x"}, 0, 0, false},
		{"no args", nil, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, amount, ok := parseIDAndAmount(tt.args)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantAmount, amount)
			}
		})
	}
}

func TestParseSingleID(t *testing.T) {
	id, ok := parseSingleID([]string{"42"})
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = parseSingleID([]string{"abc"})
	assert.False(t, ok)

	_, ok = parseSingleID([]string{"42", "43"})
	assert.False(t, ok)

	_, ok = parseSingleID(nil)
	assert.False(t, ok)
}

func TestMainKeyboard_ClaimButtonOnlyWithUnclaimedWins(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	kb := h.mainKeyboard(42)
	for _, row := range kb.InlineKeyboard {
		assert.NotEqual(t, "claim_options", row[0].CallbackData)
	}

	h.store.RecordWin(ctx, 42, "Приз", 7)

	kb = h.mainKeyboard(42)
	var found bool
	for _, row := range kb.InlineKeyboard {
		if row[0].CallbackData == "claim_options" {
			found = true
		}
	}
	assert.True(t, found, "claim button should appear once a win is available")
}

func TestClaimKeyboard_CallbackDataAndLimit(t *testing.T) {
	h := newTestHandlers(t)

	wins := make([]types.UnclaimedWin, 0, claimOptionsLimit+3)
	for i := 0; i < claimOptionsLimit+3; i++ {
		wins = append(wins, types.UnclaimedWin{
			ID:    int64(i),
			Prize: "Приз",
			WonAt: time.Now(),
		})
	}

	kb := h.claimKeyboard(wins)
	// One row per offered win plus the back row.
	require.Len(t, kb.InlineKeyboard, claimOptionsLimit+1)
	for i := 0; i < claimOptionsLimit; i++ {
		assert.Equal(t, fmt.Sprintf("request_claim_%d", i), kb.InlineKeyboard[i][0].CallbackData)
	}
	assert.Equal(t, "back_to_main", kb.InlineKeyboard[claimOptionsLimit][0].CallbackData)
}

func TestBuyKeyboard(t *testing.T) {
	h := newTestHandlers(t)

	kb := h.buyKeyboard()
	require.Len(t, kb.InlineKeyboard, len(h.cfg.BuyPackages)+1)
	assert.Equal(t, "confirm_buy_1", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "confirm_buy_5", kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "confirm_buy_10", kb.InlineKeyboard[2][0].CallbackData)
	assert.Contains(t, kb.InlineKeyboard[1][0].Text, "0.5 USDT")
}

func TestPendingClaimsKeyboard(t *testing.T) {
	now := time.Now()
	pending := []types.PendingClaim{
		{UserID: 42, Username: "alice", WinID: 3, Prize: "Приз", RequestedAt: &now},
	}

	kb := pendingClaimsKeyboard(pending)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "admin_confirm_claim_42_3", kb.InlineKeyboard[0][0].CallbackData)
	assert.Contains(t, kb.InlineKeyboard[0][0].Text, "alice")
}
