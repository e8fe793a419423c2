package types

import "time"

type ClaimState string

const (
	ClaimAvailable ClaimState = "available"
	ClaimRequested ClaimState = "requested"
	ClaimConfirmed ClaimState = "claimed"
)

// WinRecord is a single won prize. Win lists are append-only: entries are
// never removed or reordered, only their claim fields change. The ID is a
// per-user sequence number assigned at creation and is the durable handle
// used by claim buttons and admin confirmations.
type WinRecord struct {
	ID        int64     `json:"id"`
	Prize     string    `json:"prize"`
	Roll      int       `json:"roll"`
	Timestamp time.Time `json:"timestamp"`

	Claimed          bool       `json:"claimed"`
	ClaimRequested   bool       `json:"claim_requested"`
	ClaimRequestedAt *time.Time `json:"claim_request_timestamp"`
	ClaimConfirmedAt *time.Time `json:"claim_confirmed_timestamp"`
	ConfirmedByAdmin int64      `json:"confirmed_by_admin,omitempty"`
}

// State derives the claim state from the two flags. Claimed is terminal
// and wins over ClaimRequested.
func (w *WinRecord) State() ClaimState {
	switch {
	case w.Claimed:
		return ClaimConfirmed
	case w.ClaimRequested:
		return ClaimRequested
	default:
		return ClaimAvailable
	}
}

// InvoiceRecord is an outstanding top-up invoice awaiting the payment
// provider's terminal status. It is created once and removed once
// resolved, never mutated in between.
type InvoiceRecord struct {
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRecord struct {
	Username        string                   `json:"username"`
	Attempts        int                      `json:"attempts"`
	Wins            []WinRecord              `json:"wins"`
	IsBanned        bool                     `json:"is_banned"`
	FirstSeen       time.Time                `json:"first_seen"`
	LastSeen        time.Time                `json:"last_seen"`
	PendingInvoices map[int64]*InvoiceRecord `json:"pending_invoices"`
	NextWinID       int64                    `json:"next_win_id"`
}

// PendingClaim is one entry of the operator-facing claim queue.
type PendingClaim struct {
	UserID      int64
	Username    string
	WinID       int64
	Prize       string
	RequestedAt *time.Time
}

// UnclaimedWin is a win still in the available state, offered to the user
// as a claim option.
type UnclaimedWin struct {
	ID    int64
	Prize string
	WonAt time.Time
}
