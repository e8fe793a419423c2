package types

import "context"

// SnapshotSink persists the serialized ledger snapshot. Save must replace
// the previous snapshot atomically: after a crash the stored snapshot is
// either the old complete one or the new complete one.
type SnapshotSink interface {
	// Load returns the stored snapshot, or (nil, nil) if none exists yet.
	Load(ctx context.Context) ([]byte, error)
	// Save atomically replaces the stored snapshot.
	Save(ctx context.Context, data []byte) error
	// Backup moves an unparsable snapshot aside so the next Save starts
	// fresh without destroying the evidence.
	Backup(ctx context.Context) error
	Close() error
}

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusExpired InvoiceStatus = "expired"
)

// ProviderInvoice is the payment provider's view of an invoice.
type ProviderInvoice struct {
	ID     int64
	Status InvoiceStatus
	PayURL string
}

// PaymentProvider is the external invoice service the purchase flow talks
// to. The ledger keeps its own bookkeeping; the provider owns the invoice
// lifecycle.
type PaymentProvider interface {
	CreateInvoice(ctx context.Context, asset string, amount float64, description, payload string) (*ProviderInvoice, error)
	GetInvoice(ctx context.Context, invoiceID int64) (*ProviderInvoice, error)
}
