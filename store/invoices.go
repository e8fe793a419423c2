package store

import (
	"context"

	log "github.com/sirupsen/logrus"

	"roulettebot/types"
)

// OpenInvoice records a pending top-up invoice. Invoice ids come from the
// payment provider and must be unique per user.
func (s *Store) OpenInvoice(ctx context.Context, userID, invoiceID int64, amount float64, currency string, attempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	if _, ok := u.PendingInvoices[invoiceID]; ok {
		log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID}).Warn("invoice already pending")
		return ErrInvoiceExists
	}
	u.PendingInvoices[invoiceID] = &types.InvoiceRecord{
		Amount:    amount,
		Currency:  currency,
		Attempts:  attempts,
		CreatedAt: s.now(),
	}
	log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID, "attempts": attempts}).Info("pending invoice opened")
	s.persistLocked(ctx)
	return nil
}

// PeekInvoice returns a copy of a pending invoice without resolving it,
// used to validate a payment check and recover the attempts to credit.
func (s *Store) PeekInvoice(userID, invoiceID int64) (types.InvoiceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	inv, ok := u.PendingInvoices[invoiceID]
	if !ok {
		return types.InvoiceRecord{}, false
	}
	return *inv, true
}

// CloseInvoice removes and returns a pending invoice once the provider
// reported a terminal status. Crediting the purchased attempts on a paid
// invoice is the caller's job.
func (s *Store) CloseInvoice(ctx context.Context, userID, invoiceID int64) (types.InvoiceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateLocked(userID)
	inv, ok := u.PendingInvoices[invoiceID]
	if !ok {
		return types.InvoiceRecord{}, false
	}
	delete(u.PendingInvoices, invoiceID)
	log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID}).Info("pending invoice closed")
	s.persistLocked(ctx)
	return *inv, true
}
