package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"roulettebot/internal/messages"
	"roulettebot/types"
)

func (h *Handlers) handleBuy(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, userID, chatID int64, messageID int, rawCount string) {
	count, err := strconv.Atoi(rawCount)
	if err != nil || count <= 0 {
		log.WithFields(log.Fields{"user_id": userID, "data": query.Data}).Error("malformed purchase callback")
		h.answerCallback(ctx, b, query.ID, messages.UnknownAction())
		return
	}

	if h.payments == nil {
		log.Error("purchase requested but payment provider is not configured")
		h.answerCallback(ctx, b, query.ID, "")
		h.reply(ctx, b, chatID, messages.PaymentUnavailable())
		return
	}

	amount := math.Round(h.cfg.PriceAmount*float64(count)*1e8) / 1e8
	description := fmt.Sprintf("Покупка %d попыток в Рулетке Удачи", count)

	invoice, err := h.payments.CreateInvoice(ctx, h.cfg.PriceCurrency, amount, description, uuid.NewString())
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to create invoice")
		h.answerCallback(ctx, b, query.ID, "")
		h.reply(ctx, b, chatID, messages.InvoiceCreateFailed())
		return
	}

	if err := h.store.OpenInvoice(ctx, userID, invoice.ID, amount, h.cfg.PriceCurrency, count); err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "invoice_id": invoice.ID}).Error("failed to record pending invoice")
		h.answerCallback(ctx, b, query.ID, "")
		h.reply(ctx, b, chatID, messages.InvoiceCreateFailed())
		return
	}

	log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoice.ID, "attempts": count, "amount": amount}).Info("invoice created")
	h.answerCallback(ctx, b, query.ID, "")
	h.editOrSend(ctx, b, chatID, messageID,
		messages.InvoiceCreated(amount, h.cfg.PriceCurrency, count),
		invoiceKeyboard(invoice.PayURL, invoice.ID))
}

func (h *Handlers) handleCheckPayment(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, userID, chatID int64, messageID int, rawID string) {
	invoiceID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		log.WithFields(log.Fields{"user_id": userID, "data": query.Data}).Error("malformed payment check callback")
		h.answerCallback(ctx, b, query.ID, messages.UnknownAction())
		return
	}

	if h.payments == nil {
		log.Error("payment check requested but payment provider is not configured")
		h.answerCallback(ctx, b, query.ID, "")
		h.reply(ctx, b, chatID, messages.PaymentUnavailable())
		return
	}

	pending, ok := h.store.PeekInvoice(userID, invoiceID)
	if !ok {
		log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID}).Warn("payment check for unknown or resolved invoice")
		h.answerCallbackAlert(ctx, b, query.ID, messages.InvoiceUnknown())
		h.editOrSend(ctx, b, chatID, messageID, messages.Welcome(), h.mainKeyboard(userID))
		return
	}

	h.answerCallback(ctx, b, query.ID, messages.PaymentChecking())

	invoice, err := h.payments.GetInvoice(ctx, invoiceID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID}).Error("failed to check invoice status")
		h.reply(ctx, b, chatID, messages.PaymentCheckFailed())
		return
	}

	switch invoice.Status {
	case types.InvoiceStatusPaid:
		// Close first: the remove-and-return is the atomic step that
		// makes a concurrent double-check credit only once.
		if _, ok := h.store.CloseInvoice(ctx, userID, invoiceID); !ok {
			h.answerCallbackAlert(ctx, b, query.ID, messages.InvoiceUnknown())
			return
		}
		h.store.Credit(ctx, userID, pending.Attempts)
		log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID, "attempts": pending.Attempts}).Info("invoice paid, attempts credited")
		h.editOrSend(ctx, b, chatID, messageID, messages.PaymentSuccess(pending.Attempts), h.mainKeyboard(userID))

	case types.InvoiceStatusExpired:
		h.store.CloseInvoice(ctx, userID, invoiceID)
		log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID}).Warn("invoice expired")
		h.editOrSend(ctx, b, chatID, messageID, messages.PaymentExpired(invoiceID), h.mainKeyboard(userID))

	default:
		log.WithFields(log.Fields{"user_id": userID, "invoice_id": invoiceID, "status": invoice.Status}).Info("invoice still pending")
		h.editOrSend(ctx, b, chatID, messageID, messages.PaymentPending(), invoiceKeyboard(invoice.PayURL, invoiceID))
	}
}
