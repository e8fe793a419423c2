package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"

	"roulettebot/internal/messages"
)

func (h *Handlers) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	userID := query.From.ID
	data := query.Data

	chatID := userID
	messageID := 0
	if query.Message.Message != nil {
		chatID = query.Message.Message.Chat.ID
		messageID = query.Message.Message.ID
	}

	log.WithFields(log.Fields{"user_id": userID, "data": data}).Debug("callback received")

	switch {
	case data == "back_to_main":
		h.answerCallback(ctx, b, query.ID, "")
		h.editOrSend(ctx, b, chatID, messageID, messages.Welcome(), h.mainKeyboard(userID))

	case data == "show_stats":
		h.answerCallback(ctx, b, query.ID, "")
		h.editOrSend(ctx, b, chatID, messageID, messages.Stats(userID, h.store.User(userID)), backKeyboard())

	case data == "spin_roulette":
		h.handleSpin(ctx, b, query, userID, chatID, messageID)

	case data == "buy_options":
		h.answerCallback(ctx, b, query.ID, "")
		h.editOrSend(ctx, b, chatID, messageID, messages.PurchasePrompt(), h.buyKeyboard())

	case strings.HasPrefix(data, "confirm_buy_"):
		h.handleBuy(ctx, b, query, userID, chatID, messageID, strings.TrimPrefix(data, "confirm_buy_"))

	case strings.HasPrefix(data, "check_payment_"):
		h.handleCheckPayment(ctx, b, query, userID, chatID, messageID, strings.TrimPrefix(data, "check_payment_"))

	case data == "claim_options":
		h.answerCallback(ctx, b, query.ID, "")
		wins := h.store.UnclaimedWins(userID)
		h.editOrSend(ctx, b, chatID, messageID, messages.ClaimPrompt(len(wins) > 0), h.claimKeyboard(wins))

	case strings.HasPrefix(data, "request_claim_"):
		h.handleRequestClaim(ctx, b, query, userID, chatID, messageID, strings.TrimPrefix(data, "request_claim_"))

	case strings.HasPrefix(data, "admin_confirm_claim_"):
		h.handleConfirmClaim(ctx, b, query, userID, chatID, messageID, strings.TrimPrefix(data, "admin_confirm_claim_"))

	default:
		log.WithFields(log.Fields{"user_id": userID, "data": data}).Warn("unknown callback data")
		h.answerCallback(ctx, b, query.ID, messages.UnknownAction())
	}
}

func (h *Handlers) handleRequestClaim(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, userID, chatID int64, messageID int, rawID string) {
	winID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		log.WithFields(log.Fields{"user_id": userID, "data": query.Data}).Error("malformed claim request callback")
		h.answerCallback(ctx, b, query.ID, messages.UnknownAction())
		return
	}

	prize, err := h.store.RequestClaim(ctx, userID, winID)
	if err != nil {
		h.answerCallbackAlert(ctx, b, query.ID, messages.ClaimRequestFailed())
		h.editOrSend(ctx, b, chatID, messageID, messages.Welcome(), h.mainKeyboard(userID))
		return
	}

	h.answerCallbackAlert(ctx, b, query.ID, "✅ Запрос отправлен!")

	username := h.store.User(userID).Username
	for _, adminID := range h.cfg.AdminIDs {
		h.notify(ctx, b, adminID, messages.AdminClaimNotice(username, userID, prize))
	}

	h.editOrSend(ctx, b, chatID, messageID, messages.ClaimRequested(prize)+"\n\n"+messages.Welcome(), h.mainKeyboard(userID))
}

func (h *Handlers) handleConfirmClaim(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, adminID, chatID int64, messageID int, rawIDs string) {
	if !h.cfg.IsAdmin(adminID) {
		log.WithFields(log.Fields{"user_id": adminID, "data": query.Data}).Warn("non-admin pressed admin button")
		h.answerCallbackAlert(ctx, b, query.ID, "⛔ Доступ запрещен.")
		return
	}

	parts := strings.SplitN(rawIDs, "_", 2)
	if len(parts) != 2 {
		h.answerCallbackAlert(ctx, b, query.ID, "⚠️ Ошибка в данных кнопки.")
		return
	}
	targetID, err1 := strconv.ParseInt(parts[0], 10, 64)
	winID, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		log.WithField("data", query.Data).Error("malformed claim confirmation callback")
		h.answerCallbackAlert(ctx, b, query.ID, "⚠️ Ошибка в данных кнопки.")
		return
	}

	prize, username, err := h.store.ConfirmClaim(ctx, adminID, targetID, winID)
	if err != nil {
		reason := messages.ClaimFailureReason(err)
		h.answerCallbackAlert(ctx, b, query.ID, "⚠️ "+reason)
		h.editOrSend(ctx, b, chatID, messageID, messages.ClaimConfirmFailed(targetID, winID, reason), nil)
		return
	}

	name := messages.DisplayName(username, targetID)
	h.answerCallbackAlert(ctx, b, query.ID, "✅ Заявка для "+name+" подтверждена!")
	h.editOrSend(ctx, b, chatID, messageID, messages.ClaimConfirmedAdmin(prize, name, targetID), nil)

	// Committed already; the user notification is best-effort.
	h.notify(ctx, b, targetID, messages.ClaimConfirmedUser(prize))
}
