package handlers

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"

	"roulettebot/internal/messages"
)

const (
	spinDuration   = 3 * time.Second
	animationSteps = 5
)

// handleSpin runs one play: the attempt is spent first as its own atomic
// step, so an interrupted animation can never leave the ledger
// inconsistent.
func (h *Handlers) handleSpin(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, userID, chatID int64, messageID int) {
	log.WithFields(log.Fields{"user_id": userID, "username": query.From.Username}).Info("spin requested")

	if !h.store.ConsumeOne(ctx, userID) {
		h.answerCallbackAlert(ctx, b, query.ID, messages.NoAttempts())
		h.editOrSend(ctx, b, chatID, messageID, messages.NoAttempts(), buyPromptKeyboard())
		return
	}

	h.answerCallback(ctx, b, query.ID, "✨ Удачи!")

	for i := 0; i < animationSteps; i++ {
		text := messages.RollingTexts[rand.Intn(len(messages.RollingTexts))] + " " + messages.SpinEmojis[rand.Intn(len(messages.SpinEmojis))]
		if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      text,
		}); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("spin animation message became unavailable")
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(spinDuration / animationSteps):
		}
	}

	roll, prize, won := h.wheel.Spin()

	var resultText string
	if won {
		h.store.RecordWin(ctx, userID, prize, roll)
		resultText = messages.WinResult(prize, roll, h.store.User(userID).Attempts)
		log.WithFields(log.Fields{"user_id": userID, "prize": prize, "roll": roll}).Info("spin won")
	} else {
		resultText = messages.LoseResult(roll, h.store.User(userID).Attempts)
		log.WithFields(log.Fields{"user_id": userID, "roll": roll}).Info("spin lost")
	}

	h.editOrSend(ctx, b, chatID, messageID, resultText, h.mainKeyboard(userID))
}
