package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"

	"roulettebot/internal/config"
	"roulettebot/internal/messages"
	"roulettebot/internal/roulette"
	"roulettebot/store"
	"roulettebot/types"
)

type Handlers struct {
	store    *store.Store
	payments types.PaymentProvider // nil when purchases are disabled
	wheel    *roulette.Wheel
	cfg      *config.Config
}

func New(st *store.Store, payments types.PaymentProvider, wheel *roulette.Wheel, cfg *config.Config) *Handlers {
	return &Handlers{
		store:    st,
		payments: payments,
		wheel:    wheel,
		cfg:      cfg,
	}
}

func (h *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.HandleCallback(ctx, b, update)
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/"):
		h.HandleCommand(ctx, b, update)
	}
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		log.WithError(err).Warn("failed to answer callback query")
	}
}

func (h *Handlers) answerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
	if err != nil {
		log.WithError(err).Warn("failed to answer callback query")
	}
}

// notify sends a message outside the triggering exchange, best-effort: a
// failure is logged and never affects the ledger state already committed.
func (h *Handlers) notify(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("failed to deliver notification")
	}
}

// editOrSend edits the exchange's message in place, falling back to a
// fresh message when the original is no longer editable.
func (h *Handlers) editOrSend(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err == nil {
		return
	}

	send := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if kb != nil {
		send.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, send); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("failed to send message")
	}
}

func (h *Handlers) sendMainMenu(ctx context.Context, b *bot.Bot, userID, chatID int64) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        messages.Welcome(),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: h.mainKeyboard(userID),
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("failed to send main menu")
	}
}
