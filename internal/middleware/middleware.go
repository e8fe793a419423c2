package middleware

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"

	"roulettebot/internal/messages"
	"roulettebot/store"
)

type Middleware struct {
	store    *store.Store
	adminIDs []int64
}

func New(st *store.Store, adminIDs []int64) *Middleware {
	return &Middleware{
		store:    st,
		adminIDs: adminIDs,
	}
}

// TrackUser registers the sender on first contact and keeps the stored
// username current, then passes the update on.
func (m *Middleware) TrackUser(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID, _, username := senderOf(update)
		if userID == 0 {
			return
		}
		m.store.User(userID)
		m.store.SetUsername(ctx, userID, username)
		next(ctx, b, update)
	}
}

// RejectBanned stops banned users before any handler runs. Admin users
// and admin confirmation buttons pass through, matching the command
// surface banned operators still need.
func (m *Middleware) RejectBanned(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID, chatID, _ := senderOf(update)
		if userID == 0 {
			return
		}

		if m.store.IsBanned(userID) && !m.isAdmin(userID) && !isAdminCallback(update) {
			log.WithField("user_id", userID).Warn("banned user rejected")
			if chatID != 0 {
				_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   messages.Banned(),
				})
			}
			return
		}
		next(ctx, b, update)
	}
}

func (m *Middleware) isAdmin(userID int64) bool {
	for _, id := range m.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func isAdminCallback(update *models.Update) bool {
	return update.CallbackQuery != nil && strings.HasPrefix(update.CallbackQuery.Data, "admin_")
}

func senderOf(update *models.Update) (userID, chatID int64, username string) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, update.Message.From.Username
	case update.CallbackQuery != nil:
		chatID = chatIDFromMaybeInaccessibleMessage(update.CallbackQuery.Message)
		if chatID == 0 {
			chatID = update.CallbackQuery.From.ID
		}
		return update.CallbackQuery.From.ID, chatID, update.CallbackQuery.From.Username
	default:
		return 0, 0, ""
	}
}

func chatIDFromMaybeInaccessibleMessage(m models.MaybeInaccessibleMessage) int64 {
	if m.Message != nil {
		return m.Message.Chat.ID
	}
	if m.InaccessibleMessage != nil {
		return m.InaccessibleMessage.Chat.ID
	}
	return 0
}
