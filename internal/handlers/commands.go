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

func (h *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	fields := strings.Fields(update.Message.Text)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}
	args := fields[1:]

	if cmd == "/start" {
		log.WithFields(log.Fields{"user_id": userID, "username": update.Message.From.Username}).Info("user started the bot")
		h.sendMainMenu(ctx, b, userID, chatID)
		return
	}

	if !h.cfg.IsAdmin(userID) {
		h.reply(ctx, b, chatID, messages.UnknownCommand())
		return
	}

	log.WithFields(log.Fields{"admin_id": userID, "command": cmd, "args": args}).Info("admin command")

	switch cmd {
	case "/give":
		h.handleGive(ctx, b, chatID, args)
	case "/take":
		h.handleTake(ctx, b, chatID, args)
	case "/reset":
		h.handleReset(ctx, b, chatID, args)
	case "/ban":
		h.handleBan(ctx, b, chatID, args)
	case "/unban":
		h.handleUnban(ctx, b, chatID, args)
	case "/claims":
		h.handleClaims(ctx, b, chatID)
	default:
		h.reply(ctx, b, chatID, messages.UnknownCommand())
	}
}

func (h *Handlers) handleGive(ctx context.Context, b *bot.Bot, chatID int64, args []string) {
	targetID, amount, ok := parseIDAndAmount(args)
	if !ok {
		if len(args) != 2 {
			h.reply(ctx, b, chatID, messages.GiveUsage())
		} else {
			h.reply(ctx, b, chatID, messages.BadIntArgs())
		}
		return
	}

	// The display name is read before the mutation so the response
	// reflects pre-mutation identity.
	name := messages.DisplayName(h.store.User(targetID).Username, targetID)
	h.store.Credit(ctx, targetID, amount)
	h.reply(ctx, b, chatID, messages.GiveDone(name, targetID, amount))
	h.notify(ctx, b, targetID, messages.GiveNotice(amount))
}

func (h *Handlers) handleTake(ctx context.Context, b *bot.Bot, chatID int64, args []string) {
	targetID, amount, ok := parseIDAndAmount(args)
	if !ok {
		if len(args) != 2 {
			h.reply(ctx, b, chatID, messages.TakeUsage())
		} else {
			h.reply(ctx, b, chatID, messages.BadIntArgs())
		}
		return
	}

	name := messages.DisplayName(h.store.User(targetID).Username, targetID)
	taken := h.store.Debit(ctx, targetID, amount)
	if taken == 0 {
		h.reply(ctx, b, chatID, messages.TakeNothing(name, targetID))
		return
	}
	h.reply(ctx, b, chatID, messages.TakeDone(name, targetID, taken))
	h.notify(ctx, b, targetID, messages.TakeNotice(taken))
}

func (h *Handlers) handleReset(ctx context.Context, b *bot.Bot, chatID int64, args []string) {
	targetID, ok := parseSingleID(args)
	if !ok {
		if len(args) != 1 {
			h.reply(ctx, b, chatID, messages.ResetUsage())
		} else {
			h.reply(ctx, b, chatID, messages.BadUserIDArg())
		}
		return
	}

	name := messages.DisplayName(h.store.User(targetID).Username, targetID)
	if !h.store.Reset(ctx, targetID) {
		h.reply(ctx, b, chatID, messages.ResetUnknownUser(targetID))
		return
	}
	h.reply(ctx, b, chatID, messages.ResetDone(name, targetID))
}

func (h *Handlers) handleBan(ctx context.Context, b *bot.Bot, chatID int64, args []string) {
	targetID, ok := parseSingleID(args)
	if !ok {
		if len(args) != 1 {
			h.reply(ctx, b, chatID, messages.BanUsage())
		} else {
			h.reply(ctx, b, chatID, messages.BadUserIDArg())
		}
		return
	}
	if h.cfg.IsAdmin(targetID) {
		h.reply(ctx, b, chatID, messages.BanAdminRefused())
		return
	}

	name := messages.DisplayName(h.store.User(targetID).Username, targetID)
	if !h.store.Ban(ctx, targetID) {
		h.reply(ctx, b, chatID, messages.BanAlready(name, targetID))
		return
	}
	h.reply(ctx, b, chatID, messages.BanDone(name, targetID))
}

func (h *Handlers) handleUnban(ctx context.Context, b *bot.Bot, chatID int64, args []string) {
	targetID, ok := parseSingleID(args)
	if !ok {
		if len(args) != 1 {
			h.reply(ctx, b, chatID, messages.UnbanUsage())
		} else {
			h.reply(ctx, b, chatID, messages.BadUserIDArg())
		}
		return
	}

	name := messages.DisplayName(h.store.User(targetID).Username, targetID)
	if !h.store.Unban(ctx, targetID) {
		h.reply(ctx, b, chatID, messages.UnbanAlready(name, targetID))
		return
	}
	h.reply(ctx, b, chatID, messages.UnbanDone(name, targetID))
}

func (h *Handlers) handleClaims(ctx context.Context, b *bot.Bot, chatID int64) {
	pending := h.store.PendingClaims()
	if len(pending) == 0 {
		h.reply(ctx, b, chatID, messages.NoPendingClaims())
		return
	}

	var sb strings.Builder
	sb.WriteString(messages.PendingClaimsHeader())
	for _, c := range pending {
		sb.WriteString(messages.PendingClaimLine(c))
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: pendingClaimsKeyboard(pending),
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("failed to send pending claims")
	}
}

func (h *Handlers) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("failed to send reply")
	}
}

func parseIDAndAmount(args []string) (id int64, amount int, ok bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	amount, err = strconv.Atoi(args[1])
	if err != nil || amount <= 0 {
		return 0, 0, false
	}
	return id, amount, true
}

func parseSingleID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
