package handlers

import (
	"fmt"
	"math"

	"github.com/go-telegram/bot/models"

	"roulettebot/internal/messages"
	"roulettebot/types"
)

// claimOptionsLimit bounds how many available wins are offered at once.
const claimOptionsLimit = 5

func (h *Handlers) mainKeyboard(userID int64) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: "📊 Моя статистика", CallbackData: "show_stats"}},
	}
	if len(h.store.UnclaimedWins(userID)) > 0 {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "🏆 Запросить приз", CallbackData: "claim_options"},
		})
	}
	rows = append(rows,
		[]models.InlineKeyboardButton{{Text: "💰 Купить попытки", CallbackData: "buy_options"}},
		[]models.InlineKeyboardButton{{Text: "🎰 Крутить! 🎰", CallbackData: "spin_roulette"}},
	)
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (h *Handlers) buyKeyboard() *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(h.cfg.BuyPackages)+1)
	for _, count := range h.cfg.BuyPackages {
		price := math.Round(h.cfg.PriceAmount*float64(count)*10000) / 10000
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%d шт. (~%g %s)", count, price, h.cfg.PriceCurrency),
			CallbackData: fmt.Sprintf("confirm_buy_%d", count),
		}})
	}
	rows = append(rows, backRow())
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (h *Handlers) claimKeyboard(wins []types.UnclaimedWin) *models.InlineKeyboardMarkup {
	if len(wins) > claimOptionsLimit {
		wins = wins[:claimOptionsLimit]
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(wins)+1)
	for _, win := range wins {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("'%s' (%s)", win.Prize, messages.ShortDate(win.WonAt)),
			CallbackData: fmt.Sprintf("request_claim_%d", win.ID),
		}})
	}
	rows = append(rows, backRow())
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func invoiceKeyboard(payURL string, invoiceID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "🔗 Перейти к оплате", URL: payURL}},
		{{Text: "✅ Я оплатил, проверить", CallbackData: fmt.Sprintf("check_payment_%d", invoiceID)}},
		{{Text: "⬅️ Отмена", CallbackData: "back_to_main"}},
	}}
}

func pendingClaimsKeyboard(pending []types.PendingClaim) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(pending))
	for _, c := range pending {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("✅ Подтвердить для %s (%s)", messages.DisplayName(c.Username, c.UserID), c.Prize),
			CallbackData: fmt.Sprintf("admin_confirm_claim_%d_%d", c.UserID, c.WinID),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func buyPromptKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "💰 Купить попытки", CallbackData: "buy_options"}},
	}}
}

func backKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{backRow()}}
}

func backRow() []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{{Text: "⬅️ Назад", CallbackData: "back_to_main"}}
}
