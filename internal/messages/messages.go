package messages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"roulettebot/store"
	"roulettebot/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

// DisplayName renders a user for admin-facing messages: the username when
// known, the numeric id otherwise.
func DisplayName(username string, userID int64) string {
	if strings.TrimSpace(username) == "" {
		return fmt.Sprintf("ID: %d", userID)
	}
	return Escape(username)
}

var SpinEmojis = []string{"🎰", "🎲", "✨", "💰", "💎", "🎁", "🤞", "🍀"}

var RollingTexts = []string{
	"🎰 Кручу верчу...",
	"✨ Магия случайности...",
	"🎲 Бросаем кости...",
	"🤞 Держим кулачки...",
	"💰 Ищем золото...",
	"🍀 Ловим удачу за хвост...",
}

func Welcome() string {
	return "🎉 <b>Добро пожаловать в нашу Рулетку Удачи!</b> 🎉\n\n" +
		"Испытай свою удачу и выигрывай призы!\n\n" +
		"📜 <b>Правила:</b>\n" +
		"1. Для вращения рулетки нужны попытки.\n" +
		"2. Попытки можно приобрести за криптовалюту через CryptoBot.\n" +
		"3. Нажмите \"Крутить!\", чтобы испытать удачу.\n" +
		"4. Выигранные призы можно запросить на вывод во вкладке \"Моя статистика\".\n\n" +
		"👇 Используйте кнопки ниже для навигации."
}

func Banned() string {
	return "❌ Вы заблокированы."
}

func NoAttempts() string {
	return "😕 У вас закончились попытки. Нужно пополнить!"
}

func WinResult(prize string, roll, remaining int) string {
	return fmt.Sprintf(
		"🎉 <b>Поздравляем!</b> 🎉\n\nВы выиграли: <b>%s</b>\n(Результат ролла: %d)\n\n🎟️ Осталось попыток: %d",
		Escape(prize), roll, remaining,
	)
}

func LoseResult(roll, remaining int) string {
	return fmt.Sprintf(
		"😕 Увы, в этот раз не повезло...\nПопробуйте еще!\n(Результат ролла: %d)\n\n🎟️ Осталось попыток: %d",
		roll, remaining,
	)
}

// Stats renders the user's balance, win totals and the last ten wins with
// their claim status.
func Stats(userID int64, u types.UserRecord) string {
	var claimed, pending int
	for i := range u.Wins {
		switch u.Wins[i].State() {
		case types.ClaimConfirmed:
			claimed++
		case types.ClaimRequested:
			pending++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>Статистика для %s</b>\n\n", DisplayName(u.Username, userID))
	fmt.Fprintf(&sb, "🎟️ <b>Доступно попыток:</b> %d\n\n", u.Attempts)
	fmt.Fprintf(&sb, "🏆 <b>Всего выигрышей:</b> %d\n", len(u.Wins))
	fmt.Fprintf(&sb, "✅ <b>Получено призов:</b> %d\n", claimed)
	fmt.Fprintf(&sb, "⏳ <b>Запрошено на вывод:</b> %d\n\n", pending)

	if len(u.Wins) == 0 {
		sb.WriteString("Вы пока ничего не выиграли.\n")
		return sb.String()
	}

	sb.WriteString("📜 <b>История выигрышей:</b>\n")
	start := len(u.Wins) - 10
	if start < 0 {
		start = 0
	}
	for i := len(u.Wins) - 1; i >= start; i-- {
		win := &u.Wins[i]
		status := "🎁 Доступен к выводу"
		switch win.State() {
		case types.ClaimConfirmed:
			status = "✅ Получен"
		case types.ClaimRequested:
			status = "⏳ Ожидает подтверждения"
		}
		fmt.Fprintf(&sb, "- %s (%s) - %s\n", Escape(win.Prize), win.Timestamp.Format("2006-01-02 15:04"), status)
	}
	return sb.String()
}

func PurchasePrompt() string {
	return "Выберите количество попыток для покупки:"
}

func PaymentUnavailable() string {
	return "К сожалению, система оплаты временно недоступна. Попробуйте позже."
}

func InvoiceCreated(amount float64, currency string, attempts int) string {
	return fmt.Sprintf(
		"🧾 Ваш счет на оплату %g %s за %d попыт%s:\nНажмите кнопку ниже для перехода к оплате.",
		amount, Escape(currency), attempts, attemptsSuffix(attempts),
	)
}

func InvoiceCreateFailed() string {
	return "Произошла ошибка при создании счета на оплату. Попробуйте еще раз позже."
}

func PaymentChecking() string {
	return "⏳ Проверяем ваш платеж..."
}

func PaymentSuccess(attempts int) string {
	return fmt.Sprintf("✅ Оплата прошла успешно! Попытки (%d) зачислены.", attempts)
}

func PaymentPending() string {
	return "⏳ Платеж еще не подтвержден. Попробуйте проверить чуть позже."
}

func PaymentExpired(invoiceID int64) string {
	return fmt.Sprintf("❌ Срок действия счета %d истек.", invoiceID)
}

func PaymentCheckFailed() string {
	return "Произошла ошибка при проверке платежа. Попробуйте еще раз позже."
}

func InvoiceUnknown() string {
	return "Не удалось найти информацию об этом счете."
}

func ClaimPrompt(hasPrizes bool) string {
	if hasPrizes {
		return "🏆 Выберите приз, который хотите получить:"
	}
	return "У вас нет доступных призов для вывода."
}

func ClaimRequested(prize string) string {
	return fmt.Sprintf("✅ Ваш запрос на получение приза '%s' отправлен администратору.", Escape(prize))
}

func ClaimRequestFailed() string {
	return "⚠️ Не удалось отправить запрос. Возможно, приз уже запрошен или получен."
}

func ClaimConfirmedUser(prize string) string {
	return fmt.Sprintf("🎉 Администратор подтвердил ваш приз '%s'!", Escape(prize))
}

func AdminClaimNotice(username string, userID int64, prize string) string {
	return fmt.Sprintf(
		"🔔 Новый запрос на вывод приза!\n👤 Пользователь: %s (<code>%d</code>)\n🎁 Приз: %s\nДля просмотра всех заявок используйте /claims",
		DisplayName(username, userID), userID, Escape(prize),
	)
}

// ClaimFailureReason maps a store error to the short operator-facing
// reason shown under a confirmation button that no longer works.
func ClaimFailureReason(err error) string {
	switch {
	case errors.Is(err, store.ErrWinNotFound):
		return "Неверный индекс приза."
	case errors.Is(err, store.ErrClaimNotRequested), errors.Is(err, store.ErrClaimUnavailable):
		return "Заявка не найдена или уже обработана."
	default:
		return "Не удалось обработать заявку."
	}
}

func GiveUsage() string {
	return "Неверный формат. Используйте: /give &lt;user_id&gt; &lt;количество&gt;"
}

func TakeUsage() string {
	return "Неверный формат. Используйте: /take &lt;user_id&gt; &lt;количество&gt;"
}

func ResetUsage() string {
	return "Неверный формат. Используйте: /reset &lt;user_id&gt;"
}

func BanUsage() string {
	return "Неверный формат. Используйте: /ban &lt;user_id&gt;"
}

func UnbanUsage() string {
	return "Неверный формат. Используйте: /unban &lt;user_id&gt;"
}

func BadIntArgs() string {
	return "Ошибка: user_id и количество должны быть целыми положительными числами."
}

func BadUserIDArg() string {
	return "Ошибка: user_id должен быть целым числом."
}

func GiveDone(username string, userID int64, amount int) string {
	return fmt.Sprintf("✅ Успешно выдано %d попыток пользователю %s (%d).", amount, username, userID)
}

func GiveNotice(amount int) string {
	return fmt.Sprintf("🎉 Администратор начислил вам %d попыток!", amount)
}

func TakeDone(username string, userID int64, taken int) string {
	return fmt.Sprintf("✅ Успешно забрано %d попыток у пользователя %s (%d).", taken, username, userID)
}

func TakeNothing(username string, userID int64) string {
	return fmt.Sprintf("⚠ У пользователя %s (%d) и так 0 попыток.", username, userID)
}

func TakeNotice(taken int) string {
	return fmt.Sprintf("⚠ Администратор забрал у вас %d попыток.", taken)
}

func ResetDone(username string, userID int64) string {
	return fmt.Sprintf("✅ Данные пользователя %s (%d) сброшены (статус бана сохранен, если был).", username, userID)
}

func ResetUnknownUser(userID int64) string {
	return fmt.Sprintf("⚠ Пользователь %d еще не зарегистрирован, сбрасывать нечего.", userID)
}

func BanDone(username string, userID int64) string {
	return fmt.Sprintf("✅ Пользователь %s (%d) успешно забанен.", username, userID)
}

func BanAlready(username string, userID int64) string {
	return fmt.Sprintf("⚠ Пользователь %s (%d) уже забанен.", username, userID)
}

func BanAdminRefused() string {
	return "⛔ Нельзя забанить другого администратора."
}

func UnbanDone(username string, userID int64) string {
	return fmt.Sprintf("✅ Пользователь %s (%d) успешно разбанен.", username, userID)
}

func UnbanAlready(username string, userID int64) string {
	return fmt.Sprintf("⚠ Пользователь %s (%d) не забанен.", username, userID)
}

func NoPendingClaims() string {
	return "✅ Нет активных заявок на вывод призов."
}

func PendingClaimsHeader() string {
	return "⏳ <b>Заявки на вывод, ожидающие подтверждения:</b>\n\n"
}

func PendingClaimLine(c types.PendingClaim) string {
	requested := "N/A"
	if c.RequestedAt != nil {
		requested = c.RequestedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf(
		"👤 <b>Пользователь:</b> %s (<code>%d</code>)\n🎁 <b>Приз:</b> %s\n🗓️ <b>Запрошено:</b> %s\n🔑 <b>ID заявки (для кнопки):</b> <code>%d_%d</code>\n\n",
		DisplayName(c.Username, c.UserID), c.UserID, Escape(c.Prize), requested, c.UserID, c.WinID,
	)
}

func ClaimConfirmedAdmin(prize, username string, userID int64) string {
	return fmt.Sprintf("✅ Заявка на '%s' для %s (<code>%d</code>) подтверждена вами.", Escape(prize), username, userID)
}

func ClaimConfirmFailed(userID, winID int64, reason string) string {
	return fmt.Sprintf("⚠️ Не удалось подтвердить заявку user=%d, id=%d. Причина: %s", userID, winID, reason)
}

func ErrorDefault() string {
	return "Произошла ошибка сервиса. Попробуйте снова."
}

func UnknownCommand() string {
	return "❓ Команда не найдена"
}

func UnknownAction() string {
	return "Неизвестное действие."
}

func ShortDate(t time.Time) string {
	return t.Format("02.01 15:04")
}

func attemptsSuffix(n int) string {
	switch {
	case n == 1:
		return "ку"
	case n < 5:
		return "ки"
	default:
		return "ок"
	}
}
