package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
)

const helpText = `🥋 Школа самбо: бот администратора

/unpaid [ГГГГ-ММ] - кто не оплатил месяц
/attendance [ГГГГ-ММ] - посещаемость по группам

Без месяца берётся текущий.`

// Обработка сообщения здесь
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	b.log.Debug("message", zap.Int64("chat_id", chatID), zap.String("text", message.Text))

	if !b.isAdmin(chatID) {
		b.sendError(chatID, "⛔ Бот доступен только администраторам школы")
		return
	}
	if !message.IsCommand() {
		b.sendHelp(chatID)
		return
	}

	switch message.Command() {
	case "unpaid":
		b.handleUnpaidCommand(ctx, chatID, message.CommandArguments())
	case "attendance":
		b.handleAttendanceCommand(ctx, chatID, message.CommandArguments())
	default:
		b.sendHelp(chatID)
	}
}

func (b *Bot) sendHelp(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ReplyMarkup = createAdminKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.send.Send(msg); err != nil {
		b.log.Error("не удалось отправить сообщение", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

// parseMonthArg reads an optional YYYY-MM argument.
func (b *Bot) parseMonthArg(arg string) (models.Month, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return b.currentMonth(), true
	}
	m, err := models.ParseMonth(arg)
	if err != nil {
		return models.Month{}, false
	}
	return m, true
}

func (b *Bot) loadStatistics(ctx context.Context, chatID int64, tab service.StatisticsTab, arg string) *service.StatisticsView {
	month, ok := b.parseMonthArg(arg)
	if !ok {
		b.sendError(chatID, "❌ Неверный месяц, используйте формат ГГГГ-ММ, например 2026-06")
		return nil
	}

	var view *service.StatisticsView
	err := b.withAPI(ctx, func(ctx context.Context) error {
		var err error
		view, err = b.StatisticsService.Load(ctx, service.StatisticsRequest{Tab: tab, Month: month})
		return err
	})
	if err != nil {
		b.log.Error("ошибка загрузки статистики", zap.String("tab", string(tab)), zap.Error(err))
		b.sendError(chatID, "❌ Ошибка при выполнении запроса: "+apiclient.Message(err))
		return nil
	}
	return view
}

func (b *Bot) handleUnpaidCommand(ctx context.Context, chatID int64, arg string) {
	view := b.loadStatistics(ctx, chatID, service.TabUnpaid, arg)
	if view == nil {
		return
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, formatUnpaid(view.Month, view.Unpaid)))
}

func (b *Bot) handleAttendanceCommand(ctx context.Context, chatID int64, arg string) {
	view := b.loadStatistics(ctx, chatID, service.TabAttendance, arg)
	if view == nil {
		return
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, formatAttendance(view.Month, view.Attendance)))
}

func formatUnpaid(month models.Month, report *models.UnpaidReport) string {
	if report == nil || len(report.Students) == 0 {
		return fmt.Sprintf("✅ За %s оплатили все", month.Label())
	}

	var sb strings.Builder
	var debt models.Money
	fmt.Fprintf(&sb, "💳 Не оплатили за %s: %d\n\n", month.Label(), report.TotalUnpaid)
	for i, s := range report.Students {
		fmt.Fprintf(&sb, "%d. %s (%s): %s ₽\n", i+1, s.FullName, s.GroupName, s.DebtAmount)
		if s.Phone != "" {
			fmt.Fprintf(&sb, "   📞 %s\n", s.Phone)
		}
		debt += s.DebtAmount
	}
	fmt.Fprintf(&sb, "\nИтого долг: %s ₽", debt)
	return sb.String()
}

func formatAttendance(month models.Month, summary *models.AttendanceSummary) string {
	if summary == nil || len(summary.Groups) == 0 {
		return fmt.Sprintf("📅 За %s отметок посещаемости нет", month.Label())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Посещаемость за %s\n\n", month.Label())
	for _, g := range summary.Groups {
		fmt.Fprintf(&sb, "%s: %s%% (был %d, не был %d, перенос %d)\n",
			g.GroupName, formatRate(g.AttendanceRate), g.Present, g.Absent, g.Transferred)
	}
	o := summary.Overall
	fmt.Fprintf(&sb, "\nВсего: %s%% из %d отметок", formatRate(o.AttendanceRate), o.TotalSessions)
	return sb.String()
}

func formatRate(rate float64) string {
	s := fmt.Sprintf("%.1f", rate)
	return strings.TrimSuffix(s, ".0")
}
