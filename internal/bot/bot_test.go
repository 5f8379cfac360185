package bot

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apitest"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/models/config"
	attendanceRepo "sambo-academy-admin/internal/repository/attendance"
	paymentRepo "sambo-academy-admin/internal/repository/payment"
	userRepo "sambo-academy-admin/internal/repository/user"
	statistics_service "sambo-academy-admin/internal/service/statistics"
	user_service "sambo-academy-admin/internal/service/user"
)

const (
	adminChat    int64 = 100
	secondAdmin  int64 = 200
	strangerChat int64 = 999
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	fail map[int64]bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := c.(tgbotapi.MessageConfig)
	if f.fail[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func newTestBot(t *testing.T) (*Bot, *apitest.Backend, *fakeSender) {
	t.Helper()
	backend := apitest.New(t)
	api := backend.Client()
	cfg := &config.Config{
		Bot: config.BotConfig{
			Token:       "telegram-token",
			AdminIDs:    []int64{adminChat, secondAdmin},
			APIUsername: backend.Username,
			APIPassword: backend.Password,
		},
		Location: time.UTC,
	}
	b := newBot(cfg, zap.NewNop(),
		user_service.NewUserService(userRepo.NewUserRepository(api)),
		statistics_service.NewStatisticsService(attendanceRepo.NewAttendanceRepository(api), paymentRepo.NewPaymentRepository(api)),
	)
	sender := &fakeSender{fail: map[int64]bool{}}
	b.send = sender
	b.now = func() time.Time { return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC) }
	return b, backend, sender
}

func command(chatID int64, text string) *tgbotapi.Message {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	entities := []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: int(chatID)},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: &entities,
	}
}

func TestNotifyAdmins(t *testing.T) {
	b, _, sender := newTestBot(t)

	require.NoError(t, b.NotifyAdmins(context.Background(), "абонемент без оплаты"))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, adminChat, sender.sent[0].ChatID)
	assert.Equal(t, secondAdmin, sender.sent[1].ChatID)
	assert.Equal(t, "абонемент без оплаты", sender.sent[1].Text)
}

func TestNotifyAdmins_continuesAfterFailure(t *testing.T) {
	b, _, sender := newTestBot(t)
	sender.fail[adminChat] = true

	err := b.NotifyAdmins(context.Background(), "text")
	require.Error(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, secondAdmin, sender.sent[0].ChatID)
}

func TestNotifyAdmins_disabled(t *testing.T) {
	b, _, _ := newTestBot(t)
	b.send = nil

	assert.False(t, b.Enabled())
	assert.NoError(t, b.NotifyAdmins(context.Background(), "text"))
}

func TestHandleMessage_strangerIsRejected(t *testing.T) {
	b, backend, sender := newTestBot(t)

	b.handleMessage(context.Background(), command(strangerChat, "/unpaid"))
	msg := sender.last(t)
	assert.Equal(t, strangerChat, msg.ChatID)
	assert.Contains(t, msg.Text, "только администраторам")
	assert.Zero(t, backend.Calls(http.MethodPost, "/auth/login"))
}

func TestHandleMessage_help(t *testing.T) {
	b, _, sender := newTestBot(t)

	b.handleMessage(context.Background(), command(adminChat, "/start"))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "/unpaid")
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, msg.ReplyMarkup)
}

func TestUnpaidCommand(t *testing.T) {
	b, backend, sender := newTestBot(t)
	g := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleTueThu)
	paid := backend.AddStudent("Андреев Андрей", g.ID)
	debtor := backend.AddStudent("Борисов Борис", g.ID)
	sub := backend.AddSubscription(paid.ID, models.Subscription8, models.Rubles(4200), true)
	backend.AddPayment(paid.ID, sub.ID, models.Rubles(4200), models.Month{Year: 2026, Month: time.June})
	backend.AddSubscription(debtor.ID, models.Subscription8, models.Rubles(4200), true)

	b.handleMessage(context.Background(), command(adminChat, "/unpaid 2026-06"))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "Не оплатили за Июнь 2026: 1")
	assert.Contains(t, msg.Text, "Борисов Борис (Старшие): 4200 ₽")
	assert.NotContains(t, msg.Text, "Андреев")
	assert.Contains(t, msg.Text, "Итого долг: 4200 ₽")
}

func TestUnpaidCommand_defaultsToCurrentMonth(t *testing.T) {
	b, _, sender := newTestBot(t)

	b.handleMessage(context.Background(), command(adminChat, "/unpaid"))
	assert.Equal(t, "✅ За Июнь 2026 оплатили все", sender.last(t).Text)
}

func TestUnpaidCommand_badMonth(t *testing.T) {
	b, backend, sender := newTestBot(t)

	b.handleMessage(context.Background(), command(adminChat, "/unpaid июнь"))
	assert.Contains(t, sender.last(t).Text, "Неверный месяц")
	assert.Zero(t, backend.Calls(http.MethodGet, "/payments"))
}

func TestCommand_reloginsOnRejectedToken(t *testing.T) {
	b, backend, sender := newTestBot(t)
	b.token = "stale-token"

	b.handleMessage(context.Background(), command(adminChat, "/attendance 2026-06"))
	assert.Equal(t, 1, backend.Calls(http.MethodPost, "/auth/login"))
	assert.Equal(t, backend.Token, b.token)
	assert.Contains(t, sender.last(t).Text, "отметок посещаемости нет")

	// токен переиспользуется
	b.handleMessage(context.Background(), command(adminChat, "/attendance 2026-06"))
	assert.Equal(t, 1, backend.Calls(http.MethodPost, "/auth/login"))
}

func TestCommand_loginFailure(t *testing.T) {
	b, backend, sender := newTestBot(t)
	b.cfg.APIPassword = "wrong"

	b.handleMessage(context.Background(), command(adminChat, "/attendance"))
	assert.Contains(t, sender.last(t).Text, "Incorrect username or password")
	assert.Empty(t, b.token)
	assert.Zero(t, backend.Calls(http.MethodGet, "/attendance"))
}

func TestFormatAttendance(t *testing.T) {
	summary := &models.AttendanceSummary{
		Year:  2026,
		Month: 6,
		Groups: []models.GroupAttendanceStats{{
			GroupName:        "Старшие",
			AttendanceCounts: models.AttendanceCounts{TotalSessions: 4, Present: 3, Absent: 1, AttendanceRate: 75},
		}},
		Overall: models.AttendanceCounts{TotalSessions: 4, Present: 3, Absent: 1, AttendanceRate: 75},
	}

	text := formatAttendance(models.Month{Year: 2026, Month: time.June}, summary)
	assert.Contains(t, text, "Посещаемость за Июнь 2026")
	assert.Contains(t, text, "Старшие: 75% (был 3, не был 1, перенос 0)")
	assert.Contains(t, text, "Всего: 75% из 4 отметок")
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "75", formatRate(75))
	assert.Equal(t, "66.7", formatRate(66.666))
	assert.Equal(t, "0", formatRate(0))
}
