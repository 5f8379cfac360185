// Package bot is the administrators' Telegram bot: it delivers operational
// alerts and answers a few reporting commands from admin chats.
package bot

import (
	"context"
	"slices"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/models/config"
	"sambo-academy-admin/internal/service"
)

// sender is the part of the Telegram API the bot writes through.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api  *tgbotapi.BotAPI
	send sender
	cfg  config.BotConfig
	loc  *time.Location
	log  *zap.Logger
	now  func() time.Time

	UserService       service.UserService
	StatisticsService service.StatisticsService

	mu    sync.Mutex
	token string // токен сервисного аккаунта для backend API

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBot connects to Telegram when BOT_TOKEN is set. Without a token the bot
// stays disabled and NotifyAdmins only logs.
func NewBot(
	cfg *config.Config,
	log *zap.Logger,
	userService service.UserService,
	statisticsService service.StatisticsService,
) (*Bot, error) {
	b := newBot(cfg, log, userService, statisticsService)
	if !cfg.Bot.Enabled() {
		log.Info("бот отключён: BOT_TOKEN не задан")
		return b, nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bot API")
	}
	api.Debug = cfg.Bot.Debug

	b.api = api
	b.send = api
	log.Info("🤖 Бот инициализирован",
		zap.String("username", api.Self.UserName),
		zap.Bool("debug", cfg.Bot.Debug),
		zap.Int64s("admins", cfg.Bot.AdminIDs),
	)
	return b, nil
}

func newBot(cfg *config.Config, log *zap.Logger, userService service.UserService, statisticsService service.StatisticsService) *Bot {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Bot{
		cfg:               cfg.Bot,
		loc:               loc,
		log:               log.Named("bot"),
		now:               time.Now,
		UserService:       userService,
		StatisticsService: statisticsService,
	}
}

func (b *Bot) Enabled() bool {
	return b.send != nil
}

// Start begins polling for updates in the background.
func (b *Bot) Start() error {
	if b.api == nil {
		return nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return errors.Wrap(err, "get updates")
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil {
					continue
				}
				go b.handleMessage(ctx, update.Message)
			}
		}
	}()

	b.log.Info("бот запущен", zap.String("username", b.api.Self.UserName))
	return nil
}

func (b *Bot) Stop(ctx context.Context) error {
	if b.api == nil || b.cancel == nil {
		return nil
	}
	b.api.StopReceivingUpdates()
	b.cancel()
	select {
	case <-b.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info("бот остановлен")
	return nil
}

// NotifyAdmins sends text to every administrator chat. Delivery continues
// past failed chats; the first error is returned.
func (b *Bot) NotifyAdmins(_ context.Context, text string) error {
	if !b.Enabled() {
		b.log.Warn("уведомление администраторам не отправлено: бот отключён", zap.String("text", text))
		return nil
	}

	var first error
	for _, chatID := range b.cfg.AdminIDs {
		if _, err := b.send.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			b.log.Error("не удалось отправить уведомление", zap.Int64("chat_id", chatID), zap.Error(err))
			if first == nil {
				first = errors.Wrapf(err, "notify chat %d", chatID)
			}
		}
	}
	return first
}

func (b *Bot) isAdmin(chatID int64) bool {
	return slices.Contains(b.cfg.AdminIDs, chatID)
}

func (b *Bot) currentMonth() models.Month {
	return models.MonthOf(b.now().In(b.loc))
}

// withAPI runs fn with the service account's token. A rejected token is
// dropped and fn is retried once after a fresh login.
func (b *Bot) withAPI(ctx context.Context, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		token, err := b.apiToken(ctx)
		if err != nil {
			return err
		}
		err = fn(apiclient.WithToken(ctx, token))
		if attempt == 0 && apiclient.IsUnauthorized(err) {
			b.log.Info("токен сервисного аккаунта отклонён, повторный вход")
			b.resetToken(token)
			continue
		}
		return err
	}
}

func (b *Bot) apiToken(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token != "" {
		return b.token, nil
	}

	t, err := b.UserService.Login(ctx, b.cfg.APIUsername, b.cfg.APIPassword)
	if err != nil {
		return "", errors.Wrap(err, "bot api login")
	}
	b.token = t.AccessToken
	return b.token, nil
}

func (b *Bot) resetToken(stale string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token == stale {
		b.token = ""
	}
}
