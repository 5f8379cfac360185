package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/bot"
	"sambo-academy-admin/internal/models/config"
	"sambo-academy-admin/internal/repository/attendance"
	"sambo-academy-admin/internal/repository/group"
	"sambo-academy-admin/internal/repository/payment"
	"sambo-academy-admin/internal/repository/settings"
	"sambo-academy-admin/internal/repository/student"
	"sambo-academy-admin/internal/repository/subscription"
	"sambo-academy-admin/internal/repository/tournament"
	"sambo-academy-admin/internal/repository/user"
	"sambo-academy-admin/internal/service"
	attendance_service "sambo-academy-admin/internal/service/attendance"
	group_service "sambo-academy-admin/internal/service/group"
	payment_service "sambo-academy-admin/internal/service/payment"
	settings_service "sambo-academy-admin/internal/service/settings"
	statistics_service "sambo-academy-admin/internal/service/statistics"
	student_service "sambo-academy-admin/internal/service/student"
	tournament_service "sambo-academy-admin/internal/service/tournament"
	user_service "sambo-academy-admin/internal/service/user"
	"sambo-academy-admin/internal/web"
)

func main() {
	fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			// Конфигурация и инфраструктура
			config.Load,
			newLogger,
			newRegistry,
			newAPIMetrics,
			fx.Annotate(newMetricsHandler, fx.ResultTags(`name:"metrics"`)),
			newSessionStore,
			newAPIClient,

			// Репозитории
			user.NewUserRepository,
			group.NewGroupRepository,
			student.NewStudentRepository,
			attendance.NewAttendanceRepository,
			subscription.NewSubscriptionRepository,
			payment.NewPaymentRepository,
			settings.NewSettingsRepository,
			tournament.NewTournamentRepository,

			// Сервисы
			user_service.NewUserService,
			group_service.NewGroupService,
			student_service.NewStudentService,
			attendance_service.NewAttendanceService,
			payment_service.NewPaymentService,
			statistics_service.NewStatisticsService,
			tournament_service.NewTournamentService,
			settings_service.NewSettingsService,

			bot.NewBot,
			func(b *bot.Bot) service.Notifier { return b },

			web.NewHandler,
			newHTTPServer,
		),
		fx.Invoke(registerBot, startHTTPServer),
	).Run()
}
