package repository

import (
	"context"

	"sambo-academy-admin/internal/models"
)

// Репозитории работают поверх REST API бэкенда. Только они знают пути эндпоинтов.

type UserRepository interface {
	Login(ctx context.Context, username, password string) (*models.Token, error)
	Me(ctx context.Context) (*models.User, error)
}

type GroupRepository interface {
	GetAll(ctx context.Context) ([]models.Group, error)
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, in *models.GroupInput) (*models.Group, error)
	Update(ctx context.Context, id string, in *models.GroupInput) (*models.Group, error)
	Delete(ctx context.Context, id string) error
}

// StudentFilter narrows the student list. Empty fields are not sent.
type StudentFilter struct {
	GroupID    string
	ActiveOnly bool
}

type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, in *models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id string, in *models.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type SubscriptionRepository interface {
	GetByStudentID(ctx context.Context, studentID string) ([]models.Subscription, error)
	Create(ctx context.Context, in *models.SubscriptionInput) (*models.Subscription, error)
	Update(ctx context.Context, id string, upd *models.SubscriptionUpdate) (*models.Subscription, error)
	Delete(ctx context.Context, id string) error
}

type PaymentRepository interface {
	GetByMonth(ctx context.Context, month models.Month) ([]models.Payment, error)
	Create(ctx context.Context, in *models.PaymentInput) (*models.Payment, error)
	Update(ctx context.Context, id string, upd *models.PaymentUpdate) (*models.Payment, error)
	Delete(ctx context.Context, id string) error

	// Статистика
	YearSummary(ctx context.Context, year int) ([]models.MonthlyPaymentSummary, error)
	Unpaid(ctx context.Context, month models.Month) (*models.UnpaidReport, error)
}

type AttendanceRepository interface {
	// Ведомость группы на дату: все активные ученики, включая бонусных
	GetByDate(ctx context.Context, groupID string, date models.Date) ([]models.AttendanceEntry, error)
	// Mark replaces the stored batch for (group, date); nil statuses delete records.
	Mark(ctx context.Context, batch *models.AttendanceBatch) error

	// Статистика
	Summary(ctx context.Context, month models.Month) (*models.AttendanceSummary, error)
	GroupDetail(ctx context.Context, groupID string, month models.Month) (*models.GroupAttendanceDetail, error)
}

type TournamentRepository interface {
	GetAll(ctx context.Context) ([]models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Create(ctx context.Context, in *models.TournamentInput) (*models.Tournament, error)
	Update(ctx context.Context, id string, in *models.TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error

	// Участники
	Results(ctx context.Context, tournamentID string) ([]models.Participation, error)
	AddParticipant(ctx context.Context, tournamentID string, in *models.ParticipationInput) (*models.Participation, error)
	UpdateParticipant(ctx context.Context, tournamentID, participationID string, in *models.ParticipationInput) (*models.Participation, error)
	DeleteParticipant(ctx context.Context, tournamentID, participationID string) error
}

type SettingsRepository interface {
	GetPrices(ctx context.Context) (*models.Prices, error)
	UpdatePrices(ctx context.Context, prices *models.Prices) (*models.Prices, error)
}
