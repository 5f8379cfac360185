package service

import (
	"context"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/models"
)

// ErrForbidden is returned when a non-administrator tries an admin-only action.
var ErrForbidden = errors.New("administrator rights required")

// Notifier delivers operational alerts to the school administrators.
type Notifier interface {
	NotifyAdmins(ctx context.Context, text string) error
}

type UserService interface {
	Login(ctx context.Context, username, password string) (*models.Token, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

type GroupService interface {
	GetAll(ctx context.Context) ([]models.Group, error)
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, in *models.GroupInput) (*models.Group, error)
	Update(ctx context.Context, id string, in *models.GroupInput) (*models.Group, error)
	Delete(ctx context.Context, id string) error

	Dashboard(ctx context.Context) (*DashboardView, error)
}

type StudentService interface {
	// ListActive returns active students, of one group when groupID is set.
	ListActive(ctx context.Context, groupID string) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, in *models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id string, in *models.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type AttendanceService interface {
	Load(ctx context.Context, req AttendanceRequest) (*AttendanceView, error)
	// Save sends the whole roster; rows without a status clear stored marks.
	Save(ctx context.Context, groupID string, date models.Date, entries []models.AttendanceEntry) error
	Summary(ctx context.Context, month models.Month) (*models.AttendanceSummary, error)
}

type PaymentService interface {
	Load(ctx context.Context, groupID string, month models.Month) (*PaymentsView, error)
	QuickStandardPayment(ctx context.Context, groupID, studentID string, month models.Month) (*models.Payment, error)
	CustomPayment(ctx context.Context, in *CustomPayment) (*models.Payment, error)
	Details(ctx context.Context, groupID, paymentID string, month models.Month) (*PaymentDetails, error)
	UpdatePayment(ctx context.Context, month models.Month, paymentID string, amount models.Money, notes string) error
	CancelPayment(ctx context.Context, month models.Month, paymentID string) error
	Unpaid(ctx context.Context, month models.Month) (*models.UnpaidReport, error)
}

type StatisticsService interface {
	Load(ctx context.Context, req StatisticsRequest) (*StatisticsView, error)
}

type TournamentService interface {
	List(ctx context.Context) ([]TournamentResults, error)
	Create(ctx context.Context, in *models.TournamentInput) (*models.Tournament, error)
	Update(ctx context.Context, id string, in *models.TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error

	AddParticipant(ctx context.Context, tournamentID string, in *models.ParticipationInput) (*models.Participation, error)
	UpdateParticipant(ctx context.Context, tournamentID, participationID string, in *models.ParticipationInput) (*models.Participation, error)
	DeleteParticipant(ctx context.Context, tournamentID, participationID string) error
}

type SettingsService interface {
	GetPrices(ctx context.Context) (*models.Prices, error)
	UpdatePrices(ctx context.Context, user *models.User, prices *models.Prices) (*models.Prices, error)
}
