package statistics_service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambo-academy-admin/internal/apitest"
	"sambo-academy-admin/internal/models"
	attendanceRepo "sambo-academy-admin/internal/repository/attendance"
	paymentRepo "sambo-academy-admin/internal/repository/payment"
	"sambo-academy-admin/internal/service"
)

var june2026 = models.Month{Year: 2026, Month: time.June}

func newService(t *testing.T) (*apitest.Backend, service.StatisticsService) {
	backend := apitest.New(t)
	api := backend.Client()
	return backend, NewStatisticsService(attendanceRepo.NewAttendanceRepository(api), paymentRepo.NewPaymentRepository(api))
}

func TestYearOptions(t *testing.T) {
	assert.Equal(t, []int{2026, 2025, 2024, 2023, 2022, 2021}, YearOptions(2026))
}

func TestToggleExpanded(t *testing.T) {
	expanded := ToggleExpanded(nil, "a")
	assert.Equal(t, []string{"a"}, expanded)

	both := ToggleExpanded(expanded, "b")
	assert.Equal(t, []string{"a", "b"}, both)
	assert.Equal(t, []string{"a"}, expanded)

	assert.Equal(t, []string{"b"}, ToggleExpanded(both, "a"))
	assert.Equal(t, []string{"a", "b"}, both)
}

func TestSummarizeYear(t *testing.T) {
	py := SummarizeYear(2026, []models.MonthlyPaymentSummary{
		{Month: 1, TotalAmount: models.Rubles(60000), PaymentCount: 14},
		{Month: 2, TotalAmount: models.Rubles(12000), PaymentCount: 3},
	})
	assert.Equal(t, models.Rubles(72000), py.Total)
	assert.Equal(t, 17, py.Count)
	assert.Equal(t, models.Rubles(6000), py.Average)

	empty := SummarizeYear(2026, nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Average)
}

func TestLoad_attendanceTabFetchesOnlyExpandedDetails(t *testing.T) {
	backend, svc := newService(t)
	ctx := backend.Context()
	seniors := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	juniors := backend.AddGroup("Младшие", models.AgeGroupJunior, models.ScheduleTueThu)
	ivan := backend.AddStudent("Иванов Иван", seniors.ID)
	petr := backend.AddStudent("Петров Пётр", juniors.ID)
	backend.SetAttendance(seniors.ID, models.NewDate(2026, time.June, 15), ivan.ID, models.StatusPresent)
	backend.SetAttendance(seniors.ID, models.NewDate(2026, time.June, 17), ivan.ID, models.StatusAbsent)
	backend.SetAttendance(juniors.ID, models.NewDate(2026, time.June, 16), petr.ID, models.StatusTransferred)

	view, err := svc.Load(ctx, service.StatisticsRequest{
		Tab:      service.TabAttendance,
		Month:    june2026,
		Expanded: []string{seniors.ID, seniors.ID, "unknown"},
	})
	require.NoError(t, err)

	require.NotNil(t, view.Attendance)
	assert.Len(t, view.Attendance.Groups, 2)
	assert.Equal(t, 3, view.Attendance.Overall.TotalSessions)
	assert.Nil(t, view.Payments)
	assert.Nil(t, view.Unpaid)

	require.Contains(t, view.Details, seniors.ID)
	assert.NotContains(t, view.Details, juniors.ID)
	assert.Len(t, view.Details[seniors.ID].TrainingDates, 13)
	assert.Equal(t, 1, backend.Calls(http.MethodGet, "/attendance/statistics/group-detail"))
	assert.Zero(t, backend.Calls(http.MethodGet, "/payments"))
}

func TestLoad_paymentsTab(t *testing.T) {
	backend, svc := newService(t)
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	st := backend.AddStudent("Иванов Иван", group.ID)
	backend.AddPayment(st.ID, "", models.Rubles(4200), june2026)
	backend.AddPayment(st.ID, "", models.Rubles(4200), models.Month{Year: 2026, Month: time.July})
	backend.AddPayment(st.ID, "", models.Rubles(4200), models.Month{Year: 2025, Month: time.July})

	view, err := svc.Load(backend.Context(), service.StatisticsRequest{Tab: service.TabPayments, Month: june2026})
	require.NoError(t, err)
	require.NotNil(t, view.Payments)
	assert.Len(t, view.Payments.Months, 2)
	assert.Equal(t, models.Rubles(8400), view.Payments.Total)
	assert.Equal(t, models.Rubles(700), view.Payments.Average)
	assert.Nil(t, view.Attendance)
	assert.Zero(t, backend.Calls(http.MethodGet, "/attendance"))
}

func TestLoad_unpaidTab(t *testing.T) {
	backend, svc := newService(t)
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	paid := backend.AddStudent("Иванов Иван", group.ID)
	debtor := backend.AddStudent("Петров Пётр", group.ID)
	backend.AddSubscription(debtor.ID, models.Subscription8, models.Rubles(4200), true)
	backend.AddPayment(paid.ID, "", models.Rubles(4200), june2026)

	view, err := svc.Load(backend.Context(), service.StatisticsRequest{Tab: service.TabUnpaid, Month: june2026})
	require.NoError(t, err)
	require.NotNil(t, view.Unpaid)
	assert.Equal(t, 1, view.Unpaid.TotalUnpaid)
	assert.Equal(t, "Петров Пётр", view.Unpaid.Students[0].FullName)
	assert.Equal(t, models.Rubles(4200), view.Unpaid.Students[0].DebtAmount)
}

func TestLoad_unknownTabIsAttendance(t *testing.T) {
	backend, svc := newService(t)
	view, err := svc.Load(backend.Context(), service.StatisticsRequest{Tab: service.ParseTab("bogus"), Month: june2026})
	require.NoError(t, err)
	assert.Equal(t, service.TabAttendance, view.Tab)
	assert.NotNil(t, view.Attendance)
}
