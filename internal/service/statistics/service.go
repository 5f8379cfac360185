package statistics_service

import (
	"context"
	"slices"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

// yearsBack is how many past years the year selector offers.
const yearsBack = 5

type statisticsService struct {
	attendanceRepo repository.AttendanceRepository
	paymentRepo    repository.PaymentRepository
}

func NewStatisticsService(attendanceRepo repository.AttendanceRepository, paymentRepo repository.PaymentRepository) service.StatisticsService {
	return &statisticsService{
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
	}
}

// YearOptions lists the current year and the five before it, newest first.
func YearOptions(current int) []int {
	years := make([]int, 0, yearsBack+1)
	for y := current; y >= current-yearsBack; y-- {
		years = append(years, y)
	}
	return years
}

// ToggleExpanded adds groupID to the expanded set or removes it when present.
func ToggleExpanded(expanded []string, groupID string) []string {
	if i := slices.Index(expanded, groupID); i >= 0 {
		return slices.Delete(slices.Clone(expanded), i, i+1)
	}
	return append(slices.Clone(expanded), groupID)
}

// SummarizeYear totals the monthly rows; the average spreads the total over
// twelve months regardless of how many have payments.
func SummarizeYear(year int, months []models.MonthlyPaymentSummary) *service.PaymentYear {
	py := &service.PaymentYear{Year: year, Months: months}
	for _, m := range months {
		py.Total += m.TotalAmount
		py.Count += m.PaymentCount
	}
	py.Average = py.Total / 12
	return py
}

// Load queries only the selected tab. Group details are fetched for expanded
// groups that appear in the summary, once each.
func (s *statisticsService) Load(ctx context.Context, req service.StatisticsRequest) (*service.StatisticsView, error) {
	view := &service.StatisticsView{
		Tab:      req.Tab,
		Month:    req.Month,
		Years:    YearOptions(req.Month.Year),
		Expanded: dedupe(req.Expanded),
	}

	switch req.Tab {
	case service.TabPayments:
		months, err := s.paymentRepo.YearSummary(ctx, req.Month.Year)
		if err != nil {
			return nil, err
		}
		view.Payments = SummarizeYear(req.Month.Year, months)

	case service.TabUnpaid:
		report, err := s.paymentRepo.Unpaid(ctx, req.Month)
		if err != nil {
			return nil, err
		}
		view.Unpaid = report

	default:
		view.Tab = service.TabAttendance
		summary, err := s.attendanceRepo.Summary(ctx, req.Month)
		if err != nil {
			return nil, err
		}
		view.Attendance = summary
		view.Details = make(map[string]*models.GroupAttendanceDetail)

		for _, g := range summary.Groups {
			if !view.IsExpanded(g.GroupID) {
				continue
			}
			detail, err := s.attendanceRepo.GroupDetail(ctx, g.GroupID, req.Month)
			if err != nil {
				return nil, err
			}
			view.Details[g.GroupID] = detail
		}
	}
	return view, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
