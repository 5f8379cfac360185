package service

import (
	"slices"

	"sambo-academy-admin/internal/models"
)

type DashboardView struct {
	Groups             []models.Group
	GroupCount         int
	StudentCount       int
	ActiveStudentCount int
}

type AttendanceState int

const (
	AttendanceNoGroup AttendanceState = iota
	AttendanceNoDate
	AttendanceDateSelected
)

// AttendanceRequest describes what the attendance page asks for. A zero Date
// lets the service pick one; Today anchors that choice.
type AttendanceRequest struct {
	GroupID string
	Month   models.Month
	Date    models.Date
	Today   models.Date
}

type AttendanceView struct {
	Groups  []models.Group
	Group   *models.Group
	Month   models.Month
	Dates   []models.Date
	Date    models.Date
	Entries []models.AttendanceEntry
}

func (v *AttendanceView) State() AttendanceState {
	switch {
	case v.Group == nil:
		return AttendanceNoGroup
	case v.Date.IsZero():
		return AttendanceNoDate
	default:
		return AttendanceDateSelected
	}
}

type BadgeKind string

const (
	BadgeUnpaid  BadgeKind = "unpaid"
	BadgePaid    BadgeKind = "paid"
	BadgePartial BadgeKind = "partial"
)

// Badge compares the amount paid for a month with the standard price.
type Badge struct {
	Kind      BadgeKind
	Shortfall models.Money
	Overage   models.Money
}

func (b Badge) Label() string {
	switch b.Kind {
	case BadgePaid:
		return "Оплачено"
	case BadgePartial:
		return "Частично"
	default:
		return "Не оплачено"
	}
}

type PaymentRow struct {
	Student          models.Student
	SubscriptionType models.SubscriptionType
	StandardPrice    models.Money
	Payment          *models.Payment
	Badge            Badge
}

type PaymentsSummary struct {
	Total  int
	Paid   int
	Unpaid int
}

type PaymentsView struct {
	Groups  []models.Group
	Group   *models.Group
	Month   models.Month
	Prices  models.Prices
	Rows    []PaymentRow
	Summary PaymentsSummary
}

// CustomPayment is a payment with a chosen subscription type and amount.
type CustomPayment struct {
	GroupID          string                  `json:"group_id" validate:"required,uuid"`
	StudentID        string                  `json:"student_id" validate:"required,uuid"`
	Month            models.Month            `json:"-"`
	SubscriptionType models.SubscriptionType `json:"subscription_type" validate:"required,oneof=8_sessions 12_sessions"`
	Amount           models.Money            `json:"amount" validate:"gt=0"`
	Notes            string                  `json:"notes" validate:"max=500"`
}

type PaymentDetails struct {
	Payment       models.Payment
	StudentName   string
	Subscription  *models.Subscription
	StandardPrice models.Money
}

type StatisticsTab string

const (
	TabAttendance StatisticsTab = "attendance"
	TabPayments   StatisticsTab = "payments"
	TabUnpaid     StatisticsTab = "unpaid"
)

var StatisticsTabs = []StatisticsTab{TabAttendance, TabPayments, TabUnpaid}

// ParseTab falls back to the attendance tab for unknown names.
func ParseTab(s string) StatisticsTab {
	for _, t := range StatisticsTabs {
		if string(t) == s {
			return t
		}
	}
	return TabAttendance
}

func (t StatisticsTab) Label() string {
	switch t {
	case TabPayments:
		return "Оплаты"
	case TabUnpaid:
		return "Должники"
	default:
		return "Посещаемость"
	}
}

type StatisticsRequest struct {
	Tab      StatisticsTab
	Month    models.Month
	Expanded []string
}

// PaymentYear is the payments tab: per-month rows and year totals.
type PaymentYear struct {
	Year    int
	Months  []models.MonthlyPaymentSummary
	Total   models.Money
	Count   int
	Average models.Money
}

type StatisticsView struct {
	Tab      StatisticsTab
	Month    models.Month
	Years    []int
	Expanded []string

	Attendance *models.AttendanceSummary
	Details    map[string]*models.GroupAttendanceDetail
	Payments   *PaymentYear
	Unpaid     *models.UnpaidReport
}

func (v *StatisticsView) IsExpanded(groupID string) bool {
	return slices.Contains(v.Expanded, groupID)
}

type TournamentResults struct {
	models.Tournament
	Results []models.Participation
}
