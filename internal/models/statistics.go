package models

import "strconv"

type AttendanceCounts struct {
	TotalSessions  int     `json:"total_sessions"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Transferred    int     `json:"transferred"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type GroupAttendanceStats struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	AttendanceCounts
}

type AttendanceSummary struct {
	Year    int                    `json:"year"`
	Month   int                    `json:"month"`
	Groups  []GroupAttendanceStats `json:"groups"`
	Overall AttendanceCounts       `json:"overall"`
}

type DayStatus struct {
	Date   Date              `json:"date"`
	Day    int               `json:"day"`
	Status *AttendanceStatus `json:"status"`
}

type StudentAttendanceRow struct {
	StudentID  string      `json:"student_id"`
	FullName   string      `json:"full_name"`
	Attendance []DayStatus `json:"attendance"`
}

type GroupAttendanceDetail struct {
	GroupID       string                 `json:"group_id"`
	GroupName     string                 `json:"group_name"`
	Year          int                    `json:"year"`
	Month         int                    `json:"month"`
	TrainingDates []Date                 `json:"training_dates"`
	Students      []StudentAttendanceRow `json:"students"`
}

type MonthlyPaymentSummary struct {
	Year         int   `json:"year"`
	Month        int   `json:"month"`
	TotalAmount  Money `json:"total_amount"`
	PaymentCount int   `json:"payment_count"`
	PaidCount    int   `json:"paid_count"`
	PendingCount int   `json:"pending_count"`
	OverdueCount int   `json:"overdue_count"`
}

type UnpaidStudent struct {
	StudentID  string `json:"student_id"`
	FullName   string `json:"full_name"`
	GroupName  string `json:"group_name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	DebtAmount Money  `json:"debt_amount"`
}

type UnpaidReport struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalUnpaid int             `json:"total_unpaid"`
	Students    []UnpaidStudent `json:"students"`
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
