package models

type AttendanceStatus string

const (
	StatusPresent     AttendanceStatus = "present"
	StatusAbsent      AttendanceStatus = "absent"
	StatusTransferred AttendanceStatus = "transferred"
)

// AttendanceStatuses lists the marks in the order the toggle buttons are shown.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusTransferred}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusTransferred:
		return true
	}
	return false
}

func (s AttendanceStatus) Label() string {
	switch s {
	case StatusPresent:
		return "✓ Присутствовал"
	case StatusAbsent:
		return "✗ Отсутствовал"
	case StatusTransferred:
		return "→ Перенос"
	}
	return ""
}

// AttendanceEntry is one roster row for a (group, date). A nil Status means
// "no mark"; saving it deletes any stored record.
type AttendanceEntry struct {
	StudentID    string            `json:"student_id"`
	FullName     string            `json:"full_name"`
	Status       *AttendanceStatus `json:"status"`
	AttendanceID string            `json:"attendance_id,omitempty"`
	Notes        *string           `json:"notes"`
	IsBonusGroup bool              `json:"is_bonus_group"`
}

func (e AttendanceEntry) Is(s AttendanceStatus) bool {
	return e.Status != nil && *e.Status == s
}

// StatusValue returns the mark or an empty string.
func (e AttendanceEntry) StatusValue() string {
	if e.Status == nil {
		return ""
	}
	return string(*e.Status)
}

type AttendanceMark struct {
	StudentID string            `json:"student_id"`
	Status    *AttendanceStatus `json:"status"`
	Notes     *string           `json:"notes"`
}

// AttendanceBatch is the full roster submitted for one group and date.
type AttendanceBatch struct {
	GroupID     string           `json:"group_id"`
	SessionDate Date             `json:"session_date"`
	Attendances []AttendanceMark `json:"attendances"`
}
