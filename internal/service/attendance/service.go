package attendance_service

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	groupRepo      repository.GroupRepository
}

func NewAttendanceService(attendanceRepo repository.AttendanceRepository, groupRepo repository.GroupRepository) service.AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		groupRepo:      groupRepo,
	}
}

// AllowedWeekdays returns the training weekdays of a schedule type.
func AllowedWeekdays(schedule models.ScheduleType) []time.Weekday {
	switch schedule {
	case models.ScheduleMonWedFri:
		return []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	case models.ScheduleTueThu:
		return []time.Weekday{time.Tuesday, time.Thursday}
	default:
		return []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	}
}

// TrainingDates lists the days of month that fall on allowed weekdays, in order.
func TrainingDates(month models.Month, schedule models.ScheduleType) []models.Date {
	allowed := AllowedWeekdays(schedule)
	var dates []models.Date
	for day := 1; day <= month.DaysIn(); day++ {
		d := models.NewDate(month.Year, month.Month, day)
		if slices.Contains(allowed, d.Weekday()) {
			dates = append(dates, d)
		}
	}
	return dates
}

// AutoSelect picks the latest date not after today, else the first date.
// ok is false only for an empty list.
func AutoSelect(dates []models.Date, today models.Date) (models.Date, bool) {
	if len(dates) == 0 {
		return models.Date{}, false
	}
	for i := len(dates) - 1; i >= 0; i-- {
		if !dates[i].After(today) {
			return dates[i], true
		}
	}
	return dates[0], true
}

// Toggle sets status for one student. Choosing the current status again
// clears the mark. The input slice is left untouched.
func Toggle(entries []models.AttendanceEntry, studentID string, status models.AttendanceStatus) []models.AttendanceEntry {
	out := slices.Clone(entries)
	for i := range out {
		if out[i].StudentID != studentID {
			continue
		}
		if out[i].Is(status) {
			out[i].Status = nil
		} else {
			s := status
			out[i].Status = &s
		}
	}
	return out
}

// Overlay replaces stored marks with the unsaved ones from a submitted form.
// Students missing from draft keep their stored mark.
func Overlay(entries []models.AttendanceEntry, draft map[string]*models.AttendanceStatus) []models.AttendanceEntry {
	out := slices.Clone(entries)
	for i := range out {
		if status, ok := draft[out[i].StudentID]; ok {
			out[i].Status = status
		}
	}
	return out
}

func (s *attendanceService) Load(ctx context.Context, req service.AttendanceRequest) (*service.AttendanceView, error) {
	groups, err := s.groupRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	view := &service.AttendanceView{Groups: groups, Month: req.Month}
	if view.Month.IsZero() {
		view.Month = models.MonthOf(req.Today.Time)
	}

	// Группа не выбрана или не найдена
	idx := slices.IndexFunc(groups, func(g models.Group) bool { return g.ID == req.GroupID })
	if req.GroupID == "" || idx < 0 {
		return view, nil
	}
	group := groups[idx]
	view.Group = &group
	view.Dates = TrainingDates(view.Month, group.ScheduleType)

	// Явно выбранная дата важнее автовыбора, если это день тренировки
	if !req.Date.IsZero() && slices.ContainsFunc(view.Dates, req.Date.Equal) {
		view.Date = req.Date
	} else if d, ok := AutoSelect(view.Dates, req.Today); ok {
		view.Date = d
	}
	if view.Date.IsZero() {
		return view, nil
	}

	view.Entries, err = s.attendanceRepo.GetByDate(ctx, group.ID, view.Date)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *attendanceService) Save(ctx context.Context, groupID string, date models.Date, entries []models.AttendanceEntry) error {
	if _, err := uuid.Parse(groupID); err != nil {
		return service.Invalid("group_id", "выберите группу")
	}
	if date.IsZero() {
		return service.Invalid("session_date", "выберите дату")
	}

	batch := &models.AttendanceBatch{
		GroupID:     groupID,
		SessionDate: date,
		Attendances: make([]models.AttendanceMark, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Status != nil && !e.Status.Valid() {
			return service.Invalid("status", "неизвестная отметка "+string(*e.Status))
		}
		batch.Attendances = append(batch.Attendances, models.AttendanceMark{
			StudentID: e.StudentID,
			Status:    e.Status,
			Notes:     e.Notes,
		})
	}
	return errors.WithStack(s.attendanceRepo.Mark(ctx, batch))
}

func (s *attendanceService) Summary(ctx context.Context, month models.Month) (*models.AttendanceSummary, error) {
	return s.attendanceRepo.Summary(ctx, month)
}
