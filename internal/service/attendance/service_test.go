package attendance_service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambo-academy-admin/internal/apitest"
	"sambo-academy-admin/internal/models"
	attendanceRepo "sambo-academy-admin/internal/repository/attendance"
	groupRepo "sambo-academy-admin/internal/repository/group"
	"sambo-academy-admin/internal/service"
)

var june2026 = models.Month{Year: 2026, Month: time.June}

func june(day int) models.Date {
	return models.NewDate(2026, time.June, day)
}

func status(s models.AttendanceStatus) *models.AttendanceStatus {
	return &s
}

func TestAllowedWeekdays(t *testing.T) {
	tests := []struct {
		schedule models.ScheduleType
		want     []time.Weekday
	}{
		{models.ScheduleMonWedFri, []time.Weekday{1, 3, 5}},
		{models.ScheduleTueThu, []time.Weekday{2, 4}},
		{models.ScheduleOther, []time.Weekday{0, 1, 2, 3, 4, 5, 6}},
		{"", []time.Weekday{0, 1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(string(tt.schedule), func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedWeekdays(tt.schedule))
		})
	}
}

func TestTrainingDates(t *testing.T) {
	dates := TrainingDates(june2026, models.ScheduleMonWedFri)
	require.Len(t, dates, 13)
	assert.Equal(t, "2026-06-01", dates[0].String())
	assert.Equal(t, "2026-06-29", dates[12].String())
	for _, d := range dates {
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, d.Weekday())
	}

	assert.Len(t, TrainingDates(june2026, models.ScheduleTueThu), 9)
	assert.Len(t, TrainingDates(june2026, models.ScheduleOther), 30)
}

func TestAutoSelect(t *testing.T) {
	dates := TrainingDates(june2026, models.ScheduleMonWedFri)

	tests := []struct {
		name  string
		today models.Date
		want  string
	}{
		{"training day", june(15), "2026-06-15"},
		{"day after training", june(16), "2026-06-15"},
		{"month in the future", models.NewDate(2026, time.May, 20), "2026-06-01"},
		{"month in the past", models.NewDate(2026, time.August, 3), "2026-06-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AutoSelect(dates, tt.today)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, ok := AutoSelect(nil, june(15))
	assert.False(t, ok)
}

func TestToggle(t *testing.T) {
	entries := []models.AttendanceEntry{
		{StudentID: "a", FullName: "Алексеев"},
		{StudentID: "b", FullName: "Борисов", Status: status(models.StatusAbsent)},
	}

	once := Toggle(entries, "a", models.StatusPresent)
	assert.True(t, once[0].Is(models.StatusPresent))
	assert.Nil(t, entries[0].Status, "input must not change")

	twice := Toggle(once, "a", models.StatusPresent)
	assert.Nil(t, twice[0].Status)

	switched := Toggle(once, "a", models.StatusTransferred)
	assert.True(t, switched[0].Is(models.StatusTransferred))

	assert.True(t, switched[1].Is(models.StatusAbsent))
}

func TestOverlay(t *testing.T) {
	entries := []models.AttendanceEntry{
		{StudentID: "a", Status: status(models.StatusPresent)},
		{StudentID: "b", Status: status(models.StatusAbsent)},
		{StudentID: "c"},
	}
	got := Overlay(entries, map[string]*models.AttendanceStatus{
		"a": nil,
		"c": status(models.StatusTransferred),
	})
	assert.Nil(t, got[0].Status)
	assert.True(t, got[1].Is(models.StatusAbsent))
	assert.True(t, got[2].Is(models.StatusTransferred))
}

func newService(t *testing.T) (*apitest.Backend, service.AttendanceService) {
	backend := apitest.New(t)
	api := backend.Client()
	return backend, NewAttendanceService(attendanceRepo.NewAttendanceRepository(api), groupRepo.NewGroupRepository(api))
}

func TestLoad(t *testing.T) {
	backend, svc := newService(t)
	ctx := backend.Context()
	seniors := backend.AddGroup("Старшие ПН-СР-ПТ", models.AgeGroupSenior, models.ScheduleMonWedFri)
	juniors := backend.AddGroup("Младшие ВТ-ЧТ", models.AgeGroupJunior, models.ScheduleTueThu)
	ivan := backend.AddStudent("Иванов Иван", seniors.ID)
	backend.AddStudent("Петров Пётр", juniors.ID, seniors.ID)
	backend.SetAttendance(seniors.ID, june(15), ivan.ID, models.StatusPresent)

	t.Run("no group selected", func(t *testing.T) {
		view, err := svc.Load(ctx, service.AttendanceRequest{Month: june2026, Today: june(15)})
		require.NoError(t, err)
		assert.Equal(t, service.AttendanceNoGroup, view.State())
		assert.Len(t, view.Groups, 2)
		assert.Empty(t, view.Dates)
	})

	t.Run("auto selected date", func(t *testing.T) {
		view, err := svc.Load(ctx, service.AttendanceRequest{GroupID: seniors.ID, Month: june2026, Today: june(15)})
		require.NoError(t, err)
		assert.Equal(t, service.AttendanceDateSelected, view.State())
		assert.Len(t, view.Dates, 13)
		assert.Equal(t, "2026-06-15", view.Date.String())

		require.Len(t, view.Entries, 2)
		assert.Equal(t, "Иванов Иван", view.Entries[0].FullName)
		assert.True(t, view.Entries[0].Is(models.StatusPresent))
		assert.False(t, view.Entries[0].IsBonusGroup)
		assert.Nil(t, view.Entries[1].Status)
		assert.True(t, view.Entries[1].IsBonusGroup)
	})

	t.Run("explicit training date wins", func(t *testing.T) {
		view, err := svc.Load(ctx, service.AttendanceRequest{GroupID: seniors.ID, Month: june2026, Date: june(3), Today: june(15)})
		require.NoError(t, err)
		assert.Equal(t, "2026-06-03", view.Date.String())
	})

	t.Run("explicit non-training date falls back", func(t *testing.T) {
		view, err := svc.Load(ctx, service.AttendanceRequest{GroupID: seniors.ID, Month: june2026, Date: june(16), Today: june(15)})
		require.NoError(t, err)
		assert.Equal(t, "2026-06-15", view.Date.String())
	})

	t.Run("unknown group", func(t *testing.T) {
		view, err := svc.Load(ctx, service.AttendanceRequest{GroupID: "missing", Month: june2026, Today: june(15)})
		require.NoError(t, err)
		assert.Equal(t, service.AttendanceNoGroup, view.State())
	})
}

func TestSave_nullStatusDeletesRecord(t *testing.T) {
	backend, svc := newService(t)
	ctx := backend.Context()
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	ivan := backend.AddStudent("Иванов Иван", group.ID)
	petr := backend.AddStudent("Петров Пётр", group.ID)
	backend.SetAttendance(group.ID, june(15), ivan.ID, models.StatusPresent)

	view, err := svc.Load(ctx, service.AttendanceRequest{GroupID: group.ID, Month: june2026, Today: june(15)})
	require.NoError(t, err)

	entries := Toggle(view.Entries, ivan.ID, models.StatusPresent)
	entries = Toggle(entries, petr.ID, models.StatusAbsent)
	require.NoError(t, svc.Save(ctx, group.ID, view.Date, entries))

	stored := backend.Attendance(group.ID, june(15))
	assert.Equal(t, map[string]models.AttendanceStatus{petr.ID: models.StatusAbsent}, stored)
}

func TestSave_validation(t *testing.T) {
	backend, svc := newService(t)
	ctx := backend.Context()

	err := svc.Save(ctx, "not-a-uuid", june(15), nil)
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "group_id")

	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	err = svc.Save(ctx, group.ID, models.Date{}, nil)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "session_date")
	assert.Zero(t, backend.Calls("POST", "/attendance/mark"))
}
