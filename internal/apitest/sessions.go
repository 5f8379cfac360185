package apitest

import (
	"math"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sambo-academy-admin/internal/models"
)

func attendanceKey(groupID string, date models.Date) string {
	return groupID + "|" + date.String()
}

// SetAttendance seeds a stored mark.
func (b *Backend) SetAttendance(groupID string, date models.Date, studentID string, status models.AttendanceStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := attendanceKey(groupID, date)
	if b.attendance[key] == nil {
		b.attendance[key] = make(map[string]attendanceRecord)
	}
	b.attendance[key][studentID] = attendanceRecord{id: uuid.NewString(), status: status}
}

// Attendance returns the stored marks for a group and date keyed by student.
func (b *Backend) Attendance(groupID string, date models.Date) map[string]models.AttendanceStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]models.AttendanceStatus)
	for sid, rec := range b.attendance[attendanceKey(groupID, date)] {
		out[sid] = rec.status
	}
	return out
}

func (b *Backend) rosterOf(groupID string) []*models.Student {
	var out []*models.Student
	for _, s := range b.students {
		if s.IsActive && (s.GroupID == groupID || slices.Contains(s.AdditionalGroupIDs, groupID)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

func (b *Backend) markAttendance(w http.ResponseWriter, r *http.Request) {
	var batch models.AttendanceBatch
	if !decode(w, r, &batch) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.groups[batch.GroupID]; !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	if batch.SessionDate.IsZero() {
		writeValidation(w, "session_date", "field required")
		return
	}
	key := attendanceKey(batch.GroupID, batch.SessionDate)
	if b.attendance[key] == nil {
		b.attendance[key] = make(map[string]attendanceRecord)
	}
	saved := []map[string]any{}
	for _, m := range batch.Attendances {
		if m.Status == nil {
			delete(b.attendance[key], m.StudentID)
			continue
		}
		if !m.Status.Valid() {
			writeValidation(w, "status", "invalid attendance status")
			return
		}
		rec, ok := b.attendance[key][m.StudentID]
		if !ok {
			rec.id = uuid.NewString()
		}
		rec.status = *m.Status
		rec.notes = m.Notes
		b.attendance[key][m.StudentID] = rec
		saved = append(saved, map[string]any{"id": rec.id, "student_id": m.StudentID, "status": rec.status})
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (b *Backend) attendanceByDate(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group")
	date, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.groups[groupID]; !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	records := b.attendance[attendanceKey(groupID, date)]
	out := []models.AttendanceEntry{}
	for _, s := range b.rosterOf(groupID) {
		e := models.AttendanceEntry{StudentID: s.ID, FullName: s.FullName, IsBonusGroup: s.GroupID != groupID}
		if rec, ok := records[s.ID]; ok {
			status := rec.status
			e.Status = &status
			e.AttendanceID = rec.id
			e.Notes = rec.notes
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func rate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*10000) / 100
}

func (b *Backend) attendanceSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))

	b.mu.Lock()
	defer b.mu.Unlock()
	summary := models.AttendanceSummary{Year: year, Month: month, Groups: []models.GroupAttendanceStats{}}
	for _, g := range b.groupList() {
		stats := models.GroupAttendanceStats{GroupID: g.ID, GroupName: g.Name}
		for key, recs := range b.attendance {
			rest, found := strings.CutPrefix(key, g.ID+"|")
			if !found {
				continue
			}
			d, err := models.ParseDate(rest)
			if err != nil || d.Year() != year || int(d.Month()) != month {
				continue
			}
			for _, rec := range recs {
				stats.TotalSessions++
				switch rec.status {
				case models.StatusPresent:
					stats.Present++
				case models.StatusAbsent:
					stats.Absent++
				case models.StatusTransferred:
					stats.Transferred++
				}
			}
		}
		if stats.TotalSessions == 0 {
			continue
		}
		stats.AttendanceRate = rate(stats.Present, stats.TotalSessions)
		summary.Groups = append(summary.Groups, stats)

		summary.Overall.TotalSessions += stats.TotalSessions
		summary.Overall.Present += stats.Present
		summary.Overall.Absent += stats.Absent
		summary.Overall.Transferred += stats.Transferred
	}
	summary.Overall.AttendanceRate = rate(summary.Overall.Present, summary.Overall.TotalSessions)
	writeJSON(w, http.StatusOK, summary)
}

// backendWeekdays mirrors the backend, which treats "other" as Monday to Friday.
func backendWeekdays(s models.ScheduleType) []time.Weekday {
	switch s {
	case models.ScheduleMonWedFri:
		return []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	case models.ScheduleTueThu:
		return []time.Weekday{time.Tuesday, time.Thursday}
	default:
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}
}

func (b *Backend) groupDetail(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := models.Month{Year: year, Month: time.Month(queryInt(r, "month", int(now.Month())))}

	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.groups[chi.URLParam(r, "group")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}

	detail := models.GroupAttendanceDetail{
		GroupID:       g.ID,
		GroupName:     g.Name,
		Year:          month.Year,
		Month:         int(month.Month),
		TrainingDates: []models.Date{},
		Students:      []models.StudentAttendanceRow{},
	}
	days := backendWeekdays(g.ScheduleType)
	for d := 1; d <= month.DaysIn(); d++ {
		date := models.NewDate(month.Year, month.Month, d)
		if slices.Contains(days, date.Weekday()) {
			detail.TrainingDates = append(detail.TrainingDates, date)
		}
	}
	for _, s := range b.rosterOf(g.ID) {
		row := models.StudentAttendanceRow{StudentID: s.ID, FullName: s.FullName}
		for _, date := range detail.TrainingDates {
			day := models.DayStatus{Date: date, Day: date.Day()}
			if rec, ok := b.attendance[attendanceKey(g.ID, date)][s.ID]; ok {
				status := rec.status
				day.Status = &status
			}
			row.Attendance = append(row.Attendance, day)
		}
		detail.Students = append(detail.Students, row)
	}
	writeJSON(w, http.StatusOK, detail)
}
