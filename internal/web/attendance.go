package web

import (
	"net/http"
	"strings"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
	attendance_service "sambo-academy-admin/internal/service/attendance"
)

const statusField = "status_"

type attendancePage struct {
	*service.AttendanceView
	PrevMonth models.Month
	NextMonth models.Month
	// Dirty is set while the roster holds unsaved toggles.
	Dirty bool
}

func (p attendancePage) DateLink(d models.Date) string {
	return link("/attendance", "group", p.Group.ID, "month", p.Month.String(), "date", d.String())
}

func (p attendancePage) MonthLink(m models.Month) string {
	groupID := ""
	if p.Group != nil {
		groupID = p.Group.ID
	}
	return link("/attendance", "group", groupID, "month", m.String())
}

func (p attendancePage) IsSelected(d models.Date) bool {
	return p.Date.Equal(d)
}

func (p attendancePage) NoGroup() bool      { return p.State() == service.AttendanceNoGroup }
func (p attendancePage) NoDate() bool       { return p.State() == service.AttendanceNoDate }
func (p attendancePage) DateSelected() bool { return p.State() == service.AttendanceDateSelected }

func newAttendancePage(view *service.AttendanceView) attendancePage {
	return attendancePage{
		AttendanceView: view,
		PrevMonth:      shiftMonth(view.Month, -1),
		NextMonth:      shiftMonth(view.Month, 1),
	}
}

func (h *Handler) attendanceRequest(r *http.Request) service.AttendanceRequest {
	today := h.today()
	req := service.AttendanceRequest{
		GroupID: r.FormValue("group"),
		Date:    dateParam(r, "date"),
		Today:   today,
	}
	if m, err := models.ParseMonth(r.FormValue("month")); err == nil {
		req.Month = m
	}
	return req
}

func (h *Handler) attendancePage(w http.ResponseWriter, r *http.Request) {
	view, err := h.attendance.Load(r.Context(), h.attendanceRequest(r))
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "attendance", "Посещаемость", newAttendancePage(view))
}

// submitAttendance handles both the status toggles and the final save. The
// form carries the current marks of the whole roster, so a toggle re-renders
// the page with the unsaved state and nothing is kept on the server.
func (h *Handler) submitAttendance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err, "/attendance")
		return
	}
	req := h.attendanceRequest(r)
	view, err := h.attendance.Load(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "/attendance")
		return
	}
	if view.Group == nil || view.Date.IsZero() {
		h.fail(w, r, service.Invalid("group_id", "выберите группу и дату"), link("/attendance", "group", req.GroupID))
		return
	}

	entries := attendance_service.Overlay(view.Entries, draftMarks(r))
	back := link("/attendance", "group", view.Group.ID, "month", view.Month.String(), "date", view.Date.String())

	if studentID, status, ok := parseToggle(r.PostFormValue("action")); ok {
		view.Entries = attendance_service.Toggle(entries, studentID, status)
		page := newAttendancePage(view)
		page.Dirty = true
		h.render(w, r, http.StatusOK, "attendance", "Посещаемость", page)
		return
	}

	if err := h.attendance.Save(r.Context(), view.Group.ID, view.Date, entries); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.success(w, r, back, "Посещаемость за "+view.Date.Display()+" сохранена")
}

// draftMarks reads status_<student id> fields. An empty value is an
// explicit "no mark".
func draftMarks(r *http.Request) map[string]*models.AttendanceStatus {
	out := make(map[string]*models.AttendanceStatus)
	for key, values := range r.PostForm {
		studentID, ok := strings.CutPrefix(key, statusField)
		if !ok || studentID == "" || len(values) == 0 {
			continue
		}
		status := models.AttendanceStatus(values[0])
		if !status.Valid() {
			out[studentID] = nil
			continue
		}
		out[studentID] = &status
	}
	return out
}

// parseToggle reads the action button value toggle:<student id>:<status>.
func parseToggle(action string) (string, models.AttendanceStatus, bool) {
	rest, ok := strings.CutPrefix(action, "toggle:")
	if !ok {
		return "", "", false
	}
	studentID, status, ok := strings.Cut(rest, ":")
	if !ok || studentID == "" || !models.AttendanceStatus(status).Valid() {
		return "", "", false
	}
	return studentID, models.AttendanceStatus(status), true
}
