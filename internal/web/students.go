package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sambo-academy-admin/internal/models"
)

type studentsPage struct {
	Groups   []models.Group
	GroupID  string
	Students []models.Student
	Edit     *models.Student
}

// GroupName resolves a group id for the bonus groups column.
func (p studentsPage) GroupName(id string) string {
	for _, g := range p.Groups {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

func (h *Handler) studentsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := r.URL.Query().Get("group")

	groups, err := h.groups.GetAll(ctx)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	students, err := h.students.ListActive(ctx, groupID)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}

	data := studentsPage{Groups: groups, GroupID: groupID, Students: students}
	if id := r.URL.Query().Get("id"); id != "" {
		st, err := h.students.GetByID(ctx, id)
		if err != nil {
			h.loadFailed(w, r, err)
			return
		}
		data.Edit = st
	}
	h.render(w, r, http.StatusOK, "students", "Ученики", data)
}

func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err, "/students")
		return
	}
	back := link("/students", "group", r.FormValue("filter_group"))
	st, err := h.students.Create(r.Context(), studentInput(r))
	if err != nil {
		h.fail(w, r, err, link("/students", "group", r.FormValue("filter_group"), "modal", "student-form"))
		return
	}
	h.success(w, r, back, "Ученик «"+st.FullName+"» добавлен")
}

func (h *Handler) updateStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err, "/students")
		return
	}
	id := chi.URLParam(r, "id")
	back := link("/students", "group", r.FormValue("filter_group"))
	st, err := h.students.Update(r.Context(), id, studentInput(r))
	if err != nil {
		h.fail(w, r, err, link("/students", "group", r.FormValue("filter_group"), "modal", "student-form", "id", id))
		return
	}
	h.success(w, r, back, "Данные ученика «"+st.FullName+"» сохранены")
}

func (h *Handler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	back := link("/students", "group", r.FormValue("filter_group"))
	if err := h.students.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.success(w, r, back, "Ученик удалён")
}

type studentForm struct {
	Action string
	Title  string
	models.Student
}

func (p studentsPage) Form() studentForm {
	if p.Edit != nil {
		return studentForm{Action: "/students/" + p.Edit.ID, Title: "Изменить ученика", Student: *p.Edit}
	}
	return studentForm{
		Action:  "/students",
		Title:   "Новый ученик",
		Student: models.Student{GroupID: p.GroupID, IsActive: true},
	}
}
