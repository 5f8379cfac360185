package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sambo-academy-admin/internal/models"
)

type groupsPage struct {
	Groups []models.Group
	// Edit is the group in the open form; nil for a new group.
	Edit *models.Group
}

func (h *Handler) groupsPage(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.GetAll(r.Context())
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}

	data := groupsPage{Groups: groups}
	if id := r.URL.Query().Get("id"); id != "" {
		for i := range groups {
			if groups[i].ID == id {
				data.Edit = &groups[i]
			}
		}
	}
	h.render(w, r, http.StatusOK, "groups", "Группы", data)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.groups.Create(r.Context(), groupInput(r))
	if err != nil {
		h.fail(w, r, err, "/groups?modal=group-form")
		return
	}
	h.success(w, r, "/groups", "Группа «"+g.Name+"» создана")
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := h.groups.Update(r.Context(), id, groupInput(r))
	if err != nil {
		h.fail(w, r, err, link("/groups", "modal", "group-form", "id", id))
		return
	}
	h.success(w, r, "/groups", "Группа «"+g.Name+"» обновлена")
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "/groups")
		return
	}
	h.success(w, r, "/groups", "Группа удалена")
}

type groupForm struct {
	Action string
	Title  string
	models.Group
}

func (p groupsPage) Form() groupForm {
	if p.Edit != nil {
		return groupForm{Action: "/groups/" + p.Edit.ID, Title: "Изменить группу", Group: *p.Edit}
	}
	return groupForm{
		Action: "/groups",
		Title:  "Новая группа",
		Group: models.Group{
			AgeGroup:     models.AgeGroupSenior,
			ScheduleType: models.ScheduleMonWedFri,
			SkillLevel:   models.SkillBeginner,
			IsActive:     true,
		},
	}
}
