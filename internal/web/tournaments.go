package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
)

type tournamentsPage struct {
	Tournaments []service.TournamentResults
	Students    []models.Student
	// Edit and EditParticipant are the records in the open modal.
	Edit            *service.TournamentResults
	EditParticipant *models.Participation
}

func (h *Handler) tournamentsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	list, err := h.tournaments.List(ctx)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	students, err := h.students.ListActive(ctx, "")
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}

	data := tournamentsPage{Tournaments: list, Students: students}
	for i := range list {
		if list[i].ID != q.Get("id") {
			continue
		}
		data.Edit = &list[i]
		for j := range list[i].Results {
			if list[i].Results[j].ID == q.Get("participant") {
				data.EditParticipant = &list[i].Results[j]
			}
		}
	}
	h.render(w, r, http.StatusOK, "tournaments", "Турниры", data)
}

func (h *Handler) createTournament(w http.ResponseWriter, r *http.Request) {
	t, err := h.tournaments.Create(r.Context(), tournamentInput(r))
	if err != nil {
		h.fail(w, r, err, "/tournaments?modal=tournament-form")
		return
	}
	h.success(w, r, "/tournaments", "Турнир «"+t.Name+"» создан")
}

func (h *Handler) updateTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := h.tournaments.Update(r.Context(), id, tournamentInput(r))
	if err != nil {
		h.fail(w, r, err, link("/tournaments", "modal", "tournament-form", "id", id))
		return
	}
	h.success(w, r, "/tournaments", "Турнир «"+t.Name+"» обновлён")
}

func (h *Handler) deleteTournament(w http.ResponseWriter, r *http.Request) {
	if err := h.tournaments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "/tournaments")
		return
	}
	h.success(w, r, "/tournaments", "Турнир и его результаты удалены")
}

func (h *Handler) addParticipant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.tournaments.AddParticipant(r.Context(), id, participationInput(r)); err != nil {
		h.fail(w, r, err, link("/tournaments", "modal", "participant-form", "id", id))
		return
	}
	h.success(w, r, "/tournaments", "Участник добавлен")
}

func (h *Handler) updateParticipant(w http.ResponseWriter, r *http.Request) {
	id, pid := chi.URLParam(r, "id"), chi.URLParam(r, "pid")
	if _, err := h.tournaments.UpdateParticipant(r.Context(), id, pid, participationInput(r)); err != nil {
		h.fail(w, r, err, link("/tournaments", "modal", "participant-form", "id", id, "participant", pid))
		return
	}
	h.success(w, r, "/tournaments", "Результат обновлён")
}

func (h *Handler) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, pid := chi.URLParam(r, "id"), chi.URLParam(r, "pid")
	if err := h.tournaments.DeleteParticipant(r.Context(), id, pid); err != nil {
		h.fail(w, r, err, "/tournaments")
		return
	}
	h.success(w, r, "/tournaments", "Участник удалён")
}

type tournamentForm struct {
	Action string
	Title  string
	models.Tournament
}

func (p tournamentsPage) Form() tournamentForm {
	if p.Edit != nil {
		return tournamentForm{Action: "/tournaments/" + p.Edit.ID, Title: "Изменить турнир", Tournament: p.Edit.Tournament}
	}
	return tournamentForm{Action: "/tournaments", Title: "Новый турнир"}
}

type participantForm struct {
	Action string
	Title  string
	New    bool
	models.Participation
}

func (p tournamentsPage) ParticipantForm() participantForm {
	if p.Edit == nil {
		return participantForm{}
	}
	if p.EditParticipant != nil {
		return participantForm{
			Action:        "/tournaments/" + p.Edit.ID + "/participants/" + p.EditParticipant.ID,
			Title:         "Результат: " + p.EditParticipant.StudentName,
			Participation: *p.EditParticipant,
		}
	}
	return participantForm{
		Action: "/tournaments/" + p.Edit.ID + "/participants",
		Title:  "Участник турнира «" + p.Edit.Name + "»",
		New:    true,
	}
}
