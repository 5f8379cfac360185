package apitest

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sambo-academy-admin/internal/models"
)

func (b *Backend) AddTournament(name string, date models.Date) *models.Tournament {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := &models.Tournament{ID: uuid.NewString(), Name: name, TournamentDate: date, Location: "Москва"}
	b.tournaments[t.ID] = t
	copied := *t
	return &copied
}

func (b *Backend) AddParticipant(tournamentID, studentID string, place int) *models.Participation {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &models.Participation{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		StudentID:    studentID,
		Place:        &place,
		TotalFights:  3,
		Wins:         2,
		Losses:       1,
	}
	b.participants[p.ID] = p
	copied := *p
	return &copied
}

// ParticipantCount counts stored participants of a tournament, deleted or not.
func (b *Backend) ParticipantCount(tournamentID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, p := range b.participants {
		if p.TournamentID == tournamentID {
			n++
		}
	}
	return n
}

func (b *Backend) Tournaments() []models.Tournament {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tournamentList()
}

func (b *Backend) tournamentList() []models.Tournament {
	out := []models.Tournament{}
	for _, t := range b.tournaments {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TournamentDate.After(out[j].TournamentDate) })
	return out
}

func (b *Backend) listTournaments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.tournamentList())
}

func (b *Backend) getTournament(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tournaments[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func applyTournament(t *models.Tournament, in *models.TournamentInput) {
	t.Name = in.Name
	t.TournamentDate = in.TournamentDate
	t.Location = in.Location
	t.Description = deref(in.Description)
}

func (b *Backend) createTournament(w http.ResponseWriter, r *http.Request) {
	var in models.TournamentInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeValidation(w, "name", "field required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t := &models.Tournament{ID: uuid.NewString()}
	applyTournament(t, &in)
	b.tournaments[t.ID] = t
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) updateTournament(w http.ResponseWriter, r *http.Request) {
	var in models.TournamentInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tournaments[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}
	applyTournament(t, &in)
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) deleteTournament(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.tournaments[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}
	delete(b.tournaments, id)
	if !b.KeepParticipants {
		for pid, p := range b.participants {
			if p.TournamentID == id {
				delete(b.participants, pid)
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// tournamentResults lists participants even when the tournament itself is
// gone, which is how an incomplete cascade shows up.
func (b *Backend) tournamentResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Participation{}
	for _, p := range b.participants {
		if p.TournamentID != id {
			continue
		}
		copied := *p
		if s, ok := b.students[p.StudentID]; ok {
			copied.StudentName = s.FullName
		}
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Place, out[j].Place
		if pi == nil || pj == nil {
			return pj == nil && pi != nil
		}
		return *pi < *pj
	})
	writeJSON(w, http.StatusOK, out)
}

func applyParticipation(p *models.Participation, in *models.ParticipationInput) {
	p.Place = in.Place
	p.TotalFights = in.TotalFights
	p.Wins = in.Wins
	p.Losses = in.Losses
	p.WeightCategory = deref(in.WeightCategory)
	p.Notes = deref(in.Notes)
}

func (b *Backend) addParticipant(w http.ResponseWriter, r *http.Request) {
	var in models.ParticipationInput
	if !decode(w, r, &in) {
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tournaments[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}
	if _, ok := b.students[in.StudentID]; !ok {
		writeDetail(w, http.StatusNotFound, "Student not found")
		return
	}
	for _, p := range b.participants {
		if p.TournamentID == id && p.StudentID == in.StudentID {
			writeDetail(w, http.StatusBadRequest, "Этот ученик уже добавлен в турнир")
			return
		}
	}
	p := &models.Participation{ID: uuid.NewString(), TournamentID: id, StudentID: in.StudentID}
	applyParticipation(p, &in)
	b.participants[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateParticipant(w http.ResponseWriter, r *http.Request) {
	var in models.ParticipationInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.participants[chi.URLParam(r, "pid")]
	if !ok || p.TournamentID != chi.URLParam(r, "id") {
		writeDetail(w, http.StatusNotFound, "Participation not found")
		return
	}
	applyParticipation(p, &in)
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pid := chi.URLParam(r, "pid")
	p, ok := b.participants[pid]
	if !ok || p.TournamentID != chi.URLParam(r, "id") {
		writeDetail(w, http.StatusNotFound, "Participation not found")
		return
	}
	delete(b.participants, pid)
	w.WriteHeader(http.StatusNoContent)
}
