package tournament_service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambo-academy-admin/internal/apitest"
	"sambo-academy-admin/internal/models"
	tournamentRepo "sambo-academy-admin/internal/repository/tournament"
	"sambo-academy-admin/internal/service"
)

func newService(t *testing.T) (*apitest.Backend, service.TournamentService) {
	backend := apitest.New(t)
	return backend, NewTournamentService(tournamentRepo.NewTournamentRepository(backend.Client()))
}

func TestDelete_removesParticipants(t *testing.T) {
	backend, svc := newService(t)
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	st1 := backend.AddStudent("Иванов Иван", group.ID)
	st2 := backend.AddStudent("Петров Пётр", group.ID)
	cup := backend.AddTournament("Кубок города", models.NewDate(2026, time.May, 10))
	backend.AddParticipant(cup.ID, st1.ID, 1)
	backend.AddParticipant(cup.ID, st2.ID, 3)

	require.NoError(t, svc.Delete(backend.Context(), cup.ID))
	assert.Zero(t, backend.ParticipantCount(cup.ID))
	assert.Empty(t, backend.Tournaments())
	assert.Equal(t, 1, backend.Calls("GET", "/tournaments/"+cup.ID+"/results"))
}

func TestDelete_incompleteCascade(t *testing.T) {
	backend, svc := newService(t)
	backend.KeepParticipants = true
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	st := backend.AddStudent("Иванов Иван", group.ID)
	cup := backend.AddTournament("Кубок города", models.NewDate(2026, time.May, 10))
	backend.AddParticipant(cup.ID, st.ID, 2)

	err := svc.Delete(backend.Context(), cup.ID)
	assert.ErrorIs(t, err, ErrCascadeIncomplete)
}

func TestDelete_resultsNotFoundIsSuccess(t *testing.T) {
	backend, svc := newService(t)
	cup := backend.AddTournament("Кубок города", models.NewDate(2026, time.May, 10))
	backend.FailOn("GET", "/tournaments/"+cup.ID+"/results", 404, "Tournament not found")

	assert.NoError(t, svc.Delete(backend.Context(), cup.ID))
}

func TestList(t *testing.T) {
	backend, svc := newService(t)
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	st := backend.AddStudent("Иванов Иван", group.ID)
	spring := backend.AddTournament("Весенний турнир", models.NewDate(2026, time.April, 5))
	backend.AddTournament("Летний турнир", models.NewDate(2026, time.July, 5))
	backend.AddParticipant(spring.ID, st.ID, 1)

	list, err := svc.List(backend.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Летний турнир", list[0].Name)
	assert.Empty(t, list[0].Results)
	require.Len(t, list[1].Results, 1)
	assert.Equal(t, "Иванов Иван", list[1].Results[0].StudentName)
	assert.Equal(t, "1", list[1].Results[0].PlaceLabel())
}

func TestAddParticipant_validation(t *testing.T) {
	backend, svc := newService(t)
	group := backend.AddGroup("Старшие", models.AgeGroupSenior, models.ScheduleMonWedFri)
	st := backend.AddStudent("Иванов Иван", group.ID)
	cup := backend.AddTournament("Кубок города", models.NewDate(2026, time.May, 10))

	var ve *service.ValidationError
	_, err := svc.AddParticipant(backend.Context(), cup.ID, &models.ParticipationInput{TotalFights: 2})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "student_id")

	_, err = svc.AddParticipant(backend.Context(), cup.ID, &models.ParticipationInput{StudentID: st.ID, TotalFights: 2, Wins: 3})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "wins")

	p, err := svc.AddParticipant(backend.Context(), cup.ID, &models.ParticipationInput{StudentID: st.ID, TotalFights: 3, Wins: 2, Losses: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.ParticipantCount(cup.ID))

	require.NoError(t, svc.DeleteParticipant(backend.Context(), cup.ID, p.ID))
	assert.Zero(t, backend.ParticipantCount(cup.ID))
}

func TestCreate_requiresDate(t *testing.T) {
	backend, svc := newService(t)
	_, err := svc.Create(backend.Context(), &models.TournamentInput{Name: "Кубок", Location: "Москва"})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "tournament_date")
}
