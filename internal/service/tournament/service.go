package tournament_service

import (
	"context"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

// ErrCascadeIncomplete means the tournament was deleted but the backend still
// reports results for it.
var ErrCascadeIncomplete = errors.New("tournament participants were not deleted")

type tournamentService struct {
	tournamentRepo repository.TournamentRepository
}

func NewTournamentService(tournamentRepo repository.TournamentRepository) service.TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo}
}

// List returns every tournament with its results, newest first as the API
// orders them.
func (s *tournamentService) List(ctx context.Context) ([]service.TournamentResults, error) {
	tournaments, err := s.tournamentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]service.TournamentResults, 0, len(tournaments))
	for _, t := range tournaments {
		results, err := s.tournamentRepo.Results(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, service.TournamentResults{Tournament: t, Results: results})
	}
	return out, nil
}

func validateTournament(in *models.TournamentInput) error {
	if err := service.Validate(in); err != nil {
		return err
	}
	if in.TournamentDate.IsZero() {
		return service.Invalid("tournament_date", "укажите дату турнира")
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, in *models.TournamentInput) (*models.Tournament, error) {
	if err := validateTournament(in); err != nil {
		return nil, err
	}
	return s.tournamentRepo.Create(ctx, in)
}

func (s *tournamentService) Update(ctx context.Context, id string, in *models.TournamentInput) (*models.Tournament, error) {
	if err := validateTournament(in); err != nil {
		return nil, err
	}
	return s.tournamentRepo.Update(ctx, id, in)
}

// Delete removes the tournament and checks through the results endpoint that
// its participants went with it.
func (s *tournamentService) Delete(ctx context.Context, id string) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return err
	}

	results, err := s.tournamentRepo.Results(ctx, id)
	switch {
	case apiclient.IsNotFound(err):
		return nil
	case err != nil:
		return errors.Wrapf(err, "verify deletion of tournament %s", id)
	case len(results) > 0:
		return errors.Wrapf(ErrCascadeIncomplete, "tournament %s: %d left", id, len(results))
	}
	return nil
}

func (s *tournamentService) AddParticipant(ctx context.Context, tournamentID string, in *models.ParticipationInput) (*models.Participation, error) {
	if in.StudentID == "" {
		return nil, service.Invalid("student_id", "выберите ученика")
	}
	if err := service.Validate(in); err != nil {
		return nil, err
	}
	return s.tournamentRepo.AddParticipant(ctx, tournamentID, in)
}

func (s *tournamentService) UpdateParticipant(ctx context.Context, tournamentID, participationID string, in *models.ParticipationInput) (*models.Participation, error) {
	if err := service.Validate(in); err != nil {
		return nil, err
	}
	return s.tournamentRepo.UpdateParticipant(ctx, tournamentID, participationID, in)
}

func (s *tournamentService) DeleteParticipant(ctx context.Context, tournamentID, participationID string) error {
	return s.tournamentRepo.DeleteParticipant(ctx, tournamentID, participationID)
}
