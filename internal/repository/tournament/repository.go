package tournament

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type tournamentRepository struct {
	api *apiclient.Client
}

func NewTournamentRepository(api *apiclient.Client) repository.TournamentRepository {
	return &tournamentRepository{api: api}
}

func tournamentPath(id string) string {
	return "/tournaments/" + url.PathEscape(id)
}

func (r *tournamentRepository) GetAll(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	if err := r.api.Get(ctx, "/tournaments", &tournaments); err != nil {
		return nil, errors.Wrap(err, "list tournaments")
	}
	return tournaments, nil
}

func (r *tournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.api.Get(ctx, tournamentPath(id), &t); err != nil {
		return nil, errors.Wrapf(err, "get tournament %s", id)
	}
	return &t, nil
}

func (r *tournamentRepository) Create(ctx context.Context, in *models.TournamentInput) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.api.Post(ctx, "/tournaments", in, &t); err != nil {
		return nil, errors.Wrap(err, "create tournament")
	}
	return &t, nil
}

func (r *tournamentRepository) Update(ctx context.Context, id string, in *models.TournamentInput) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.api.Put(ctx, tournamentPath(id), in, &t); err != nil {
		return nil, errors.Wrapf(err, "update tournament %s", id)
	}
	return &t, nil
}

func (r *tournamentRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.api.Delete(ctx, tournamentPath(id)), "delete tournament %s", id)
}

func (r *tournamentRepository) Results(ctx context.Context, tournamentID string) ([]models.Participation, error) {
	var results []models.Participation
	if err := r.api.Get(ctx, tournamentPath(tournamentID)+"/results", &results); err != nil {
		return nil, errors.Wrapf(err, "results of tournament %s", tournamentID)
	}
	return results, nil
}

func (r *tournamentRepository) AddParticipant(ctx context.Context, tournamentID string, in *models.ParticipationInput) (*models.Participation, error) {
	var p models.Participation
	if err := r.api.Post(ctx, tournamentPath(tournamentID)+"/participants", in, &p); err != nil {
		return nil, errors.Wrapf(err, "add participant to tournament %s", tournamentID)
	}
	return &p, nil
}

func (r *tournamentRepository) UpdateParticipant(ctx context.Context, tournamentID, participationID string, in *models.ParticipationInput) (*models.Participation, error) {
	var p models.Participation
	path := tournamentPath(tournamentID) + "/participants/" + url.PathEscape(participationID)
	if err := r.api.Put(ctx, path, in, &p); err != nil {
		return nil, errors.Wrapf(err, "update participant %s", participationID)
	}
	return &p, nil
}

func (r *tournamentRepository) DeleteParticipant(ctx context.Context, tournamentID, participationID string) error {
	path := tournamentPath(tournamentID) + "/participants/" + url.PathEscape(participationID)
	return errors.Wrapf(r.api.Delete(ctx, path), "delete participant %s", participationID)
}
