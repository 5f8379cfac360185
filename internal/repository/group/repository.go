package group

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type groupRepository struct {
	api *apiclient.Client
}

func NewGroupRepository(api *apiclient.Client) repository.GroupRepository {
	return &groupRepository{api: api}
}

func (r *groupRepository) GetAll(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := r.api.Get(ctx, "/groups", &groups); err != nil {
		return nil, errors.Wrap(err, "list groups")
	}
	return groups, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := r.api.Get(ctx, "/groups/"+url.PathEscape(id), &group); err != nil {
		return nil, errors.Wrapf(err, "get group %s", id)
	}
	return &group, nil
}

func (r *groupRepository) Create(ctx context.Context, in *models.GroupInput) (*models.Group, error) {
	var group models.Group
	if err := r.api.Post(ctx, "/groups", in, &group); err != nil {
		return nil, errors.Wrap(err, "create group")
	}
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, id string, in *models.GroupInput) (*models.Group, error) {
	var group models.Group
	if err := r.api.Put(ctx, "/groups/"+url.PathEscape(id), in, &group); err != nil {
		return nil, errors.Wrapf(err, "update group %s", id)
	}
	return &group, nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.api.Delete(ctx, "/groups/"+url.PathEscape(id)), "delete group %s", id)
}
