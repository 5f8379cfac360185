package user

import (
	"context"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type userRepository struct {
	api *apiclient.Client
}

func NewUserRepository(api *apiclient.Client) repository.UserRepository {
	return &userRepository{api: api}
}

func (r *userRepository) Login(ctx context.Context, username, password string) (*models.Token, error) {
	return r.api.Login(ctx, username, password)
}

func (r *userRepository) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.api.Get(ctx, "/auth/me", &user); err != nil {
		return nil, errors.Wrap(err, "get current user")
	}
	return &user, nil
}
