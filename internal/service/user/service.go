package user_service

import (
	"context"
	"strings"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) service.UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Login(ctx context.Context, username, password string) (*models.Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, service.Invalid("username", "введите логин и пароль")
	}
	return s.userRepo.Login(ctx, username, password)
}

func (s *userService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.userRepo.Me(ctx)
}
