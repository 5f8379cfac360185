package settings_service

import (
	"context"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) service.SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetPrices(ctx context.Context) (*models.Prices, error) {
	return s.settingsRepo.GetPrices(ctx)
}

// UpdatePrices is for administrators only.
func (s *settingsService) UpdatePrices(ctx context.Context, user *models.User, prices *models.Prices) (*models.Prices, error) {
	if user == nil || !user.IsAdmin {
		return nil, service.ErrForbidden
	}
	if err := service.Validate(prices); err != nil {
		return nil, err
	}
	return s.settingsRepo.UpdatePrices(ctx, prices)
}
