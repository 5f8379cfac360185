package settings

import (
	"context"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type settingsRepository struct {
	api *apiclient.Client
}

func NewSettingsRepository(api *apiclient.Client) repository.SettingsRepository {
	return &settingsRepository{api: api}
}

func (r *settingsRepository) GetPrices(ctx context.Context) (*models.Prices, error) {
	var prices models.Prices
	if err := r.api.Get(ctx, "/settings/prices", &prices); err != nil {
		return nil, errors.Wrap(err, "get prices")
	}
	return &prices, nil
}

func (r *settingsRepository) UpdatePrices(ctx context.Context, prices *models.Prices) (*models.Prices, error) {
	var updated models.Prices
	if err := r.api.Put(ctx, "/settings/prices/update", prices, &updated); err != nil {
		return nil, errors.Wrap(err, "update prices")
	}
	return &updated, nil
}
