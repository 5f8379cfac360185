package settings_service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambo-academy-admin/internal/apitest"
	"sambo-academy-admin/internal/models"
	settingsRepo "sambo-academy-admin/internal/repository/settings"
	"sambo-academy-admin/internal/service"
)

func TestUpdatePrices(t *testing.T) {
	backend := apitest.New(t)
	svc := NewSettingsService(settingsRepo.NewSettingsRepository(backend.Client()))
	ctx := backend.Context()

	prices, err := svc.GetPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPrices, *prices)

	next := models.Prices{Subscription8Senior: 4500, Subscription8Junior: 4000, Subscription12Senior: 5200, Subscription12Junior: 4600}

	_, err = svc.UpdatePrices(ctx, &models.User{IsAdmin: false}, &next)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, models.DefaultPrices, backend.Prices())

	_, err = svc.UpdatePrices(ctx, &models.User{IsAdmin: true}, &models.Prices{Subscription8Senior: -1})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)

	updated, err := svc.UpdatePrices(ctx, &models.User{IsAdmin: true}, &next)
	require.NoError(t, err)
	assert.Equal(t, next, *updated)
	assert.Equal(t, next, backend.Prices())
}
