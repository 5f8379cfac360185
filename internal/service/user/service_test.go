package user_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/apitest"
	userRepo "sambo-academy-admin/internal/repository/user"
	"sambo-academy-admin/internal/service"
)

func TestLogin(t *testing.T) {
	backend := apitest.New(t)
	svc := NewUserService(userRepo.NewUserRepository(backend.Client()))
	ctx := context.Background()

	var ve *service.ValidationError
	_, err := svc.Login(ctx, "   ", "admin")
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, backend.Calls("POST", "/auth/login"))

	_, err = svc.Login(ctx, "admin", "wrong")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect username or password", apiErr.Message)

	token, err := svc.Login(ctx, " admin ", "admin")
	require.NoError(t, err)
	assert.Equal(t, backend.Token, token.AccessToken)

	user, err := svc.CurrentUser(apiclient.WithToken(ctx, token.AccessToken))
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	_, err = svc.CurrentUser(apiclient.WithToken(ctx, "stale"))
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}
