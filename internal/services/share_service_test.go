package services_test

import (
	"context"
	"testing"
	"time"

	"meddata/internal/models"
	"meddata/internal/repositories"
	"meddata/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareService_ResolveSharedView(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	records := new(MockOwnedStore[models.Record])
	vitals := new(MockOwnedStore[models.VitalsRecord])
	share := services.NewShareService(f.service, profiles, records, vitals)

	f.repo.On("GetByEmail", ctx, f.activeUsr.Email).Return(f.activeUsr, nil)
	weight := 70.0
	profiles.On("GetByUserID", ctx, f.activeUsr.ID).Return(&models.Profile{UserID: 7, Weight: &weight}, nil)
	records.On("ListByOwner", ctx, f.activeUsr.ID).Return([]models.Record{{ID: 1}, {ID: 2}}, nil)
	vitals.On("ListByOwner", ctx, f.activeUsr.ID).Return([]models.VitalsRecord{{ID: 3}}, nil)

	resp, err := share.CreateShareToken(f.activeUsr)
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := f.service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, services.ScopeSharing, claims["scope"])
	assert.Equal(t, float64(f.clock.Add(10*time.Minute).Unix()), claims["exp"])

	view, err := share.ResolveSharedView(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 70.0, *view.Profile.Weight)
	assert.Len(t, view.Records, 2)
	assert.Len(t, view.Vitals, 1)

	f.clock = f.clock.Add(10 * time.Minute)
	_, err = share.ResolveSharedView(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidShareLink)
}

func TestShareService_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	share := services.NewShareService(f.service, new(MockProfileRepository), new(MockOwnedStore[models.Record]), new(MockOwnedStore[models.VitalsRecord]))
	f.repo.On("GetByEmail", ctx, f.activeUsr.Email).Return(f.activeUsr, nil)

	access, err := f.service.LoginUser(ctx, f.activeUsr.Email, "password123")
	require.NoError(t, err)
	_, err = share.ResolveSharedView(ctx, access.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidShareLink)
}

func TestShareService_MissingProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	share := services.NewShareService(f.service, profiles, new(MockOwnedStore[models.Record]), new(MockOwnedStore[models.VitalsRecord]))
	f.repo.On("GetByEmail", ctx, f.activeUsr.Email).Return(f.activeUsr, nil)
	profiles.On("GetByUserID", ctx, f.activeUsr.ID).Return(nil, repositories.ErrNotFound)

	resp, err := share.CreateShareToken(f.activeUsr)
	require.NoError(t, err)
	_, err = share.ResolveSharedView(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, services.ErrProfileNotFound)
}
