package services

import (
	"context"
	"errors"

	"meddata/internal/models"
	"meddata/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// SharedView is the read-only snapshot opened by a sharing token.
type SharedView struct {
	Profile *models.Profile       `json:"profile"`
	Records []models.Record       `json:"records"`
	Vitals  []models.VitalsRecord `json:"vitals"`
}

// ShareService mints sharing tokens and resolves them into a SharedView.
type ShareService struct {
	auth     *AuthService
	profiles repositories.ProfileRepository
	records  repositories.RecordStore
	vitals   repositories.VitalsStore
}

// NewShareService creates a new ShareService.
func NewShareService(auth *AuthService, profiles repositories.ProfileRepository, records repositories.RecordStore, vitals repositories.VitalsStore) *ShareService {
	return &ShareService{auth: auth, profiles: profiles, records: records, vitals: vitals}
}

// CreateShareToken issues a sharing-scoped token for user.
func (s *ShareService) CreateShareToken(user *models.User) (*models.TokenResponse, error) {
	token, err := s.auth.IssueToken(jwt.MapClaims{"sub": user.Email, "scope": ScopeSharing}, ShareTokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

// ResolveSharedView returns the full profile, record and vitals history of the
// token's user.
func (s *ShareService) ResolveSharedView(ctx context.Context, token string) (*SharedView, error) {
	user, err := s.auth.AuthenticateShare(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	records, err := s.records.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	vitals, err := s.vitals.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &SharedView{Profile: profile, Records: records, Vitals: vitals}, nil
}
