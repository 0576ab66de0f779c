package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meddata/internal/config"
	"meddata/internal/models"
	"meddata/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	// ScopeSharing marks tokens that only open the shared view.
	ScopeSharing = "sharing"
	// DefaultTokenTTL applies when IssueToken is called without a lifetime.
	DefaultTokenTTL = 15 * time.Minute
	// ShareTokenTTL is the fixed lifetime of sharing tokens.
	ShareTokenTTL = 10 * time.Minute
	// TokenType is reported in every token response.
	TokenType = "bearer"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	refs      *ReferenceService
	events    EventPublisher
	log       *logrus.Logger
	jwtSecret []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService. cfg must already be validated.
func NewAuthService(userRepo repositories.UserRepository, refs *ReferenceService, cfg config.JWTConfig, events EventPublisher, log *logrus.Logger) *AuthService {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &AuthService{
		userRepo:  userRepo,
		refs:      refs,
		events:    events,
		log:       log,
		jwtSecret: []byte(cfg.Secret),
		method:    method,
		accessTTL: cfg.AccessTokenTTL,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for issuing and checking tokens.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches hash.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// RegisterUser hashes the password and stores the user together with its
// reference links and empty profile.
func (s *AuthService) RegisterUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := HashPassword(in.Password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, err
	}
	if err != nil {
		s.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		BirthDate:      in.BirthDate,
		IsActive:       true,
	}
	links := models.ReferenceLinks{
		AllergyIDs:        in.AllergyIDs,
		ChronicDiseaseIDs: in.ChronicDiseaseIDs,
		CustomAllergy:     trimmed(in.CustomAllergy),
		CustomDisease:     trimmed(in.CustomDisease),
	}

	if err := s.userRepo.Register(ctx, user, links); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, ErrReferenceConflict
		}
		s.log.Warnf("Failed to register user: %+v", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if links.CustomAllergy != "" || links.CustomDisease != "" {
		s.refs.Invalidate(ctx)
	}
	emit(s.log, s.events, EventUserRegistered, map[string]interface{}{"id": user.ID, "email": user.Email})
	return user, nil
}

// LoginUser checks the credentials and returns an access token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := s.IssueToken(jwt.MapClaims{"sub": user.Email}, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

// IssueToken signs claims with an expiry of now+ttl. A non-positive ttl means
// DefaultTokenTTL.
func (s *AuthService) IssueToken(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := s.now()
	all := jwt.MapClaims{}
	for k, v := range claims {
		all[k] = v
	}
	all["exp"] = now.Add(ttl).Unix()
	all["iat"] = now.Unix()
	all["jti"] = uuid.NewString()

	tokenString, err := jwt.NewWithClaims(s.method, all).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	parser := &jwt.Parser{
		ValidMethods: []string{s.method.Alg()},
		// Expiry is checked below against the service clock.
		SkipClaimsValidation: true,
	}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid token: missing exp")
	}
	if s.now().Unix() >= int64(exp) {
		return nil, fmt.Errorf("invalid token: expired")
	}
	return claims, nil
}

// AuthenticateRequest resolves the user behind a regular access token.
// Scoped tokens are rejected.
func (s *AuthService) AuthenticateRequest(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		s.log.Debugf("Token validation error: %v", err)
		return nil, ErrUnauthorized
	}
	if _, scoped := claims["scope"]; scoped {
		return nil, ErrUnauthorized
	}
	user, err := s.subjectUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// AuthenticateShare resolves the user behind a sharing token. Every failure,
// including a wrong scope, is reported as ErrInvalidShareLink.
func (s *AuthService) AuthenticateShare(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		s.log.Debugf("Share token validation error: %v", err)
		return nil, ErrInvalidShareLink
	}
	if scope, _ := claims["scope"].(string); scope != ScopeSharing {
		return nil, ErrInvalidShareLink
	}
	user, err := s.subjectUser(ctx, claims)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, ErrInvalidShareLink
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidShareLink
	}
	return user, nil
}

func (s *AuthService) subjectUser(ctx context.Context, claims jwt.MapClaims) (*models.User, error) {
	email, _ := claims["sub"].(string)
	if email == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		s.log.Warnf("Failed to load token subject: %+v", err)
		return nil, err
	}
	return user, nil
}

// GetMe returns the user with its allergies and chronic diseases.
func (s *AuthService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetWithReferences(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUnauthorized)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
