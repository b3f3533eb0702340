package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sitesmith/sitesmith-api/internal/domain/user"
	"github.com/sitesmith/sitesmith-api/internal/pkg/jwt"
	"github.com/sitesmith/sitesmith-api/internal/pkg/password"
)

// signupCredits is the free balance granted to a new account, enough
// for two generations.
const signupCredits = 10

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, redis *redis.Client) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redis,
	}
}

// Register creates new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:            uuid.New(),
		Email:         req.Email,
		PasswordHash:  hash,
		CreditBalance: signupCredits,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token into a fresh token pair. With Redis
// configured the token must still be registered there; signature and
// expiry are checked either way.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if !s.isRefreshTokenActive(ctx, claims.ID, claims.UserID) {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// Token rotation: the presented token is retired before new ones
	// are issued.
	s.revokeRefreshToken(ctx, claims.ID)

	return s.generateTokens(ctx, u)
}

// Logout invalidates the presented refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	s.revokeRefreshToken(ctx, claims.ID)
	return nil
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	resp := newUserResponse(u)
	return &resp, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, tokenID, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	s.storeRefreshToken(ctx, tokenID, u.ID)

	return &AuthResponse{
		User: newUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers. All are nil-tolerant: without Redis, refresh tokens
// are accepted on signature and expiry alone and rotation is a no-op.

func (s *Service) storeRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	err := s.redis.Set(ctx, "refresh:"+tokenID, userID.String(), s.jwtService.GetRefreshTTL()).Err()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to store refresh token")
	}
}

func (s *Service) isRefreshTokenActive(ctx context.Context, tokenID string, userID uuid.UUID) bool {
	if s.redis == nil {
		return true
	}
	val, err := s.redis.Get(ctx, "refresh:"+tokenID).Result()
	if err != nil {
		return false
	}
	return val == userID.String()
}

func (s *Service) revokeRefreshToken(ctx context.Context, tokenID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, "refresh:"+tokenID).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to revoke refresh token")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		CreditBalance:  u.CreditBalance,
		TotalCreations: u.TotalCreations,
		CreatedAt:      u.CreatedAt,
	}
}
