package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	pkgAuth "github.com/angelmondragon/menuflow-backend/pkg/auth"
	"github.com/angelmondragon/menuflow-backend/pkg/auth/session"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, userID uuid.UUID, accessID string) (string, error)
	Rotate(ctx context.Context, userID uuid.UUID, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type ownerProvisioner interface {
	CreateWithOwner(ctx context.Context, input restaurants.CreateWithOwnerInput) (*restaurants.CreateWithOwnerResult, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
// SessionManager may be nil, in which case no refresh tokens are issued.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	Provisioner    ownerProvisioner
	JWTConfig      config.JWTConfig
	Clock          func() time.Time
}

type service struct {
	users       userRepository
	session     sessionManager
	provisioner ownerProvisioner
	jwtCfg      config.JWTConfig
	clock       func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Provisioner == nil {
		return nil, fmt.Errorf("owner provisioner is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		provisioner: params.Provisioner,
		jwtCfg:      params.JWTConfig,
		clock:       clock,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// RegisterOwner provisions a restaurant with a trial and signs its owner in.
func (s *service) RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*LoginResponse, error) {
	result, err := s.provisioner.CreateWithOwner(ctx, restaurants.CreateWithOwnerInput{
		Email:          req.Email,
		Password:       req.Password,
		RestaurantName: req.RestaurantName,
		Slug:           req.Slug,
	})
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, result.Owner.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load owner")
	}
	return s.issue(ctx, user)
}

// Refresh rotates the refresh session bound to the (possibly expired) access
// token and re-reads the user so role or restaurant changes take effect.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResponse, error) {
	if s.session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh sessions are disabled")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.UserID, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		_ = s.session.Revoke(ctx, newAccessID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	now := s.clock().UTC()
	signed, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payloadFor(user, newAccessID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResponse{
		AccessToken:  signed,
		RefreshToken: newRefreshToken,
		ExpiresAt:    now.Add(s.jwtCfg.TTL()),
		User:         users.FromModel(user),
	}, nil
}

// Logout drops the refresh session. The access token stays valid until it
// expires unless the session check middleware is enabled.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if s.session == nil {
		return nil
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) issue(ctx context.Context, user *models.User) (*LoginResponse, error) {
	now := s.clock().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payloadFor(user, accessID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	resp := &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.jwtCfg.TTL()),
		User:        users.FromModel(user),
	}
	if s.session != nil {
		refreshToken, err := s.session.Generate(ctx, user.ID, accessID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
		}
		resp.RefreshToken = refreshToken
	}
	return resp, nil
}

func payloadFor(user *models.User, accessID string) pkgAuth.AccessTokenPayload {
	return pkgAuth.AccessTokenPayload{
		UserID:       user.ID,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
		JTI:          accessID,
	}
}
