package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	pkgAuth "github.com/angelmondragon/menuflow-backend/pkg/auth"
	"github.com/angelmondragon/menuflow-backend/pkg/auth/session"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "menuflow",
	ExpirationMinutes: 30,
	RefreshTokenDays:  14,
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	t.Parallel()

	restaurantID := uuid.New()
	user := newUser(t, "owner@example.com", "correct-horse", enums.UserRoleOwner, &restaurantID)
	repo := &stubUserRepo{users: []*models.User{user}}
	sessions := &stubSessionManager{}
	svc := mustService(t, repo, sessions, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  OWNER@example.com ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleOwner {
		t.Fatalf("expected owner role claim, got %s", claims.Role)
	}
	if claims.RestaurantID == nil || *claims.RestaurantID != restaurantID {
		t.Fatalf("expected restaurant claim %s, got %v", restaurantID, claims.RestaurantID)
	}
	if resp.RefreshToken != "refresh-1" {
		t.Fatalf("expected refresh token from session manager, got %q", resp.RefreshToken)
	}
	if sessions.generated[claims.ID] != user.ID {
		t.Fatalf("expected session bound to jti %s", claims.ID)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("unexpected user payload %+v", resp.User)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	user := newUser(t, "owner@example.com", "correct-horse", enums.UserRoleOwner, nil)
	svc := mustService(t, &stubUserRepo{users: []*models.User{user}}, nil, nil)

	cases := []LoginRequest{
		{Email: "owner@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "correct-horse"},
		{Email: "   ", Password: "correct-horse"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		requireCode(t, err, pkgerrors.CodeUnauthorized)
	}
}

func TestServiceLoginWithoutSessions(t *testing.T) {
	t.Parallel()

	user := newUser(t, "root@example.com", "correct-horse", enums.UserRoleSuperadmin, nil)
	svc := mustService(t, &stubUserRepo{users: []*models.User{user}}, nil, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken != "" {
		t.Fatalf("expected no refresh token, got %q", resp.RefreshToken)
	}

	_, err = svc.Refresh(context.Background(), resp.AccessToken, "anything")
	requireCode(t, err, pkgerrors.CodeUnauthorized)
	if err := svc.Logout(context.Background(), "jti"); err != nil {
		t.Fatalf("logout without sessions: %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	user := newUser(t, "staff@example.com", "correct-horse", enums.UserRoleStaff, nil)
	repo := &stubUserRepo{users: []*models.User{user}}
	sessions := &stubSessionManager{}
	svc := mustService(t, repo, sessions, nil)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// the user was attached to a restaurant after the first login
	restaurantID := uuid.New()
	user.RestaurantID = &restaurantID

	refreshed, err := svc.Refresh(context.Background(), login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.RestaurantID == nil || *claims.RestaurantID != restaurantID {
		t.Fatalf("expected refreshed claims to pick up restaurant")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("expected a new refresh token")
	}

	_, err = svc.Refresh(context.Background(), login.AccessToken, login.RefreshToken)
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Refresh(context.Background(), "not-a-jwt", refreshed.RefreshToken)
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.generated[claims.ID]; ok {
		t.Fatalf("expected session to be revoked")
	}
}

func TestServiceRegisterOwner(t *testing.T) {
	t.Parallel()

	repo := &stubUserRepo{}
	provisioner := &stubProvisioner{repo: repo}
	svc := mustService(t, repo, &stubSessionManager{}, provisioner)

	resp, err := svc.RegisterOwner(context.Background(), RegisterOwnerRequest{
		Email:          "new@example.com",
		Password:       "correct-horse",
		RestaurantName: "Bistro",
		Slug:           "bistro",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != enums.UserRoleOwner || resp.User.RestaurantID == nil {
		t.Fatalf("expected owner with restaurant, got %+v", resp.User)
	}

	provisioner.err = pkgerrors.New(pkgerrors.CodeConflict, "email or slug already exists")
	_, err = svc.RegisterOwner(context.Background(), RegisterOwnerRequest{Email: "new@example.com", Password: "correct-horse", RestaurantName: "Bistro", Slug: "bistro"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestServiceMe(t *testing.T) {
	t.Parallel()

	user := newUser(t, "owner@example.com", "correct-horse", enums.UserRoleOwner, nil)
	svc := mustService(t, &stubUserRepo{users: []*models.User{user}}, nil, nil)

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if dto.ID != user.ID {
		t.Fatalf("unexpected user %s", dto.ID)
	}

	_, err = svc.Me(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func mustService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager, provisioner *stubProvisioner) Service {
	t.Helper()
	params := ServiceParams{
		UserRepo:    repo,
		Provisioner: provisioner,
		JWTConfig:   testJWTConfig,
	}
	if provisioner == nil {
		params.Provisioner = &stubProvisioner{repo: repo}
	}
	if sessions != nil {
		params.SessionManager = sessions
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func newUser(t *testing.T, email, password string, role enums.UserRole, restaurantID *uuid.UUID) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: mustHashPassword(t, password),
		Role:         role,
		RestaurantID: restaurantID,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

type stubUserRepo struct {
	users []*models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	for _, user := range s.users {
		if user.ID == id {
			user.LastLoginAt = &at
		}
	}
	return nil
}

type stubSessionManager struct {
	counter   int
	generated map[string]uuid.UUID
	tokens    map[string]string
}

func (s *stubSessionManager) Generate(ctx context.Context, userID uuid.UUID, accessID string) (string, error) {
	if s.generated == nil {
		s.generated = map[string]uuid.UUID{}
		s.tokens = map[string]string{}
	}
	s.counter++
	token := fmt.Sprintf("refresh-%d", s.counter)
	s.generated[accessID] = userID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, userID uuid.UUID, oldAccessID, provided string) (string, string, error) {
	owner, ok := s.generated[oldAccessID]
	if !ok || owner != userID || s.tokens[oldAccessID] != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	delete(s.tokens, oldAccessID)
	newID := session.NewAccessID()
	token, err := s.Generate(ctx, userID, newID)
	return newID, token, err
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.generated, accessID)
	delete(s.tokens, accessID)
	return nil
}

type stubProvisioner struct {
	repo *stubUserRepo
	err  error
}

func (s *stubProvisioner) CreateWithOwner(ctx context.Context, input restaurants.CreateWithOwnerInput) (*restaurants.CreateWithOwnerResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.repo == nil {
		return nil, errors.New("no repo")
	}
	restaurantID := uuid.New()
	owner := &models.User{
		ID:           uuid.New(),
		Email:        users.NormalizeEmail(input.Email),
		Role:         enums.UserRoleOwner,
		RestaurantID: &restaurantID,
	}
	s.repo.users = append(s.repo.users, owner)
	return &restaurants.CreateWithOwnerResult{
		Restaurant: restaurants.Summary{ID: restaurantID, Name: input.RestaurantName, Slug: input.Slug},
		Owner:      *users.FromModel(owner),
	}, nil
}
