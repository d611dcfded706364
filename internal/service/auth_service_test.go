package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

func TestAuthServiceRegisterCreatesProfile(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewAuthService(users, testValidator(), "secret", time.Hour, testLogger())

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, string(models.RoleUser), user.Role)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	require.Equal(t, models.ProfileRoleUser, profile.Role)
}

func TestAuthServiceRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewAuthService(users, testValidator(), "secret", time.Hour, testLogger())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Username: "bob", Email: "alice@example.com", Password: "password123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceLoginRedirectByRole(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewAuthService(users, testValidator(), "secret", time.Hour, testLogger())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "regular", Email: "regular@example.com", Password: "password123",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), dto.LoginRequest{Username: "regular", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "/user-dashboard/", result.Redirect)

	adminResp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "staff", Email: "staff@example.com", Password: "password123",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", adminResp.ID).
		Update("role", models.ProfileRoleAdmin).Error)

	result, err = svc.Login(context.Background(), dto.LoginRequest{Username: "staff", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "/admin-dashboard/", result.Redirect)
	require.Equal(t, string(models.RoleAdmin), result.User.Role)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewAuthService(users, testValidator(), "secret", time.Hour, testLogger())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
