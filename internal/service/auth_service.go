package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("a user with this username already exists")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("a user with this email already exists")
)

// Landing pages selected after login based on the resolved role.
const (
	redirectAdminDashboard = "/admin-dashboard/"
	redirectUserDashboard  = "/user-dashboard/"
)

const bcryptCost = 12

// AuthService handles registration and session establishment.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		secret:    secret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// Register creates the identity and, for non-superusers, its role profile as
// an explicit follow-up step so the causality stays visible in one place.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, err := s.users.UsernameExists(ctx, username); err != nil {
		return dto.UserResponse{}, err
	} else if taken {
		return dto.UserResponse{}, ErrUsernameTaken
	}
	if taken, err := s.users.EmailExists(ctx, email); err != nil {
		return dto.UserResponse{}, err
	} else if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if !user.IsSuperuser {
		profile := models.UserProfile{UserID: user.ID, Role: models.ProfileRoleUser}
		if err := s.users.CreateProfile(ctx, &profile); err != nil {
			return dto.UserResponse{}, err
		}
		user.Profile = &profile
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	role := models.ResolveRole(&user)
	token, err := IssueSessionToken(s.secret, s.tokenTTL, user.ID, role)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(role)).Msg("user logged in")
	return dto.LoginResponse{
		Token:    token,
		Redirect: redirectForRole(role),
		User:     dto.NewUserResponse(user),
	}, nil
}

func redirectForRole(role models.Role) string {
	switch role {
	case models.RoleSuperuser, models.RoleAdmin:
		return redirectAdminDashboard
	default:
		return redirectUserDashboard
	}
}

// SessionClaims is the JWT payload carried by session tokens.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session JWT for the given user and role.
func IssueSessionToken(secret string, ttl time.Duration, userID uint, role models.Role) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   jwtSubject(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
