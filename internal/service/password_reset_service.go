package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/observability"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

var (
	// ErrNoUserForEmail indicates the reset request named an unknown email.
	ErrNoUserForEmail = errors.New("no user found with this email address")
	// ErrResetTokenInvalid indicates the reset link failed verification.
	ErrResetTokenInvalid = errors.New("the password reset link is invalid or has expired")
)

const resetTokenPurpose = "password_reset"

// Mailer delivers outbound mail. Implementations may degrade to logging.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error
}

// PasswordResetService drives the requested → token-issued → verified →
// changed flow.
type PasswordResetService interface {
	RequestReset(ctx context.Context, req dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, uid, token string, req dto.ResetPasswordRequest) (dto.ResetPasswordResponse, error)
}

type passwordResetService struct {
	users         repository.UserRepository
	mailer        Mailer
	validator     *validator.Validate
	secret        string
	resetTokenTTL time.Duration
	sessionTTL    time.Duration
	baseURL       string
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewPasswordResetService constructs the password reset service.
func NewPasswordResetService(
	users repository.UserRepository,
	mailer Mailer,
	validate *validator.Validate,
	secret string,
	resetTokenTTL, sessionTTL time.Duration,
	baseURL string,
	logger zerolog.Logger,
) PasswordResetService {
	return &passwordResetService{
		users:         users,
		mailer:        mailer,
		validator:     validate,
		secret:        secret,
		resetTokenTTL: resetTokenTTL,
		sessionTTL:    sessionTTL,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        logger.With().Str("component", "password_reset_service").Logger(),
		tracer:        otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/passwordreset"),
		now:           time.Now,
	}
}

type resetClaims struct {
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fpt"`
	jwt.RegisteredClaims
}

// RequestReset issues a time-bound single-use token and mails the reset
// link. When mail delivery fails the link is surfaced to the caller instead
// of being dropped.
func (s *passwordResetService) RequestReset(ctx context.Context, req dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "password_reset.request")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ForgotPasswordResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "unknown email")
			observability.PasswordResets().WithLabelValues("unknown_email").Inc()
			return dto.ForgotPasswordResponse{}, ErrNoUserForEmail
		}
		return dto.ForgotPasswordResponse{}, err
	}

	token, err := s.issueResetToken(user)
	if err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	uid := encodeUID(user.ID)
	resetLink := fmt.Sprintf("%s/reset-password/%s/%s/", s.baseURL, uid, token)
	span.SetAttributes(attribute.String("password_reset.uid", uid))

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, resetLink); err != nil {
		// Mail channel failure degrades to surfacing the link; the request
		// itself still succeeds.
		s.logger.Warn().Err(err).Str("email", user.Email).Str("reset_link", resetLink).
			Msg("reset email delivery failed, surfacing link to caller")
		span.RecordError(err)
		observability.PasswordResets().WithLabelValues("mail_failed").Inc()
		return dto.ForgotPasswordResponse{
			Message:   "Password reset link could not be emailed. Use the link below.",
			ResetLink: resetLink,
		}, nil
	}

	observability.PasswordResets().WithLabelValues("sent").Inc()
	return dto.ForgotPasswordResponse{Message: "Password reset link has been sent to your email."}, nil
}

// ResetPassword verifies the uid/token pair and applies the new password.
// The returned session token keeps the caller signed in.
func (s *passwordResetService) ResetPassword(ctx context.Context, uid, token string, req dto.ResetPasswordRequest) (dto.ResetPasswordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "password_reset.apply")
	defer span.End()

	userID, err := decodeUID(uid)
	if err != nil {
		span.SetStatus(codes.Error, "bad uid")
		observability.PasswordResets().WithLabelValues("invalid_token").Inc()
		return dto.ResetPasswordResponse{}, ErrResetTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.PasswordResets().WithLabelValues("invalid_token").Inc()
			return dto.ResetPasswordResponse{}, ErrResetTokenInvalid
		}
		return dto.ResetPasswordResponse{}, err
	}

	if !s.verifyResetToken(user, token) {
		span.SetStatus(codes.Error, "token rejected")
		observability.PasswordResets().WithLabelValues("invalid_token").Inc()
		return dto.ResetPasswordResponse{}, ErrResetTokenInvalid
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ResetPasswordResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return dto.ResetPasswordResponse{}, err
	}
	user.PasswordHash = string(hash)
	if err := s.users.Save(ctx, &user); err != nil {
		return dto.ResetPasswordResponse{}, err
	}

	sessionToken, err := IssueSessionToken(s.secret, s.sessionTTL, user.ID, models.ResolveRole(&user))
	if err != nil {
		return dto.ResetPasswordResponse{}, err
	}

	observability.PasswordResets().WithLabelValues("changed").Inc()
	s.logger.Info().Uint("user_id", user.ID).Msg("password reset completed")
	return dto.ResetPasswordResponse{
		Message: "Your password has been reset successfully.",
		Token:   sessionToken,
	}, nil
}

// issueResetToken binds the token to the current password hash so that it
// becomes unusable the moment the password changes.
func (s *passwordResetService) issueResetToken(user models.User) (string, error) {
	now := s.now()
	claims := resetClaims{
		Purpose:     resetTokenPurpose,
		Fingerprint: passwordFingerprint(user.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   jwtSubject(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *passwordResetService) verifyResetToken(user models.User, tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &resetClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(*resetClaims)
	if !ok {
		return false
	}
	if claims.Purpose != resetTokenPurpose {
		return false
	}
	if claims.Subject != jwtSubject(user.ID) {
		return false
	}
	return claims.Fingerprint == passwordFingerprint(user.PasswordHash)
}

func passwordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:])[:16]
}

func encodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func decodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
