package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to the SMTP relay.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Service delivers transactional mail over SMTP.
type Service struct {
	cfg    Config
	logger zerolog.Logger
}

// New constructs an SMTP mail service. Credentials are validated lazily so
// the API can boot without a mail relay; delivery then fails per call and
// callers decide how to degrade.
func New(cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "mail").Logger(),
	}
}

// SendPasswordReset emails the reset link to the user.
func (s *Service) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWe received a request to reset your password. "+
			"Open the link below to choose a new one:\r\n\r\n%s\r\n\r\n"+
			"If you did not request this, you can ignore this email.\r\n",
		toName, resetLink,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *Service) send(ctx context.Context, to, subject, body string) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("smtp relay not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("mail delivered")
	return nil
}
