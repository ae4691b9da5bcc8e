package auth

import (
	"context"
	"strings"
	"time"

	"wealthdesk-backend/internal/application/emails"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"
	"wealthdesk-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	AdvisorID string `json:"advisor_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Service registers and authenticates advisors.
type Service struct {
	Advisors domain.AdvisorRepository
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
	// Mailer is optional; a failed welcome email never fails registration.
	Mailer emails.Sender
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Advisor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	fe := validation.FieldErrors{}
	fe.Check(validation.IsValidFullname(in.Name), "name", "Name may only contain letters, spaces, hyphens and apostrophes")
	fe.Check(validation.IsValidEmail(in.Email), "email", "Invalid email format")
	fe.Check(validation.IsValidPassword(in.Password), "password",
		"Password must be at least 8 characters and include a letter, a digit and a special character")
	if err := fe.Err(); err != nil {
		return nil, err
	}

	taken, err := s.Advisors.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	a := &domain.Advisor{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.Advisors.Save(ctx, a); err != nil {
		return nil, err
	}
	log.Info().Str("advisor_id", a.AdvisorID.String()).Msg("advisor registered")
	if s.Mailer != nil {
		if err := s.Mailer.SendWelcome(ctx, a.Email, a.Name); err != nil {
			log.Warn().Err(err).Str("advisor_id", a.AdvisorID.String()).Msg("welcome email failed")
		}
	}
	return a, nil
}

// Login finds the advisor by email, verifies the password and stamps the
// login time.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.Advisor, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	a, err := s.Advisors.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if a.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	if !a.Active {
		return nil, ErrInactiveAdvisor
	}

	now := s.now()
	a.LastLoginAt = &now
	if err := s.Advisors.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	id := str(m["advisor_id"])
	if id == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		AdvisorID: id,
		Name:      str(m["name"]),
		Email:     str(m["email"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
