package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	notificationapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/notification"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/identity"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// TokenIssuer mints access tokens for authenticated users
type TokenIssuer interface {
	IssueToken(user *identity.User) (token string, expiresAt time.Time, err error)
}

// ResetTokens issues and checks the short-lived password reset tokens
type ResetTokens interface {
	IssueResetToken(user *identity.User) (string, error)
	ValidateResetToken(token string) (uuid.UUID, error)
}

// AuthService handles account registration, login, profile management and
// password resets
type AuthService struct {
	userRepo       identity.UserRepository
	tokenIssuer    TokenIssuer
	resetTokens    ResetTokens
	mailer         notificationapp.Mailer
	resetURLBase   string
	eventPublisher shared.EventPublisher
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, tokenIssuer TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPasswordReset wires the reset token source, the mailer that delivers
// reset links and the frontend base URL the links point at
func (s *AuthService) SetPasswordReset(tokens ResetTokens, mailer notificationapp.Mailer, resetURLBase string) {
	s.resetTokens = tokens
	s.mailer = mailer
	s.resetURLBase = strings.TrimRight(resetURLBase, "/")
}

// Register creates a new customer account and issues a token
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(req.Name, email, req.Phone, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range user.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
		user.ClearDomainEvents()
	}

	return s.issueFor(user)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	return s.issueFor(user)
}

// Profile returns the authenticated user's account
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateProfile replaces the authenticated user's contact details. An
// email change is checked against existing accounts first.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing.ID != userID {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	if err := user.UpdateProfile(req.Name, email, req.Phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ForgotPassword emails a time-limited reset link to the account holder
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if s.resetTokens == nil || s.mailer == nil {
		return shared.NewDomainError("RESET_UNAVAILABLE", "Password reset is not available")
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("USER_NOT_FOUND", "User not found with this email")
		}
		return err
	}

	token, err := s.resetTokens.IssueResetToken(user)
	if err != nil {
		return err
	}

	resetURL := s.resetURLBase + "/reset-password/" + token
	return s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL)
}

// ResetPassword sets a new password from a reset token and logs the user
// straight in
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*AuthResponse, error) {
	if s.resetTokens == nil {
		return nil, shared.NewDomainError("RESET_UNAVAILABLE", "Password reset is not available")
	}

	userID, err := s.resetTokens.ValidateResetToken(req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("RESET_TOKEN_EXPIRED", "Password reset link has expired")
		}
		return nil, shared.NewDomainError("INVALID_RESET_TOKEN", "Invalid password reset token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_RESET_TOKEN", "Invalid password reset token")
		}
		return nil, err
	}

	if err := user.ChangePassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.issueFor(user)
}

// ListUsers retrieves users for the admin view
func (s *AuthService) ListUsers(ctx context.Context, filter ListUsersFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *AuthService) issueFor(user *identity.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokenIssuer.IssueToken(user)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_ISSUE_FAILED", "Failed to issue access token")
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}
