package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/product-catalog/internal/user/domain"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/validate"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Generate(userID uint, email, role string) (string, error)
}

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// ErrInvalidCredentials hides whether the email or the password was wrong
var ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens TokenIssuer) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	cmd.Email = strings.TrimSpace(cmd.Email)

	v := validate.New()
	v.Struct(cmd)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := h.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		logger.Warn(ctx).Uint("user_id", user.ID).Msg("Login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := h.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info(ctx).Uint("user_id", user.ID).Msg("User logged in")
	return &LoginResponse{Token: token, User: user}, nil
}
