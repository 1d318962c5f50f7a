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

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle registers a customer. Admins are only created with the create-admin command.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	return createUser(ctx, h.repo, cmd, auth.RoleCustomer)
}

func (cmd RegisterUserCommand) normalized() RegisterUserCommand {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.TrimSpace(cmd.Email)
	return cmd
}

func validateRegistration(cmd RegisterUserCommand) error {
	v := validate.New()
	v.Struct(cmd)
	return v.Err()
}

func createUser(ctx context.Context, repo domain.UserRepository, cmd RegisterUserCommand, role string) (*domain.User, error) {
	cmd = cmd.normalized()
	if err := validateRegistration(cmd); err != nil {
		return nil, err
	}

	existing, err := repo.FindByEmail(ctx, cmd.Email)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation(validate.FailedMessage, fmt.Sprintf("Email '%s' is already registered", cmd.Email))
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("user_id", user.ID).Str("role", role).Msg("User registered")
	return user, nil
}
