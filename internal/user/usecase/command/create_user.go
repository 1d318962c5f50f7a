package command

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/user/domain"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
)

// CreateAdminHandler bootstraps administrator accounts from the command line
type CreateAdminHandler struct {
	repo domain.UserRepository
}

// NewCreateAdminHandler creates a new create admin handler
func NewCreateAdminHandler(repo domain.UserRepository) *CreateAdminHandler {
	return &CreateAdminHandler{repo: repo}
}

// Handle creates an admin. An existing account with the same email is promoted
// and its password replaced instead.
func (h *CreateAdminHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	cmd = cmd.normalized()
	existing, err := h.repo.FindByEmail(ctx, cmd.Email)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	if existing == nil {
		return createUser(ctx, h.repo, cmd, auth.RoleAdmin)
	}

	if err := validateRegistration(cmd); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	existing.Username = cmd.Username
	existing.Password = hashedPassword
	existing.Role = auth.RoleAdmin

	if err := h.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("user_id", existing.ID).Msg("User promoted to admin")
	return existing, nil
}
