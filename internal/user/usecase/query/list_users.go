package query

import (
	"context"

	"github.com/tair/product-catalog/internal/user/domain"
)

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle returns every user; passwords never leave the domain type's JSON
func (h *ListUsersHandler) Handle(ctx context.Context) ([]domain.User, error) {
	return h.repo.FindAll(ctx)
}
