package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/internal/testutil"
	"github.com/tair/product-catalog/internal/user/domain"
	"github.com/tair/product-catalog/internal/user/repository"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/auth"
)

func newRepo(t *testing.T) domain.UserRepository {
	return repository.NewTracingUserRepository(repository.NewGormUserRepository(testutil.NewDB(t, &domain.User{})))
}

func TestRegisterAlwaysCreatesCustomers(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	h := NewRegisterUserHandler(repo)

	user, err := h.Handle(ctx, RegisterUserCommand{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCustomer, user.Role)
	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "secret1"))

	_, err = h.Handle(ctx, RegisterUserCommand{Username: "jane2", Email: "JANE@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRegisterValidation(t *testing.T) {
	_, err := NewRegisterUserHandler(newRepo(t)).Handle(context.Background(), RegisterUserCommand{
		Username: "jo",
		Email:    "not-an-email",
		Password: "123",
	})

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{
		`"username" length must be at least 3 characters long`,
		`"email" must be a valid email`,
		`"password" length must be at least 6 characters long`,
	}, appErr.Details)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	registered, err := NewRegisterUserHandler(repo).Handle(ctx, RegisterUserCommand{
		Username: "jane", Email: "jane@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	login := NewLoginUserHandler(repo, tokens)

	res, err := login.Handle(ctx, LoginUserCommand{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, res.User.ID)

	claims, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, auth.RoleCustomer, claims.Role)

	_, err = login.Handle(ctx, LoginUserCommand{Email: "jane@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = login.Handle(ctx, LoginUserCommand{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAdminCreatesOrPromotes(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	h := NewCreateAdminHandler(repo)

	admin, err := h.Handle(ctx, RegisterUserCommand{Username: "root", Email: "root@example.com", Password: "changeme"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, admin.Role)

	customer, err := NewRegisterUserHandler(repo).Handle(ctx, RegisterUserCommand{
		Username: "jane", Email: "jane@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	promoted, err := h.Handle(ctx, RegisterUserCommand{Username: "jane", Email: "jane@example.com", Password: "n3w-secret"})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, promoted.ID)
	assert.Equal(t, auth.RoleAdmin, promoted.Role)
	assert.True(t, auth.CheckPassword(promoted.Password, "n3w-secret"))

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
