package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/internal/testutil"
	"github.com/tair/product-catalog/pkg/apperror"
)

func newRepo(t *testing.T) domain.CategoryRepository {
	db := testutil.NewDB(t, &domain.Category{})
	return NewTracingCategoryRepository(NewGormCategoryRepository(db))
}

func TestFindByNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Create(ctx, &domain.Category{Name: "Shoes"}))

	found, err := repo.FindByName(ctx, "sHoEs")
	require.NoError(t, err)
	assert.Equal(t, "Shoes", found.Name)

	_, err = repo.FindByName(ctx, "Shoe")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	c := &domain.Category{Name: "Hats"}
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	desc := "Things for heads"
	c.Description = &desc
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrCategoryNotFound)

	_, err = repo.FindByID(ctx, c.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestFindAllEmptyIsNotNil(t *testing.T) {
	all, err := newRepo(t).FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
