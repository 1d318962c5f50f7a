package command

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorydomain "github.com/tair/product-catalog/internal/category/domain"
	categoryrepo "github.com/tair/product-catalog/internal/category/repository"
	categorycommand "github.com/tair/product-catalog/internal/category/usecase/command"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/repository"
	"github.com/tair/product-catalog/internal/testutil"
	"github.com/tair/product-catalog/pkg/apperror"
)

type harness struct {
	products   domain.ProductRepository
	categories categorydomain.CategoryRepository
	upsert     *UpsertProductHandler
	update     *UpdateProductHandler
	delete     *DeleteProductHandler
}

func newHarness(t *testing.T) *harness {
	db := testutil.NewDB(t, &categorydomain.Category{}, &domain.Product{}, &domain.Variant{})
	products := repository.NewGormProductRepository(db)
	categories := categoryrepo.NewGormCategoryRepository(db)
	resolver := categorycommand.NewResolveCategoryHandler(categories)

	return &harness{
		products:   products,
		categories: categories,
		upsert:     NewUpsertProductHandler(products, resolver),
		update:     NewUpdateProductHandler(products, resolver),
		delete:     NewDeleteProductHandler(products),
	}
}

func decode(t *testing.T, body string) ProductInput {
	t.Helper()
	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func details(t *testing.T, err error) []string {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	return appErr.Details
}

func TestUpsertCreatesProductAndCategory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.upsert.Handle(ctx, decode(t, `{
		"name": " Classic Tee ",
		"category": "Shirts",
		"price": 20,
		"discountPercentage": 25,
		"stock": 100,
		"variants": [{"size": "M", "color": "red", "quantity": 3}, {"size": "L", "color": "red", "quantity": 2}]
	}`))
	require.NoError(t, err)
	assert.True(t, res.Created)

	p := res.Product
	assert.Equal(t, "Classic Tee", p.Name)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.IsOnSale)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, 15.0, *p.SalePrice)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Shirts", p.Category.Name)

	category, err := h.categories.FindByName(ctx, "shirts")
	require.NoError(t, err)
	assert.Equal(t, category.ID, p.CategoryID)
}

func TestUpsertMergesIntoMatchingProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.upsert.Handle(ctx, decode(t, `{
		"name": "Classic Tee", "category": "Shirts", "price": 20,
		"variants": [{"size": "M", "color": "red", "quantity": 3}]
	}`))
	require.NoError(t, err)

	second, err := h.upsert.Handle(ctx, decode(t, `{
		"name": "CLASSIC TEE", "category": "shirts", "price": 99, "stock": 50,
		"variants": [{"size": "M", "color": "red", "quantity": 2}, {"size": "S", "color": "red", "quantity": 4}]
	}`))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Product.ID, second.Product.ID)

	p := second.Product
	assert.Equal(t, 20.0, p.Price, "non-inventory fields are not merged")
	assert.Equal(t, 9, p.Stock)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, 5, p.Variants[0].Quantity)
	assert.Equal(t, "S", p.Variants[1].Size)

	count, err := h.products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertWithoutVariantsAlwaysCreates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	body := `{"name": "Gift Card", "category": "Misc", "price": 25, "stock": 10}`
	first, err := h.upsert.Handle(ctx, decode(t, body))
	require.NoError(t, err)
	second, err := h.upsert.Handle(ctx, decode(t, body))
	require.NoError(t, err)

	assert.True(t, second.Created)
	assert.NotEqual(t, first.Product.ID, second.Product.ID)
	assert.Equal(t, 10, second.Product.Stock)
}

func TestUpsertValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.upsert.Handle(context.Background(), decode(t, `{
		"price": 1.005,
		"discountPercentage": 120,
		"stock": -2,
		"image": "not a uri",
		"variants": [{"size": "", "color": "red", "quantity": -1}]
	}`))

	assert.Equal(t, []string{
		`"name" is required`,
		`"category" is required`,
		`"price" must have no more than 2 decimal places`,
		`"discountPercentage" must be less than or equal to 100`,
		`"stock" must be greater than or equal to 0`,
		`"image" must be a valid uri`,
		`"variants[0].size" is not allowed to be empty`,
		`"variants[0].quantity" must be greater than or equal to 0`,
	}, details(t, err))

	count, err := h.products.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpsertValidatesSalePriceAndCategoryName(t *testing.T) {
	h := newHarness(t)

	_, err := h.upsert.Handle(context.Background(), decode(t, `{
		"name": "Mug",
		"category": "",
		"price": 10,
		"salePrice": 0
	}`))
	assert.Equal(t, []string{
		`"category" is not allowed to be empty`,
		`"salePrice" must be a positive number`,
	}, details(t, err))

	_, err = h.upsert.Handle(context.Background(), decode(t, `{
		"name": "Mug",
		"category": "Kitchen",
		"price": 10,
		"salePrice": null,
		"discountPercentage": 12.345
	}`))
	assert.Equal(t, []string{`"discountPercentage" must have no more than 2 decimal places`}, details(t, err))
}

func TestUpdateMergesInventoryAndOverwritesFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.upsert.Handle(ctx, decode(t, `{
		"name": "Tee", "category": "Shirts", "price": 20,
		"variants": [{"size": "M", "color": "red", "quantity": 3}]
	}`))
	require.NoError(t, err)

	updated, err := h.update.Handle(ctx, UpdateProductCommand{
		ID: created.Product.ID,
		Patch: decode(t, `{
			"name": "Better Tee", "category": "Tops", "price": 40, "salePrice": 30,
			"variants": [{"size": "M", "color": "red", "quantity": 1}, {"size": "XL", "color": "black", "quantity": 6}]
		}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Better Tee", updated.Name)
	assert.Equal(t, 40.0, updated.Price)
	assert.True(t, updated.IsOnSale)
	assert.Equal(t, 25.0, updated.DiscountPercentage)
	assert.Equal(t, 10, updated.Stock)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "Tops", updated.Category.Name)
	require.Len(t, updated.Variants, 2)
	assert.Equal(t, 4, updated.Variants[0].Quantity)
}

func TestUpdateStockIsADelta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.upsert.Handle(ctx, decode(t, `{"name": "Mug", "category": "Kitchen", "price": 8, "stock": 5}`))
	require.NoError(t, err)

	updated, err := h.update.Handle(ctx, UpdateProductCommand{ID: created.Product.ID, Patch: decode(t, `{"stock": 7}`)})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)
}

func TestUpdateClearsSale(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.upsert.Handle(ctx, decode(t, `{"name": "Mug", "category": "Kitchen", "price": 10, "salePrice": 8}`))
	require.NoError(t, err)
	require.True(t, created.Product.IsOnSale)

	untouched, err := h.update.Handle(ctx, UpdateProductCommand{ID: created.Product.ID, Patch: decode(t, `{"name": "Big Mug"}`)})
	require.NoError(t, err)
	assert.True(t, untouched.IsOnSale)

	cleared, err := h.update.Handle(ctx, UpdateProductCommand{
		ID:    created.Product.ID,
		Patch: decode(t, `{"salePrice": null, "discountPercentage": 0}`),
	})
	require.NoError(t, err)
	assert.False(t, cleared.IsOnSale)
	assert.Nil(t, cleared.SalePrice)
	assert.Zero(t, cleared.DiscountPercentage)
}

func TestUpdateMissingProduct(t *testing.T) {
	h := newHarness(t)

	_, err := h.update.Handle(context.Background(), UpdateProductCommand{ID: 42, Patch: decode(t, `{"price": 3}`)})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestUpdateValidationRejectsBeforeMutation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.upsert.Handle(ctx, decode(t, `{"name": "Mug", "category": "Kitchen", "price": 10, "stock": 1}`))
	require.NoError(t, err)

	_, err = h.update.Handle(ctx, UpdateProductCommand{ID: created.Product.ID, Patch: decode(t, `{"name": "", "stock": 3}`)})
	assert.Equal(t, []string{`"name" is not allowed to be empty`}, details(t, err))

	stored, err := h.products.FindByID(ctx, created.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stock)
}

func TestDeleteProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.upsert.Handle(ctx, decode(t, `{"name": "Mug", "category": "Kitchen", "price": 10}`))
	require.NoError(t, err)

	require.NoError(t, h.delete.Handle(ctx, DeleteProductCommand{ID: created.Product.ID}))
	err = h.delete.Handle(ctx, DeleteProductCommand{ID: created.Product.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestNullableFloat(t *testing.T) {
	var absent, null, set ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"salePrice": null}`), &null))
	require.NoError(t, json.Unmarshal([]byte(`{"salePrice": 4.5}`), &set))

	assert.False(t, absent.SalePrice.Set)
	assert.True(t, null.SalePrice.Set)
	assert.Nil(t, null.SalePrice.Value)
	assert.Equal(t, Float(4.5), set.SalePrice)
}
