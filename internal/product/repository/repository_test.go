package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	categorydomain "github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/testutil"
	"github.com/tair/product-catalog/pkg/apperror"
)

type fixture struct {
	db    *gorm.DB
	repo  domain.ProductRepository
	shirt uint
	shoes uint
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t, &categorydomain.Category{}, &domain.Product{}, &domain.Variant{})

	shirts := categorydomain.Category{Name: "Shirts"}
	shoes := categorydomain.Category{Name: "Shoes"}
	require.NoError(t, db.Create(&shirts).Error)
	require.NoError(t, db.Create(&shoes).Error)

	return &fixture{
		db:    db,
		repo:  NewTracingProductRepository(NewGormProductRepository(db)),
		shirt: shirts.ID,
		shoes: shoes.ID,
	}
}

func (f *fixture) create(t *testing.T, p domain.Product) domain.Product {
	t.Helper()
	p.ApplyDerivedFields()
	require.NoError(t, f.repo.Create(context.Background(), &p))
	return p
}

func floatPtr(v float64) *float64 { return &v }

func ids(products []domain.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestCreateAndFindByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, domain.Product{Name: "Tee", CategoryID: f.shirt, Price: 20, Variants: []domain.Variant{
		{Size: "M", Color: "red", Quantity: 2},
		{Size: "L", Color: "red", Quantity: 3},
	}})

	got, err := f.repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Shirts", got.Category.Name)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, "M", got.Variants[0].Size)
	assert.Equal(t, "L", got.Variants[1].Size)

	_, err = f.repo.FindByID(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSaveSynchronisesVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, domain.Product{Name: "Tee", CategoryID: f.shirt, Price: 20, Variants: []domain.Variant{
		{Size: "M", Color: "red", Quantity: 2},
	}})

	p.MergeInventory(nil, []domain.Variant{
		{Size: "M", Color: "red", Quantity: 1},
		{Size: "S", Color: "red", Quantity: 4},
	})
	p.ApplyDerivedFields()
	require.NoError(t, f.repo.Save(ctx, &p))

	got, err := f.repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, 3, got.Variants[0].Quantity)
	assert.Equal(t, "S", got.Variants[1].Size)

	var count int64
	require.NoError(t, f.db.Model(&domain.Variant{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestFindMatching(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tee := f.create(t, domain.Product{Name: "Classic Tee", CategoryID: f.shirt, Price: 20, Variants: []domain.Variant{
		{Size: "M", Color: "red", Quantity: 1},
		{Size: "L", Color: "blue", Quantity: 1},
	}})

	tests := []struct {
		name   string
		c      domain.MatchCriteria
		wantID uint
	}{
		{"same name other case, overlapping size and color", domain.MatchCriteria{Name: "classic TEE", CategoryID: f.shirt, Sizes: []string{"M"}, Colors: []string{"red"}}, tee.ID},
		{"size and color from different variants", domain.MatchCriteria{Name: "Classic Tee", CategoryID: f.shirt, Sizes: []string{"L"}, Colors: []string{"red"}}, tee.ID},
		{"no size overlap", domain.MatchCriteria{Name: "Classic Tee", CategoryID: f.shirt, Sizes: []string{"XL"}, Colors: []string{"red"}}, 0},
		{"no color overlap", domain.MatchCriteria{Name: "Classic Tee", CategoryID: f.shirt, Sizes: []string{"M"}, Colors: []string{"green"}}, 0},
		{"other category", domain.MatchCriteria{Name: "Classic Tee", CategoryID: f.shoes, Sizes: []string{"M"}, Colors: []string{"red"}}, 0},
		{"substring name", domain.MatchCriteria{Name: "Classic", CategoryID: f.shirt, Sizes: []string{"M"}, Colors: []string{"red"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.repo.FindMatching(ctx, tt.c)
			require.NoError(t, err)
			if tt.wantID == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Len(t, got.Variants, 2)
		})
	}
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	redTee := f.create(t, domain.Product{Name: "Red Tee", CategoryID: f.shirt, Price: 15, Variants: []domain.Variant{
		{Size: "M", Color: "Crimson", Quantity: 1},
	}})
	polo := f.create(t, domain.Product{Name: "Polo 100%", CategoryID: f.shirt, Price: 40, DiscountPercentage: 10, Variants: []domain.Variant{
		{Size: "XL", Color: "navy", Quantity: 1},
	}})
	runner := f.create(t, domain.Product{Name: "Runner", CategoryID: f.shoes, Price: 90, Stock: 3})

	old := time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&domain.Product{}).Where("id = ?", runner.ID).Update("created_at", old).Error)

	shirt := f.shirt
	after := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []uint
	}{
		{"no filter", domain.ProductFilter{}, []uint{redTee.ID, polo.ID, runner.ID}},
		{"search is case-insensitive substring", domain.ProductFilter{Search: "TEE"}, []uint{redTee.ID}},
		{"search escapes wildcards", domain.ProductFilter{Search: "100%"}, []uint{polo.ID}},
		{"percent alone is literal", domain.ProductFilter{Search: "%"}, []uint{polo.ID}},
		{"color matches variants", domain.ProductFilter{Color: "crim"}, []uint{redTee.ID}},
		{"search, color and size are ORed", domain.ProductFilter{Search: "runner", Size: "xl"}, []uint{polo.ID, runner.ID}},
		{"category", domain.ProductFilter{CategoryID: &shirt}, []uint{redTee.ID, polo.ID}},
		{"price range is inclusive", domain.ProductFilter{MinPrice: floatPtr(15), MaxPrice: floatPtr(40)}, []uint{redTee.ID, polo.ID}},
		{"on sale", domain.ProductFilter{OnSale: true}, []uint{polo.ID}},
		{"created after", domain.ProductFilter{CreatedAfter: &after}, []uint{redTee.ID, polo.ID}},
		{"created before is inclusive", domain.ProductFilter{CreatedBefore: &before}, []uint{runner.ID}},
		{"text group ANDed with the rest", domain.ProductFilter{Search: "e", CategoryID: &shirt, MaxPrice: floatPtr(20)}, []uint{redTee.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	f := newFixture(t)

	got, err := f.repo.List(context.Background(), domain.ProductFilter{Search: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	low := f.create(t, domain.Product{Name: "Low", CategoryID: f.shirt, Price: 10, Stock: 2})
	f.create(t, domain.Product{Name: "Edge", CategoryID: f.shirt, Price: 10, Stock: 5})
	sale := f.create(t, domain.Product{Name: "Sale", CategoryID: f.shoes, Price: 50, SalePrice: floatPtr(40), Stock: 20})
	orphan := f.create(t, domain.Product{Name: "Orphan", CategoryID: 777, Price: 5, Stock: 1})

	lowStock, err := f.repo.FindLowStock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{orphan.ID, low.ID}, ids(lowStock))
	assert.Nil(t, lowStock[0].Category)
	require.NotNil(t, lowStock[1].Category)
	assert.Equal(t, "Shirts", lowStock[1].Category.Name)

	onSale, err := f.repo.FindOnSale(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{sale.ID}, ids(onSale))
	assert.Equal(t, "200.00", domain.NewOnSaleReport(onSale).TotalDiscountValue)

	summary, err := f.repo.SummarizeInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.TotalProducts)
	assert.Equal(t, int64(28), summary.TotalStock)
	require.Len(t, summary.CategorySummary, 3)

	byID := map[uint]domain.CategorySummary{}
	for _, row := range summary.CategorySummary {
		byID[row.CategoryID] = row
	}
	assert.Equal(t, int64(2), byID[f.shirt].ProductCount)
	assert.Equal(t, int64(7), byID[f.shirt].TotalStock)
	assert.Equal(t, "Shoes", *byID[f.shoes].CategoryName)
	assert.Nil(t, byID[777].CategoryName)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.create(t, domain.Product{Name: "Tee", CategoryID: f.shirt, Price: 20, Variants: []domain.Variant{
		{Size: "M", Color: "red", Quantity: 2},
	}})

	require.NoError(t, f.repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, f.repo.Delete(ctx, p.ID), ErrProductNotFound)

	var variants int64
	require.NoError(t, f.db.Model(&domain.Variant{}).Count(&variants).Error)
	assert.Zero(t, variants)

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repo.Transaction(ctx, func(repo domain.ProductRepository) error {
		p := domain.Product{Name: "Ghost", CategoryID: f.shirt, Price: 1}
		require.NoError(t, repo.Create(ctx, &p))
		return apperror.Validation("Validation failed", "nope")
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
