package query

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	categorydomain "github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/validate"
)

// ListProductsQuery holds the raw list parameters; nil means the parameter was absent
type ListProductsQuery struct {
	Search        *string `validate:"omitempty,min=1,max=100"`
	Categories    *string `validate:"omitempty,min=1,max=100"`
	Color         *string `validate:"omitempty,min=1,max=50"`
	Size          *string `validate:"omitempty,min=1,max=50"`
	MinPrice      *string
	MaxPrice      *string
	OnSale        *string
	CreatedAfter  *string
	CreatedBefore *string
}

// NewListProductsQuery picks the known parameters out of a query string.
// Unknown parameters are ignored.
func NewListProductsQuery(values url.Values) ListProductsQuery {
	get := func(key string) *string {
		if !values.Has(key) {
			return nil
		}
		v := values.Get(key)
		return &v
	}
	return ListProductsQuery{
		Search:        get("search"),
		Categories:    get("categories"),
		MinPrice:      get("minPrice"),
		MaxPrice:      get("maxPrice"),
		OnSale:        get("onSale"),
		Color:         get("color"),
		Size:          get("size"),
		CreatedAfter:  get("createdAfter"),
		CreatedBefore: get("createdBefore"),
	}
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo       domain.ProductRepository
	categories categorydomain.CategoryRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository, categories categorydomain.CategoryRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo, categories: categories}
}

// Handle validates the parameters, resolves the category filter and lists the matches.
// A category name that does not exist fails the whole query instead of matching nothing.
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	if q.Categories != nil {
		category, err := h.categories.FindByName(ctx, *q.Categories)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return nil, apperror.UnresolvedReference(fmt.Sprintf("Category '%s' not found", *q.Categories))
			}
			return nil, err
		}
		filter.CategoryID = &category.ID
	}

	return h.repo.List(ctx, filter)
}

func buildFilter(q ListProductsQuery) (domain.ProductFilter, error) {
	v := validate.New()
	v.Struct(q)

	f := domain.ProductFilter{
		Search: deref(q.Search),
		Color:  deref(q.Color),
		Size:   deref(q.Size),
	}

	f.MinPrice = price(v, "minPrice", q.MinPrice)
	f.MaxPrice = price(v, "maxPrice", q.MaxPrice)

	if q.OnSale != nil {
		switch strings.ToLower(*q.OnSale) {
		case "true":
			f.OnSale = true
		case "false":
		default:
			v.Addf("%q must be a boolean", "onSale")
		}
	}

	f.CreatedAfter = date(v, "createdAfter", q.CreatedAfter)
	f.CreatedBefore = date(v, "createdBefore", q.CreatedBefore)

	return f, v.ErrWithMessage(validate.QueryFailedMessage)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func price(v *validate.Validator, field string, raw *string) *float64 {
	if raw == nil {
		return nil
	}
	n, ok := validate.ParseNumber(*raw)
	if !ok {
		v.Addf("%q must be a number", field)
		return nil
	}
	v.Var(field, n, "gt=0,decimals=2")
	return &n
}

func date(v *validate.Validator, field string, raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := validate.ParseDate(*raw)
	if err != nil {
		v.Addf("%q must be in ISO 8601 date format", field)
		return nil
	}
	return &t
}
