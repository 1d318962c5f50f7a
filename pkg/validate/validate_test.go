package validate

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/pkg/apperror"
)

type item struct {
	Size     string `json:"size" validate:"min=1,max=10"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type payload struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=20"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0,decimals=2"`
	Discount *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Image    *string  `json:"image" validate:"omitempty,url"`
	Role     string   `validate:"omitempty,oneof=admin customer"`
	Email    string   `validate:"omitempty,email"`
	Username string   `validate:"required,min=3"`
	Items    []item   `json:"items" validate:"omitempty,dive"`
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestStructCollectsOneViolationPerField(t *testing.T) {
	v := New()
	v.Required("category", false)
	v.Struct(payload{
		Name:     strPtr(""),
		Price:    floatPtr(-1.005),
		Discount: floatPtr(120.0),
		Image:    strPtr("not a url"),
		Role:     "owner",
		Email:    "Jane <jane@example.com>",
		Username: "jo",
		Items:    []item{{Size: "", Quantity: 1}, {Size: "XXXXXXXXXXL", Quantity: -1}},
	})

	err := v.Err()
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, FailedMessage, appErr.Message)
	assert.Equal(t, []string{
		`"category" is required`,
		`"name" is not allowed to be empty`,
		`"price" must be a positive number`,
		`"discount" must be less than or equal to 100`,
		`"image" must be a valid uri`,
		`"role" must be one of [admin, customer]`,
		`"email" must be a valid email`,
		`"username" length must be at least 3 characters long`,
		`"items[0].size" is not allowed to be empty`,
		`"items[1].size" length must be less than or equal to 10 characters long`,
		`"items[1].quantity" must be greater than or equal to 0`,
	}, appErr.Details)
}

func TestStructNoViolations(t *testing.T) {
	v := New()
	v.Struct(payload{
		Name:     strPtr("Shirt"),
		Price:    floatPtr(19.99),
		Discount: floatPtr(0.0),
		Image:    strPtr("https://cdn.example.com/a.png"),
		Role:     "admin",
		Email:    "admin@example.com",
		Username: "admin",
	})

	assert.NoError(t, v.Err())
}

func TestVarUsesGivenLabel(t *testing.T) {
	v := New()
	v.Var("minPrice", 10.5, "gt=0,decimals=2")
	v.Var("minPrice", 10.123, "gt=0,decimals=2")
	v.Var("threshold", 0.0, "gte=1,lte=1000")
	v.Var("maxPrice", math.Inf(1), "decimals=2")

	assert.Equal(t, []string{
		`"minPrice" must have no more than 2 decimal places`,
		`"threshold" must be greater than or equal to 1`,
		`"maxPrice" must have no more than 2 decimal places`,
	}, v.ErrWithMessage(QueryFailedMessage).(*apperror.Error).Details)
}

type wrapped struct {
	Value *float64
}

type withWrapped struct {
	Amount wrapped `json:"amount" validate:"omitempty,gt=0"`
}

func TestRegisterType(t *testing.T) {
	RegisterType(func(field reflect.Value) interface{} {
		return field.Interface().(wrapped).Value
	}, wrapped{})

	v := New()
	v.Struct(withWrapped{})
	v.Struct(withWrapped{Amount: wrapped{Value: floatPtr(0.0)}})

	assert.Equal(t, []string{`"amount" must be a positive number`}, v.Violations())
}

func TestParseNumber(t *testing.T) {
	n, ok := ParseNumber(" 12.5 ")
	assert.True(t, ok)
	assert.Equal(t, 12.5, n)

	for _, raw := range []string{"abc", "NaN", "Inf", "-Infinity", "1e400", ""} {
		_, ok := ParseNumber(raw)
		assert.False(t, ok, raw)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	ts, err := ParseDate("2024-03-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), ts)

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}
