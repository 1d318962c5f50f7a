package command

import (
	"bytes"
	"encoding/json"
	"reflect"

	categorydomain "github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/validate"
)

// ProductInput is the product payload accepted by create, update and catalog ingestion.
// Absent fields are nil.
type ProductInput struct {
	Name               *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Description        *string             `json:"description" validate:"omitempty,max=1000"`
	Category           *categorydomain.Ref `json:"category" validate:"omitempty,min=1,max=100"`
	Price              *float64            `json:"price" validate:"omitempty,gt=0,decimals=2"`
	SalePrice          NullableFloat       `json:"salePrice" validate:"omitempty,gt=0,decimals=2"`
	DiscountPercentage *float64            `json:"discountPercentage" validate:"omitempty,gte=0,lte=100,decimals=2"`
	Stock              *int                `json:"stock" validate:"omitempty,gte=0"`
	Image              *string             `json:"image" validate:"omitempty,url"`
	Variants           []domain.Variant    `json:"variants" validate:"omitempty,dive"`
}

func init() {
	// a null salePrice is skipped like an absent one
	validate.RegisterType(func(field reflect.Value) interface{} {
		return field.Interface().(NullableFloat).Value
	}, NullableFloat{})

	// only name references carry rules; ids are checked when resolved
	validate.RegisterType(func(field reflect.Value) interface{} {
		ref := field.Interface().(categorydomain.Ref)
		if ref.IsID() {
			return nil
		}
		return &ref.Name
	}, categorydomain.Ref{})
}

// NullableFloat tells an absent field apart from an explicit null
type NullableFloat struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON marks the field as present; null leaves Value nil
func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	n.Value = &f
	return nil
}

// MarshalJSON writes the value or null
func (n NullableFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// Float returns a NullableFloat holding f
func Float(f float64) NullableFloat {
	return NullableFloat{Set: true, Value: &f}
}

// validateInput checks every field rule at once. With required set, name, category
// and price must be present.
func validateInput(in ProductInput, required bool) error {
	v := validate.New()
	if required {
		v.Required("name", in.Name != nil)
		v.Required("category", in.Category != nil)
		v.Required("price", in.Price != nil)
	}
	v.Struct(in)
	return v.Err()
}

// incomingVariants strips ids and bookkeeping columns from client-supplied variants
func incomingVariants(in []domain.Variant) []domain.Variant {
	out := make([]domain.Variant, 0, len(in))
	for _, v := range in {
		out = append(out, domain.Variant{Size: v.Size, Color: v.Color, Quantity: v.Quantity})
	}
	return out
}
