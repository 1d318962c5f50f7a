package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category groups products. Names are unique and looked up case-insensitively.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	// FindByName matches the whole name, ignoring case
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
}

// Ref is a category reference as it appears in product payloads:
// a JSON number is an id, a JSON string is a name to resolve.
type Ref struct {
	ID   uint
	Name string
}

// IsZero reports whether the reference is empty
func (r Ref) IsZero() bool {
	return r.ID == 0 && r.Name == ""
}

// IsID reports whether the reference is an identifier
func (r Ref) IsID() bool {
	return r.ID != 0
}

func (r Ref) String() string {
	if r.IsID() {
		return fmt.Sprintf("#%d", r.ID)
	}
	return r.Name
}

// UnmarshalJSON accepts an id or a name. A quoted number such as "12" is a name.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = Ref{Name: strings.TrimSpace(name)}
		return nil
	}

	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("category must be a name or a positive integer id")
	}
	*r = Ref{ID: id}
	return nil
}

// MarshalJSON writes the id when set, otherwise the name
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsID() {
		return json.Marshal(r.ID)
	}
	return json.Marshal(r.Name)
}
