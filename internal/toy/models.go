package toy

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Toy is the single persistent entity of the service. Field names on the wire
// and in the store match, so documents pass through unchanged.
type Toy struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	InStock     bool               `json:"inStock" bson:"inStock"`
	Created     time.Time          `json:"created" bson:"created"`
}

// CreateInput is the request body accepted by the create operation.
// Quantity is not part of the schema: any JSON value is accepted and dropped.
type CreateInput struct {
	Name        *string         `json:"name" validate:"required,min=1"`
	Description *string         `json:"description" validate:"required,min=10"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       *float64        `json:"price" validate:"required,gte=0"`
	InStock     *bool           `json:"inStock"`
}

// UpdateInput is the request body accepted by the update operation. Only the
// fields present in the body are written.
type UpdateInput struct {
	Name        *string         `json:"name" validate:"omitempty,min=1"`
	Description *string         `json:"description" validate:"omitempty,min=10"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       *float64        `json:"price" validate:"omitempty,gte=0"`
	InStock     *bool           `json:"inStock"`
	Created     *time.Time      `json:"created"`
}

// NewToy builds a Toy from a validated CreateInput, applying schema defaults:
// inStock is true unless given, created is now.
func NewToy(in CreateInput, now time.Time) *Toy {
	t := &Toy{
		InStock: true,
		Created: now,
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.InStock != nil {
		t.InStock = *in.InStock
	}
	return t
}

// Empty reports whether the update carries no schema field.
func (u UpdateInput) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.InStock == nil && u.Created == nil
}

// Apply copies the fields present in u onto t.
func (u UpdateInput) Apply(t *Toy) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Price != nil {
		t.Price = *u.Price
	}
	if u.InStock != nil {
		t.InStock = *u.InStock
	}
	if u.Created != nil {
		t.Created = *u.Created
	}
}
