package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Los nombres de campo JSON replican el contrato que consume el front end
// existente (camelCase y "_id" como identificador).

// CreateProductRequest entrada para registrar un producto.
type CreateProductRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Unit string `json:"unit" validate:"required,min=1,max=50"`
}

// UpdateProductRequest entrada para actualizar un producto.
// No permite tocar stock ni costo promedio: eso lo maneja el motor de valoración.
type UpdateProductRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
	Unit *string `json:"unit" validate:"omitempty,min=1,max=50"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string          `json:"_id"`
	Name                 string          `json:"name"`
	Unit                 string          `json:"unit"`
	CurrentStock         decimal.Decimal `json:"currentStock"`
	AveragePurchasePrice decimal.Decimal `json:"averagePurchasePrice"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}
