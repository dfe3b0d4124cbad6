package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea del formulario de venta.
type SaleLineRequest struct {
	Product   string          `json:"product" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	SalePrice decimal.Decimal `json:"salePrice"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	SaleDate      string            `json:"saleDate" validate:"required"` // YYYY-MM-DD
	Products      []SaleLineRequest `json:"products" validate:"required,min=1"`
	OtherExpenses []ExpenseRequest  `json:"otherExpenses"`
}

// SaleLineResponse línea de venta con datos del producto resueltos.
type SaleLineResponse struct {
	Product     string          `json:"product"`
	ProductName string          `json:"productName"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID                 string             `json:"_id"`
	SaleDate           string             `json:"saleDate"`
	Products           []SaleLineResponse `json:"products"`
	OtherExpenses      []ExpenseResponse  `json:"otherExpenses"`
	TotalSaleAmount    decimal.Decimal    `json:"totalSaleAmount"`
	TotalOtherExpenses decimal.Decimal    `json:"totalOtherExpenses"`
	CreatedAt          time.Time          `json:"createdAt"`
}
