package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea del formulario de compra.
type PurchaseLineRequest struct {
	Product       string          `json:"product" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
}

// ExpenseRequest gasto incidental con nombre.
type ExpenseRequest struct {
	Name   string          `json:"name" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CreatePurchaseRequest entrada para registrar una compra.
type CreatePurchaseRequest struct {
	PurchaseDate  string                `json:"purchaseDate" validate:"required"` // YYYY-MM-DD
	Products      []PurchaseLineRequest `json:"products" validate:"required,min=1"`
	OtherExpenses []ExpenseRequest      `json:"otherExpenses"`
}

// PurchaseLineResponse línea de compra con datos del producto resueltos.
type PurchaseLineResponse struct {
	Product       string          `json:"product"`
	ProductName   string          `json:"productName"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// ExpenseResponse gasto incidental en respuestas.
type ExpenseResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID                  string                 `json:"_id"`
	PurchaseDate        string                 `json:"purchaseDate"`
	Products            []PurchaseLineResponse `json:"products"`
	OtherExpenses       []ExpenseResponse      `json:"otherExpenses"`
	TotalPurchaseAmount decimal.Decimal        `json:"totalPurchaseAmount"`
	TotalOtherExpenses  decimal.Decimal        `json:"totalOtherExpenses"`
	CreatedAt           time.Time              `json:"createdAt"`
}
