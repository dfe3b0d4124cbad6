package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es un memo de venta: líneas de producto más gastos incidentales.
// Inmutable una vez registrado; borrarlo devuelve el stock vendido sin
// alterar el costo promedio.
type Sale struct {
	ID                 string
	UserID             string
	SaleDate           time.Time
	Items              []SaleItem
	OtherExpenses      []ExpenseItem
	TotalAmount        decimal.Decimal
	TotalOtherExpenses decimal.Decimal
	CreatedAt          time.Time
}

// SaleItem línea de producto dentro de una venta. UnitCost congela el costo
// promedio del producto al momento de vender: el COGS del reporte no cambia
// aunque compras posteriores muevan el promedio.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Unit        string
	Position    int
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // precio de venta unitario
	UnitCost    decimal.Decimal // snapshot del costo promedio al vender
	LineTotal   decimal.Decimal
}
