package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotalsResult resultado crudo de la consulta de totales de venta.
// Lo produce la DB; el use case lo convierte en DTO.
type SalesTotalsResult struct {
	TotalSale decimal.Decimal // Σ qty × precio de venta de las líneas seleccionadas
	TotalCOGS decimal.Decimal // Σ qty × costo unitario congelado al vender
	SaleCount int             // número de memos de venta seleccionados
}

// PurchaseTotalsResult totales de compra del período (para el dashboard).
type PurchaseTotalsResult struct {
	TotalPurchase decimal.Decimal
	PurchaseCount int
}

// ProductBreakdownResult fila del desglose por producto del reporte de ganancias.
type ProductBreakdownResult struct {
	ProductID            string
	Name                 string
	Unit                 string
	QuantitySold         decimal.Decimal
	QuantityPurchased    decimal.Decimal // comprada dentro del rango
	AverageSalePrice     decimal.Decimal
	AveragePurchasePrice decimal.Decimal
	SalesTotal           decimal.Decimal
	Profit               decimal.Decimal
	CurrentStock         decimal.Decimal // global, no limitado al rango
}

// ReportRepository define las consultas de lectura del agregador de ganancias.
// Las implementaciones son read-only; cada agregado sale de una sola lectura
// consistente (una consulta SQL por agregado). start/end son inclusivos y en
// nil cubren todo el tiempo; productID en nil desactiva el filtro de producto.
type ReportRepository interface {
	// GetSalesTotals devuelve revenue, COGS y número de ventas del período.
	// Con filtro de producto, solo cuentan las líneas de ese producto y
	// SaleCount son los memos que lo contienen.
	GetSalesTotals(ctx context.Context, userID string, start, end *time.Time, productID *string) (SalesTotalsResult, error)

	// GetOtherExpensesTotal suma los gastos incidentales de las ventas del período.
	// No admite filtro de producto: los gastos son a nivel de memo.
	GetOtherExpensesTotal(ctx context.Context, userID string, start, end *time.Time) (decimal.Decimal, error)

	// GetPurchaseTotals devuelve el total y número de compras del período.
	GetPurchaseTotals(ctx context.Context, userID string, start, end *time.Time) (PurchaseTotalsResult, error)

	// GetProductBreakdown devuelve una fila por producto con actividad (venta o
	// compra) en el período, ordenadas por ventas descendentes.
	GetProductBreakdown(ctx context.Context, userID string, start, end *time.Time, productID *string) ([]ProductBreakdownResult, error)
}
