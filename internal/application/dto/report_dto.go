package dto

import "github.com/shopspring/decimal"

// ProfitReportRequest filtros del reporte de ganancias (query params).
// Fechas YYYY-MM-DD, rango inclusivo; vacías cubren todo el tiempo.
type ProfitReportRequest struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	ProductID string `query:"productId"`
}

// ProductBreakdownDTO fila del desglose por producto.
type ProductBreakdownDTO struct {
	Product              string          `json:"product"`
	Name                 string          `json:"name"`
	Unit                 string          `json:"unit"`
	QuantitySold         decimal.Decimal `json:"quantitySold"`
	QuantityPurchased    decimal.Decimal `json:"quantityPurchased"`
	AverageSalePrice     decimal.Decimal `json:"averageSalePrice"`
	AveragePurchasePrice decimal.Decimal `json:"averagePurchasePrice"`
	SalesTotal           decimal.Decimal `json:"salesTotal"`
	Profit               decimal.Decimal `json:"profit"`
	CurrentStock         decimal.Decimal `json:"currentStock"` // global, no del rango
}

// ProfitReportDTO reporte de pérdidas y ganancias.
// totalProfit = totalSale - totalCostOfGoodsSold - totalOtherExpenses
// (con filtro de producto, totalOtherExpenses queda en 0 y no se resta).
type ProfitReportDTO struct {
	StartDate            string                `json:"startDate,omitempty"`
	EndDate              string                `json:"endDate,omitempty"`
	ProductID            string                `json:"productId,omitempty"`
	TotalSale            decimal.Decimal       `json:"totalSale"`
	TotalCostOfGoodsSold decimal.Decimal       `json:"totalCostOfGoodsSold"`
	TotalOtherExpenses   decimal.Decimal       `json:"totalOtherExpenses"`
	TotalProfit          decimal.Decimal       `json:"totalProfit"`
	MarginPercent        decimal.Decimal       `json:"marginPercent"` // 0 si totalSale = 0
	SaleCount            int                   `json:"saleCount"`
	ProductBreakdown     []ProductBreakdownDTO `json:"productBreakdown"`
}

// DashboardDayDTO totales del día en curso.
type DashboardDayDTO struct {
	Sales          decimal.Decimal `json:"sales"`
	SalesCount     int             `json:"salesCount"`
	Purchases      decimal.Decimal `json:"purchases"`
	PurchasesCount int             `json:"purchasesCount"`
}

// DashboardMonthDTO totales del mes en curso (día 1 hasta hoy).
type DashboardMonthDTO struct {
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

// DashboardStatsDTO respuesta de GET /api/reports/dashboard.
type DashboardStatsDTO struct {
	Today     DashboardDayDTO   `json:"today"`
	ThisMonth DashboardMonthDTO `json:"thisMonth"`
}
