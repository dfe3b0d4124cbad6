package report

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// DashboardUseCase genera el resumen financiero del día y del mes en curso.
//
// Fuente de datos: ReportRepository (consultas read-only). No toca las tablas
// de memos directamente; delega todo en el repositorio.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	now        func() time.Time // inyectable en tests
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, now: time.Now}
}

// GetSummary construye el DashboardStatsDTO del usuario.
//
// Cuatro llamadas en paralelo:
//  1. GetSalesTotals(hoy)     → today.sales + today.salesCount
//  2. GetPurchaseTotals(hoy)  → today.purchases + today.purchasesCount
//  3. GetSalesTotals(mes)     → thisMonth.sales
//  4. GetPurchaseTotals(mes)  → thisMonth.purchases
func (uc *DashboardUseCase) GetSummary(ctx context.Context, userID string) (*dto.DashboardStatsDTO, error) {
	now := uc.now()

	// Los memos llevan fecha calendario: hoy es [hoy, hoy] y el mes en curso
	// va del día 1 hasta hoy, todo inclusivo.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type salesResult struct {
		totals repository.SalesTotalsResult
		err    error
	}
	type purchasesResult struct {
		totals repository.PurchaseTotalsResult
		err    error
	}

	todaySalesCh := make(chan salesResult, 1)
	todayPurchasesCh := make(chan purchasesResult, 1)
	monthSalesCh := make(chan salesResult, 1)
	monthPurchasesCh := make(chan purchasesResult, 1)

	go func() {
		totals, err := uc.reportRepo.GetSalesTotals(ctx, userID, &today, &today, nil)
		todaySalesCh <- salesResult{totals, err}
	}()
	go func() {
		totals, err := uc.reportRepo.GetPurchaseTotals(ctx, userID, &today, &today)
		todayPurchasesCh <- purchasesResult{totals, err}
	}()
	go func() {
		totals, err := uc.reportRepo.GetSalesTotals(ctx, userID, &monthStart, &today, nil)
		monthSalesCh <- salesResult{totals, err}
	}()
	go func() {
		totals, err := uc.reportRepo.GetPurchaseTotals(ctx, userID, &monthStart, &today)
		monthPurchasesCh <- purchasesResult{totals, err}
	}()

	todaySales := <-todaySalesCh
	todayPurchases := <-todayPurchasesCh
	monthSales := <-monthSalesCh
	monthPurchases := <-monthPurchasesCh

	if todaySales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", todaySales.err)
	}
	if todayPurchases.err != nil {
		return nil, fmt.Errorf("dashboard: compras de hoy: %w", todayPurchases.err)
	}
	if monthSales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", monthSales.err)
	}
	if monthPurchases.err != nil {
		return nil, fmt.Errorf("dashboard: compras del mes: %w", monthPurchases.err)
	}

	return &dto.DashboardStatsDTO{
		Today: dto.DashboardDayDTO{
			Sales:          todaySales.totals.TotalSale.Round(2),
			SalesCount:     todaySales.totals.SaleCount,
			Purchases:      todayPurchases.totals.TotalPurchase.Round(2),
			PurchasesCount: todayPurchases.totals.PurchaseCount,
		},
		ThisMonth: dto.DashboardMonthDTO{
			Sales:     monthSales.totals.TotalSale.Round(2),
			Purchases: monthPurchases.totals.TotalPurchase.Round(2),
		},
	}, nil
}
