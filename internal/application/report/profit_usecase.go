package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// ProfitUseCase calcula el reporte de pérdidas y ganancias de un período.
//
// Identidad del reporte:
//
//	totalProfit = totalSale − totalCostOfGoodsSold − totalOtherExpenses
//
// Con filtro de producto, los gastos incidentales quedan fuera (son a nivel
// de memo, no atribuibles a un producto) y no se restan.
type ProfitUseCase struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	pdfGen      ProfitPDFGenerator
}

// NewProfitUseCase construye el caso de uso.
func NewProfitUseCase(reportRepo repository.ReportRepository, productRepo repository.ProductRepository, pdfGen ProfitPDFGenerator) *ProfitUseCase {
	return &ProfitUseCase{reportRepo: reportRepo, productRepo: productRepo, pdfGen: pdfGen}
}

// ComputeReport arma el reporte para el rango [startDate, endDate] inclusivo.
// Fechas vacías cubren todo el tiempo; productId restringe a un producto.
func (uc *ProfitUseCase) ComputeReport(ctx context.Context, userID string, in dto.ProfitReportRequest) (*dto.ProfitReportDTO, error) {
	start, err := parseOptionalDate(in.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	end, err := parseOptionalDate(in.EndDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, domain.ErrInvalidInput
	}

	var productID *string
	if in.ProductID != "" {
		product, err := uc.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.UserID != userID {
			return nil, domain.ErrForbidden
		}
		productID = &in.ProductID
	}

	totals, err := uc.reportRepo.GetSalesTotals(ctx, userID, start, end, productID)
	if err != nil {
		return nil, fmt.Errorf("reporte: totales de venta: %w", err)
	}

	// Los gastos incidentales son del memo completo: solo entran al reporte
	// sin filtro de producto.
	otherExpenses := decimal.Zero
	if productID == nil {
		otherExpenses, err = uc.reportRepo.GetOtherExpensesTotal(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("reporte: gastos incidentales: %w", err)
		}
	}

	breakdown, err := uc.reportRepo.GetProductBreakdown(ctx, userID, start, end, productID)
	if err != nil {
		return nil, fmt.Errorf("reporte: desglose por producto: %w", err)
	}

	totalProfit := totals.TotalSale.Sub(totals.TotalCOGS).Sub(otherExpenses)

	// Margen en 0 cuando no hubo ventas: evita división por cero
	margin := decimal.Zero
	if totals.TotalSale.GreaterThan(decimal.Zero) {
		margin = totalProfit.Div(totals.TotalSale).Mul(hundred)
	}

	out := &dto.ProfitReportDTO{
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		ProductID:            in.ProductID,
		TotalSale:            totals.TotalSale.Round(2),
		TotalCostOfGoodsSold: totals.TotalCOGS.Round(2),
		TotalOtherExpenses:   otherExpenses.Round(2),
		TotalProfit:          totalProfit.Round(2),
		MarginPercent:        margin.Round(2),
		SaleCount:            totals.SaleCount,
		ProductBreakdown:     make([]dto.ProductBreakdownDTO, 0, len(breakdown)),
	}
	for _, r := range breakdown {
		out.ProductBreakdown = append(out.ProductBreakdown, dto.ProductBreakdownDTO{
			Product:              r.ProductID,
			Name:                 r.Name,
			Unit:                 r.Unit,
			QuantitySold:         r.QuantitySold,
			QuantityPurchased:    r.QuantityPurchased,
			AverageSalePrice:     r.AverageSalePrice.Round(2),
			AveragePurchasePrice: r.AveragePurchasePrice.Round(2),
			SalesTotal:           r.SalesTotal.Round(2),
			Profit:               r.Profit.Round(2),
			CurrentStock:         r.CurrentStock,
		})
	}
	return out, nil
}

// ExportPDF calcula el reporte y lo entrega renderizado como PDF.
func (uc *ProfitUseCase) ExportPDF(ctx context.Context, userID, businessName string, in dto.ProfitReportRequest) ([]byte, error) {
	out, err := uc.ComputeReport(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateProfitPDF(ctx, businessName, out)
}

// parseOptionalDate devuelve nil para cadena vacía y error si el formato no
// es YYYY-MM-DD.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
