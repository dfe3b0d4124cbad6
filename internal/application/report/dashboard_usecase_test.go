package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// dashboardRepo responde según el rango exacto consultado: [hoy, hoy] o
// [día 1 del mes, hoy]. Cualquier otro rango es un error del caso de uso.
type dashboardRepo struct {
	today      time.Time
	monthStart time.Time

	todaySales repository.SalesTotalsResult
	monthSales repository.SalesTotalsResult
	todayBuys  repository.PurchaseTotalsResult
	monthBuys  repository.PurchaseTotalsResult
	salesErr   error
}

func (r *dashboardRepo) GetSalesTotals(_ context.Context, _ string, start, end *time.Time, _ *string) (repository.SalesTotalsResult, error) {
	if r.salesErr != nil {
		return repository.SalesTotalsResult{}, r.salesErr
	}
	switch {
	case start != nil && end != nil && start.Equal(r.today) && end.Equal(r.today):
		return r.todaySales, nil
	case start != nil && end != nil && start.Equal(r.monthStart) && end.Equal(r.today):
		return r.monthSales, nil
	}
	return repository.SalesTotalsResult{}, fmt.Errorf("rango inesperado: %v - %v", start, end)
}

func (r *dashboardRepo) GetOtherExpensesTotal(_ context.Context, _ string, _, _ *time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *dashboardRepo) GetPurchaseTotals(_ context.Context, _ string, start, end *time.Time) (repository.PurchaseTotalsResult, error) {
	switch {
	case start != nil && end != nil && start.Equal(r.today) && end.Equal(r.today):
		return r.todayBuys, nil
	case start != nil && end != nil && start.Equal(r.monthStart) && end.Equal(r.today):
		return r.monthBuys, nil
	}
	return repository.PurchaseTotalsResult{}, fmt.Errorf("rango inesperado: %v - %v", start, end)
}

func (r *dashboardRepo) GetProductBreakdown(_ context.Context, _ string, _, _ *time.Time, _ *string) ([]repository.ProductBreakdownResult, error) {
	return nil, nil
}

// newDashboardEnv fija el reloj a mitad de mes y alinea el fake con los rangos
// que el caso de uso debe derivar de esa fecha.
func newDashboardEnv(repo *dashboardRepo) *DashboardUseCase {
	fixedNow := time.Date(2026, time.August, 20, 15, 4, 5, 0, time.Local)
	repo.today = time.Date(2026, time.August, 20, 0, 0, 0, 0, time.Local)
	repo.monthStart = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.Local)

	uc := NewDashboardUseCase(repo)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestDashboardSummary_HoyYMesEnCurso(t *testing.T) {
	repo := &dashboardRepo{
		todaySales: repository.SalesTotalsResult{TotalSale: d("150.505"), SaleCount: 3},
		monthSales: repository.SalesTotalsResult{TotalSale: d("4200"), SaleCount: 40},
		todayBuys:  repository.PurchaseTotalsResult{TotalPurchase: d("90"), PurchaseCount: 1},
		monthBuys:  repository.PurchaseTotalsResult{TotalPurchase: d("2500"), PurchaseCount: 12},
	}
	uc := newDashboardEnv(repo)

	out, err := uc.GetSummary(context.Background(), testUserID)
	require.NoError(t, err)

	assert.True(t, d("150.51").Equal(out.Today.Sales), "redondeado a 2: %s", out.Today.Sales)
	assert.Equal(t, 3, out.Today.SalesCount)
	assert.True(t, d("90").Equal(out.Today.Purchases))
	assert.Equal(t, 1, out.Today.PurchasesCount)
	assert.True(t, d("4200").Equal(out.ThisMonth.Sales))
	assert.True(t, d("2500").Equal(out.ThisMonth.Purchases))
}

// El primer día del mes ambos rangos colapsan a [día 1, día 1]: ambas consultas
// llegan como el rango de hoy.
func TestDashboardSummary_PrimerDiaDelMes(t *testing.T) {
	repo := &dashboardRepo{
		todaySales: repository.SalesTotalsResult{TotalSale: d("80"), SaleCount: 2},
		todayBuys:  repository.PurchaseTotalsResult{TotalPurchase: d("35"), PurchaseCount: 1},
	}
	repo.today = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local)
	repo.monthStart = repo.today

	uc := NewDashboardUseCase(repo)
	uc.now = func() time.Time {
		return time.Date(2026, time.September, 1, 9, 30, 0, 0, time.Local)
	}

	out, err := uc.GetSummary(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, d("80").Equal(out.Today.Sales))
	assert.True(t, d("80").Equal(out.ThisMonth.Sales))
	assert.True(t, d("35").Equal(out.ThisMonth.Purchases))
}

// Día sin movimiento: todo en cero, sin error.
func TestDashboardSummary_SinMovimiento(t *testing.T) {
	uc := newDashboardEnv(&dashboardRepo{})

	out, err := uc.GetSummary(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, out.Today.Sales.IsZero())
	assert.True(t, out.ThisMonth.Purchases.IsZero())
}

func TestDashboardSummary_PropagaErrores(t *testing.T) {
	boom := errors.New("conexión perdida")
	uc := newDashboardEnv(&dashboardRepo{salesErr: boom})

	_, err := uc.GetSummary(context.Background(), testUserID)
	assert.ErrorIs(t, err, boom)
}
