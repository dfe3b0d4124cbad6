package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
	"github.com/tu-usuario/contable-pro/internal/domain/valuation"
)

// dateLayout formato de fecha calendario del API (sin hora).
const dateLayout = "2006-01-02"

// replayLedger reconstruye stock y costo promedio de un producto reproduciendo
// su historial vivo en orden cronológico. Las compras mueven promedio y stock;
// las ventas solo stock. Es la única forma segura de revertir una compra:
// deshacer el promedio ponderado de forma incremental no es invertible.
func replayLedger(purchases, sales []repository.LedgerLine) (stock, avgCost decimal.Decimal) {
	stock, avgCost = decimal.Zero, decimal.Zero
	i, j := 0, 0
	for i < len(purchases) || j < len(sales) {
		if i < len(purchases) && (j >= len(sales) || !lineAfter(purchases[i], sales[j])) {
			line := purchases[i]
			avgCost = valuation.WeightedAverageCost(stock, avgCost, line.Quantity, line.UnitPrice)
			stock = stock.Add(line.Quantity)
			i++
			continue
		}
		stock = stock.Sub(sales[j].Quantity)
		j++
	}
	return stock, avgCost
}

// lineAfter indica si a ocurrió después de b (fecha calendario y, a igual
// fecha, orden de creación).
func lineAfter(a, b repository.LedgerLine) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// runWithRetry ejecuta fn en transacción y reintenta una vez si la BD reporta
// un fallo de serialización (mapeado a ErrConflict por la infraestructura).
// Si el reintento también falla, el ErrConflict llega al caller como error
// reintentable.
func runWithRetry(ctx context.Context, runner TxRunner, fn func(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
) error) error {
	err := runner.Run(ctx, fn)
	if errors.Is(err, domain.ErrConflict) {
		err = runner.Run(ctx, fn)
	}
	return err
}
