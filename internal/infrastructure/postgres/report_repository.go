package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura del agregador de ganancias y el
// dashboard. Siempre sobre el pool: los reportes nunca abren transacciones
// de escritura. Los filtros opcionales van como parámetros anulables
// ($n::date IS NULL OR ...) para mantener una sola consulta por agregado.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// GetSalesTotals devuelve revenue, COGS y número de memos de venta del período.
// El COGS sale del unit_cost congelado en cada línea al momento de vender, no
// del costo promedio actual del producto.
func (r *ReportRepo) GetSalesTotals(
	ctx context.Context,
	userID string,
	start, end *time.Time,
	productID *string,
) (repository.SalesTotalsResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(si.quantity * si.unit_price), 0) AS total_sale,
	    COALESCE(SUM(si.quantity * si.unit_cost),  0) AS total_cogs,
	    COUNT(DISTINCT s.id)                          AS sale_count
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	WHERE s.user_id = $1
	  AND ($2::date IS NULL OR s.sale_date >= $2)
	  AND ($3::date IS NULL OR s.sale_date <= $3)
	  AND ($4::uuid IS NULL OR si.product_id = $4)`

	var out repository.SalesTotalsResult
	err := r.pool.QueryRow(ctx, query, userID, start, end, productID).
		Scan(&out.TotalSale, &out.TotalCOGS, &out.SaleCount)
	if err != nil {
		return repository.SalesTotalsResult{}, fmt.Errorf("report.GetSalesTotals: %w", err)
	}
	return out, nil
}

// GetOtherExpensesTotal suma los gastos incidentales de las ventas del período.
func (r *ReportRepo) GetOtherExpensesTotal(
	ctx context.Context,
	userID string,
	start, end *time.Time,
) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(se.amount), 0)
	FROM sale_expenses se
	JOIN sales s ON s.id = se.sale_id
	WHERE s.user_id = $1
	  AND ($2::date IS NULL OR s.sale_date >= $2)
	  AND ($3::date IS NULL OR s.sale_date <= $3)`

	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, query, userID, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("report.GetOtherExpensesTotal: %w", err)
	}
	return total, nil
}

// GetPurchaseTotals devuelve el total gastado en compras (líneas + gastos
// incidentales) y el número de memos del período.
func (r *ReportRepo) GetPurchaseTotals(
	ctx context.Context,
	userID string,
	start, end *time.Time,
) (repository.PurchaseTotalsResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(total_amount), 0) AS total_purchase,
	    COUNT(*)                       AS purchase_count
	FROM purchases
	WHERE user_id = $1
	  AND ($2::date IS NULL OR purchase_date >= $2)
	  AND ($3::date IS NULL OR purchase_date <= $3)`

	var out repository.PurchaseTotalsResult
	err := r.pool.QueryRow(ctx, query, userID, start, end).
		Scan(&out.TotalPurchase, &out.PurchaseCount)
	if err != nil {
		return repository.PurchaseTotalsResult{}, fmt.Errorf("report.GetPurchaseTotals: %w", err)
	}
	return out, nil
}

// GetProductBreakdown devuelve una fila por producto con actividad (venta o
// compra) en el período, ordenadas por ventas descendentes. El precio promedio
// de compra es el ponderado del rango; sin compras en el rango cae al promedio
// vigente del producto.
func (r *ReportRepo) GetProductBreakdown(
	ctx context.Context,
	userID string,
	start, end *time.Time,
	productID *string,
) ([]repository.ProductBreakdownResult, error) {
	const query = `
	WITH sold AS (
	    SELECT si.product_id,
	           SUM(si.quantity)                 AS qty_sold,
	           SUM(si.quantity * si.unit_price) AS sales_total,
	           SUM(si.quantity * si.unit_cost)  AS cogs_total
	    FROM sale_items si
	    JOIN sales s ON s.id = si.sale_id
	    WHERE s.user_id = $1
	      AND ($2::date IS NULL OR s.sale_date >= $2)
	      AND ($3::date IS NULL OR s.sale_date <= $3)
	      AND ($4::uuid IS NULL OR si.product_id = $4)
	    GROUP BY si.product_id
	),
	bought AS (
	    SELECT pi.product_id,
	           SUM(pi.quantity)                 AS qty_bought,
	           SUM(pi.quantity * pi.unit_price) AS purchase_total
	    FROM purchase_items pi
	    JOIN purchases p ON p.id = pi.purchase_id
	    WHERE p.user_id = $1
	      AND ($2::date IS NULL OR p.purchase_date >= $2)
	      AND ($3::date IS NULL OR p.purchase_date <= $3)
	      AND ($4::uuid IS NULL OR pi.product_id = $4)
	    GROUP BY pi.product_id
	)
	SELECT
	    pr.id,
	    pr.name,
	    pr.unit,
	    COALESCE(sold.qty_sold, 0)                    AS quantity_sold,
	    COALESCE(bought.qty_bought, 0)                AS quantity_purchased,
	    CASE
	        WHEN COALESCE(sold.qty_sold, 0) > 0
	        THEN sold.sales_total / sold.qty_sold
	        ELSE 0
	    END                                           AS average_sale_price,
	    CASE
	        WHEN COALESCE(bought.qty_bought, 0) > 0
	        THEN bought.purchase_total / bought.qty_bought
	        ELSE pr.average_purchase_price
	    END                                           AS average_purchase_price,
	    COALESCE(sold.sales_total, 0)                 AS sales_total,
	    COALESCE(sold.sales_total, 0)
	        - COALESCE(sold.cogs_total, 0)            AS profit,
	    pr.current_stock
	FROM products pr
	LEFT JOIN sold   ON sold.product_id   = pr.id
	LEFT JOIN bought ON bought.product_id = pr.id
	WHERE pr.user_id = $1
	  AND (sold.product_id IS NOT NULL OR bought.product_id IS NOT NULL)
	ORDER BY COALESCE(sold.sales_total, 0) DESC, pr.name`

	rows, err := r.pool.Query(ctx, query, userID, start, end, productID)
	if err != nil {
		return nil, fmt.Errorf("report.GetProductBreakdown: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductBreakdownResult
	for rows.Next() {
		var row repository.ProductBreakdownResult
		if err := rows.Scan(
			&row.ProductID,
			&row.Name,
			&row.Unit,
			&row.QuantitySold,
			&row.QuantityPurchased,
			&row.AverageSalePrice,
			&row.AveragePurchasePrice,
			&row.SalesTotal,
			&row.Profit,
			&row.CurrentStock,
		); err != nil {
			return nil, fmt.Errorf("report.GetProductBreakdown scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
