package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable
// con pool o tx). Cada línea guarda unit_cost: el snapshot del costo promedio
// al vender, del que sale el COGS de los reportes.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera, líneas y gastos. Llamar siempre dentro de una tx.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, user_id, sale_date, total_amount, total_other_expenses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sale.ID, sale.UserID, sale.SaleDate,
		sale.TotalAmount, sale.TotalOtherExpenses, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range sale.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, product_name, unit, position, quantity, unit_price, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ID, sale.ID, item.ProductID, item.ProductName, item.Unit,
			item.Position, item.Quantity, item.UnitPrice, item.UnitCost, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	for i, exp := range sale.OtherExpenses {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_expenses (id, sale_id, position, name, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			exp.ID, sale.ID, i, exp.Name, exp.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert sale expense: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta completa (cabecera + líneas + gastos).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, sale_date, total_amount, total_other_expenses, created_at
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.SaleDate, &s.TotalAmount, &s.TotalOtherExpenses, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, expenses, err := r.loadChildren(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	s.Items = items[id]
	s.OtherExpenses = expenses[id]
	return &s, nil
}

// ListByUser lista las ventas del usuario, más recientes primero.
func (r *SaleRepo) ListByUser(userID string) ([]*entity.Sale, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, sale_date, total_amount, total_other_expenses, created_at
		FROM sales WHERE user_id = $1
		ORDER BY sale_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	var ids []string
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.SaleDate, &s.TotalAmount, &s.TotalOtherExpenses, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}
	items, expenses, err := r.loadChildren(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
		s.OtherExpenses = expenses[s.ID]
	}
	return list, nil
}

// Delete borra la venta; líneas y gastos caen por cascade.
func (r *SaleRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLinesByProduct devuelve las líneas de venta vivas del producto en orden
// cronológico. UnitPrice queda en cero: las ventas no mueven el costo promedio.
func (r *SaleRepo) ListLinesByProduct(productID string) ([]repository.LedgerLine, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT s.sale_date, s.created_at, si.quantity
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE si.product_id = $1
		ORDER BY s.sale_date, s.created_at, si.position`, productID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []repository.LedgerLine
	for rows.Next() {
		var l repository.LedgerLine
		if err := rows.Scan(&l.Date, &l.CreatedAt, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *SaleRepo) loadChildren(ctx context.Context, ids []string) (map[string][]entity.SaleItem, map[string][]entity.ExpenseItem, error) {
	itemRows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, unit, position, quantity, unit_price, unit_cost, line_total
		FROM sale_items WHERE sale_id = ANY($1)
		ORDER BY position`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list sale items: %w", err)
	}
	defer itemRows.Close()
	items := make(map[string][]entity.SaleItem)
	for itemRows.Next() {
		var it entity.SaleItem
		if err := itemRows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName,
			&it.Unit, &it.Position, &it.Quantity, &it.UnitPrice, &it.UnitCost, &it.LineTotal); err != nil {
			return nil, nil, fmt.Errorf("scan sale item: %w", err)
		}
		items[it.SaleID] = append(items[it.SaleID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, err
	}

	expRows, err := r.q.Query(ctx, `
		SELECT sale_id, id, name, amount
		FROM sale_expenses WHERE sale_id = ANY($1)
		ORDER BY position`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list sale expenses: %w", err)
	}
	defer expRows.Close()
	expenses := make(map[string][]entity.ExpenseItem)
	for expRows.Next() {
		var parentID string
		var e entity.ExpenseItem
		if err := expRows.Scan(&parentID, &e.ID, &e.Name, &e.Amount); err != nil {
			return nil, nil, fmt.Errorf("scan sale expense: %w", err)
		}
		expenses[parentID] = append(expenses[parentID], e)
	}
	return items, expenses, expRows.Err()
}
