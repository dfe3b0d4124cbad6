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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL
// (usable con pool o tx). Las líneas y gastos viven en tablas hijas con
// ON DELETE CASCADE: borrar la cabecera borra el memo completo.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera, líneas y gastos. Llamar siempre dentro de una tx.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, user_id, purchase_date, total_amount, total_other_expenses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		purchase.ID, purchase.UserID, purchase.PurchaseDate,
		purchase.TotalAmount, purchase.TotalOtherExpenses, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	for _, item := range purchase.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, product_name, unit, position, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, purchase.ID, item.ProductID, item.ProductName, item.Unit,
			item.Position, item.Quantity, item.UnitPrice, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	for i, exp := range purchase.OtherExpenses {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_expenses (id, purchase_id, position, name, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			exp.ID, purchase.ID, i, exp.Name, exp.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert purchase expense: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la compra completa (cabecera + líneas + gastos).
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	ctx := context.Background()
	var p entity.Purchase
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, purchase_date, total_amount, total_other_expenses, created_at
		FROM purchases WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.PurchaseDate, &p.TotalAmount, &p.TotalOtherExpenses, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, expenses, err := r.loadChildren(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Items = items[id]
	p.OtherExpenses = expenses[id]
	return &p, nil
}

// ListByUser lista las compras del usuario, más recientes primero, con líneas
// y gastos resueltos en dos consultas adicionales (no N+1).
func (r *PurchaseRepo) ListByUser(userID string) ([]*entity.Purchase, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, purchase_date, total_amount, total_other_expenses, created_at
		FROM purchases WHERE user_id = $1
		ORDER BY purchase_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var list []*entity.Purchase
	var ids []string
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.PurchaseDate, &p.TotalAmount, &p.TotalOtherExpenses, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
		ids = append(ids, p.ID)
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
	for _, p := range list {
		p.Items = items[p.ID]
		p.OtherExpenses = expenses[p.ID]
	}
	return list, nil
}

// Delete borra la compra; las líneas y gastos caen por cascade.
// ErrNotFound si ya no existe (ej. borrada por otra petición).
func (r *PurchaseRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLinesByProduct devuelve las líneas de compra vivas del producto en orden
// cronológico, para reconstruir stock y costo promedio.
func (r *PurchaseRepo) ListLinesByProduct(productID string) ([]repository.LedgerLine, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT p.purchase_date, p.created_at, pi.quantity, pi.unit_price
		FROM purchase_items pi
		JOIN purchases p ON p.id = pi.purchase_id
		WHERE pi.product_id = $1
		ORDER BY p.purchase_date, p.created_at, pi.position`, productID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []repository.LedgerLine
	for rows.Next() {
		var l repository.LedgerLine
		if err := rows.Scan(&l.Date, &l.CreatedAt, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// loadChildren carga líneas y gastos de un conjunto de compras en dos consultas.
func (r *PurchaseRepo) loadChildren(ctx context.Context, ids []string) (map[string][]entity.PurchaseItem, map[string][]entity.ExpenseItem, error) {
	itemRows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, product_name, unit, position, quantity, unit_price, line_total
		FROM purchase_items WHERE purchase_id = ANY($1)
		ORDER BY position`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer itemRows.Close()
	items := make(map[string][]entity.PurchaseItem)
	for itemRows.Next() {
		var it entity.PurchaseItem
		if err := itemRows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName,
			&it.Unit, &it.Position, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items[it.PurchaseID] = append(items[it.PurchaseID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, err
	}

	expRows, err := r.q.Query(ctx, `
		SELECT purchase_id, id, name, amount
		FROM purchase_expenses WHERE purchase_id = ANY($1)
		ORDER BY position`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list purchase expenses: %w", err)
	}
	defer expRows.Close()
	expenses := make(map[string][]entity.ExpenseItem)
	for expRows.Next() {
		var parentID string
		var e entity.ExpenseItem
		if err := expRows.Scan(&parentID, &e.ID, &e.Name, &e.Amount); err != nil {
			return nil, nil, fmt.Errorf("scan purchase expense: %w", err)
		}
		expenses[parentID] = append(expenses[parentID], e)
	}
	return items, expenses, expRows.Err()
}
