package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// SaleUseCase registra y elimina ventas. El chequeo de stock y el descuento
// ocurren sobre la fila bloqueada del producto, en la misma transacción que
// persiste el memo: imposible vender dos veces el mismo stock.
type SaleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, productRepo: productRepo, saleRepo: saleRepo}
}

// Register valida el memo de venta, bloquea cada producto, verifica stock,
// lo descuenta y persiste todo en una transacción. El costo promedio no
// cambia: cada línea guarda un snapshot (UnitCost) para el COGS del reporte.
func (uc *SaleUseCase) Register(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	date, err := time.Parse(dateLayout, in.SaleDate)
	if err != nil || len(in.Products) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Products {
		if line.Product == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.SalePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, exp := range in.OtherExpenses {
		if exp.Name == "" || exp.Amount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	productsByID := make(map[string]*entity.Product, len(in.Products))
	for _, line := range in.Products {
		if _, ok := productsByID[line.Product]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.Product)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.UserID != userID {
			return nil, domain.ErrForbidden
		}
		productsByID[line.Product] = product
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		UserID:    userID,
		SaleDate:  date,
		CreatedAt: now,
	}
	var itemsTotal, expensesTotal decimal.Decimal
	for i, line := range in.Products {
		product := productsByID[line.Product]
		lineTotal := line.Quantity.Mul(line.SalePrice)
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   line.Product,
			ProductName: product.Name,
			Unit:        product.Unit,
			Position:    i,
			Quantity:    line.Quantity,
			UnitPrice:   line.SalePrice,
			LineTotal:   lineTotal,
		})
		itemsTotal = itemsTotal.Add(lineTotal)
	}
	for _, exp := range in.OtherExpenses {
		sale.OtherExpenses = append(sale.OtherExpenses, entity.ExpenseItem{
			ID:     uuid.New().String(),
			Name:   exp.Name,
			Amount: exp.Amount,
		})
		expensesTotal = expensesTotal.Add(exp.Amount)
	}
	sale.TotalOtherExpenses = expensesTotal
	sale.TotalAmount = itemsTotal.Add(expensesTotal)

	// Transacción: check-and-decrement sobre la fila bloqueada. Varias líneas
	// del mismo producto se acumulan contra el stock ya descontado.
	err = runWithRetry(ctx, uc.txRunner, func(
		productRepo repository.ProductRepository,
		_ repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		stockLeft := make(map[string]decimal.Decimal, len(productsByID))
		for _, idx := range saleLockOrder(sale.Items) {
			item := &sale.Items[idx]
			remaining, locked := stockLeft[item.ProductID]
			if !locked {
				product, err := productRepo.GetForUpdate(item.ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrNotFound
				}
				remaining = product.CurrentStock
				// snapshot del costo bajo lock, no del read previo
				productsByID[item.ProductID] = product
			}
			if remaining.LessThan(item.Quantity) {
				return domain.ErrInsufficientStock
			}
			item.UnitCost = productsByID[item.ProductID].AveragePurchasePrice
			stockLeft[item.ProductID] = remaining.Sub(item.Quantity)
		}
		for productID, remaining := range stockLeft {
			product := productsByID[productID]
			if err := productRepo.UpdateStockAndCost(productID, remaining, product.AveragePurchasePrice); err != nil {
				return err
			}
		}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// List devuelve las ventas del usuario, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, userID string) ([]dto.SaleResponse, error) {
	sales, err := uc.saleRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

// GetByID devuelve una venta del usuario; (nil, nil) si no existe.
func (uc *SaleUseCase) GetByID(ctx context.Context, userID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	if sale.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return toSaleResponse(sale), nil
}

// Delete elimina la venta y devuelve el stock vendido a cada producto.
// El costo promedio no se toca: las ventas nunca lo movieron.
func (uc *SaleUseCase) Delete(ctx context.Context, userID, id string) error {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.UserID != userID {
		return domain.ErrForbidden
	}

	qtyByProduct := make(map[string]decimal.Decimal)
	var productIDs []string
	for _, item := range sale.Items {
		if _, ok := qtyByProduct[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		qtyByProduct[item.ProductID] = qtyByProduct[item.ProductID].Add(item.Quantity)
	}
	sort.Strings(productIDs)

	return runWithRetry(ctx, uc.txRunner, func(
		productRepo repository.ProductRepository,
		_ repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, productID := range productIDs {
			product, err := productRepo.GetForUpdate(productID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newStock := product.CurrentStock.Add(qtyByProduct[productID])
			if err := productRepo.UpdateStockAndCost(productID, newStock, product.AveragePurchasePrice); err != nil {
				return err
			}
		}
		return saleRepo.Delete(id)
	})
}

// saleLockOrder devuelve los índices de las líneas ordenados por producto y
// posición, para bloquear siempre en el mismo orden.
func saleLockOrder(items []entity.SaleItem) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if items[idx[a]].ProductID != items[idx[b]].ProductID {
			return items[idx[a]].ProductID < items[idx[b]].ProductID
		}
		return items[idx[a]].Position < items[idx[b]].Position
	})
	return idx
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:                 s.ID,
		SaleDate:           s.SaleDate.Format(dateLayout),
		Products:           make([]dto.SaleLineResponse, 0, len(s.Items)),
		OtherExpenses:      make([]dto.ExpenseResponse, 0, len(s.OtherExpenses)),
		TotalSaleAmount:    s.TotalAmount.Round(2),
		TotalOtherExpenses: s.TotalOtherExpenses.Round(2),
		CreatedAt:          s.CreatedAt,
	}
	for _, item := range s.Items {
		out.Products = append(out.Products, dto.SaleLineResponse{
			Product:     item.ProductID,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			SalePrice:   item.UnitPrice.Round(2),
			LineTotal:   item.LineTotal.Round(2),
		})
	}
	for _, exp := range s.OtherExpenses {
		out.OtherExpenses = append(out.OtherExpenses, dto.ExpenseResponse{Name: exp.Name, Amount: exp.Amount.Round(2)})
	}
	return out
}
