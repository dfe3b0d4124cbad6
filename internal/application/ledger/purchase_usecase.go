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
	"github.com/tu-usuario/contable-pro/internal/domain/valuation"
)

// PurchaseUseCase registra y elimina compras de forma transaccional, con
// bloqueo de fila por producto (SELECT FOR UPDATE) y Commit/Rollback.
// Cada compra actualiza stock y costo promedio ponderado del producto;
// eliminarla revierte el stock y reconstruye el promedio desde el historial
// restante.
type PurchaseUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner TxRunner, productRepo repository.ProductRepository, purchaseRepo repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, productRepo: productRepo, purchaseRepo: purchaseRepo}
}

// Register valida el memo de compra, bloquea cada producto, aplica el promedio
// ponderado y persiste cabecera, líneas y gastos en una sola transacción.
func (uc *PurchaseUseCase) Register(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	date, err := time.Parse(dateLayout, in.PurchaseDate)
	if err != nil || len(in.Products) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Products {
		if line.Product == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.PurchasePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, exp := range in.OtherExpenses {
		if exp.Name == "" || exp.Amount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar productos y ownership (fuera de la tx, solo lectura)
	productsByID, err := uc.loadProducts(userID, in.Products)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		UserID:       userID,
		PurchaseDate: date,
		CreatedAt:    now,
	}
	var itemsTotal, expensesTotal decimal.Decimal
	for i, line := range in.Products {
		product := productsByID[line.Product]
		lineTotal := line.Quantity.Mul(line.PurchasePrice)
		purchase.Items = append(purchase.Items, entity.PurchaseItem{
			ID:          uuid.New().String(),
			PurchaseID:  purchase.ID,
			ProductID:   line.Product,
			ProductName: product.Name,
			Unit:        product.Unit,
			Position:    i,
			Quantity:    line.Quantity,
			UnitPrice:   line.PurchasePrice,
			LineTotal:   lineTotal,
		})
		itemsTotal = itemsTotal.Add(lineTotal)
	}
	for _, exp := range in.OtherExpenses {
		purchase.OtherExpenses = append(purchase.OtherExpenses, entity.ExpenseItem{
			ID:     uuid.New().String(),
			Name:   exp.Name,
			Amount: exp.Amount,
		})
		expensesTotal = expensesTotal.Add(exp.Amount)
	}
	purchase.TotalOtherExpenses = expensesTotal
	purchase.TotalAmount = itemsTotal.Add(expensesTotal)

	// Transacción: bloquear cada producto, recalcular promedio, sumar stock,
	// persistir el memo. Rollback total ante cualquier fallo.
	err = runWithRetry(ctx, uc.txRunner, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.SaleRepository,
	) error {
		for _, item := range lockOrder(purchase.Items) {
			locked, err := productRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			newCost := valuation.WeightedAverageCost(locked.CurrentStock, locked.AveragePurchasePrice, item.Quantity, item.UnitPrice)
			if err := productRepo.UpdateStockAndCost(item.ProductID, locked.CurrentStock.Add(item.Quantity), newCost); err != nil {
				return err
			}
		}
		return purchaseRepo.Create(purchase)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// List devuelve las compras del usuario, más recientes primero.
func (uc *PurchaseUseCase) List(ctx context.Context, userID string) ([]dto.PurchaseResponse, error) {
	purchases, err := uc.purchaseRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, *toPurchaseResponse(p))
	}
	return out, nil
}

// GetByID devuelve una compra del usuario; (nil, nil) si no existe.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, userID, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, nil
	}
	if purchase.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return toPurchaseResponse(purchase), nil
}

// Delete elimina la compra y revierte su efecto: resta el stock comprado y
// reconstruye el costo promedio de cada producto afectado reproduciendo el
// libro restante. Todo-o-nada.
func (uc *PurchaseUseCase) Delete(ctx context.Context, userID, id string) error {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if purchase.UserID != userID {
		return domain.ErrForbidden
	}

	productIDs := distinctProductIDs(purchase.Items)

	return runWithRetry(ctx, uc.txRunner, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Bloquear todos los productos afectados antes de tocar nada
		for _, productID := range productIDs {
			if _, err := productRepo.GetForUpdate(productID); err != nil {
				return err
			}
		}
		if err := purchaseRepo.Delete(id); err != nil {
			return err
		}
		for _, productID := range productIDs {
			purchaseLines, err := purchaseRepo.ListLinesByProduct(productID)
			if err != nil {
				return err
			}
			saleLines, err := saleRepo.ListLinesByProduct(productID)
			if err != nil {
				return err
			}
			stock, avgCost := replayLedger(purchaseLines, saleLines)
			// La compra respaldaba ventas posteriores: borrarla dejaría stock negativo
			if stock.IsNegative() {
				return domain.ErrConflict
			}
			if err := productRepo.UpdateStockAndCost(productID, stock, avgCost); err != nil {
				return err
			}
		}
		return nil
	})
}

// loadProducts resuelve y valida los productos referenciados por las líneas.
func (uc *PurchaseUseCase) loadProducts(userID string, lines []dto.PurchaseLineRequest) (map[string]*entity.Product, error) {
	productsByID := make(map[string]*entity.Product, len(lines))
	for _, line := range lines {
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
	return productsByID, nil
}

// lockOrder devuelve las líneas ordenadas por producto (y posición dentro del
// memo). Bloquear siempre en el mismo orden evita deadlocks entre
// transacciones concurrentes multi-línea.
func lockOrder(items []entity.PurchaseItem) []entity.PurchaseItem {
	sorted := make([]entity.PurchaseItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

func distinctProductIDs(items []entity.PurchaseItem) []string {
	seen := make(map[string]bool, len(items))
	var ids []string
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:                  p.ID,
		PurchaseDate:        p.PurchaseDate.Format(dateLayout),
		Products:            make([]dto.PurchaseLineResponse, 0, len(p.Items)),
		OtherExpenses:       make([]dto.ExpenseResponse, 0, len(p.OtherExpenses)),
		TotalPurchaseAmount: p.TotalAmount.Round(2),
		TotalOtherExpenses:  p.TotalOtherExpenses.Round(2),
		CreatedAt:           p.CreatedAt,
	}
	for _, item := range p.Items {
		out.Products = append(out.Products, dto.PurchaseLineResponse{
			Product:       item.ProductID,
			ProductName:   item.ProductName,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			PurchasePrice: item.UnitPrice.Round(2),
			LineTotal:     item.LineTotal.Round(2),
		})
	}
	for _, exp := range p.OtherExpenses {
		out.OtherExpenses = append(out.OtherExpenses, dto.ExpenseResponse{Name: exp.Name, Amount: exp.Amount.Round(2)})
	}
	return out
}
