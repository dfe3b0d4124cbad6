package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// fakeStore simula la BD en memoria. El fakeTxRunner toma un snapshot de los
// productos antes de cada tx y lo restaura si fn falla, imitando el rollback.
type fakeStore struct {
	products  map[string]*entity.Product
	purchases map[string]*entity.Purchase
	sales     map[string]*entity.Sale
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		purchases: make(map[string]*entity.Purchase),
		sales:     make(map[string]*entity.Sale),
	}
}

func (s *fakeStore) addProduct(p *entity.Product) {
	clone := *p
	s.products[p.ID] = &clone
}

func (s *fakeStore) snapshotProducts() map[string]*entity.Product {
	snap := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		clone := *p
		snap[id] = &clone
	}
	return snap
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.addProduct(p); return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetByUserAndName(userID, name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.UserID == userID && p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ListByUser(userID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	clone := *p
	r.s.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) UpdateStockAndCost(id string, stock, avgCost decimal.Decimal) error {
	p := r.s.products[id]
	p.CurrentStock = stock
	p.AveragePurchasePrice = avgCost
	return nil
}

// ── PurchaseRepository ────────────────────────────────────────────────────────

type fakePurchaseRepo struct{ s *fakeStore }

func (r *fakePurchaseRepo) Create(p *entity.Purchase) error {
	r.s.purchases[p.ID] = p
	return nil
}

func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakePurchaseRepo) ListByUser(userID string) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.s.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) Delete(id string) error {
	delete(r.s.purchases, id)
	return nil
}

func (r *fakePurchaseRepo) ListLinesByProduct(productID string) ([]repository.LedgerLine, error) {
	var lines []repository.LedgerLine
	for _, p := range r.s.purchases {
		for _, item := range p.Items {
			if item.ProductID == productID {
				lines = append(lines, repository.LedgerLine{
					Date:      p.PurchaseDate,
					CreatedAt: p.CreatedAt,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
				})
			}
		}
	}
	sortLines(lines)
	return lines, nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ s *fakeStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	r.s.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return sale, nil
}

func (r *fakeSaleRepo) ListByUser(userID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.UserID == userID {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Delete(id string) error {
	delete(r.s.sales, id)
	return nil
}

func (r *fakeSaleRepo) ListLinesByProduct(productID string) ([]repository.LedgerLine, error) {
	var lines []repository.LedgerLine
	for _, sale := range r.s.sales {
		for _, item := range sale.Items {
			if item.ProductID == productID {
				lines = append(lines, repository.LedgerLine{
					Date:      sale.SaleDate,
					CreatedAt: sale.CreatedAt,
					Quantity:  item.Quantity,
				})
			}
		}
	}
	sortLines(lines)
	return lines, nil
}

func sortLines(lines []repository.LedgerLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.Before(lines[j].Date)
		}
		return lines[i].CreatedAt.Before(lines[j].CreatedAt)
	})
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	s *fakeStore
	// failWith se devuelve en las primeras failTimes ejecuciones sin tocar fn,
	// para probar el reintento ante conflictos de serialización.
	failWith  error
	failTimes int
	runs      int
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.runs++
	if r.failTimes > 0 {
		r.failTimes--
		return r.failWith
	}
	prodSnap := r.s.snapshotProducts()
	purchaseSnap := make(map[string]*entity.Purchase, len(r.s.purchases))
	for id, p := range r.s.purchases {
		purchaseSnap[id] = p
	}
	saleSnap := make(map[string]*entity.Sale, len(r.s.sales))
	for id, s := range r.s.sales {
		saleSnap[id] = s
	}
	err := fn(&fakeProductRepo{r.s}, &fakePurchaseRepo{r.s}, &fakeSaleRepo{r.s})
	if err != nil {
		r.s.products = prodSnap
		r.s.purchases = purchaseSnap
		r.s.sales = saleSnap
	}
	return err
}
