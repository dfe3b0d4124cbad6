package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

const (
	testUserID  = "00000000-0000-0000-0000-000000000001"
	otherUserID = "00000000-0000-0000-0000-000000000099"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func newEnv() (*fakeStore, *fakeTxRunner, *PurchaseUseCase, *SaleUseCase) {
	store := newFakeStore()
	runner := &fakeTxRunner{s: store}
	productRepo := &fakeProductRepo{store}
	purchaseUC := NewPurchaseUseCase(runner, productRepo, &fakePurchaseRepo{store})
	saleUC := NewSaleUseCase(runner, productRepo, &fakeSaleRepo{store})
	return store, runner, purchaseUC, saleUC
}

func seedProduct(store *fakeStore, id, name string) {
	now := time.Now()
	store.addProduct(&entity.Product{
		ID: id, UserID: testUserID, Name: name, Unit: "kg",
		CurrentStock: decimal.Zero, AveragePurchasePrice: decimal.Zero,
		CreatedAt: now, UpdatedAt: now,
	})
}

func purchaseReq(date string, lines ...dto.PurchaseLineRequest) dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{PurchaseDate: date, Products: lines}
}

// Dos compras del mismo producto: el promedio ponderado mezcla los lotes.
// 100 kg a $40 y luego 50 kg a $46 → stock 150, promedio 42.
func TestPurchaseRegister_ActualizaStockYPromedio(t *testing.T) {
	store, _, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")

	_, err := purchaseUC.Register(context.Background(), testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("100"), PurchasePrice: d("40")}))
	require.NoError(t, err)

	out, err := purchaseUC.Register(context.Background(), testUserID,
		purchaseReq("2026-08-10", dto.PurchaseLineRequest{Product: "p1", Quantity: d("50"), PurchasePrice: d("46")}))
	require.NoError(t, err)

	p := store.products["p1"]
	assert.True(t, d("150").Equal(p.CurrentStock), "stock: %s", p.CurrentStock)
	assert.True(t, d("42").Equal(p.AveragePurchasePrice), "promedio: %s", p.AveragePurchasePrice)
	assert.True(t, d("2300").Equal(out.TotalPurchaseAmount), "total: %s", out.TotalPurchaseAmount)
}

// Los gastos incidentales suman al total del memo, no al costo del producto.
func TestPurchaseRegister_GastosNoAfectanPromedio(t *testing.T) {
	store, _, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")

	in := purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("10"), PurchasePrice: d("40")})
	in.OtherExpenses = []dto.ExpenseRequest{{Name: "flete", Amount: d("25")}}

	out, err := purchaseUC.Register(context.Background(), testUserID, in)
	require.NoError(t, err)

	assert.True(t, d("425").Equal(out.TotalPurchaseAmount))
	assert.True(t, d("25").Equal(out.TotalOtherExpenses))
	assert.True(t, d("40").Equal(store.products["p1"].AveragePurchasePrice))
}

func TestPurchaseRegister_Validaciones(t *testing.T) {
	store, _, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreatePurchaseRequest
		want error
	}{
		{"fecha inválida", purchaseReq("01/08/2026", dto.PurchaseLineRequest{Product: "p1", Quantity: d("1"), PurchasePrice: d("1")}), domain.ErrInvalidInput},
		{"sin líneas", purchaseReq("2026-08-01"), domain.ErrInvalidInput},
		{"cantidad cero", purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: decimal.Zero, PurchasePrice: d("1")}), domain.ErrInvalidInput},
		{"precio negativo", purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("1"), PurchasePrice: d("-1")}), domain.ErrInvalidInput},
		{"producto inexistente", purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "nope", Quantity: d("1"), PurchasePrice: d("1")}), domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := purchaseUC.Register(ctx, testUserID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Producto de otro usuario
	_, err := purchaseUC.Register(ctx, otherUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("1"), PurchasePrice: d("1")}))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Borrar la compra más reciente reconstruye el promedio desde el historial
// restante: vuelve al estado previo a esa compra.
func TestPurchaseDelete_ReplayRestauraPromedio(t *testing.T) {
	store, _, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("100"), PurchasePrice: d("40")}))
	require.NoError(t, err)
	second, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-10", dto.PurchaseLineRequest{Product: "p1", Quantity: d("50"), PurchasePrice: d("46")}))
	require.NoError(t, err)

	require.NoError(t, purchaseUC.Delete(ctx, testUserID, second.ID))

	p := store.products["p1"]
	assert.True(t, d("100").Equal(p.CurrentStock), "stock: %s", p.CurrentStock)
	assert.True(t, d("40").Equal(p.AveragePurchasePrice), "promedio: %s", p.AveragePurchasePrice)
	assert.Empty(t, store.purchases[second.ID])
}

// Una compra que respalda ventas posteriores no se puede borrar: dejaría el
// stock en negativo.
func TestPurchaseDelete_VentaPosteriorImpideBorrar(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	purchase, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("100"), PurchasePrice: d("40")}))
	require.NoError(t, err)

	_, err = saleUC.Register(ctx, testUserID, dto.CreateSaleRequest{
		SaleDate: "2026-08-05",
		Products: []dto.SaleLineRequest{{Product: "p1", Quantity: d("80"), SalePrice: d("60")}},
	})
	require.NoError(t, err)

	err = purchaseUC.Delete(ctx, testUserID, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Nada cambió: la compra sigue viva y el stock intacto
	assert.NotNil(t, store.purchases[purchase.ID])
	assert.True(t, d("20").Equal(store.products["p1"].CurrentStock))
}

func TestPurchaseDelete_NoEncontradaYAjena(t *testing.T) {
	store, _, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	assert.ErrorIs(t, purchaseUC.Delete(ctx, testUserID, "nope"), domain.ErrNotFound)

	purchase, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("5"), PurchasePrice: d("10")}))
	require.NoError(t, err)
	assert.ErrorIs(t, purchaseUC.Delete(ctx, otherUserID, purchase.ID), domain.ErrForbidden)
}

// Ante un conflicto de serialización la operación se reintenta una sola vez.
func TestRunWithRetry_ReintentaUnaVezEnConflicto(t *testing.T) {
	store, runner, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")
	runner.failWith = domain.ErrConflict
	runner.failTimes = 1

	_, err := purchaseUC.Register(context.Background(), testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("10"), PurchasePrice: d("40")}))
	require.NoError(t, err)
	assert.Equal(t, 2, runner.runs)
	assert.True(t, d("10").Equal(store.products["p1"].CurrentStock))
}

// Si el reintento también falla, el conflicto llega al caller.
func TestRunWithRetry_ConflictoPersistente(t *testing.T) {
	store, runner, purchaseUC, _ := newEnv()
	seedProduct(store, "p1", "Arroz")
	runner.failWith = domain.ErrConflict
	runner.failTimes = 2

	_, err := purchaseUC.Register(context.Background(), testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("10"), PurchasePrice: d("40")}))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 2, runner.runs)
}
