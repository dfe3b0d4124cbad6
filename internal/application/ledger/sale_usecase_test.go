package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
)

func saleReq(date string, lines ...dto.SaleLineRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{SaleDate: date, Products: lines}
}

// La venta descuenta stock sin mover el promedio, y congela el costo promedio
// vigente en la línea (de ahí sale el COGS de los reportes).
func TestSaleRegister_DescuentaStockYCongelaCosto(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("100"), PurchasePrice: d("40")}))
	require.NoError(t, err)

	out, err := saleUC.Register(ctx, testUserID,
		saleReq("2026-08-05", dto.SaleLineRequest{Product: "p1", Quantity: d("30"), SalePrice: d("60")}))
	require.NoError(t, err)

	p := store.products["p1"]
	assert.True(t, d("70").Equal(p.CurrentStock), "stock: %s", p.CurrentStock)
	assert.True(t, d("40").Equal(p.AveragePurchasePrice), "el promedio no cambia al vender")
	assert.True(t, d("1800").Equal(out.TotalSaleAmount))

	stored := store.sales[out.ID]
	require.Len(t, stored.Items, 1)
	assert.True(t, d("40").Equal(stored.Items[0].UnitCost), "unit_cost congelado: %s", stored.Items[0].UnitCost)
}

// Compras posteriores mueven el promedio, pero el costo congelado de la venta
// anterior no cambia.
func TestSaleRegister_CostoCongeladoSobreviveCompras(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("100"), PurchasePrice: d("40")}))
	require.NoError(t, err)
	sale, err := saleUC.Register(ctx, testUserID,
		saleReq("2026-08-05", dto.SaleLineRequest{Product: "p1", Quantity: d("10"), SalePrice: d("60")}))
	require.NoError(t, err)
	_, err = purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-10", dto.PurchaseLineRequest{Product: "p1", Quantity: d("90"), PurchasePrice: d("80")}))
	require.NoError(t, err)

	assert.True(t, d("40").Equal(store.sales[sale.ID].Items[0].UnitCost))
}

// Sin stock suficiente la venta se rechaza completa y nada cambia.
func TestSaleRegister_StockInsuficiente(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("10"), PurchasePrice: d("40")}))
	require.NoError(t, err)

	_, err = saleUC.Register(ctx, testUserID,
		saleReq("2026-08-05", dto.SaleLineRequest{Product: "p1", Quantity: d("15"), SalePrice: d("60")}))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, d("10").Equal(store.products["p1"].CurrentStock), "stock intacto tras rechazo")
	assert.Empty(t, store.sales)
}

// Varias líneas del mismo producto se acumulan contra el stock: 6 + 5 > 10.
func TestSaleRegister_LineasMismoProductoAcumulan(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("10"), PurchasePrice: d("40")}))
	require.NoError(t, err)

	_, err = saleUC.Register(ctx, testUserID, saleReq("2026-08-05",
		dto.SaleLineRequest{Product: "p1", Quantity: d("6"), SalePrice: d("60")},
		dto.SaleLineRequest{Product: "p1", Quantity: d("5"), SalePrice: d("55")},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("10").Equal(store.products["p1"].CurrentStock))
}

func TestSaleRegister_Validaciones(t *testing.T) {
	store, _, _, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := saleUC.Register(ctx, testUserID, saleReq("2026-08-05"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = saleUC.Register(ctx, testUserID,
		saleReq("mala-fecha", dto.SaleLineRequest{Product: "p1", Quantity: d("1"), SalePrice: d("1")}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = saleUC.Register(ctx, testUserID,
		saleReq("2026-08-05", dto.SaleLineRequest{Product: "nope", Quantity: d("1"), SalePrice: d("1")}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Borrar una venta devuelve el stock vendido; el promedio queda igual.
func TestSaleDelete_DevuelveStock(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("100"), PurchasePrice: d("40")}))
	require.NoError(t, err)
	sale, err := saleUC.Register(ctx, testUserID,
		saleReq("2026-08-05", dto.SaleLineRequest{Product: "p1", Quantity: d("30"), SalePrice: d("60")}))
	require.NoError(t, err)

	require.NoError(t, saleUC.Delete(ctx, testUserID, sale.ID))

	p := store.products["p1"]
	assert.True(t, d("100").Equal(p.CurrentStock))
	assert.True(t, d("40").Equal(p.AveragePurchasePrice))
	assert.Empty(t, store.sales)
}

func TestSaleDelete_NoEncontradaYAjena(t *testing.T) {
	store, _, purchaseUC, saleUC := newEnv()
	seedProduct(store, "p1", "Arroz")
	ctx := context.Background()

	assert.ErrorIs(t, saleUC.Delete(ctx, testUserID, "nope"), domain.ErrNotFound)

	_, err := purchaseUC.Register(ctx, testUserID,
		purchaseReq("2026-08-01", dto.PurchaseLineRequest{Product: "p1", Quantity: d("10"), PurchasePrice: d("40")}))
	require.NoError(t, err)
	sale, err := saleUC.Register(ctx, testUserID,
		saleReq("2026-08-05", dto.SaleLineRequest{Product: "p1", Quantity: d("2"), SalePrice: d("60")}))
	require.NoError(t, err)
	assert.ErrorIs(t, saleUC.Delete(ctx, otherUserID, sale.ID), domain.ErrForbidden)
}
