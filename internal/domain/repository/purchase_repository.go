package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

// LedgerLine línea viva del libro (compra o venta) de un producto, en el orden
// en que ocurrió. Se usa para reconstruir stock y costo promedio tras borrar
// una compra: la reversión incremental del promedio ponderado no es invertible
// en general, así que se reproduce el historial restante.
type LedgerLine struct {
	Date      time.Time
	CreatedAt time.Time
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal // solo relevante en compras
}

// PurchaseRepository define el puerto de persistencia para Purchase.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	ListByUser(userID string) ([]*entity.Purchase, error)
	Delete(id string) error
	// ListLinesByProduct devuelve las líneas de compra vivas de un producto,
	// ordenadas por (fecha, creación).
	ListLinesByProduct(productID string) ([]LedgerLine, error)
}
