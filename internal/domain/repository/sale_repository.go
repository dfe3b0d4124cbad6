package repository

import "github.com/tu-usuario/contable-pro/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByUser(userID string) ([]*entity.Sale, error)
	Delete(id string) error
	// ListLinesByProduct devuelve las líneas de venta vivas de un producto,
	// ordenadas por (fecha, creación). UnitPrice queda en cero: para el replay
	// del promedio solo importa la cantidad (las ventas no mueven el costo).
	ListLinesByProduct(productID string) ([]LedgerLine, error)
}
