package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByUserAndName(userID, name string) (*entity.Product, error)
	ListByUser(userID string) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	// Es el punto de serialización del motor de valoración: ventas concurrentes
	// contra el mismo producto se ordenan aquí.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStockAndCost actualiza stock y costo promedio. Solo dentro de una transacción.
	UpdateStockAndCost(id string, stock, avgCost decimal.Decimal) error
}
