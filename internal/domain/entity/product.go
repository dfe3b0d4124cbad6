package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// CurrentStock y AveragePurchasePrice solo los muta el motor de valoración
// (casos de uso de ledger) dentro de una transacción; nunca una lectura de reporte.
type Product struct {
	ID                   string
	UserID               string // dueño del negocio (scope por usuario)
	Name                 string
	Unit                 string          // etiqueta de unidad: kg, litro, pieza...
	CurrentStock         decimal.Decimal // >= 0
	AveragePurchasePrice decimal.Decimal // costo promedio ponderado (inicia en 0)
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
