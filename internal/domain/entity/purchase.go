package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es un memo de compra: una o más líneas de producto más gastos
// incidentales con nombre (flete, bolsas...). Inmutable una vez registrado;
// la única corrección posible es borrarlo, lo que revierte su efecto sobre
// stock y costo promedio.
type Purchase struct {
	ID                 string
	UserID             string
	PurchaseDate       time.Time // fecha calendario, sin hora
	Items              []PurchaseItem
	OtherExpenses      []ExpenseItem
	TotalAmount        decimal.Decimal // líneas + gastos
	TotalOtherExpenses decimal.Decimal
	CreatedAt          time.Time
}

// PurchaseItem línea de producto dentro de una compra.
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	ProductName string // snapshot del nombre al momento de comprar
	Unit        string
	Position    int // orden dentro del memo
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // precio de compra unitario
	LineTotal   decimal.Decimal
}

// ExpenseItem gasto incidental con nombre, asociado a un memo.
type ExpenseItem struct {
	ID     string
	Name   string
	Amount decimal.Decimal
}
