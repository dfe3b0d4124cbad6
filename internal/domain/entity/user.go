package entity

import "time"

// User dueño de un negocio. Todos los productos, compras y ventas quedan
// scoped por UserID (el token JWT lo lleva).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
