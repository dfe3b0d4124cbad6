package dto

// RegisterRequest entrada para crear una cuenta.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest cambios de perfil; Password en nil no cambia la clave.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// AuthResponse usuario autenticado. Token se omite en respuestas de perfil
// que no renuevan la sesión.
type AuthResponse struct {
	Token string `json:"token,omitempty"`
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
