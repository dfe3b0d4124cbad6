package dto

// ErrorResponse cuerpo de error HTTP. El front end muestra Message tal cual.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
