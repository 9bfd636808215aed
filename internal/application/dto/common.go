package dto

// ErrorResponse registro de falla uniforme que la fachada devuelve al
// colaborador externo: código estable de la taxonomía + mensaje.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
