package dto

// ErrorResponse cuerpo de error HTTP. Code es el tipo de error (VALIDATION, NOT_FOUND, ...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	SchemaVersion uint   `json:"schemaVersion"`
}
