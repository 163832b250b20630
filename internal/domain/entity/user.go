package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User usuario del sistema. La lista de destinatarios de alertas se resuelve
// por el rol explícito y ReceivesAlerts, nunca por coincidencia de texto en otros campos.
type User struct {
	ID             string
	Email          string
	Name           string
	Role           string // admin, staff
	ReceivesAlerts bool
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
