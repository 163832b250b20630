package entity

import "time"

// Station representa un punto físico de dispensación de EPP con inventario propio.
type Station struct {
	ID        string
	Name      string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
