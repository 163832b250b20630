package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// SeedDemo carga un catálogo mínimo para desarrollo local (DB_DRIVER=memory).
// Las estaciones arrancan vacías: el primer bulk-restock las auto-inicializa.
func SeedDemo(s *Store, adminEmail string) {
	now := time.Now().UTC()
	for _, st := range []entity.Station{
		{ID: "3f1d2b8e-0001-4c1a-9a11-000000000001", Name: "Estación Norte", Location: "Planta 1 - Acceso norte"},
		{ID: "3f1d2b8e-0001-4c1a-9a11-000000000002", Name: "Estación Sur", Location: "Planta 1 - Bodega sur"},
		{ID: "3f1d2b8e-0001-4c1a-9a11-000000000003", Name: "Estación Centro", Location: "Planta 2 - Línea de ensamble"},
	} {
		st.Active = true
		st.CreatedAt, st.UpdatedAt = now, now
		s.AddStation(st)
	}
	for _, it := range []entity.PPEItem{
		{ID: "7a0c5e21-0002-4b7e-8d22-000000000001", Name: "Guantes de nitrilo", Category: "manos", DefaultMinThreshold: 20, DefaultMaxCapacity: 200, UnitCost: decimal.RequireFromString("1800")},
		{ID: "7a0c5e21-0002-4b7e-8d22-000000000002", Name: "Gafas de seguridad", Category: "ojos", DefaultMinThreshold: 10, DefaultMaxCapacity: 60, UnitCost: decimal.RequireFromString("12500")},
		{ID: "7a0c5e21-0002-4b7e-8d22-000000000003", Name: "Tapones auditivos", Category: "oídos", DefaultMinThreshold: 50, DefaultMaxCapacity: 500, UnitCost: decimal.RequireFromString("900")},
		{ID: "7a0c5e21-0002-4b7e-8d22-000000000004", Name: "Mascarilla N95", Category: "respiratorio", DefaultMinThreshold: 30, DefaultMaxCapacity: 300, UnitCost: decimal.RequireFromString("4500")},
	} {
		it.Active = true
		it.CreatedAt, it.UpdatedAt = now, now
		s.AddItem(it)
	}
	if adminEmail != "" {
		s.AddUser(entity.User{
			ID: "9b3e7f10-0003-4e2a-b333-000000000001", Email: adminEmail, Name: "Administrador",
			Role: entity.RoleAdmin, ReceivesAlerts: true, Active: true, CreatedAt: now, UpdatedAt: now,
		})
	}
}
