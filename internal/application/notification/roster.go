package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// Recipient destinatario de alertas.
type Recipient struct {
	Name  string
	Email string
}

// Roster lista inmutable de administradores que reciben alertas.
// Se resuelve una sola vez al arrancar por rol explícito (admin + receives_alerts + activo).
type Roster struct {
	recipients []Recipient
}

// NewRoster construye el roster a partir de una lista fija (tests, configuración).
// Descarta correos vacíos y duplicados (sin distinguir mayúsculas).
func NewRoster(recipients ...Recipient) *Roster {
	seen := make(map[string]bool, len(recipients))
	out := make([]Recipient, 0, len(recipients))
	for _, r := range recipients {
		key := strings.ToLower(strings.TrimSpace(r.Email))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		r.Email = strings.TrimSpace(r.Email)
		out = append(out, r)
	}
	return &Roster{recipients: out}
}

// LoadRoster consulta los destinatarios en el repositorio de usuarios.
func LoadRoster(ctx context.Context, users repository.UserRepository) (*Roster, error) {
	list, err := users.ListAlertRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar destinatarios de alertas: %w", err)
	}
	recipients := make([]Recipient, 0, len(list))
	for _, u := range list {
		recipients = append(recipients, Recipient{Name: u.Name, Email: u.Email})
	}
	return NewRoster(recipients...), nil
}

// Recipients copia de la lista.
func (r *Roster) Recipients() []Recipient {
	if r == nil {
		return nil
	}
	return append([]Recipient(nil), r.recipients...)
}

// Emails solo las direcciones.
func (r *Roster) Emails() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.recipients))
	for _, rc := range r.recipients {
		out = append(out, rc.Email)
	}
	return out
}

// Len número de destinatarios.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.recipients)
}
