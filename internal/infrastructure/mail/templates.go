package mail

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
)

var printer = message.NewPrinter(language.Spanish)

// AlertSubject asunto del correo de alerta.
func AlertSubject(ev notification.AlertEvent) string {
	prefix := "[STOCK BAJO]"
	if ev.IsCritical() {
		prefix = "[STOCK CRÍTICO]"
	}
	return printer.Sprintf("%s %s en %s", prefix, ev.ItemName, ev.StationName)
}

// AlertBody cuerpo en texto plano del correo de alerta.
func AlertBody(to notification.Recipient, ev notification.AlertEvent) string {
	var b strings.Builder
	name := to.Name
	if name == "" {
		name = to.Email
	}
	b.WriteString(printer.Sprintf("Hola %s,\n\n", name))
	if ev.IsCritical() {
		b.WriteString("El stock de un elemento de protección personal llegó a nivel CRÍTICO.\n\n")
	} else {
		b.WriteString("El stock de un elemento de protección personal está por debajo del mínimo.\n\n")
	}
	b.WriteString(printer.Sprintf("Estación:     %s", ev.StationName))
	if ev.StationLocation != "" {
		b.WriteString(printer.Sprintf(" (%s)", ev.StationLocation))
	}
	b.WriteString("\n")
	b.WriteString(printer.Sprintf("Elemento:     %s", ev.ItemName))
	if ev.ItemCategory != "" {
		b.WriteString(printer.Sprintf(" [%s]", ev.ItemCategory))
	}
	b.WriteString("\n")
	b.WriteString(printer.Sprintf("Stock actual: %d\n", ev.CurrentStock))
	b.WriteString(printer.Sprintf("Umbral:       %d\n", ev.ThresholdValue))
	b.WriteString(printer.Sprintf("Severidad:    %s\n", ev.Severity))
	if !ev.CreatedAt.IsZero() {
		b.WriteString(printer.Sprintf("Fecha:        %s\n", ev.CreatedAt.Format("2006-01-02 15:04 MST")))
	}
	b.WriteString("\nReabastezca la estación y reconozca la alerta en el sistema.\n")
	return b.String()
}
