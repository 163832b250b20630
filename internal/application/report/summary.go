package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// FormatMoney valor redondeado al peso con separador de miles en español.
func FormatMoney(v decimal.Decimal) string {
	return printer.Sprintf("$%d", v.Round(0).IntPart())
}

// Summary cuerpo de texto del correo del reporte.
func Summary(r *InventoryReport, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	b.WriteString(printer.Sprintf("Reporte de inventario generado %s\n\n", r.GeneratedAt.In(loc).Format("2006-01-02 15:04 MST")))
	b.WriteString(printer.Sprintf("Estaciones:          %d\n", len(r.Stations)))
	b.WriteString(printer.Sprintf("EPP en nivel bajo:   %d\n", r.LowCount))
	b.WriteString(printer.Sprintf("EPP en nivel crítico: %d\n", r.CriticalCount))
	b.WriteString(printer.Sprintf("Alertas activas:     %d\n", len(r.ActiveAlerts)))
	b.WriteString("Valor del inventario: " + FormatMoney(r.TotalValue) + "\n\n")
	for _, st := range r.Stations {
		b.WriteString(printer.Sprintf("- %s: %d EPP, %d bajos, %d críticos\n", st.StationName, st.Items, st.LowItems, st.CriticalItems))
	}
	b.WriteString("\nSe adjuntan el detalle en PDF y XLSX.\n")
	return b.String()
}
