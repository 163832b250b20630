package main

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// namespace de los UUID v5 del catálogo.
var namespace = uuid.MustParse("5d0b6f3e-8c1a-4f2e-9b7d-3a6c1e0f9a21")

type catalogXML struct {
	Stations []struct {
		Name     string `xml:"nombre,attr"`
		Location string `xml:"ubicacion,attr"`
	} `xml:"estaciones>estacion"`
	Items []struct {
		Name     string `xml:"nombre,attr"`
		Category string `xml:"categoria,attr"`
		Min      int    `xml:"minimo,attr"`
		Capacity int    `xml:"capacidad,attr"`
		Cost     string `xml:"costo,attr"`
	} `xml:"epps>epp"`
	Admins []struct {
		Email string `xml:"email,attr"`
		Name  string `xml:"nombre,attr"`
	} `xml:"administradores>admin"`
}

type stationRow struct{ id, name, location string }

type itemRow struct {
	id, name, category string
	min, capacity      int
	cost               decimal.Decimal
}

type adminRow struct{ id, email, name string }

type catalog struct {
	Stations []stationRow
	Items    []itemRow
	Admins   []adminRow
}

// parseCatalog decodifica el XML (UTF-8 o ISO-8859-1) y descarta entradas incompletas.
func parseCatalog(r io.Reader) (*catalog, error) {
	var raw catalogXML
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		if strings.EqualFold(charset, "windows-1252") {
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	cat := &catalog{}
	for _, s := range raw.Stations {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		cat.Stations = append(cat.Stations, stationRow{
			id: uuidFor("station", name), name: name, location: strings.TrimSpace(s.Location),
		})
	}
	for _, it := range raw.Items {
		name := strings.TrimSpace(it.Name)
		// min >= 1: la auto-inicialización deriva critical = min/2 y exige critical < min
		if name == "" || it.Min < 1 || it.Capacity < 0 {
			continue
		}
		cost := decimal.Zero
		if c := strings.TrimSpace(strings.ReplaceAll(it.Cost, ",", ".")); c != "" {
			d, err := decimal.NewFromString(c)
			if err != nil {
				return nil, fmt.Errorf("costo inválido para %q: %w", name, err)
			}
			cost = d
		}
		cat.Items = append(cat.Items, itemRow{
			id: uuidFor("ppe_item", name), name: name, category: strings.TrimSpace(it.Category),
			min: it.Min, capacity: it.Capacity, cost: cost,
		})
	}
	for _, a := range raw.Admins {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" {
			continue
		}
		cat.Admins = append(cat.Admins, adminRow{id: uuidFor("user", email), email: email, name: strings.TrimSpace(a.Name)})
	}

	// Ordenar para salida estable
	sort.Slice(cat.Stations, func(i, j int) bool { return cat.Stations[i].name < cat.Stations[j].name })
	sort.Slice(cat.Items, func(i, j int) bool { return cat.Items[i].name < cat.Items[j].name })
	sort.Slice(cat.Admins, func(i, j int) bool { return cat.Admins[i].email < cat.Admins[j].email })
	return cat, nil
}

// writeSQL emite los INSERT idempotentes (ON CONFLICT ... DO UPDATE).
func writeSQL(w io.Writer, cat *catalog) error {
	out := bufio.NewWriter(w)
	out.WriteString("-- Catálogo inicial de estaciones y EPP\n")
	out.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(cat.Stations) > 0 {
		out.WriteString("-- 1. Estaciones\n")
		out.WriteString("INSERT INTO stations (id, name, location) VALUES\n")
		for i, s := range cat.Stations {
			fmt.Fprintf(out, "  ('%s', '%s', '%s')%s\n", s.id, escapeSQL(s.name), escapeSQL(s.location), sep(i, len(cat.Stations)))
		}
		out.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location;\n\n")
	}

	if len(cat.Items) > 0 {
		out.WriteString("-- 2. EPP\n")
		out.WriteString("INSERT INTO ppe_items (id, name, category, default_min_threshold, default_max_capacity, unit_cost) VALUES\n")
		for i, it := range cat.Items {
			fmt.Fprintf(out, "  ('%s', '%s', '%s', %d, %d, %s)%s\n", it.id, escapeSQL(it.name), escapeSQL(it.category),
				it.min, it.capacity, it.cost.StringFixed(2), sep(i, len(cat.Items)))
		}
		out.WriteString("ON CONFLICT (id) DO UPDATE SET category = EXCLUDED.category,\n")
		out.WriteString("  default_min_threshold = EXCLUDED.default_min_threshold,\n")
		out.WriteString("  default_max_capacity = EXCLUDED.default_max_capacity,\n")
		out.WriteString("  unit_cost = EXCLUDED.unit_cost;\n\n")
	}

	if len(cat.Admins) > 0 {
		out.WriteString("-- 3. Administradores que reciben alertas\n")
		out.WriteString("INSERT INTO users (id, email, name, role, receives_alerts) VALUES\n")
		for i, a := range cat.Admins {
			fmt.Fprintf(out, "  ('%s', '%s', '%s', 'admin', TRUE)%s\n", a.id, escapeSQL(a.email), escapeSQL(a.name), sep(i, len(cat.Admins)))
		}
		out.WriteString("ON CONFLICT (email) DO UPDATE SET role = 'admin', receives_alerts = TRUE;\n")
	}
	return out.Flush()
}

func uuidFor(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+strings.ToLower(key))).String()
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
