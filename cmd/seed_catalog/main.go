// seed_catalog genera el script SQL que puebla estaciones, catálogo de EPP y administradores
// a partir de un XML exportado del sistema de bodega (suele venir en ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml del directorio actual y escribe en stdout.
// Los IDs son UUID v5 derivados del nombre (o email), así el script es idempotente.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	xmlPath := "catalogo.xml"
	if len(args) > 0 {
		xmlPath = args[0]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		return fmt.Errorf("abrir XML: %w", err)
	}
	defer f.Close()

	cat, err := parseCatalog(f)
	if err != nil {
		return fmt.Errorf("decodificar XML: %w", err)
	}

	var out io.Writer = os.Stdout
	if len(args) > 1 {
		file, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("crear archivo: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := writeSQL(out, cat); err != nil {
		return fmt.Errorf("escribir SQL: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d estaciones, %d EPP, %d administradores\n",
		len(cat.Stations), len(cat.Items), len(cat.Admins))
	return nil
}
