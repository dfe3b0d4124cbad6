// seed genera un script SQL para poblar un catálogo de productos a partir de
// un CSV exportado de planilla (típicamente ISO-8859-1, con tildes y eñes).
//
// Formato esperado del CSV: name,unit — una fila por producto.
//
// Uso: go run ./cmd/seed <user_id> [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: migrations/002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed <user_id> [catalogo.csv]")
		os.Exit(1)
	}
	userID := os.Args[1]
	csvPath := "catalogo.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Las planillas exportadas en Windows llegan en ISO-8859-1
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join("migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Catálogo inicial de productos (generado desde %s)\n\n", filepath.Base(csvPath))
	count := 0
	for i, rec := range records {
		name := strings.TrimSpace(rec[0])
		unit := strings.TrimSpace(rec[1])
		if name == "" || unit == "" || (i == 0 && strings.EqualFold(name, "name")) {
			continue
		}
		fmt.Fprintf(out,
			"INSERT INTO products (id, user_id, name, unit, current_stock, average_purchase_price, created_at, updated_at)\n"+
				"VALUES (gen_random_uuid(), '%s', '%s', '%s', 0, 0, now(), now())\n"+
				"ON CONFLICT (user_id, name) DO NOTHING;\n",
			escape(userID), escape(name), escape(unit),
		)
		count++
	}

	fmt.Printf("OK: %d productos → %s\n", count, outPath)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
