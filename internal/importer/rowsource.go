// Package importer carga los dos archivos que alimentan el sistema: el
// informe de dotación y el Reporte de Estadía del reloj control. Ambos
// llegan como planillas exportadas a CSV, con filas decorativas antes del
// encabezado real, así que la lectura es de mejor esfuerzo: las filas
// malas se acumulan como errores y la carga continúa.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/planta-aurora/backoffice/backend/internal/attendance"
)

// headerScanLimit es cuántas filas se revisan buscando el encabezado antes
// de declarar el archivo inservible.
const headerScanLimit = 10

// RowSource entrega filas de datos ya posicionadas después del encabezado.
// Columns devuelve los nombres de columna normalizados (mayúsculas, sin
// tildes); Next devuelve las celdas alineadas con Columns y io.EOF al
// terminar.
type RowSource interface {
	Columns() []string
	Next() ([]any, error)
}

// MissingColumnsError es el error estructural de un archivo al que le
// faltan columnas obligatorias. Se distingue de los errores por fila
// porque aborta la carga completa.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("faltan columnas obligatorias: %s", strings.Join(e.Missing, ", "))
}

type csvSource struct {
	reader  *csv.Reader
	columns []string
}

// NewCSVSource localiza el encabezado dentro de las primeras filas del
// archivo (las planillas exportadas traen título y filas vacías arriba) y
// deja el lector posicionado en la primera fila de datos. El encabezado es
// la primera fila que contiene una celda RUT.
func NewCSVSource(r io.Reader) (RowSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for i := 0; i < headerScanLimit; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer fila %d: %w", i+1, err)
		}

		for _, cell := range record {
			if attendance.Fold(cell) == "RUT" {
				columns := make([]string, len(record))
				for j, c := range record {
					columns[j] = attendance.Fold(c)
				}
				return &csvSource{reader: reader, columns: columns}, nil
			}
		}
	}

	return nil, &MissingColumnsError{Missing: []string{"RUT"}}
}

func (s *csvSource) Columns() []string {
	return s.columns
}

func (s *csvSource) Next() ([]any, error) {
	record, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	row := make([]any, len(record))
	for i, c := range record {
		row[i] = c
	}
	return row, nil
}

// columnIndex arma el mapa nombre→posición y reporta las obligatorias que
// falten. Los nombres se comparan ya normalizados.
func columnIndex(source RowSource, required ...string) (map[string]int, error) {
	index := map[string]int{}
	for i, name := range source.Columns() {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	return index, nil
}

// cell saca la celda de una columna, tolerando filas más cortas que el
// encabezado y columnas opcionales ausentes.
func cell(row []any, index map[string]int, names ...string) any {
	for _, name := range names {
		i, ok := index[name]
		if !ok || i >= len(row) {
			continue
		}
		return row[i]
	}
	return nil
}
