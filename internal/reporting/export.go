// Package reporting produces the Excel listing export of filed complaints.
package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/denuncia"
	"github.com/dchpef/acta-engine/internal/storage"
)

// Exporter renders complaint listings as Excel workbooks
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter instance
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

var columnas = []string{
	"N° de Orden", "Hash", "Fecha", "Hora", "Tipo de Hecho",
	"Lugar del Hecho", "Oficina", "Denunciante", "Documento",
}

// ExportarListado renders the year listing. Returns the workbook bytes and
// the download filename.
func (e *Exporter) ExportarListado(resumenes []storage.Resumen, año int) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	hoja := "Denuncias"
	f.SetSheetName("Sheet1", hoja)

	estilo, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, "", fmt.Errorf("creating header style: %w", err)
	}

	for i, col := range columnas {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(hoja, celda, col)
		f.SetCellStyle(hoja, celda, celda, estilo)
	}

	for fila, r := range resumenes {
		valores := []interface{}{
			r.Orden, r.Hash,
			denuncia.FormatearFecha(r.FechaDenuncia), r.HoraDenuncia,
			r.TipoDenuncia, r.LugarHecho, r.Oficina,
			r.Denunciante, r.Documento,
		}
		for col, v := range valores {
			celda, _ := excelize.CoordinatesToCellName(col+1, fila+2)
			f.SetCellValue(hoja, celda, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("writing workbook: %w", err)
	}

	e.logger.Info("complaint listing exported",
		zap.Int("year", año),
		zap.Int("rows", len(resumenes)))
	return buf.Bytes(), fmt.Sprintf("denuncias_%d.xlsx", año), nil
}
