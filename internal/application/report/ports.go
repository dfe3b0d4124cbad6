// Package report contiene los casos de uso de lectura: el reporte de pérdidas
// y ganancias y el resumen del dashboard. Solo consultas; nunca muta el libro.
package report

import (
	"context"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
)

// ProfitPDFGenerator define el puerto de salida para exportar el reporte de
// ganancias como PDF. El adaptador concreto vive en infraestructura.
type ProfitPDFGenerator interface {
	GenerateProfitPDF(ctx context.Context, businessName string, report *dto.ProfitReportDTO) ([]byte, error)
}
