package infra

// pdf.go — Production order sheet generation using go-pdf/fpdf.
// The sheet travels with the physical job through the shop floor: header with
// the consecutivo, client block, item table with group / occupation / millares
// and the special finishes per item.
//
// The output file is saved to storagePath/orden_{consecutivo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// GenerateOrdenPDF renders the production order sheet for a pedido.
// Returns the absolute path to the generated file.
func GenerateOrdenPDF(pedido *model.Pedido, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("orden_%d.pdf", pedido.Consecutivo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Orden de Produccion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Pedido N° %d  (%s)", pedido.Consecutivo, pedido.Tipo), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Client block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	if pedido.Cliente != nil {
		pdf.CellFormat(contentW, 5, "Cliente: "+pedido.Cliente.Empresa, "", 1, "L", false, 0, "")
		if pedido.Cliente.Contacto != "" {
			pdf.CellFormat(contentW, 5, "Contacto: "+pedido.Cliente.Contacto, "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(contentW, 5, "Telefono: "+pedido.Cliente.Telefono, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Recibido: "+pedido.FechaRecepcion.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.38 // catalog name
	col2 := contentW * 0.18 // grupo
	col3 := contentW * 0.12 // ocupacion
	col4 := contentW * 0.12 // millares
	col5 := contentW * 0.20 // precio

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Grupo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "Ocup.", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 5, "Mill.", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col5, 5, "Precio", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range pedido.Items {
		nombre := ""
		if item.Referencia != nil {
			nombre = item.Referencia.Nombre
		} else if item.TipoVolante != nil {
			nombre = item.TipoVolante.Nombre
		}
		if len(nombre) > 26 {
			nombre = nombre[:25] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, item.Grupo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, fmt.Sprintf("%d", item.Ocupacion), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 5, fmt.Sprintf("%d", item.Millares), "", 0, "C", false, 0, "")
		pdf.CellFormat(col5, 5, "$"+item.PrecioTotal.StringFixed(2), "", 1, "R", false, 0, "")

		for _, t := range item.Terminaciones {
			pdf.SetFont("Helvetica", "I", 7)
			detalle := fmt.Sprintf("  + %s x%d ($%s c/u)", t.Nombre, t.Cantidad, t.Precio.StringFixed(2))
			pdf.CellFormat(contentW, 4, detalle, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
		}
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	if !pedido.Descuento.IsZero() {
		pdf.CellFormat(col1+col2+col3+col4, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col5, 5, "-$"+pedido.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3+col4, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 6, "$"+pedido.Total().StringFixed(2), "", 1, "R", false, 0, "")

	// ── Notes ────────────────────────────────────────────────────────────────
	if pedido.Notas != nil && *pedido.Notas != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notas: "+*pedido.Notas, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
