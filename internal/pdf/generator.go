package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/contracts-panel/internal/model"
)

const fontName = "Helvetica"

// column picks one table column by header for the landscape page; the full
// 28-column table does not fit on A4.
type column struct {
	header string
	title  string
	width  float64
	align  string
}

var columns = []column{
	{header: "ID", title: "ID", width: 14, align: "R"},
	{header: "Nome do Cliente", title: "Cliente", width: 50, align: "L"},
	{header: "CPF/CNPJ", title: "CPF/CNPJ", width: 36, align: "L"},
	{header: "Número do Contrato", title: "Contrato", width: 24, align: "R"},
	{header: "Data do Contrato", title: "Data", width: 20, align: "C"},
	{header: "Número da Prestação", title: "Prest.", width: 12, align: "R"},
	{header: "Data de Vencimento da Prestação", title: "Vencimento", width: 22, align: "C"},
	{header: "Valor Total", title: "Valor Total", width: 30, align: "R"},
	{header: "Valor Atual", title: "Valor Atual", width: 28, align: "R"},
	{header: "ID Situação", title: "Situação", width: 16, align: "C"},
}

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: fontName}
}

func (g *Generator) Generate(report model.TableReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	index := make(map[string]int, len(report.Columns))
	for i, header := range report.Columns {
		index[header] = i
	}

	pdf.AddPage()
	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Contratos"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s  |  Página %d  |  %d por página",
		report.GeneratedAt.Format("02/01/2006 15:04"), report.Page, report.Size)), "", 1, "C", false, 0, "")
	if report.Search != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Pesquisa: %q", report.Search)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	drawHeader(pdf, g.fontName, tr)
	for i, cells := range report.Rows {
		flagged := i < len(report.Records) && !report.Records[i].Consistent()
		values := make([]string, len(columns))
		for j, col := range columns {
			if pos, ok := index[col.header]; ok && pos < len(cells) {
				values[j] = cells[pos]
			}
		}
		if pdf.GetY() > 185 {
			pdf.AddPage()
			drawHeader(pdf, g.fontName, tr)
		}
		drawRow(pdf, g.fontName, tr, values, flagged)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contratos exibidos: %d", len(report.Rows))), "", 1, "L", false, 0, "")
	if n := report.InconsistentCount(); n > 0 {
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contratos com inconsistências: %d", n)), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *gofpdf.Fpdf, fontName string, tr func(string) string) {
	pdf.SetFont(fontName, "B", 9)
	pdf.SetFillColor(217, 225, 242)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func drawRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, values []string, flagged bool) {
	pdf.SetFont(fontName, "", 8)
	if flagged {
		pdf.SetFillColor(252, 228, 214)
	}
	for i, col := range columns {
		pdf.CellFormat(col.width, 7, tr(truncate(values[i], col.width)), "1", 0, col.align, flagged, 0, "")
	}
	pdf.Ln(-1)
}

// truncate keeps text inside a cell of width mm at 8pt, roughly 0.55 runes per
// mm.
func truncate(value string, width float64) string {
	limit := int(width * 0.55)
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= limit || limit < 4 {
		return string(runes)
	}
	return string(runes[:limit-3]) + "..."
}
