package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contracts-panel/internal/model"
)

const (
	summarySheet   = "Resumo"
	contractsSheet = "Contratos"
	issuesHeader   = "Inconsistências"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.TableReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, report); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(contractsSheet); err != nil {
		return nil, err
	}
	if err := g.writeContracts(file, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, report model.TableReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Gerado em")
	set("B1", formatDateTime(report.GeneratedAt))
	set("A2", "Página")
	set("B2", report.Page)
	set("A3", "Tamanho da página")
	set("B3", report.Size)
	set("A4", "Pesquisa")
	set("B4", report.Search)
	set("A5", "Ordenação por valor total")
	set("B5", orderLabel(report))
	set("A6", "Contratos exibidos")
	set("B6", len(report.Rows))
	set("A7", "Contratos inconsistentes")
	set("B7", report.InconsistentCount())

	_ = file.SetColWidth(summarySheet, "A", "A", 30)
	_ = file.SetColWidth(summarySheet, "B", "B", 24)
	return nil
}

func (g *Generator) writeContracts(file *excelize.File, report model.TableReport) error {
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	flaggedStyle, err := file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := append(append([]string{}, report.Columns...), issuesHeader)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(contractsSheet, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = file.SetCellStyle(contractsSheet, "A1", lastCol+"1", headerStyle)

	for i, cells := range report.Rows {
		row := i + 2
		for j, value := range cells {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = file.SetCellValue(contractsSheet, cell, value)
		}

		if i >= len(report.Records) || report.Records[i].Consistent() {
			continue
		}
		issuesCell, _ := excelize.CoordinatesToCellName(len(headers), row)
		_ = file.SetCellValue(contractsSheet, issuesCell, strings.Join(report.Records[i].Issues, "; "))
		_ = file.SetCellStyle(contractsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), flaggedStyle)
	}

	_ = file.SetColWidth(contractsSheet, "A", lastCol, 18)
	_ = file.SetColWidth(contractsSheet, "E", "E", 32)
	_ = file.SetPanes(contractsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func orderLabel(report model.TableReport) string {
	if !report.Sorted {
		return "Sem ordenação"
	}
	if report.Order == model.SortDesc {
		return "Decrescente"
	}
	return "Crescente"
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04:05")
}
