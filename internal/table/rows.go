package table

import (
	"strconv"
	"time"

	"github.com/nurpe/contracts-panel/internal/format"
	"github.com/nurpe/contracts-panel/internal/model"
)

// Columns are the table headers, in cell order.
var Columns = []string{
	"ID",
	"Número da Instituição",
	"Número da Agência",
	"Código do Cliente",
	"Nome do Cliente",
	"CPF/CNPJ",
	"Número do Contrato",
	"Data do Contrato",
	"Quantidade de Prestações",
	"Valor Total",
	"Código do Produto",
	"Descrição do Produto",
	"Código da Carteira",
	"Descrição da Carteira",
	"Número da Proposta",
	"Número da Prestação",
	"Tipo de Prestação",
	"Número da Sequência da Prestação",
	"Data de Vencimento da Prestação",
	"Valor da Prestação",
	"Valor de Mora",
	"Valor de Multa",
	"Valor de Outros Acréscimos",
	"Valor do IOF",
	"Valor de Desconto",
	"Valor Atual",
	"ID Situação",
	"ID Situação Venda",
}

// Row is one rendered table line. Key is the contract id.
type Row struct {
	Key    int64
	Cells  []string
	Issues []string
}

func (r Row) Consistent() bool {
	return len(r.Issues) == 0
}

// Rows renders the visible records.
func (vm *ViewModel) Rows() []Row {
	visible := vm.Visible()
	rows := make([]Row, len(visible))
	for i, rec := range visible {
		rows[i] = Row{Key: rec.ID, Cells: Cells(rec.Contract), Issues: rec.Issues}
	}
	return rows
}

// Report snapshots what the table shows for the xlsx and pdf exports.
func (vm *ViewModel) Report(generatedAt time.Time) model.TableReport {
	rows := vm.Rows()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells
	}
	return model.TableReport{
		GeneratedAt: generatedAt,
		Page:        vm.page,
		Size:        vm.pageSize,
		Search:      vm.search,
		Order:       vm.order,
		Sorted:      vm.sorted,
		Columns:     Columns,
		Rows:        cells,
		Records:     vm.Visible(),
	}
}

// Cells formats c for display, one string per entry of Columns.
func Cells(c model.Contract) []string {
	itoa := func(v int64) string { return strconv.FormatInt(v, 10) }
	return []string{
		itoa(c.ID),
		itoa(c.NrInst),
		itoa(c.NrAgencia),
		itoa(c.CdClient),
		c.NmClient,
		format.Document(c.NrCpfCnpj),
		itoa(c.NrContrat),
		format.Date(c.DtContrato),
		strconv.Itoa(c.QtPrestacoes),
		format.CurrencyValue(c.VlTotal),
		itoa(c.CdProduto),
		c.DsProduto,
		itoa(c.CdCarteira),
		c.DsCarteira,
		itoa(c.NrProposta),
		strconv.Itoa(c.NrPresta),
		c.TpPresta,
		strconv.Itoa(c.NrSeqPre),
		format.Date(c.DtVctPre),
		format.Currency(c.VlPresta),
		format.Currency(c.VlMora),
		format.Currency(c.VlMulta),
		format.Currency(c.VlOutAcr),
		format.Currency(c.VlIof),
		format.Currency(c.VlDescon),
		format.Currency(c.VlAtual),
		c.IDSituac,
		c.IDSitVen,
	}
}
