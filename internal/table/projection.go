package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nurpe/contracts-panel/internal/model"
)

// projection caches the filtered view. Records only change through
// setRecords, which bumps version, so (version, search) is a complete key.
type projection struct {
	valid   bool
	version uint64
	search  string
	order   model.SortOrder
	rows    []model.CheckedContract
}

// Visible returns the cached records that match the search term, in display
// order. The result is recomputed only when the records, the term or the
// order change.
func (vm *ViewModel) Visible() []model.CheckedContract {
	m := &vm.memo
	if m.valid && m.version == vm.version && m.search == vm.search && m.order == vm.order {
		return m.rows
	}
	m.rows = Filter(vm.records, vm.search)
	m.version = vm.version
	m.search = vm.search
	m.order = vm.order
	m.valid = true
	return m.rows
}

// Filter keeps the records whose concatenated field values contain term,
// ignoring case. An empty term keeps everything.
func Filter(records []model.CheckedContract, term string) []model.CheckedContract {
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)
	out := make([]model.CheckedContract, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(SearchText(rec.Contract)), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// SearchText joins every field value of c in declaration order with no
// separator. Missing optional values contribute nothing.
func SearchText(c model.Contract) string {
	var b strings.Builder
	writeInt := func(v int64) { b.WriteString(strconv.FormatInt(v, 10)) }
	writeFloat := func(v float64) { b.WriteString(strconv.FormatFloat(v, 'f', -1, 64)) }
	writeOptFloat := func(v *float64) {
		if v != nil {
			writeFloat(*v)
		}
	}
	writeOptString := func(v *string) {
		if v != nil {
			b.WriteString(*v)
		}
	}

	writeInt(c.ID)
	writeInt(c.NrInst)
	writeInt(c.NrAgencia)
	writeInt(c.CdClient)
	b.WriteString(c.NmClient)
	b.WriteString(c.NrCpfCnpj)
	writeInt(c.NrContrat)
	writeOptString(c.DtContrato)
	writeInt(int64(c.QtPrestacoes))
	writeFloat(c.VlTotal)
	writeInt(c.CdProduto)
	b.WriteString(c.DsProduto)
	writeInt(c.CdCarteira)
	b.WriteString(c.DsCarteira)
	writeInt(c.NrProposta)
	writeInt(int64(c.NrPresta))
	b.WriteString(c.TpPresta)
	writeInt(int64(c.NrSeqPre))
	writeOptString(c.DtVctPre)
	writeOptFloat(c.VlPresta)
	writeOptFloat(c.VlMora)
	writeOptFloat(c.VlMulta)
	writeOptFloat(c.VlOutAcr)
	writeOptFloat(c.VlIof)
	writeOptFloat(c.VlDescon)
	writeOptFloat(c.VlAtual)
	b.WriteString(c.IDSituac)
	b.WriteString(c.IDSitVen)
	return b.String()
}

// sortByTotal orders records by vlTotal in place. Equal totals keep their
// relative order.
func sortByTotal(records []model.CheckedContract, order model.SortOrder) {
	sort.SliceStable(records, func(i, j int) bool {
		if order == model.SortDesc {
			return records[i].VlTotal > records[j].VlTotal
		}
		return records[i].VlTotal < records[j].VlTotal
	})
}
