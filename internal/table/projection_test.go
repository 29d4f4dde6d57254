package table

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-panel/internal/model"
)

func sampleContracts() []model.Contract {
	return []model.Contract{
		{ID: 1, NmClient: "João Silva", NrCpfCnpj: "52998224725", VlTotal: 100, DsProduto: "Crédito Pessoal"},
		{ID: 2, NmClient: "Maria Souza", NrCpfCnpj: "11222333000181", VlTotal: 50.5, DsProduto: "Consignado", DtContrato: ptr("2024-05-01T00:00:00Z")},
		{ID: 3, NmClient: "Pedro Lima", VlTotal: 75, DsProduto: "Veículos", VlAtual: ptr(12.25)},
	}
}

func TestFilter_MatchesSubstringOfAllValues(t *testing.T) {
	vm := loaded(t, sampleContracts()...)

	tests := []struct {
		term string
		want []int64
	}{
		{"", []int64{1, 2, 3}},
		{"joão", []int64{1}},
		{"SOUZA", []int64{2}},
		{"consig", []int64{2}},
		{"2024-05", []int64{2}},
		{"50.5", []int64{2}},
		{"12.25", []int64{3}},
		{"silvamaria", nil},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			vm.HandleSearch(tt.term)
			got := ids(vm.Visible())
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_EquivalentToDefinition(t *testing.T) {
	records := loaded(t, sampleContracts()...).Records()
	for _, term := range []string{"a", "1", "Lima", "ÇO", "crédito", "100"} {
		var want []int64
		for _, r := range records {
			if strings.Contains(strings.ToLower(SearchText(r.Contract)), strings.ToLower(term)) {
				want = append(want, r.ID)
			}
		}
		got := ids(Filter(records, term))
		if len(want) == 0 {
			assert.Empty(t, got, term)
			continue
		}
		assert.Equal(t, want, got, term)
	}
}

func TestHandleSearch_Verbatim(t *testing.T) {
	vm, _ := NewViewModel(Options{})
	vm.HandleSearch("  João ")
	assert.Equal(t, "  João ", vm.Search())
}

func TestSearchText_SkipsNil(t *testing.T) {
	text := SearchText(model.Contract{ID: 7, NmClient: "Ana", VlTotal: 1.5})
	assert.True(t, strings.HasPrefix(text, "7000Ana"))
	assert.NotContains(t, text, "<nil>")
	assert.Contains(t, text, "1.5")
}

func TestVisible_Memoized(t *testing.T) {
	vm := loaded(t, sampleContracts()...)
	vm.HandleSearch("a")

	first := vm.Visible()
	second := vm.Visible()
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])

	vm.HandleSearch("maria")
	third := vm.Visible()
	assert.Equal(t, []int64{2}, ids(third))

	vm.ToggleSort()
	vm.HandleSearch("")
	assert.Equal(t, []int64{1, 3, 2}, ids(vm.Visible()))
}

func TestRows_FormatsCells(t *testing.T) {
	vm := loaded(t, model.Contract{
		ID:         1,
		NmClient:   "João Silva",
		NrCpfCnpj:  "52998224725",
		DtContrato: ptr("2024-05-01T00:00:00Z"),
		VlTotal:    1234.56,
		VlPresta:   ptr(100.0),
	})

	rows := vm.Rows()
	require.Len(t, rows, 1)
	cells := rows[0].Cells
	require.Len(t, cells, len(Columns))

	assert.Equal(t, int64(1), rows[0].Key)
	assert.Equal(t, "João Silva", cells[4])
	assert.Equal(t, "529.982.247-25", cells[5])
	assert.Equal(t, "2024-05-01", cells[7])
	assert.Equal(t, "R$ 1.234,56", cells[9])
	assert.Equal(t, "", cells[18], "missing due date renders blank")
	assert.Equal(t, "R$ 100,00", cells[19])
	assert.Equal(t, "", cells[20], "missing late fee renders blank")
}

func TestReport(t *testing.T) {
	vm := loaded(t, sampleContracts()...)
	vm.HandleSearch("souza")
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	report := vm.Report(now)
	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, "souza", report.Search)
	assert.Equal(t, Columns, report.Columns)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "2", report.Rows[0][0])
	assert.Len(t, report.Records, 1)
}
