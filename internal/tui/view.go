package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nurpe/contracts-panel/internal/model"
	"github.com/nurpe/contracts-panel/internal/table"
)

var (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorError     = lipgloss.Color("196")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("229")

	TitleStyle         = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	TableHeaderStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Background(lipgloss.Color("57")).Bold(true)
	LoadingStyle       = lipgloss.NewStyle().Foreground(ColorLabel).Italic(true)
	ErrorStyle         = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	HelpStyle          = lipgloss.NewStyle().Foreground(ColorMuted)
)

const helpText = "←/h anterior • →/l próxima • / pesquisar • s ordenar • +/- tamanho • r recarregar • q sair"

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Pesquise por página"))
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(renderBanner(m.vm.Status()))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(helpText))
	return b.String()
}

func (m Model) renderSearch() string {
	if m.searching || m.vm.Search() != "" {
		return m.textInput.View()
	}
	return HelpStyle.Render("/ para pesquisar")
}

func renderBanner(st model.Status) string {
	banner := table.Banner(st)
	switch st.State {
	case model.LoadStateLoading:
		return LoadingStyle.Render(banner)
	case model.LoadStateError:
		return ErrorStyle.Render(banner)
	default:
		return ""
	}
}

func (m Model) renderFooter() string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	inconsistent := 0
	rows := m.vm.Rows()
	for _, r := range rows {
		if !r.Consistent() {
			inconsistent++
		}
	}

	parts := []string{
		labelStyle.Render("Página ") + valueStyle.Render(fmt.Sprint(m.vm.Page())),
		labelStyle.Render("Tamanho ") + valueStyle.Render(fmt.Sprint(m.vm.PageSize())),
		labelStyle.Render("Exibindo ") + valueStyle.Render(fmt.Sprintf("%d/%d", len(rows), len(m.vm.Records()))),
		labelStyle.Render("Inconsistentes ") + valueStyle.Render(fmt.Sprint(inconsistent)),
	}
	return strings.Join(parts, labelStyle.Render(" | "))
}
