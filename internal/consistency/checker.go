package consistency

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-panel/internal/format"
	"github.com/nurpe/contracts-panel/internal/model"
)

// toleranceCents is the largest accepted gap between two amounts.
const toleranceCents = 1

// Rule inspects one contract and returns a description of what is wrong with
// it, or "" when the contract passes.
type Rule struct {
	Name  string
	Check func(c model.Contract) string
}

type Checker struct {
	rules []Rule
	log   zerolog.Logger
}

func NewChecker(log zerolog.Logger, rules ...Rule) *Checker {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Checker{rules: rules, log: log}
}

func DefaultRules() []Rule {
	return []Rule{
		{Name: "installment_count", Check: checkInstallmentCount},
		{Name: "installment_number", Check: checkInstallmentNumber},
		{Name: "document", Check: checkDocument},
		{Name: "current_value", Check: checkCurrentValue},
		{Name: "due_date", Check: checkDueDate},
	}
}

// Check runs every rule against c. A rule that panics is reported as an issue
// instead of propagating.
func (k *Checker) Check(c model.Contract) []string {
	var issues []string
	for _, rule := range k.rules {
		if issue := k.run(rule, c); issue != "" {
			issues = append(issues, issue)
			k.log.Warn().
				Int64("contract_id", c.ID).
				Str("rule", rule.Name).
				Str("issue", issue).
				Msg("inconsistent contract")
		}
	}
	return issues
}

// Annotate checks a freshly loaded batch, keeping the input order.
func (k *Checker) Annotate(contracts []model.Contract) []model.CheckedContract {
	out := make([]model.CheckedContract, len(contracts))
	for i, c := range contracts {
		out[i] = model.CheckedContract{Contract: c, Issues: k.Check(c)}
	}
	return out
}

func (k *Checker) run(rule Rule, c model.Contract) (issue string) {
	defer func() {
		if r := recover(); r != nil {
			k.log.Error().
				Int64("contract_id", c.ID).
				Str("rule", rule.Name).
				Interface("panic", r).
				Msg("consistency rule panicked")
			issue = fmt.Sprintf("%s: check failed", rule.Name)
		}
	}()
	return rule.Check(c)
}

func checkInstallmentCount(c model.Contract) string {
	if c.QtPrestacoes <= 0 {
		return fmt.Sprintf("quantidade de prestações inválida: %d", c.QtPrestacoes)
	}
	return ""
}

func checkInstallmentNumber(c model.Contract) string {
	if c.QtPrestacoes > 0 && c.NrPresta > c.QtPrestacoes {
		return fmt.Sprintf("prestação %d acima do total de %d", c.NrPresta, c.QtPrestacoes)
	}
	return ""
}

func checkDocument(c model.Contract) string {
	if !format.ValidDocument(c.NrCpfCnpj) {
		return fmt.Sprintf("CPF/CNPJ inválido: %q", c.NrCpfCnpj)
	}
	return ""
}

// vlAtual = vlPresta + vlMora + vlMulta + vlOutAcr + vlIof - vlDescon
func checkCurrentValue(c model.Contract) string {
	if c.VlPresta == nil || c.VlAtual == nil {
		return ""
	}
	expected := *c.VlPresta + value(c.VlMora) + value(c.VlMulta) + value(c.VlOutAcr) + value(c.VlIof) - value(c.VlDescon)
	if math.Abs(cents(expected)-cents(*c.VlAtual)) > toleranceCents {
		return fmt.Sprintf("valor atual %s difere do calculado %s",
			format.CurrencyValue(*c.VlAtual), format.CurrencyValue(expected))
	}
	return ""
}

func checkDueDate(c model.Contract) string {
	if c.DtContrato == nil || c.DtVctPre == nil {
		return ""
	}
	signed := format.Date(c.DtContrato)
	due := format.Date(c.DtVctPre)
	if len(signed) == 10 && len(due) == 10 && due < signed {
		return fmt.Sprintf("vencimento %s anterior ao contrato %s", due, signed)
	}
	return ""
}

func cents(v float64) float64 {
	return math.Round(v * 100)
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
