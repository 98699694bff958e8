package alerting

import (
	"fmt"
	"strings"

	"github.com/directpulse/direct-pulse-api/internal/domain"
)

var operatorWords = map[string]string{
	">":  "acima de",
	">=": "no mínimo",
	"<":  "abaixo de",
	"<=": "no máximo",
	"==": "igual a",
}

// Evaluate aplica o conjunto de regras sobre os totais do relatório. Métrica
// ausente torna a regra falsa; conjunto vazio nunca dispara. A explicação
// enumera o conjunto de regras inteiro, com o valor atual quando disponível,
// para o alerta mostrar a condição completa que foi configurada
func Evaluate(totals map[string]float64, rs *domain.ConditionRuleSet) (bool, string) {
	if rs == nil || len(rs.Rules) == 0 {
		return false, ""
	}

	described := make([]string, 0, len(rs.Rules))
	allTrue := true
	anyTrue := false

	for _, rule := range rs.Rules {
		value, ok := totals[rule.Metric]
		holds := ok && compare(value, rule.Operator, rule.Value)

		if holds {
			anyTrue = true
		} else {
			allTrue = false
		}

		described = append(described, describeRule(rule, value, ok))
	}

	triggered := allTrue
	if rs.Logic == "OR" {
		triggered = anyTrue
	}

	if !triggered {
		return false, ""
	}

	joiner := " E "
	if rs.Logic == "OR" {
		joiner = " OU "
	}

	return true, strings.Join(described, joiner)
}

func compare(value float64, operator string, threshold float64) bool {
	switch operator {
	case ">":
		return value > threshold
	case ">=":
		return value >= threshold
	case "<":
		return value < threshold
	case "<=":
		return value <= threshold
	case "==":
		return value == threshold
	default:
		return false
	}
}

func describeRule(rule domain.ConditionRule, value float64, known bool) string {
	description := fmt.Sprintf("%s está %s %s",
		rule.Metric,
		operatorWords[rule.Operator],
		formatValue(rule.Metric, rule.Value),
	)

	if !known {
		return description + " (sem dados)"
	}

	return fmt.Sprintf("%s (atual: %s)", description, formatValue(rule.Metric, value))
}

// formatValue usa a unidade da métrica: percentual para taxas, rublos para custos
func formatValue(metric string, value float64) string {
	switch metric {
	case domain.MetricCtr, domain.MetricConversionRate:
		return fmt.Sprintf("%.2f%%", value)
	case domain.MetricCost, domain.MetricCostPerConversion:
		return fmt.Sprintf("%.2f ₽", value)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}
