package alerting

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/directpulse/direct-pulse-api/internal/domain"
)

var validOperators = map[string]bool{
	">":  true,
	">=": true,
	"<":  true,
	"<=": true,
	"==": true,
}

// ParseRuleSet valida e interpreta o JSON de condição no momento do cadastro.
// Regras inválidas nunca chegam ao avaliador
func ParseRuleSet(conditionJSON string) (*domain.ConditionRuleSet, error) {
	rs := &domain.ConditionRuleSet{}
	if err := json.Unmarshal([]byte(conditionJSON), rs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConditionRule, err)
	}

	rs.Logic = strings.ToUpper(strings.TrimSpace(rs.Logic))
	if rs.Logic == "" {
		rs.Logic = "AND"
	}
	if rs.Logic != "AND" && rs.Logic != "OR" {
		return nil, fmt.Errorf("%w: lógica %q não suportada", domain.ErrInvalidConditionRule, rs.Logic)
	}

	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("%w: lista de regras vazia", domain.ErrInvalidConditionRule)
	}

	for i, rule := range rs.Rules {
		if strings.TrimSpace(rule.Metric) == "" {
			return nil, fmt.Errorf("%w: regra %d sem métrica", domain.ErrInvalidConditionRule, i)
		}
		if !validOperators[rule.Operator] {
			return nil, fmt.Errorf("%w: operador %q não suportado", domain.ErrInvalidConditionRule, rule.Operator)
		}
	}

	return rs, nil
}
