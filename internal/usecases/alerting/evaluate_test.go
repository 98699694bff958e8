package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/directpulse/direct-pulse-api/internal/domain"
)

func TestEvaluate(t *testing.T) {
	totals := map[string]float64{
		"Impressions": 10000,
		"Clicks":      150,
		"Cost":        1234.56,
		"Ctr":         1.5,
	}

	tests := []struct {
		name      string
		ruleSet   *domain.ConditionRuleSet
		triggered bool
		contains  []string
	}{
		{
			name: "AND com todas as regras satisfeitas deve disparar",
			ruleSet: &domain.ConditionRuleSet{
				Logic: "AND",
				Rules: []domain.ConditionRule{
					{Metric: "Cost", Operator: ">", Value: 1000},
					{Metric: "Clicks", Operator: ">=", Value: 150},
				},
			},
			triggered: true,
			contains:  []string{"Cost está acima de 1000.00 ₽", " E ", "Clicks está no mínimo 150.00"},
		},
		{
			name: "AND com uma regra falsa não deve disparar",
			ruleSet: &domain.ConditionRuleSet{
				Logic: "AND",
				Rules: []domain.ConditionRule{
					{Metric: "Cost", Operator: ">", Value: 1000},
					{Metric: "Ctr", Operator: ">", Value: 5},
				},
			},
			triggered: false,
		},
		{
			name: "OR com uma regra satisfeita deve disparar",
			ruleSet: &domain.ConditionRuleSet{
				Logic: "OR",
				Rules: []domain.ConditionRule{
					{Metric: "Ctr", Operator: "<", Value: 2},
					{Metric: "Cost", Operator: ">", Value: 99999},
				},
			},
			triggered: true,
			contains:  []string{"Ctr está abaixo de 2.00%", "atual: 1.50%", " OU ", "Cost está acima de 99999.00 ₽"},
		},
		{
			name: "Métrica ausente torna a regra falsa no AND",
			ruleSet: &domain.ConditionRuleSet{
				Logic: "AND",
				Rules: []domain.ConditionRule{
					{Metric: "Cost", Operator: ">", Value: 1000},
					{Metric: "Conversions", Operator: ">", Value: 0},
				},
			},
			triggered: false,
		},
		{
			name: "Métrica ausente não impede OR de disparar pelas demais",
			ruleSet: &domain.ConditionRuleSet{
				Logic: "OR",
				Rules: []domain.ConditionRule{
					{Metric: "Conversions", Operator: ">", Value: 0},
					{Metric: "Clicks", Operator: "==", Value: 150},
				},
			},
			triggered: true,
			contains:  []string{"Clicks está igual a 150.00", "Conversions está acima de 0.00 (sem dados)"},
		},
		{
			name:      "Conjunto nulo nunca dispara",
			ruleSet:   nil,
			triggered: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triggered, explanation := Evaluate(totals, tt.ruleSet)

			assert.Equal(t, tt.triggered, triggered)

			if !tt.triggered {
				assert.Empty(t, explanation)
				return
			}

			for _, fragment := range tt.contains {
				assert.Contains(t, explanation, fragment)
			}
		})
	}
}

func TestEvaluateExplanationEnumeratesAllRules(t *testing.T) {
	totals := map[string]float64{
		"Cost": 500,
		"Ctr":  3,
	}

	rs := &domain.ConditionRuleSet{
		Logic: "OR",
		Rules: []domain.ConditionRule{
			{Metric: "Cost", Operator: ">", Value: 100},
			{Metric: "Ctr", Operator: ">", Value: 10},
		},
	}

	triggered, explanation := Evaluate(totals, rs)

	// O alerta descreve a condição inteira, não só a regra que disparou
	assert.True(t, triggered)
	assert.Contains(t, explanation, "Cost está acima de 100.00 ₽ (atual: 500.00 ₽)")
	assert.Contains(t, explanation, "Ctr está acima de 10.00% (atual: 3.00%)")
}
