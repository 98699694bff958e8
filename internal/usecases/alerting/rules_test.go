package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/directpulse/direct-pulse-api/internal/domain"
)

func TestParseRuleSet(t *testing.T) {
	tests := []struct {
		name          string
		conditionJSON string
		hasError      bool
		expectedLogic string
		expectedRules int
	}{
		{
			name:          "Regra válida com lógica explícita",
			conditionJSON: `{"logic":"OR","rules":[{"metric":"Cost","operator":">","value":1000}]}`,
			expectedLogic: "OR",
			expectedRules: 1,
		},
		{
			name:          "Lógica ausente assume AND",
			conditionJSON: `{"rules":[{"metric":"Clicks","operator":">=","value":10}]}`,
			expectedLogic: "AND",
			expectedRules: 1,
		},
		{
			name:          "Lógica em minúsculas é normalizada",
			conditionJSON: `{"logic":"or","rules":[{"metric":"Ctr","operator":"<","value":1}]}`,
			expectedLogic: "OR",
			expectedRules: 1,
		},
		{
			name:          "Várias regras válidas",
			conditionJSON: `{"logic":"AND","rules":[{"metric":"Cost","operator":">","value":500},{"metric":"Ctr","operator":"<","value":2}]}`,
			expectedLogic: "AND",
			expectedRules: 2,
		},
		{
			name:          "JSON inválido deve falhar",
			conditionJSON: `{"logic":`,
			hasError:      true,
		},
		{
			name:          "Lista de regras vazia deve falhar",
			conditionJSON: `{"logic":"AND","rules":[]}`,
			hasError:      true,
		},
		{
			name:          "Lógica não suportada deve falhar",
			conditionJSON: `{"logic":"XOR","rules":[{"metric":"Cost","operator":">","value":1}]}`,
			hasError:      true,
		},
		{
			name:          "Regra sem métrica deve falhar",
			conditionJSON: `{"rules":[{"metric":"  ","operator":">","value":1}]}`,
			hasError:      true,
		},
		{
			name:          "Operador não suportado deve falhar",
			conditionJSON: `{"rules":[{"metric":"Cost","operator":"!=","value":1}]}`,
			hasError:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := ParseRuleSet(tt.conditionJSON)

			if tt.hasError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidConditionRule)
				assert.Nil(t, rs)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedLogic, rs.Logic)
			assert.Len(t, rs.Rules, tt.expectedRules)
		})
	}
}
