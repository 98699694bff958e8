package domain

import (
	"time"
)

// Schedule dispara a geração de um relatório segundo uma expressão cron de 5 campos,
// interpretada no fuso horário do usuário dono
type Schedule struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	TemplateID     int64     `json:"template_id"`
	Name           string    `json:"name"`
	CronExpression string    `json:"cron_expression"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Condition verifica periodicamente um conjunto de regras sobre os totais do relatório
type Condition struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	TemplateID    int64     `json:"template_id"`
	Name          string    `json:"name"`
	ConditionJSON string    `json:"condition_json"`
	CheckInterval int       `json:"check_interval"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConditionRule é uma comparação simples entre uma métrica agregada e um limiar
type ConditionRule struct {
	Metric   string  `json:"metric"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

// ConditionRuleSet combina regras com lógica AND ou OR
type ConditionRuleSet struct {
	Logic string          `json:"logic"`
	Rules []ConditionRule `json:"rules"`
}
