package domain

import (
	"time"
)

// Nomes das métricas conhecidas nos relatórios
const (
	MetricImpressions       = "Impressions"
	MetricClicks            = "Clicks"
	MetricCost              = "Cost"
	MetricCtr               = "Ctr"
	MetricConversions       = "Conversions"
	MetricConversionRate    = "ConversionRate"
	MetricCostPerConversion = "CostPerConversion"
)

// StatRow é uma linha de estatísticas de campanha já normalizada
// (custo em moeda, Ctr em percentual)
type StatRow struct {
	CampaignID        string   `json:"campaign_id"`
	CampaignName      string   `json:"campaign_name"`
	Impressions       int64    `json:"impressions"`
	Clicks            int64    `json:"clicks"`
	Cost              float64  `json:"cost"`
	Conversions       *int64   `json:"conversions,omitempty"`
	Ctr               *float64 `json:"ctr,omitempty"`
	ConversionRate    *float64 `json:"conversion_rate,omitempty"`
	CostPerConversion *float64 `json:"cost_per_conversion,omitempty"`
}

// Totals agrega as métricas de todas as campanhas do período
type Totals struct {
	Impressions       int64    `json:"impressions"`
	Clicks            int64    `json:"clicks"`
	Cost              float64  `json:"cost"`
	Conversions       *int64   `json:"conversions,omitempty"`
	Ctr               float64  `json:"ctr"`
	ConversionRate    *float64 `json:"conversion_rate,omitempty"`
	CostPerConversion *float64 `json:"cost_per_conversion,omitempty"`
}

// MetricMap expõe os totais como mapa nome->valor para avaliação de condições
func (t *Totals) MetricMap() map[string]float64 {
	m := map[string]float64{
		MetricImpressions: float64(t.Impressions),
		MetricClicks:      float64(t.Clicks),
		MetricCost:        t.Cost,
		MetricCtr:         t.Ctr,
	}

	if t.Conversions != nil {
		m[MetricConversions] = float64(*t.Conversions)
	}
	if t.ConversionRate != nil {
		m[MetricConversionRate] = *t.ConversionRate
	}
	if t.CostPerConversion != nil {
		m[MetricCostPerConversion] = *t.CostPerConversion
	}

	return m
}

// TopCampaigns são os rankings de top-5 por métrica
type TopCampaigns struct {
	ByCost        []StatRow `json:"by_cost"`
	ByClicks      []StatRow `json:"by_clicks"`
	ByConversions []StatRow `json:"by_conversions"`
}

// ReportData é o resultado agregado de um relatório
type ReportData struct {
	Campaigns    []StatRow    `json:"campaigns"`
	Totals       Totals       `json:"totals"`
	TopCampaigns TopCampaigns `json:"top_campaigns"`
	DateFrom     time.Time    `json:"date_from"`
	DateTo       time.Time    `json:"date_to"`
}

// Report é o registro persistido de um relatório gerado
type Report struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	TemplateID     int64     `json:"template_id"`
	TokenID        int64     `json:"token_id"`
	ScheduleID     *int64    `json:"schedule_id"`
	ConditionID    *int64    `json:"condition_id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	DataJSON       string    `json:"data_json"`
	DateFrom       time.Time `json:"date_from"`
	DateTo         time.Time `json:"date_to"`
	SentToTelegram bool      `json:"sent_to_telegram"`
	CreatedAt      time.Time `json:"created_at"`
}
