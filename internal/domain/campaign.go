package domain

import (
	"time"
)

// Estados e status de campanha como reportados pela API do Yandex Direct
const (
	CampaignStateArchived = "ARCHIVED"
	CampaignStatusOn      = "ON"
)

// CampaignSnapshot é a cópia local de uma campanha remota, atualizada pelo sync.
// Única por (token_id, campaign_id); nunca é removida pelo sync
type CampaignSnapshot struct {
	ID          int64     `json:"id"`
	TokenID     int64     `json:"token_id"`
	CampaignID  string    `json:"campaign_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	State       string    `json:"state"`
	Type        string    `json:"type"`
	DailyBudget float64   `json:"daily_budget"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Cost        float64   `json:"cost"`
	IsActive    bool      `json:"is_active"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

// SyncResult resume uma execução de sincronização de campanhas
type SyncResult struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Inactive int `json:"inactive"`
	Total    int `json:"total"`
}

// CampaignSummary agrega os snapshots locais de um token para exibição
type CampaignSummary struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Inactive    int     `json:"inactive"`
	TotalCost   float64 `json:"total_cost"`
	TotalClicks int64   `json:"total_clicks"`
}
