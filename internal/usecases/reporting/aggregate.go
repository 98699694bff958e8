package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/pkg/utils"
)

const topCampaignsLimit = 5

// Aggregate consolida as linhas de estatísticas em totais, métricas derivadas
// e rankings top-5. É determinística: mesma entrada, mesma saída
func Aggregate(rows []domain.StatRow, dateFrom, dateTo time.Time) (*domain.ReportData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: a API não retornou linhas para o intervalo %s a %s",
			domain.ErrEmptyDataset, dateFrom.Format("2006-01-02"), dateTo.Format("2006-01-02"))
	}

	campaigns := make([]domain.StatRow, len(rows))
	copy(campaigns, rows)

	hasConversions := false
	for i := range campaigns {
		deriveRowMetrics(&campaigns[i])
		if campaigns[i].Conversions != nil {
			hasConversions = true
		}
	}

	totals := sumTotals(campaigns, hasConversions)

	return &domain.ReportData{
		Campaigns:    campaigns,
		Totals:       totals,
		TopCampaigns: rankCampaigns(campaigns, hasConversions),
		DateFrom:     dateFrom,
		DateTo:       dateTo,
	}, nil
}

// deriveRowMetrics calcula Ctr, ConversionRate e CostPerConversion quando os
// insumos existem e o valor ainda não veio da API. Divisão por zero vira zero
func deriveRowMetrics(row *domain.StatRow) {
	if row.Ctr == nil {
		ctr := 0.0
		if row.Impressions > 0 {
			ctr = utils.RoundWithTwoDecimalPlace(float64(row.Clicks) / float64(row.Impressions) * 100)
		}
		row.Ctr = &ctr
	}

	if row.Conversions == nil {
		return
	}

	if row.ConversionRate == nil {
		rate := 0.0
		if row.Clicks > 0 {
			rate = utils.RoundWithTwoDecimalPlace(float64(*row.Conversions) / float64(row.Clicks) * 100)
		}
		row.ConversionRate = &rate
	}

	if row.CostPerConversion == nil {
		cpc := 0.0
		if *row.Conversions > 0 {
			cpc = utils.RoundWithTwoDecimalPlace(row.Cost / float64(*row.Conversions))
		}
		row.CostPerConversion = &cpc
	}
}

// sumTotals recalcula as métricas derivadas a partir dos numeradores somados,
// nunca como média das médias
func sumTotals(campaigns []domain.StatRow, hasConversions bool) domain.Totals {
	totals := domain.Totals{}

	var conversions int64
	for _, row := range campaigns {
		totals.Impressions += row.Impressions
		totals.Clicks += row.Clicks
		totals.Cost += row.Cost
		if row.Conversions != nil {
			conversions += *row.Conversions
		}
	}

	if totals.Impressions > 0 {
		totals.Ctr = utils.RoundWithTwoDecimalPlace(float64(totals.Clicks) / float64(totals.Impressions) * 100)
	}

	if hasConversions {
		totals.Conversions = &conversions

		rate := 0.0
		if totals.Clicks > 0 {
			rate = utils.RoundWithTwoDecimalPlace(float64(conversions) / float64(totals.Clicks) * 100)
		}
		totals.ConversionRate = &rate

		cpc := 0.0
		if conversions > 0 {
			cpc = utils.RoundWithTwoDecimalPlace(totals.Cost / float64(conversions))
		}
		totals.CostPerConversion = &cpc
	}

	return totals
}

// rankCampaigns monta os top-5 com ordenação estável: empates preservam a
// ordem de entrada
func rankCampaigns(campaigns []domain.StatRow, hasConversions bool) domain.TopCampaigns {
	top := domain.TopCampaigns{
		ByCost:   topBy(campaigns, func(a, b domain.StatRow) bool { return a.Cost > b.Cost }),
		ByClicks: topBy(campaigns, func(a, b domain.StatRow) bool { return a.Clicks > b.Clicks }),
	}

	if hasConversions {
		top.ByConversions = topBy(campaigns, func(a, b domain.StatRow) bool {
			return conversionsOf(a) > conversionsOf(b)
		})
	} else {
		top.ByConversions = []domain.StatRow{}
	}

	return top
}

func topBy(campaigns []domain.StatRow, less func(a, b domain.StatRow) bool) []domain.StatRow {
	ranked := make([]domain.StatRow, len(campaigns))
	copy(ranked, campaigns)

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	if len(ranked) > topCampaignsLimit {
		ranked = ranked[:topCampaignsLimit]
	}

	return ranked
}

func conversionsOf(row domain.StatRow) int64 {
	if row.Conversions == nil {
		return 0
	}
	return *row.Conversions
}
