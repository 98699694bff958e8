package syncing

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct"
	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/directclient"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository"
	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/pkg/metrics"
)

type Service interface {
	Sync(ctx context.Context, tokenID int64) (*domain.SyncResult, error)
	ListCampaigns(tokenID int64) ([]*domain.CampaignSnapshot, *domain.CampaignSummary, error)
}

type service struct {
	cfg         *config.Config
	conn        *postgres.Connection
	manager     direct.ConnectionManager
	campaigns   repository.CampaignRepository
	credentials repository.CredentialRepository
	metrics     *metrics.Metrics
}

func NewService(
	cfg *config.Config,
	conn *postgres.Connection,
	manager direct.ConnectionManager,
	campaigns repository.CampaignRepository,
	credentials repository.CredentialRepository,
	m *metrics.Metrics,
) Service {
	return &service{
		cfg:         cfg,
		conn:        conn,
		manager:     manager,
		campaigns:   campaigns,
		credentials: credentials,
		metrics:     m,
	}
}

// Sync reconcilia a lista remota de campanhas (arquivadas incluídas) com os
// snapshots locais. Tudo acontece em uma transação: qualquer falha de escrita
// desfaz o lote inteiro
func (s *service) Sync(ctx context.Context, tokenID int64) (*domain.SyncResult, error) {
	conn, err := s.manager.GetConnection(tokenID)
	if err != nil {
		s.metrics.SyncCampaignsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	remote, err := conn.Campaigns(ctx, true)
	if err != nil {
		s.metrics.SyncCampaignsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	stats, err := s.fetchStats(ctx, conn)
	if err != nil {
		// Estatísticas são enriquecimento; sem elas o sync continua
		logrus.WithError(err).Warn("Falha ao buscar estatísticas do período, sincronizando sem métricas")
		stats = map[string]domain.StatRow{}
	}

	result := &domain.SyncResult{}

	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := s.campaigns.ExistingIDsTx(tx, tokenID)
		if err != nil {
			return err
		}

		for _, campaign := range remote {
			campaignID := strconv.FormatInt(campaign.ID, 10)

			isActive := campaign.State != domain.CampaignStateArchived &&
				campaign.Status == domain.CampaignStatusOn

			snapshot := &domain.CampaignSnapshot{
				TokenID:     tokenID,
				CampaignID:  campaignID,
				Name:        campaign.Name,
				Status:      campaign.Status,
				State:       campaign.State,
				Type:        campaign.Type,
				DailyBudget: campaign.DailyBudgetAmount,
				IsActive:    isActive,
			}

			if row, ok := stats[campaignID]; ok {
				snapshot.Impressions = row.Impressions
				snapshot.Clicks = row.Clicks
				snapshot.Cost = row.Cost
			}

			if err := s.campaigns.UpsertTx(tx, snapshot); err != nil {
				return err
			}

			if existing[campaignID] {
				result.Updated++
			} else {
				result.Added++
			}
			if !isActive {
				result.Inactive++
			}
		}

		result.Total = len(remote)

		status := fmt.Sprintf("sync ok: %d campanhas em %s", result.Total, time.Now().Format(time.RFC3339))
		return s.credentials.SetLastStatusTx(tx, tokenID, status)
	})
	if err != nil {
		s.metrics.SyncCampaignsTotal.WithLabelValues("conflict").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrSyncConflict, err)
	}

	s.metrics.SyncCampaignsTotal.WithLabelValues("ok").Inc()

	logrus.WithFields(logrus.Fields{
		"token_id": tokenID,
		"added":    result.Added,
		"updated":  result.Updated,
		"inactive": result.Inactive,
		"total":    result.Total,
	}).Info("Sincronização de campanhas concluída")

	return result, nil
}

// fetchStats busca as métricas do período configurado, indexadas por campanha
func (s *service) fetchStats(ctx context.Context, conn *direct.Connection) (map[string]domain.StatRow, error) {
	rows, err := conn.Report(ctx, &directclient.ReportQuery{
		Fields:    []string{domain.MetricImpressions, domain.MetricClicks, domain.MetricCost},
		DateRange: s.cfg.CampaignSync.StatsDateRange,
	})
	if err != nil {
		return nil, err
	}

	stats := make(map[string]domain.StatRow, len(rows))
	for _, row := range rows {
		stats[row.CampaignID] = row
	}

	return stats, nil
}

// ListCampaigns retorna os snapshots locais do token com um resumo agregado
func (s *service) ListCampaigns(tokenID int64) ([]*domain.CampaignSnapshot, *domain.CampaignSummary, error) {
	snapshots, err := s.campaigns.ListByToken(tokenID)
	if err != nil {
		return nil, nil, err
	}

	summary := &domain.CampaignSummary{Total: len(snapshots)}
	for _, snapshot := range snapshots {
		if snapshot.IsActive {
			summary.Active++
		} else {
			summary.Inactive++
		}
		summary.TotalCost += snapshot.Cost
		summary.TotalClicks += snapshot.Clicks
	}

	return snapshots, summary, nil
}
