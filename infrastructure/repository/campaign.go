package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/lib/pq"
)

const (
	campaignsTable   = "yandex_campaigns"
	campaignsColumns = "id, token_id, campaign_id, name, status, state, type, daily_budget, impressions, clicks, cost, is_active, last_updated, created_at"
)

type CampaignRepository interface {
	ListByToken(tokenID int64) ([]*domain.CampaignSnapshot, error)
	ExistingIDsTx(tx *sql.Tx, tokenID int64) (map[string]bool, error)
	UpsertTx(tx *sql.Tx, snapshot *domain.CampaignSnapshot) error
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

func (r *campaignRepository) ListByToken(tokenID int64) ([]*domain.CampaignSnapshot, error) {
	query, args, err := squirrel.
		Select(campaignsColumns).
		From(campaignsTable).
		Where(squirrel.Eq{"token_id": tokenID}).
		OrderBy("cost DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.CampaignSnapshot, 0)
	for rows.Next() {
		snapshot := &domain.CampaignSnapshot{}
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.TokenID,
			&snapshot.CampaignID,
			&snapshot.Name,
			&snapshot.Status,
			&snapshot.State,
			&snapshot.Type,
			&snapshot.DailyBudget,
			&snapshot.Impressions,
			&snapshot.Clicks,
			&snapshot.Cost,
			&snapshot.IsActive,
			&snapshot.LastUpdated,
			&snapshot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear campanhas: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

// ExistingIDsTx retorna os campaign_id já conhecidos para o token, para o sync
// distinguir inserções de atualizações
func (r *campaignRepository) ExistingIDsTx(tx *sql.Tx, tokenID int64) (map[string]bool, error) {
	query, args, err := squirrel.
		Select("campaign_id").
		From(campaignsTable).
		Where(squirrel.Eq{"token_id": tokenID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("erro ao escanear campaign_id: %w", err)
		}
		ids[id] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ids, nil
}

// UpsertTx insere ou atualiza um snapshot pela chave (token_id, campaign_id).
// Snapshots que só existem localmente nunca são tocados
func (r *campaignRepository) UpsertTx(tx *sql.Tx, snapshot *domain.CampaignSnapshot) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(campaignsTable).
		Columns("token_id", "campaign_id", "name", "status", "state", "type", "daily_budget", "impressions", "clicks", "cost", "is_active", "last_updated").
		Values(
			snapshot.TokenID,
			snapshot.CampaignID,
			snapshot.Name,
			snapshot.Status,
			snapshot.State,
			snapshot.Type,
			snapshot.DailyBudget,
			snapshot.Impressions,
			snapshot.Clicks,
			snapshot.Cost,
			snapshot.IsActive,
			time.Now(),
		).
		Suffix(`
			ON CONFLICT (token_id, campaign_id) DO UPDATE SET
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				state = EXCLUDED.state,
				type = EXCLUDED.type,
				daily_budget = EXCLUDED.daily_budget,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				cost = EXCLUDED.cost,
				is_active = EXCLUDED.is_active,
				last_updated = EXCLUDED.last_updated
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
