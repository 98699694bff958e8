package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

const (
	conditionsTable   = "conditions"
	conditionsColumns = "id, user_id, template_id, name, condition_json, check_interval, is_active, created_at, updated_at"
)

type ConditionRepository interface {
	GetByID(id int64) (*domain.Condition, error)
	ListActive() ([]*domain.Condition, error)
}

type conditionRepository struct {
	conn *postgres.Connection
}

func NewConditionRepository(conn *postgres.Connection) ConditionRepository {
	return &conditionRepository{
		conn: conn,
	}
}

func (r *conditionRepository) GetByID(id int64) (*domain.Condition, error) {
	query, args, err := squirrel.
		Select(conditionsColumns).
		From(conditionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	condition := &domain.Condition{}
	err = r.conn.QueryRow(query, args...).Scan(
		&condition.ID,
		&condition.UserID,
		&condition.TemplateID,
		&condition.Name,
		&condition.ConditionJSON,
		&condition.CheckInterval,
		&condition.IsActive,
		&condition.CreatedAt,
		&condition.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear condição: %w", err)
	}

	return condition, nil
}

func (r *conditionRepository) ListActive() ([]*domain.Condition, error) {
	query, args, err := squirrel.
		Select(conditionsColumns).
		From(conditionsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
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

	conditions := make([]*domain.Condition, 0)
	for rows.Next() {
		condition := &domain.Condition{}
		err := rows.Scan(
			&condition.ID,
			&condition.UserID,
			&condition.TemplateID,
			&condition.Name,
			&condition.ConditionJSON,
			&condition.CheckInterval,
			&condition.IsActive,
			&condition.CreatedAt,
			&condition.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear condições: %w", err)
		}
		conditions = append(conditions, condition)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return conditions, nil
}
