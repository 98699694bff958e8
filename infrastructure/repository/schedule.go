package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

const (
	schedulesTable   = "schedules"
	schedulesColumns = "id, user_id, template_id, name, cron_expression, is_active, created_at, updated_at"
)

type ScheduleRepository interface {
	GetByID(id int64) (*domain.Schedule, error)
	ListActive() ([]*domain.Schedule, error)
}

type scheduleRepository struct {
	conn *postgres.Connection
}

func NewScheduleRepository(conn *postgres.Connection) ScheduleRepository {
	return &scheduleRepository{
		conn: conn,
	}
}

func (r *scheduleRepository) GetByID(id int64) (*domain.Schedule, error) {
	query, args, err := squirrel.
		Select(schedulesColumns).
		From(schedulesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	schedule := &domain.Schedule{}
	err = r.conn.QueryRow(query, args...).Scan(
		&schedule.ID,
		&schedule.UserID,
		&schedule.TemplateID,
		&schedule.Name,
		&schedule.CronExpression,
		&schedule.IsActive,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear agendamento: %w", err)
	}

	return schedule, nil
}

func (r *scheduleRepository) ListActive() ([]*domain.Schedule, error) {
	query, args, err := squirrel.
		Select(schedulesColumns).
		From(schedulesTable).
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

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule := &domain.Schedule{}
		err := rows.Scan(
			&schedule.ID,
			&schedule.UserID,
			&schedule.TemplateID,
			&schedule.Name,
			&schedule.CronExpression,
			&schedule.IsActive,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear agendamentos: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return schedules, nil
}
