package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

const (
	templatesTable   = "report_templates"
	templatesColumns = "id, user_id, name, description, metrics, date_range, created_at, updated_at"
)

type TemplateRepository interface {
	GetByID(id int64) (*domain.ReportTemplate, error)
}

type templateRepository struct {
	conn *postgres.Connection
}

func NewTemplateRepository(conn *postgres.Connection) TemplateRepository {
	return &templateRepository{
		conn: conn,
	}
}

func (r *templateRepository) GetByID(id int64) (*domain.ReportTemplate, error) {
	query, args, err := squirrel.
		Select(templatesColumns).
		From(templatesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	template := &domain.ReportTemplate{}
	var metricsJSON []byte

	err = r.conn.QueryRow(query, args...).Scan(
		&template.ID,
		&template.UserID,
		&template.Name,
		&template.Description,
		&metricsJSON,
		&template.DateRange,
		&template.CreatedAt,
		&template.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear template: %w", err)
	}

	// A coluna metrics guarda um array JSON de nomes de campos
	if metricsJSON != nil {
		if err := json.Unmarshal(metricsJSON, &template.Metrics); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de metrics: %w", err)
		}
	}

	return template, nil
}
