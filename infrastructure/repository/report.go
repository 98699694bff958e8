package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

const (
	reportsTable = "reports"
)

type ReportRepository interface {
	Save(report *domain.Report) (int64, error)
	MarkSentToTelegram(id int64) error
}

type reportRepository struct {
	conn *postgres.Connection
}

func NewReportRepository(conn *postgres.Connection) ReportRepository {
	return &reportRepository{
		conn: conn,
	}
}

func (r *reportRepository) Save(report *domain.Report) (int64, error) {
	query, args, err := squirrel.StatementBuilder.
		Insert(reportsTable).
		Columns("user_id", "template_id", "token_id", "schedule_id", "condition_id", "title", "summary", "data_json", "date_from", "date_to", "sent_to_telegram").
		Values(
			report.UserID,
			report.TemplateID,
			report.TokenID,
			report.ScheduleID,
			report.ConditionID,
			report.Title,
			report.Summary,
			report.DataJSON,
			report.DateFrom.Format("2006-01-02"),
			report.DateTo.Format("2006-01-02"),
			false,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("erro ao salvar relatório: %w", err)
	}

	return id, nil
}

// MarkSentToTelegram registra que a notificação do relatório foi entregue
func (r *reportRepository) MarkSentToTelegram(id int64) error {
	query, args, err := squirrel.
		Update(reportsTable).
		Set("sent_to_telegram", true).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar relatório: %w", err)
	}

	return nil
}
