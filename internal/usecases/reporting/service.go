package reporting

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct"
	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/directclient"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

type Service interface {
	Generate(ctx context.Context, conn *direct.Connection, template *domain.ReportTemplate) (*domain.ReportData, error)
}

type service struct{}

func NewService() Service {
	return &service{}
}

// Generate busca as estatísticas do período do template e agrega o resultado
func (s *service) Generate(ctx context.Context, conn *direct.Connection, template *domain.ReportTemplate) (*domain.ReportData, error) {
	dateFrom, dateTo := ResolveDateRange(template.DateRange, time.Now())

	query := &directclient.ReportQuery{
		Fields:    template.Metrics,
		DateRange: template.DateRange,
	}
	if template.DateRange == domain.DateRangeCustom {
		query.DateFrom = &dateFrom
		query.DateTo = &dateTo
	}

	rows, err := conn.Report(ctx, query)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"template_id": template.ID,
		"rows":        len(rows),
	}).Debug("Estatísticas recebidas da API")

	return Aggregate(rows, dateFrom, dateTo)
}
