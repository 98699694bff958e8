package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/internal/notifier"
)

func testConnection(tokenID int64) *direct.Connection {
	return direct.NewConnection(nil, &domain.Credential{
		ID:       tokenID,
		UserID:   1,
		IsActive: true,
	})
}

func testReportData() *domain.ReportData {
	return &domain.ReportData{
		Campaigns: []domain.StatRow{
			{CampaignID: "101", CampaignName: "Campanha A", Impressions: 1000, Clicks: 50, Cost: 150},
		},
		Totals: domain.Totals{
			Impressions: 1000,
			Clicks:      50,
			Cost:        150,
			Ctr:         5,
		},
		TopCampaigns: domain.TopCampaigns{
			ByCost: []domain.StatRow{
				{CampaignID: "101", CampaignName: "Campanha A", Cost: 150},
			},
		},
		DateFrom: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunScheduledReportSuccess(t *testing.T) {
	engine, m := newTestEngine(t)

	schedule := &domain.Schedule{ID: 10, UserID: 1, TemplateID: 2, Name: "Semanal"}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeLast7Days}
	conn := testConnection(5)
	data := testReportData()

	m.schedules.EXPECT().GetByID(int64(10)).Return(schedule, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(data, nil)

	m.reports.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(report *domain.Report) (int64, error) {
			assert.Equal(t, int64(1), report.UserID)
			assert.Equal(t, int64(5), report.TokenID)
			assert.Equal(t, "Relatório: Semanal", report.Title)
			assert.NotNil(t, report.ScheduleID)
			assert.Equal(t, int64(10), *report.ScheduleID)
			assert.Nil(t, report.ConditionID)
			assert.Contains(t, report.Summary, "Impressões: 1000")
			return 42, nil
		})

	m.dispatcher.EXPECT().
		Enqueue(gomock.Any()).
		DoAndReturn(func(notification notifier.Notification) bool {
			assert.Equal(t, int64(42), notification.ReportID)
			assert.Equal(t, int64(1), notification.UserID)
			return true
		})

	m.credentials.EXPECT().SetLastStatus(int64(5), "relatório gerado com sucesso").Return(nil)

	engine.RunScheduledReport(10)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "ok: relatório 42")
}

func TestRunScheduledReportNotFound(t *testing.T) {
	engine, m := newTestEngine(t)

	m.schedules.EXPECT().GetByID(int64(10)).Return(nil, nil)

	engine.RunScheduledReport(10)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "erro: agendamento não encontrado")
}

func TestRunScheduledReportWithoutCredential(t *testing.T) {
	engine, m := newTestEngine(t)

	schedule := &domain.Schedule{ID: 10, UserID: 1, TemplateID: 2, Name: "Semanal"}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeLast7Days}

	m.schedules.EXPECT().GetByID(int64(10)).Return(schedule, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(nil, domain.ErrCredentialNotFound)

	// Sem credencial: nenhum relatório, nenhuma notificação
	engine.RunScheduledReport(10)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "erro: credencial não disponível")
}

func TestRunScheduledReportEmptyDataset(t *testing.T) {
	engine, m := newTestEngine(t)

	schedule := &domain.Schedule{ID: 10, UserID: 1, TemplateID: 2, Name: "Semanal"}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeLast7Days}
	conn := testConnection(5)

	m.schedules.EXPECT().GetByID(int64(10)).Return(schedule, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(nil, domain.ErrEmptyDataset)

	// Período sem dados vira um relatório explicativo, e o usuário é avisado
	m.reports.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(report *domain.Report) (int64, error) {
			assert.Contains(t, report.Summary, "Nenhum dado disponível")
			assert.Equal(t, "{}", report.DataJSON)
			return 43, nil
		})

	m.dispatcher.EXPECT().Enqueue(gomock.Any()).Return(true)

	engine.RunScheduledReport(10)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "sem dados no período")
}

func TestRunScheduledReportRetriesOnTokenFailure(t *testing.T) {
	engine, m := newTestEngine(t)

	schedule := &domain.Schedule{ID: 10, UserID: 1, TemplateID: 2, Name: "Semanal"}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeLast7Days}
	conn := testConnection(5)
	retryConn := testConnection(5)
	data := testReportData()

	m.schedules.EXPECT().GetByID(int64(10)).Return(schedule, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)

	gomock.InOrder(
		m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil),
		m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(nil, domain.ErrTokenRefreshFailed),
		m.manager.EXPECT().Invalidate(int64(5)),
		m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(retryConn, nil),
		m.reporting.EXPECT().Generate(gomock.Any(), retryConn, template).Return(data, nil),
	)

	m.reports.EXPECT().Save(gomock.Any()).Return(int64(42), nil)
	m.dispatcher.EXPECT().Enqueue(gomock.Any()).Return(true)
	m.credentials.EXPECT().SetLastStatus(int64(5), "relatório gerado com sucesso").Return(nil)

	engine.RunScheduledReport(10)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "ok: relatório 42")
}

func TestRunScheduledReportGenerationFailure(t *testing.T) {
	engine, m := newTestEngine(t)

	schedule := &domain.Schedule{ID: 10, UserID: 1, TemplateID: 2, Name: "Semanal"}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeLast7Days}
	conn := testConnection(5)

	m.schedules.EXPECT().GetByID(int64(10)).Return(schedule, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(nil, domain.ErrDataSourceUnavailable)

	m.credentials.EXPECT().SetLastStatus(int64(5), gomock.Any()).Return(nil)

	engine.RunScheduledReport(10)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "erro: falha ao gerar relatório")
}

func TestRunScheduledReportRecoversFromPanic(t *testing.T) {
	engine, m := newTestEngine(t)

	schedule := &domain.Schedule{ID: 10, UserID: 1, TemplateID: 2, Name: "Semanal"}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeLast7Days}
	conn := testConnection(5)

	m.schedules.EXPECT().GetByID(int64(10)).Return(schedule, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().
		Generate(gomock.Any(), conn, template).
		DoAndReturn(func(_, _, _ any) (*domain.ReportData, error) {
			panic("algo muito errado")
		})

	assert.NotPanics(t, func() {
		engine.RunScheduledReport(10)
	})

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["schedule_10"], "pânico")
}

func TestRunConditionCheckTriggered(t *testing.T) {
	engine, m := newTestEngine(t)

	condition := &domain.Condition{
		ID:            20,
		UserID:        1,
		TemplateID:    2,
		Name:          "Custo alto",
		ConditionJSON: `{"rules":[{"metric":"Cost","operator":">","value":100}]}`,
		CheckInterval: 300,
	}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeToday}
	conn := testConnection(5)
	data := testReportData()

	m.conditions.EXPECT().GetByID(int64(20)).Return(condition, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(data, nil)

	m.reports.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(report *domain.Report) (int64, error) {
			assert.Equal(t, "Alerta: Custo alto", report.Title)
			assert.Nil(t, report.ScheduleID)
			assert.NotNil(t, report.ConditionID)
			assert.Equal(t, int64(20), *report.ConditionID)
			assert.Contains(t, report.Summary, "⚠️")
			assert.Contains(t, report.Summary, "Cost está acima de 100.00 ₽")
			return 44, nil
		})

	m.dispatcher.EXPECT().Enqueue(gomock.Any()).Return(true)

	engine.RunConditionCheck(20)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["condition_20"], "alerta disparado: relatório 44")
}

func TestRunConditionCheckNotTriggered(t *testing.T) {
	engine, m := newTestEngine(t)

	condition := &domain.Condition{
		ID:            20,
		UserID:        1,
		TemplateID:    2,
		Name:          "Custo alto",
		ConditionJSON: `{"rules":[{"metric":"Cost","operator":">","value":99999}]}`,
		CheckInterval: 300,
	}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeToday}
	conn := testConnection(5)

	m.conditions.EXPECT().GetByID(int64(20)).Return(condition, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(testReportData(), nil)

	// Condição não satisfeita: sem relatório e sem notificação
	engine.RunConditionCheck(20)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["condition_20"], "condição não satisfeita")
}

func TestRunConditionCheckEmptyDataset(t *testing.T) {
	engine, m := newTestEngine(t)

	condition := &domain.Condition{
		ID:            20,
		UserID:        1,
		TemplateID:    2,
		Name:          "Custo alto",
		ConditionJSON: `{"rules":[{"metric":"Cost","operator":">","value":100}]}`,
		CheckInterval: 300,
	}
	template := &domain.ReportTemplate{ID: 2, UserID: 1, DateRange: domain.DateRangeToday}
	conn := testConnection(5)

	m.conditions.EXPECT().GetByID(int64(20)).Return(condition, nil)
	m.templates.EXPECT().GetByID(int64(2)).Return(template, nil)
	m.manager.EXPECT().GetConnectionForUser(int64(1)).Return(conn, nil)
	m.reporting.EXPECT().Generate(gomock.Any(), conn, template).Return(nil, domain.ErrEmptyDataset)

	// Período sem dados em condição é silencioso
	engine.RunConditionCheck(20)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["condition_20"], "sem dados no período")
}

func TestRunConditionCheckInvalidRules(t *testing.T) {
	engine, m := newTestEngine(t)

	condition := &domain.Condition{
		ID:            20,
		UserID:        1,
		TemplateID:    2,
		Name:          "Quebrada",
		ConditionJSON: `{"rules":[]}`,
		CheckInterval: 300,
	}

	m.conditions.EXPECT().GetByID(int64(20)).Return(condition, nil)

	engine.RunConditionCheck(20)

	statuses := engine.GetStatus()["last_statuses"].(map[string]string)
	assert.Contains(t, statuses["condition_20"], "erro: regras inválidas")
}
