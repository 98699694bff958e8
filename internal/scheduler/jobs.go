package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/internal/notifier"
	"github.com/directpulse/direct-pulse-api/internal/usecases/alerting"
	"github.com/directpulse/direct-pulse-api/internal/usecases/reporting"
)

// jobTimeout limita a execução de um job; relatórios grandes da API de
// relatórios podem demorar alguns minutos
const jobTimeout = 10 * time.Minute

// RunScheduledReport executa um agendamento: resolve a conexão, gera o
// relatório, persiste e enfileira a notificação. Nenhum erro escapa do job
func (e *Engine) RunScheduledReport(scheduleID int64) {
	jobID := JobID(JobKindSchedule, scheduleID)
	started := time.Now()
	defer e.recoverJobPanic(jobID, JobKindSchedule, started)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logrus.WithField("job_id", jobID).Info("Executando relatório agendado")

	schedule, err := e.schedules.GetByID(scheduleID)
	if err != nil || schedule == nil {
		e.failJob(jobID, JobKindSchedule, started, "agendamento não encontrado", err)
		return
	}

	template, err := e.templates.GetByID(schedule.TemplateID)
	if err != nil || template == nil {
		e.failJob(jobID, JobKindSchedule, started, "template não encontrado", err)
		return
	}

	conn, err := e.manager.GetConnectionForUser(schedule.UserID)
	if err != nil {
		// Sem credencial não há efeito colateral: só log e status
		e.failJob(jobID, JobKindSchedule, started, "credencial não disponível", err)
		return
	}

	data, err := e.generateWithRetry(ctx, conn, template, schedule.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDataset) {
			e.persistEmptyReport(schedule, template, conn, err)
			e.setStatus(jobID, "sem dados no período")
			e.metrics.ObserveJob(JobKindSchedule, "empty", started)
			return
		}

		e.failJob(jobID, JobKindSchedule, started, "falha ao gerar relatório", err)
		_ = e.credentials.SetLastStatus(conn.Credential().ID, fmt.Sprintf("erro: %v", err))
		return
	}

	title := fmt.Sprintf("Relatório: %s", schedule.Name)
	summary := reporting.Summary(title, data)

	reportID, err := e.persistReport(schedule.UserID, template, conn, data, title, summary, &schedule.ID, nil)
	if err != nil {
		e.failJob(jobID, JobKindSchedule, started, "falha ao persistir relatório", err)
		return
	}

	e.dispatcher.Enqueue(notifier.Notification{
		ReportID: reportID,
		UserID:   schedule.UserID,
		Message:  summary,
	})

	_ = e.credentials.SetLastStatus(conn.Credential().ID, "relatório gerado com sucesso")
	e.setStatus(jobID, fmt.Sprintf("ok: relatório %d", reportID))
	e.metrics.ObserveJob(JobKindSchedule, "success", started)

	logrus.WithFields(logrus.Fields{
		"job_id":    jobID,
		"report_id": reportID,
		"duration":  time.Since(started).String(),
	}).Info("Relatório agendado concluído")
}

// RunConditionCheck executa uma verificação de condição. Condição não
// satisfeita ou período sem dados não produzem efeito colateral
func (e *Engine) RunConditionCheck(conditionID int64) {
	jobID := JobID(JobKindCondition, conditionID)
	started := time.Now()
	defer e.recoverJobPanic(jobID, JobKindCondition, started)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	condition, err := e.conditions.GetByID(conditionID)
	if err != nil || condition == nil {
		e.failJob(jobID, JobKindCondition, started, "condição não encontrada", err)
		return
	}

	ruleSet, err := alerting.ParseRuleSet(condition.ConditionJSON)
	if err != nil {
		e.failJob(jobID, JobKindCondition, started, "regras inválidas", err)
		return
	}

	template, err := e.templates.GetByID(condition.TemplateID)
	if err != nil || template == nil {
		e.failJob(jobID, JobKindCondition, started, "template não encontrado", err)
		return
	}

	conn, err := e.manager.GetConnectionForUser(condition.UserID)
	if err != nil {
		e.failJob(jobID, JobKindCondition, started, "credencial não disponível", err)
		return
	}

	data, err := e.generateWithRetry(ctx, conn, template, condition.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDataset) {
			e.setStatus(jobID, "sem dados no período")
			e.metrics.ObserveJob(JobKindCondition, "empty", started)
			return
		}

		e.failJob(jobID, JobKindCondition, started, "falha ao gerar dados", err)
		return
	}

	triggered, explanation := alerting.Evaluate(data.Totals.MetricMap(), ruleSet)
	if !triggered {
		e.setStatus(jobID, "condição não satisfeita")
		e.metrics.ObserveJob(JobKindCondition, "no_trigger", started)
		return
	}

	title := fmt.Sprintf("Alerta: %s", condition.Name)
	summary := fmt.Sprintf("%s\n⚠️ %s", reporting.Summary(title, data), explanation)

	reportID, err := e.persistReport(condition.UserID, template, conn, data, title, summary, nil, &condition.ID)
	if err != nil {
		e.failJob(jobID, JobKindCondition, started, "falha ao persistir alerta", err)
		return
	}

	e.dispatcher.Enqueue(notifier.Notification{
		ReportID: reportID,
		UserID:   condition.UserID,
		Message:  summary,
	})

	e.setStatus(jobID, fmt.Sprintf("alerta disparado: relatório %d", reportID))
	e.metrics.ObserveJob(JobKindCondition, "triggered", started)

	logrus.WithFields(logrus.Fields{
		"job_id":      jobID,
		"report_id":   reportID,
		"explanation": explanation,
	}).Info("Condição disparou alerta")
}

// generateWithRetry tenta uma única vez a mais quando a falha é de token:
// invalida a conexão em cache e refaz o caminho completo
func (e *Engine) generateWithRetry(
	ctx context.Context,
	conn *direct.Connection,
	template *domain.ReportTemplate,
	userID int64,
) (*domain.ReportData, error) {
	data, err := e.reporting.Generate(ctx, conn, template)
	if err == nil || !errors.Is(err, domain.ErrTokenRefreshFailed) {
		return data, err
	}

	logrus.WithFields(logrus.Fields{
		"token_id": conn.Credential().ID,
	}).Warn("Falha de token na geração do relatório, tentando novamente")

	e.manager.Invalidate(conn.Credential().ID)

	retryConn, err := e.manager.GetConnectionForUser(userID)
	if err != nil {
		return nil, err
	}

	return e.reporting.Generate(ctx, retryConn, template)
}

func (e *Engine) persistReport(
	userID int64,
	template *domain.ReportTemplate,
	conn *direct.Connection,
	data *domain.ReportData,
	title, summary string,
	scheduleID, conditionID *int64,
) (int64, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("erro ao serializar dados do relatório: %w", err)
	}

	return e.reports.Save(&domain.Report{
		UserID:      userID,
		TemplateID:  template.ID,
		TokenID:     conn.Credential().ID,
		ScheduleID:  scheduleID,
		ConditionID: conditionID,
		Title:       title,
		Summary:     summary,
		DataJSON:    string(dataJSON),
		DateFrom:    data.DateFrom,
		DateTo:      data.DateTo,
	})
}

// persistEmptyReport registra um relatório explicativo quando o período não
// tem dados, e avisa o usuário
func (e *Engine) persistEmptyReport(
	schedule *domain.Schedule,
	template *domain.ReportTemplate,
	conn *direct.Connection,
	cause error,
) {
	dateFrom, dateTo := reporting.ResolveDateRange(template.DateRange, time.Now())

	title := fmt.Sprintf("Relatório: %s", schedule.Name)
	summary := fmt.Sprintf("*%s*\n_%s a %s_\n\nNenhum dado disponível para o período.\nMotivo: %v",
		title, dateFrom.Format("02/01/2006"), dateTo.Format("02/01/2006"), cause)

	reportID, err := e.reports.Save(&domain.Report{
		UserID:     schedule.UserID,
		TemplateID: template.ID,
		TokenID:    conn.Credential().ID,
		ScheduleID: &schedule.ID,
		Title:      title,
		Summary:    summary,
		DataJSON:   "{}",
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		logrus.WithError(err).Error("Erro ao persistir relatório sem dados")
		return
	}

	e.dispatcher.Enqueue(notifier.Notification{
		ReportID: reportID,
		UserID:   schedule.UserID,
		Message:  summary,
	})
}

func (e *Engine) failJob(jobID, kind string, started time.Time, status string, err error) {
	entry := logrus.WithField("job_id", jobID)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error("Job falhou: " + status)

	e.setStatus(jobID, "erro: "+status)
	e.metrics.ObserveJob(kind, "failed", started)
}

// recoverJobPanic impede que um pânico em um job derrube o agendador
func (e *Engine) recoverJobPanic(jobID, kind string, started time.Time) {
	if r := recover(); r != nil {
		logrus.WithFields(logrus.Fields{
			"job_id": jobID,
			"panic":  r,
		}).Error("Pânico recuperado em job do agendador")

		e.setStatus(jobID, fmt.Sprintf("pânico: %v", r))
		e.metrics.ObserveJob(kind, "panic", started)
	}
}
