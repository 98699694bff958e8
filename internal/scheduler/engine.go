package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository"
	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/internal/notifier"
	"github.com/directpulse/direct-pulse-api/internal/usecases/alerting"
	"github.com/directpulse/direct-pulse-api/internal/usecases/reporting"
	"github.com/directpulse/direct-pulse-api/pkg/metrics"
)

// Tipos de job gerenciados pelo engine
const (
	JobKindSchedule  = "schedule"
	JobKindCondition = "condition"

	// Tag do job interno de reconciliação, imune ao Refresh
	refreshJobTag = "engine_refresh"
)

// JobID é função pura do tipo e do id da definição: a mesma definição produz
// sempre a mesma tag, o que torna o rearme idempotente
func JobID(kind string, id int64) string {
	return fmt.Sprintf("%s_%d", kind, id)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Engine arma um job gocron por agendamento e por condição ativos, e mantém o
// conjunto vivo alinhado com o banco via reconciliação periódica
type Engine struct {
	cfg       *config.Config
	scheduler *gocron.Scheduler

	manager     direct.ConnectionManager
	reporting   reporting.Service
	schedules   repository.ScheduleRepository
	conditions  repository.ConditionRepository
	templates   repository.TemplateRepository
	users       repository.UserRepository
	credentials repository.CredentialRepository
	reports     repository.ReportRepository
	dispatcher  notifier.Dispatcher
	metrics     *metrics.Metrics

	// armMutex serializa Refresh e os rearmes pontuais (escritor único)
	armMutex sync.Mutex

	// statusMutex protege o estado lido por GetStatus fora do armMutex
	statusMutex   sync.RWMutex
	lastStatus    map[string]string
	lastRefreshAt time.Time
}

func NewEngine(
	cfg *config.Config,
	manager direct.ConnectionManager,
	reportingService reporting.Service,
	schedules repository.ScheduleRepository,
	conditions repository.ConditionRepository,
	templates repository.TemplateRepository,
	users repository.UserRepository,
	credentials repository.CredentialRepository,
	reports repository.ReportRepository,
	dispatcher notifier.Dispatcher,
	m *metrics.Metrics,
) *Engine {
	scheduler := gocron.NewScheduler(time.UTC)

	// Um job travado não pode segurar o relógio dos demais
	scheduler.SetMaxConcurrentJobs(cfg.Scheduler.MaxConcurrentJobs, gocron.RescheduleMode)

	return &Engine{
		cfg:         cfg,
		scheduler:   scheduler,
		manager:     manager,
		reporting:   reportingService,
		schedules:   schedules,
		conditions:  conditions,
		templates:   templates,
		users:       users,
		credentials: credentials,
		reports:     reports,
		dispatcher:  dispatcher,
		metrics:     m,
		lastStatus:  make(map[string]string),
	}
}

// Start arma todas as definições ativas, agenda a reconciliação periódica e
// sobe o agendador. O contexto cancelado derruba tudo
func (e *Engine) Start(ctx context.Context) error {
	if !e.cfg.Scheduler.Enabled {
		logrus.Info("Agendador desabilitado por configuração")
		return nil
	}

	if err := e.Refresh(); err != nil {
		// Falha ao carregar definições não impede o serviço de subir;
		// a reconciliação periódica tenta de novo
		logrus.WithError(err).Error("Erro na carga inicial de agendamentos")
	}

	interval := e.cfg.Scheduler.RefreshIntervalMinutes
	_, err := e.scheduler.Every(interval).Minutes().Tag(refreshJobTag).Do(func() {
		if err := e.Refresh(); err != nil {
			logrus.WithError(err).Error("Erro na reconciliação periódica de agendamentos")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reconciliação periódica: %w", err)
	}

	e.scheduler.StartAsync()

	logrus.WithFields(logrus.Fields{
		"refresh_interval_minutes": interval,
		"max_concurrent_jobs":      e.cfg.Scheduler.MaxConcurrentJobs,
	}).Info("Agendador iniciado")

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador")
		e.scheduler.Stop()
	}()

	return nil
}

// Refresh reconstrói o conjunto de jobs a partir das definições persistidas.
// Jobs de definições removidas ou desativadas são desarmados; os demais são
// rearmados de forma idempotente
func (e *Engine) Refresh() error {
	e.armMutex.Lock()
	defer e.armMutex.Unlock()

	schedules, err := e.schedules.ListActive()
	if err != nil {
		return fmt.Errorf("erro ao listar agendamentos ativos: %w", err)
	}

	conditions, err := e.conditions.ListActive()
	if err != nil {
		return fmt.Errorf("erro ao listar condições ativas: %w", err)
	}

	desired := make(map[string]bool, len(schedules)+len(conditions))
	for _, schedule := range schedules {
		desired[JobID(JobKindSchedule, schedule.ID)] = true
	}
	for _, condition := range conditions {
		desired[JobID(JobKindCondition, condition.ID)] = true
	}

	// Desarmar o que não existe mais no banco
	for _, job := range e.scheduler.Jobs() {
		for _, tag := range job.Tags() {
			if tag == refreshJobTag {
				continue
			}
			if strings.HasPrefix(tag, JobKindSchedule+"_") || strings.HasPrefix(tag, JobKindCondition+"_") {
				if !desired[tag] {
					_ = e.scheduler.RemoveByTag(tag)
					e.clearStatus(tag)
					logrus.WithField("job_id", tag).Info("Job desarmado: definição removida ou inativa")
				}
			}
		}
	}

	armed := 0
	for _, schedule := range schedules {
		if err := e.armSchedule(schedule); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"schedule_id": schedule.ID,
			}).Error("Erro ao armar agendamento")
			continue
		}
		armed++
	}

	for _, condition := range conditions {
		if err := e.armCondition(condition); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"condition_id": condition.ID,
			}).Error("Erro ao armar condição")
			continue
		}
		armed++
	}

	e.statusMutex.Lock()
	e.lastRefreshAt = time.Now()
	e.statusMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"schedules":  len(schedules),
		"conditions": len(conditions),
		"armed":      armed,
	}).Info("Reconciliação de agendamentos concluída")

	return nil
}

// ArmSchedule rearma um agendamento pontualmente (caminho de edição)
func (e *Engine) ArmSchedule(schedule *domain.Schedule) error {
	e.armMutex.Lock()
	defer e.armMutex.Unlock()
	return e.armSchedule(schedule)
}

// ArmCondition rearma uma condição pontualmente (caminho de edição)
func (e *Engine) ArmCondition(condition *domain.Condition) error {
	e.armMutex.Lock()
	defer e.armMutex.Unlock()
	return e.armCondition(condition)
}

// Disarm remove o job da definição, se existir
func (e *Engine) Disarm(kind string, id int64) {
	e.armMutex.Lock()
	defer e.armMutex.Unlock()

	jobID := JobID(kind, id)
	_ = e.scheduler.RemoveByTag(jobID)
	e.clearStatus(jobID)
}

// armSchedule valida a expressão cron, resolve o fuso do dono e substitui o
// job existente pela nova definição. Chamar com armMutex adquirido
func (e *Engine) armSchedule(schedule *domain.Schedule) error {
	expression, err := e.cronExpression(schedule)
	if err != nil {
		return err
	}

	jobID := JobID(JobKindSchedule, schedule.ID)
	scheduleID := schedule.ID

	// Remover antes de adicionar: rearmar nunca duplica disparos
	_ = e.scheduler.RemoveByTag(jobID)

	_, err = e.scheduler.Cron(expression).Tag(jobID).SingletonMode().Do(func() {
		e.RunScheduledReport(scheduleID)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar job %s: %w", jobID, err)
	}

	logrus.WithFields(logrus.Fields{
		"job_id": jobID,
		"cron":   expression,
	}).Debug("Agendamento armado")

	return nil
}

// armCondition valida as regras no momento do arme e substitui o job
// existente. Chamar com armMutex adquirido
func (e *Engine) armCondition(condition *domain.Condition) error {
	if _, err := alerting.ParseRuleSet(condition.ConditionJSON); err != nil {
		return err
	}

	interval := condition.CheckInterval
	if interval < 1 {
		return fmt.Errorf("%w: intervalo %d inválido", domain.ErrInvalidConditionRule, interval)
	}

	jobID := JobID(JobKindCondition, condition.ID)
	conditionID := condition.ID

	_ = e.scheduler.RemoveByTag(jobID)

	_, err := e.scheduler.Every(interval).Seconds().Tag(jobID).SingletonMode().Do(func() {
		e.RunConditionCheck(conditionID)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar job %s: %w", jobID, err)
	}

	logrus.WithFields(logrus.Fields{
		"job_id":           jobID,
		"interval_seconds": interval,
	}).Debug("Condição armada")

	return nil
}

// cronExpression valida os 5 campos da expressão e prefixa o fuso horário do
// dono do agendamento. Fuso desconhecido cai no padrão configurado
func (e *Engine) cronExpression(schedule *domain.Schedule) (string, error) {
	expression := strings.TrimSpace(schedule.CronExpression)
	if len(strings.Fields(expression)) != 5 {
		return "", fmt.Errorf("%w: %q não tem 5 campos", domain.ErrInvalidCronExpression, expression)
	}

	if _, err := cronParser.Parse(expression); err != nil {
		return "", fmt.Errorf("%w: %q: %v", domain.ErrInvalidCronExpression, expression, err)
	}

	timezone := e.cfg.Scheduler.DefaultTimezone

	user, err := e.users.GetByID(schedule.UserID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"schedule_id": schedule.ID,
		}).Warn("Erro ao buscar dono do agendamento, usando fuso padrão")
	} else if user != nil && user.Timezone != "" {
		if _, err := time.LoadLocation(user.Timezone); err != nil {
			logrus.WithFields(logrus.Fields{
				"schedule_id": schedule.ID,
				"timezone":    user.Timezone,
			}).Warn("Fuso horário inválido, usando fuso padrão")
		} else {
			timezone = user.Timezone
		}
	}

	return fmt.Sprintf("CRON_TZ=%s %s", timezone, expression), nil
}

// GetStatus expõe a visão operacional do engine
func (e *Engine) GetStatus() map[string]any {
	e.statusMutex.RLock()
	statuses := make(map[string]string, len(e.lastStatus))
	for jobID, status := range e.lastStatus {
		statuses[jobID] = status
	}
	lastRefreshAt := e.lastRefreshAt
	e.statusMutex.RUnlock()

	return map[string]any{
		"enabled":                  e.cfg.Scheduler.Enabled,
		"refresh_interval_minutes": e.cfg.Scheduler.RefreshIntervalMinutes,
		"max_concurrent_jobs":      e.cfg.Scheduler.MaxConcurrentJobs,
		"jobs":                     len(e.scheduler.Jobs()),
		"last_refresh_at":          lastRefreshAt,
		"last_statuses":            statuses,
	}
}

func (e *Engine) setStatus(jobID, status string) {
	e.statusMutex.Lock()
	e.lastStatus[jobID] = fmt.Sprintf("%s (%s)", status, time.Now().Format(time.RFC3339))
	e.statusMutex.Unlock()
}

func (e *Engine) clearStatus(jobID string) {
	e.statusMutex.Lock()
	delete(e.lastStatus, jobID)
	e.statusMutex.Unlock()
}
