package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/telegram/telegramclient"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository"
	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/pkg/metrics"
)

// Notification é o pedido de envio de um relatório pelo Telegram
type Notification struct {
	ReportID int64
	UserID   int64
	Message  string
}

type Dispatcher interface {
	Start(ctx context.Context)
	Enqueue(notification Notification) bool
}

type dispatcher struct {
	cfg     *config.Config
	client  telegramclient.Client
	users   repository.UserRepository
	reports repository.ReportRepository
	metrics *metrics.Metrics

	queue chan Notification
	wg    sync.WaitGroup
}

func NewDispatcher(
	cfg *config.Config,
	client telegramclient.Client,
	users repository.UserRepository,
	reports repository.ReportRepository,
	m *metrics.Metrics,
) Dispatcher {
	return &dispatcher{
		cfg:     cfg,
		client:  client,
		users:   users,
		reports: reports,
		metrics: m,
		queue:   make(chan Notification, cfg.Telegram.QueueSize),
	}
}

// Start sobe os workers de envio; eles param quando o contexto é cancelado
func (d *dispatcher) Start(ctx context.Context) {
	if !d.cfg.Telegram.Enabled {
		logrus.Info("Notificações do Telegram desabilitadas")
		return
	}

	for i := 0; i < d.cfg.Telegram.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}

	logrus.WithFields(logrus.Fields{
		"workers":    d.cfg.Telegram.Workers,
		"queue_size": d.cfg.Telegram.QueueSize,
	}).Info("Dispatcher de notificações iniciado")
}

// Enqueue nunca bloqueia: fila cheia descarta a notificação com log e o
// relatório permanece como não enviado
func (d *dispatcher) Enqueue(notification Notification) bool {
	if !d.cfg.Telegram.Enabled {
		return false
	}

	select {
	case d.queue <- notification:
		d.metrics.QueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"report_id": notification.ReportID,
			"user_id":   notification.UserID,
		}).Warn("Fila de notificações cheia, notificação descartada")
		d.metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

func (d *dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case notification := <-d.queue:
			d.metrics.QueueDepth.Set(float64(len(d.queue)))
			d.deliver(ctx, notification)
		case <-ctx.Done():
			logrus.WithFields(logrus.Fields{
				"worker": id,
			}).Info("Worker de notificações encerrado")
			return
		}
	}
}

func (d *dispatcher) deliver(ctx context.Context, notification Notification) {
	user, err := d.users.GetByID(notification.UserID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"report_id": notification.ReportID,
		}).Error("Erro ao buscar usuário da notificação")
		d.metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return
	}

	if user == nil || user.TelegramChatID == nil || *user.TelegramChatID == "" {
		logrus.WithFields(logrus.Fields{
			"user_id":   notification.UserID,
			"report_id": notification.ReportID,
		}).Info("Usuário sem chat do Telegram configurado, notificação ignorada")
		d.metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return
	}

	keyboard := &telegramclient.InlineKeyboard{
		InlineKeyboard: [][]telegramclient.InlineButton{
			{
				{
					Text: "Ver relatório completo",
					URL:  fmt.Sprintf("%s/reports/%d", d.cfg.App.BaseURL, notification.ReportID),
				},
			},
		},
	}

	if err := d.client.SendMessage(ctx, *user.TelegramChatID, notification.Message, keyboard); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"report_id": notification.ReportID,
		}).Error("Falha ao enviar notificação pelo Telegram")
		d.metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return
	}

	if err := d.reports.MarkSentToTelegram(notification.ReportID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"report_id": notification.ReportID,
		}).Error("Notificação enviada mas não foi possível marcar o relatório")
	}

	d.metrics.NotificationsTotal.WithLabelValues("delivered").Inc()
}
