package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	telegrammocks "github.com/directpulse/direct-pulse-api/infrastructure/integrator/telegram/telegramclient/mocks"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository/mocks"
	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/pkg/metrics"
)

func testConfig(queueSize, workers int) *config.Config {
	return &config.Config{
		App: config.App{
			BaseURL: "http://localhost:8000",
		},
		Telegram: config.Telegram{
			Enabled:   true,
			QueueSize: queueSize,
			Workers:   workers,
		},
	}
}

func TestEnqueueDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig(10, 1)
	cfg.Telegram.Enabled = false

	d := NewDispatcher(
		cfg,
		telegrammocks.NewMockClient(ctrl),
		mocks.NewMockUserRepository(ctrl),
		mocks.NewMockReportRepository(ctrl),
		metrics.NewWith(prometheus.NewRegistry()),
	)

	assert.False(t, d.Enqueue(Notification{ReportID: 1, UserID: 1}))
}

func TestEnqueueNeverBlocksOnFullQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := metrics.NewWith(prometheus.NewRegistry())

	// Fila de tamanho 1 e nenhum worker consumindo
	d := NewDispatcher(
		testConfig(1, 1),
		telegrammocks.NewMockClient(ctrl),
		mocks.NewMockUserRepository(ctrl),
		mocks.NewMockReportRepository(ctrl),
		m,
	)

	assert.True(t, d.Enqueue(Notification{ReportID: 1, UserID: 1}))

	// Fila cheia descarta em vez de bloquear o job chamador
	assert.False(t, d.Enqueue(Notification{ReportID: 2, UserID: 1}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("dropped")))
}

func TestWorkerDeliversNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := telegrammocks.NewMockClient(ctrl)
	mockUsers := mocks.NewMockUserRepository(ctrl)
	mockReports := mocks.NewMockReportRepository(ctrl)

	chatID := "12345"
	mockUsers.EXPECT().
		GetByID(int64(1)).
		Return(&domain.User{ID: 1, TelegramChatID: &chatID}, nil)

	mockClient.EXPECT().
		SendMessage(gomock.Any(), "12345", "*Relatório: Semanal*", gomock.Any()).
		Return(nil)

	delivered := make(chan struct{})
	mockReports.EXPECT().
		MarkSentToTelegram(int64(42)).
		DoAndReturn(func(int64) error {
			close(delivered)
			return nil
		})

	d := NewDispatcher(testConfig(10, 1), mockClient, mockUsers, mockReports, metrics.NewWith(prometheus.NewRegistry()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.Start(ctx)

	assert.True(t, d.Enqueue(Notification{
		ReportID: 42,
		UserID:   1,
		Message:  "*Relatório: Semanal*",
	}))

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("notificação não foi entregue no tempo esperado")
	}
}

func TestWorkerSkipsUserWithoutChat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := telegrammocks.NewMockClient(ctrl)
	mockUsers := mocks.NewMockUserRepository(ctrl)
	mockReports := mocks.NewMockReportRepository(ctrl)
	m := metrics.NewWith(prometheus.NewRegistry())

	// Usuário sem chat configurado: nada é enviado
	mockUsers.EXPECT().
		GetByID(int64(1)).
		Return(&domain.User{ID: 1}, nil)

	d := NewDispatcher(testConfig(10, 1), mockClient, mockUsers, mockReports, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.Start(ctx)

	assert.True(t, d.Enqueue(Notification{ReportID: 42, UserID: 1, Message: "oi"}))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("skipped")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerCountsSendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := telegrammocks.NewMockClient(ctrl)
	mockUsers := mocks.NewMockUserRepository(ctrl)
	mockReports := mocks.NewMockReportRepository(ctrl)
	m := metrics.NewWith(prometheus.NewRegistry())

	chatID := "12345"
	mockUsers.EXPECT().
		GetByID(int64(1)).
		Return(&domain.User{ID: 1, TelegramChatID: &chatID}, nil)

	mockClient.EXPECT().
		SendMessage(gomock.Any(), "12345", gomock.Any(), gomock.Any()).
		Return(domain.ErrNotificationDelivery)

	d := NewDispatcher(testConfig(10, 1), mockClient, mockUsers, mockReports, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.Start(ctx)

	assert.True(t, d.Enqueue(Notification{ReportID: 42, UserID: 1, Message: "oi"}))

	// Falha de envio não marca o relatório como enviado
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("failed")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
