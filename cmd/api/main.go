package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct"
	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/directclient"
	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/telegram/telegramclient"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository"
	"github.com/directpulse/direct-pulse-api/internal/api"
	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/internal/notifier"
	"github.com/directpulse/direct-pulse-api/internal/scheduler"
	"github.com/directpulse/direct-pulse-api/internal/usecases/reporting"
	"github.com/directpulse/direct-pulse-api/internal/usecases/syncing"
	"github.com/directpulse/direct-pulse-api/pkg/metrics"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	credentialRepo := repository.NewCredentialRepository(pgConn)
	templateRepo := repository.NewTemplateRepository(pgConn)
	scheduleRepo := repository.NewScheduleRepository(pgConn)
	conditionRepo := repository.NewConditionRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	reportRepo := repository.NewReportRepository(pgConn)

	m := metrics.New()

	yandexClient := directclient.NewClient(cfg)
	connectionManager := direct.NewManager(yandexClient, credentialRepo)

	telegramClient := telegramclient.NewClient(cfg)
	dispatcher := notifier.NewDispatcher(cfg, telegramClient, userRepo, reportRepo, m)
	dispatcher.Start(ctx)

	reportingService := reporting.NewService()
	syncService := syncing.NewService(cfg, pgConn, connectionManager, campaignRepo, credentialRepo, m)

	engine := scheduler.NewEngine(
		cfg,
		connectionManager,
		reportingService,
		scheduleRepo,
		conditionRepo,
		templateRepo,
		userRepo,
		credentialRepo,
		reportRepo,
		dispatcher,
		m,
	)

	if err := engine.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador")
	} else {
		logrus.Info("Agendador iniciado com sucesso")
	}

	server, err := api.New(cfg, engine, syncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
