package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Yandex       Yandex       `mapstructure:",squash"`
	Telegram     Telegram     `mapstructure:",squash"`
	Scheduler    Scheduler    `mapstructure:",squash"`
	CampaignSync CampaignSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	BaseURL  string `mapstructure:"app_base_url"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Yandex struct {
	APIURL                string `mapstructure:"yandex_api_url"`
	ReportsURL            string `mapstructure:"yandex_reports_url"`
	TokenURL              string `mapstructure:"yandex_token_url"`
	ClientID              string `mapstructure:"yandex_client_id"`
	ClientSecret          string `mapstructure:"yandex_client_secret"`
	RequestTimeoutSeconds int    `mapstructure:"yandex_request_timeout_seconds"`
	RequestsPerSecond     int    `mapstructure:"yandex_requests_per_second"`
}

type Telegram struct {
	Enabled        bool   `mapstructure:"telegram_enabled"`
	BotToken       string `mapstructure:"telegram_bot_token"`
	APIURL         string `mapstructure:"telegram_api_url"`
	QueueSize      int    `mapstructure:"telegram_queue_size"`
	Workers        int    `mapstructure:"telegram_workers"`
	TimeoutSeconds int    `mapstructure:"telegram_timeout_seconds"`
}

type Scheduler struct {
	Enabled                bool   `mapstructure:"scheduler_enabled"`
	RefreshIntervalMinutes int    `mapstructure:"scheduler_refresh_interval_minutes"`
	MaxConcurrentJobs      int    `mapstructure:"scheduler_max_concurrent_jobs"`
	DefaultTimezone        string `mapstructure:"scheduler_default_timezone"`
}

type CampaignSync struct {
	StatsDateRange string `mapstructure:"campaign_sync_stats_date_range"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/directpulse")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("YANDEX_API_URL", "https://api.direct.yandex.com/json/v5")
	viper.SetDefault("YANDEX_REPORTS_URL", "https://api.direct.yandex.com/json/v5/reports")
	viper.SetDefault("YANDEX_TOKEN_URL", "https://oauth.yandex.ru/token")
	viper.SetDefault("YANDEX_CLIENT_ID", "")
	viper.SetDefault("YANDEX_CLIENT_SECRET", "")
	viper.SetDefault("YANDEX_REQUEST_TIMEOUT_SECONDS", 60)
	viper.SetDefault("YANDEX_REQUESTS_PER_SECOND", 5)

	viper.SetDefault("TELEGRAM_ENABLED", false)
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org")
	viper.SetDefault("TELEGRAM_QUEUE_SIZE", 100)
	viper.SetDefault("TELEGRAM_WORKERS", 2)
	viper.SetDefault("TELEGRAM_TIMEOUT_SECONDS", 10)

	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_REFRESH_INTERVAL_MINUTES", 60)
	viper.SetDefault("SCHEDULER_MAX_CONCURRENT_JOBS", 5)
	viper.SetDefault("SCHEDULER_DEFAULT_TIMEZONE", "UTC")

	viper.SetDefault("CAMPAIGN_SYNC_STATS_DATE_RANGE", "LAST_7_DAYS")

	viper.SetDefault("APP_BASE_URL", "http://localhost:8000")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
