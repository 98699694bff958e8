package directclient

import (
	"context"
	"net/http"
	"time"

	directdomain "github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/domain"
	"github.com/directpulse/direct-pulse-api/internal/config"
	"github.com/directpulse/direct-pulse-api/internal/domain"
	"golang.org/x/time/rate"
)

type Client interface {
	GetCampaigns(ctx context.Context, cred *domain.Credential, includeArchived bool) ([]directdomain.Campaign, error)
	GetReport(ctx context.Context, cred *domain.Credential, query *ReportQuery) ([]domain.StatRow, error)
	ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// ReportQuery descreve o relatório a ser baixado da API de relatórios
type ReportQuery struct {
	Fields      []string
	DateRange   string
	DateFrom    *time.Time
	DateTo      *time.Time
	CampaignIDs []string
}

type YandexClient struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config) Client {
	return &YandexClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Yandex.RequestTimeoutSeconds) * time.Second,
		},
		// A API do Yandex Direct limita requisições por segundo por token
		limiter: rate.NewLimiter(rate.Limit(cfg.Yandex.RequestsPerSecond), cfg.Yandex.RequestsPerSecond),
	}
}

// wait respeita o limite de requisições antes de cada chamada à API
func (c *YandexClient) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}
