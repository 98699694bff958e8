package direct

import (
	"context"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/directclient"
	directdomain "github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/domain"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

// Connection amarra uma credencial ao cliente da API. Toda chamada de dados
// garante o token fresco antes de ir à rede
type Connection struct {
	manager *Manager
	cred    *domain.Credential
}

func NewConnection(manager *Manager, cred *domain.Credential) *Connection {
	return &Connection{
		manager: manager,
		cred:    cred,
	}
}

func (c *Connection) Credential() *domain.Credential {
	return c.cred
}

func (c *Connection) Campaigns(ctx context.Context, includeArchived bool) ([]directdomain.Campaign, error) {
	if err := c.manager.EnsureFresh(ctx, c.cred); err != nil {
		return nil, err
	}

	return c.manager.client.GetCampaigns(ctx, c.cred, includeArchived)
}

func (c *Connection) Report(ctx context.Context, query *directclient.ReportQuery) ([]domain.StatRow, error) {
	if err := c.manager.EnsureFresh(ctx, c.cred); err != nil {
		return nil, err
	}

	return c.manager.client.GetReport(ctx, c.cred, query)
}
