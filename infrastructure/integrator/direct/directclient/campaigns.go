package directclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	directdomain "github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/domain"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

// GetCampaigns busca as campanhas da conta via campaigns.get.
// Campanhas arquivadas só entram quando includeArchived é verdadeiro
func (c *YandexClient) GetCampaigns(ctx context.Context, cred *domain.Credential, includeArchived bool) ([]directdomain.Campaign, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	request := directdomain.CampaignsRequest{
		Method: "get",
		Params: directdomain.CampaignsParams{
			FieldNames: []string{"Id", "Name", "Status", "State", "Type", "DailyBudget"},
		},
	}

	if !includeArchived {
		request.Params.SelectionCriteria = directdomain.CampaignsSelectionCriteria{
			States: []string{"ON", "OFF", "SUSPENDED", "ENDED", "CONVERTED"},
		}
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar a requisição: %w", err)
	}

	url := fmt.Sprintf("%s/campaigns", c.cfg.Yandex.APIURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}

	c.setAuthHeaders(req, cred)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, fmt.Errorf("%w: %v", domain.ErrDataSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrDataSourceUnavailable, resp.StatusCode, string(body))
	}

	var response directdomain.CampaignsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	if response.Error != nil {
		if response.Error.IsTokenExpired() {
			return nil, fmt.Errorf("%w: %s", domain.ErrTokenRefreshFailed, response.Error.Message)
		}
		return nil, fmt.Errorf("%w: %s (código %d)", domain.ErrDataSourceUnavailable, response.Error.Message, response.Error.Code)
	}

	if response.Result == nil {
		return nil, fmt.Errorf("%w: resposta sem resultado", domain.ErrDataSourceUnavailable)
	}

	campaigns := response.Result.Campaigns
	for i := range campaigns {
		// Orçamento chega em micro-unidades; a normalização acontece aqui
		if campaigns[i].DailyBudget != nil {
			campaigns[i].DailyBudgetAmount = float64(campaigns[i].DailyBudget.Amount) / microUnits
		}
	}

	return campaigns, nil
}

// setAuthHeaders adiciona os cabeçalhos de autorização da API do Yandex Direct
func (c *YandexClient) setAuthHeaders(req *http.Request, cred *domain.Credential) {
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("Content-Type", "application/json")
	if cred.ClientLogin != nil && *cred.ClientLogin != "" {
		req.Header.Set("Client-Login", *cred.ClientLogin)
	}
}
