package directclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	directdomain "github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/domain"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

// ExchangeCode troca um código de autorização OAuth por um par de tokens
func (c *YandexClient) ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)

	return c.requestToken(ctx, form)
}

// RefreshToken renova o par de tokens a partir do refresh token
func (c *YandexClient) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	pair, err := c.requestToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	return pair, nil
}

func (c *YandexClient) requestToken(ctx context.Context, form url.Values) (*domain.TokenPair, error) {
	form.Set("client_id", c.cfg.Yandex.ClientID)
	form.Set("client_secret", c.cfg.Yandex.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Yandex.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	var tokenResponse directdomain.TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	if resp.StatusCode != http.StatusOK || tokenResponse.Error != "" {
		return nil, fmt.Errorf("erro do endpoint OAuth: %s (%s)", tokenResponse.Error, tokenResponse.ErrorDescription)
	}

	return &domain.TokenPair{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.RefreshToken,
		TokenType:    tokenResponse.TokenType,
		ExpiresIn:    tokenResponse.ExpiresIn,
	}, nil
}
