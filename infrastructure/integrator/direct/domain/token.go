package domain

import (
	"strings"
)

// TokenResponse é a resposta do endpoint OAuth do Yandex
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// APIError é o erro estruturado da API do Yandex Direct
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_string"`
	Detail  string `json:"error_detail"`
}

// IsTokenExpired indica se o erro da API aponta token inválido ou expirado
func (e *APIError) IsTokenExpired() bool {
	if e == nil {
		return false
	}
	// Códigos de autorização da API do Yandex Direct
	if e.Code == 53 || e.Code == 58 {
		return true
	}
	return strings.Contains(e.Message, "Invalid OAuth token") ||
		strings.Contains(e.Detail, "expired")
}
