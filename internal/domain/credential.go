package domain

import (
	"time"
)

// Credential representa um token OAuth do Yandex Direct armazenado no banco
type Credential struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	AccountName  string     `json:"account_name"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenType    string     `json:"token_type"`
	ExpiresAt    time.Time  `json:"expires_at"`
	ClientLogin  *string    `json:"client_login"`
	IsActive     bool       `json:"is_active"`
	IsDefault    bool       `json:"is_default"`
	LastUsed     *time.Time `json:"last_used"`
	LastStatus   *string    `json:"last_status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Expired indica se o access token já passou da validade
func (c *Credential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// TokenPair é o resultado de uma troca ou renovação de token no endpoint OAuth
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
