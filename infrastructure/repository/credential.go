package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

const (
	credentialsTable   = "yandex_tokens"
	credentialsColumns = "id, user_id, account_name, access_token, refresh_token, token_type, expires_at, client_login, is_active, is_default, last_used, last_status, created_at, updated_at"
)

type CredentialRepository interface {
	GetByID(id int64) (*domain.Credential, error)
	GetDefaultByUser(userID int64) (*domain.Credential, error)
	ListActive() ([]*domain.Credential, error)
	StoreTokenForUser(ctx context.Context, userID int64, accountName string, clientLogin *string, pair *domain.TokenPair, isDefault bool) (*domain.Credential, error)
	UpdateTokens(id int64, pair *domain.TokenPair, expiresAt time.Time) error
	SetLastStatus(id int64, status string) error
	SetLastStatusTx(tx *sql.Tx, id int64, status string) error
	SetDefault(ctx context.Context, userID, id int64) error
	SetActive(id int64, active bool) error
	Delete(id int64) error
}

type credentialRepository struct {
	conn *postgres.Connection
}

func NewCredentialRepository(conn *postgres.Connection) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

func (r *credentialRepository) GetByID(id int64) (*domain.Credential, error) {
	query, args, err := squirrel.
		Select(credentialsColumns).
		From(credentialsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	cred, err := r.scanCredential(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear credencial: %w", err)
	}

	return cred, nil
}

// GetDefaultByUser retorna o token padrão do usuário ou, na falta dele,
// o token ativo mais antigo
func (r *credentialRepository) GetDefaultByUser(userID int64) (*domain.Credential, error) {
	query, args, err := squirrel.
		Select(credentialsColumns).
		From(credentialsTable).
		Where(squirrel.Eq{"user_id": userID, "is_active": true}).
		OrderBy("is_default DESC", "created_at ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	cred, err := r.scanCredential(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear credencial: %w", err)
	}

	return cred, nil
}

func (r *credentialRepository) ListActive() ([]*domain.Credential, error) {
	query, args, err := squirrel.
		Select(credentialsColumns).
		From(credentialsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	creds := make([]*domain.Credential, 0)
	for rows.Next() {
		cred, err := r.scanCredentialRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear credenciais: %w", err)
		}
		creds = append(creds, cred)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return creds, nil
}

// StoreTokenForUser insere ou atualiza o token do usuário para o client_login
// informado. O primeiro token do usuário vira padrão automaticamente; marcar
// como padrão limpa a flag dos demais, tudo na mesma transação
func (r *credentialRepository) StoreTokenForUser(
	ctx context.Context,
	userID int64,
	accountName string,
	clientLogin *string,
	pair *domain.TokenPair,
	isDefault bool,
) (*domain.Credential, error) {
	expiresAt := time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second)

	var stored *domain.Credential
	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		var count int
		countQuery, countArgs, err := squirrel.
			Select("COUNT(*)").
			From(credentialsTable).
			Where(squirrel.Eq{"user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if err := tx.QueryRow(countQuery, countArgs...).Scan(&count); err != nil {
			return fmt.Errorf("erro ao contar tokens do usuário: %w", err)
		}

		makeDefault := isDefault || count == 0

		if makeDefault {
			clearQuery, clearArgs, err := squirrel.
				Update(credentialsTable).
				Set("is_default", false).
				Where(squirrel.Eq{"user_id": userID}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}
			if _, err := tx.Exec(clearQuery, clearArgs...); err != nil {
				return fmt.Errorf("erro ao limpar tokens padrão: %w", err)
			}
		}

		insertQuery, insertArgs, err := squirrel.StatementBuilder.
			Insert(credentialsTable).
			Columns("user_id", "account_name", "access_token", "refresh_token", "token_type", "expires_at", "client_login", "is_active", "is_default").
			Values(userID, accountName, pair.AccessToken, pair.RefreshToken, pair.TokenType, expiresAt, clientLogin, true, makeDefault).
			Suffix(`
				ON CONFLICT (user_id, client_login) DO UPDATE SET
					account_name = EXCLUDED.account_name,
					access_token = EXCLUDED.access_token,
					refresh_token = EXCLUDED.refresh_token,
					token_type = EXCLUDED.token_type,
					expires_at = EXCLUDED.expires_at,
					is_active = TRUE,
					is_default = EXCLUDED.is_default,
					updated_at = NOW()
				RETURNING ` + credentialsColumns).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		cred, err := r.scanCredential(tx.QueryRow(insertQuery, insertArgs...))
		if err != nil {
			return fmt.Errorf("erro ao salvar token: %w", err)
		}

		stored = cred
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *credentialRepository) UpdateTokens(id int64, pair *domain.TokenPair, expiresAt time.Time) error {
	query, args, err := squirrel.
		Update(credentialsTable).
		Set("access_token", pair.AccessToken).
		Set("refresh_token", pair.RefreshToken).
		Set("token_type", pair.TokenType).
		Set("expires_at", expiresAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar tokens: %w", err)
	}

	return nil
}

func (r *credentialRepository) SetLastStatus(id int64, status string) error {
	query, args, err := squirrel.
		Update(credentialsTable).
		Set("last_status", status).
		Set("last_used", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar status da credencial: %w", err)
	}

	return nil
}

// SetLastStatusTx atualiza o status dentro de uma transação em andamento,
// usado pelo sync de campanhas
func (r *credentialRepository) SetLastStatusTx(tx *sql.Tx, id int64, status string) error {
	query, args, err := squirrel.
		Update(credentialsTable).
		Set("last_status", status).
		Set("last_used", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar status da credencial: %w", err)
	}

	return nil
}

func (r *credentialRepository) SetDefault(ctx context.Context, userID, id int64) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		clearQuery, clearArgs, err := squirrel.
			Update(credentialsTable).
			Set("is_default", false).
			Where(squirrel.Eq{"user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}
		if _, err := tx.Exec(clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("erro ao limpar tokens padrão: %w", err)
		}

		setQuery, setArgs, err := squirrel.
			Update(credentialsTable).
			Set("is_default", true).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": id, "user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		result, err := tx.Exec(setQuery, setArgs...)
		if err != nil {
			return fmt.Errorf("erro ao definir token padrão: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
		}
		if affected == 0 {
			return domain.ErrCredentialNotFound
		}

		return nil
	})
}

func (r *credentialRepository) SetActive(id int64, active bool) error {
	query, args, err := squirrel.
		Update(credentialsTable).
		Set("is_active", active).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar credencial: %w", err)
	}

	return nil
}

func (r *credentialRepository) Delete(id int64) error {
	query, args, err := squirrel.
		Delete(credentialsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao remover credencial: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *credentialRepository) scanCredential(row rowScanner) (*domain.Credential, error) {
	cred := &domain.Credential{}

	err := row.Scan(
		&cred.ID,
		&cred.UserID,
		&cred.AccountName,
		&cred.AccessToken,
		&cred.RefreshToken,
		&cred.TokenType,
		&cred.ExpiresAt,
		&cred.ClientLogin,
		&cred.IsActive,
		&cred.IsDefault,
		&cred.LastUsed,
		&cred.LastStatus,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return cred, nil
}

func (r *credentialRepository) scanCredentialRows(rows *sql.Rows) (*domain.Credential, error) {
	return r.scanCredential(rows)
}
