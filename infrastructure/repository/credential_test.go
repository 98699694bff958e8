package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

func newCredentialRepository(t *testing.T) (CredentialRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCredentialRepository(&postgres.Connection{DB: db}), mock
}

func credentialColumnsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "account_name", "access_token", "refresh_token",
		"token_type", "expires_at", "client_login", "is_active", "is_default",
		"last_used", "last_status", "created_at", "updated_at",
	})
}

func TestCredentialGetByID(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	clientLogin := "agencia-cliente"
	lastStatus := "relatório gerado com sucesso"
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, account_name, access_token, refresh_token, token_type, expires_at, client_login, is_active, is_default, last_used, last_status, created_at, updated_at FROM yandex_tokens WHERE id = $1",
	)).
		WithArgs(int64(5)).
		WillReturnRows(credentialColumnsRows().AddRow(
			int64(5), int64(1), "Conta principal", "access", "refresh",
			"Bearer", now.Add(time.Hour), clientLogin, true, true,
			now, lastStatus, now, now,
		))

	cred, err := repo.GetByID(5)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), cred.ID)
	assert.Equal(t, int64(1), cred.UserID)
	assert.Equal(t, "Conta principal", cred.AccountName)
	assert.Equal(t, "access", cred.AccessToken)
	assert.Equal(t, clientLogin, *cred.ClientLogin)
	assert.Equal(t, lastStatus, *cred.LastStatus)
	assert.True(t, cred.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialGetByIDNotFound(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM yandex_tokens WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(credentialColumnsRows())

	cred, err := repo.GetByID(99)

	// Credencial inexistente não é erro
	assert.NoError(t, err)
	assert.Nil(t, cred)
}

func TestCredentialGetDefaultByUser(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM yandex_tokens WHERE is_active = $1 AND user_id = $2 ORDER BY is_default DESC, created_at ASC LIMIT 1",
	)).
		WithArgs(true, int64(1)).
		WillReturnRows(credentialColumnsRows().AddRow(
			int64(5), int64(1), "Conta principal", "access", "refresh",
			"Bearer", now.Add(time.Hour), nil, true, true,
			nil, nil, now, now,
		))

	cred, err := repo.GetDefaultByUser(1)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), cred.ID)
	assert.True(t, cred.IsDefault)
	assert.Nil(t, cred.ClientLogin)
	assert.Nil(t, cred.LastUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialListActive(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM yandex_tokens WHERE is_active = $1 ORDER BY id ASC",
	)).
		WithArgs(true).
		WillReturnRows(credentialColumnsRows().
			AddRow(int64(1), int64(1), "Conta A", "a", "ra", "Bearer", now, nil, true, true, nil, nil, now, now).
			AddRow(int64(2), int64(2), "Conta B", "b", "rb", "Bearer", now, nil, true, false, nil, nil, now, now))

	creds, err := repo.ListActive()

	assert.NoError(t, err)
	assert.Len(t, creds, 2)
	assert.Equal(t, int64(1), creds[0].ID)
	assert.Equal(t, int64(2), creds[1].ID)
}

func TestCredentialStoreTokenForUserFirstTokenBecomesDefault(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	now := time.Now()
	clientLogin := "agencia-cliente"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM yandex_tokens WHERE user_id = $1",
	)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE yandex_tokens SET is_default = $1 WHERE user_id = $2",
	)).
		WithArgs(false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO yandex_tokens (user_id,account_name,access_token,refresh_token,token_type,expires_at,client_login,is_active,is_default)",
	)).
		WithArgs(int64(1), "Conta principal", "access", "refresh", "Bearer", sqlmock.AnyArg(), clientLogin, true, true).
		WillReturnRows(credentialColumnsRows().AddRow(
			int64(7), int64(1), "Conta principal", "access", "refresh",
			"Bearer", now.Add(time.Hour), clientLogin, true, true,
			nil, nil, now, now,
		))
	mock.ExpectCommit()

	pair := &domain.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}

	cred, err := repo.StoreTokenForUser(context.Background(), 1, "Conta principal", &clientLogin, pair, false)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), cred.ID)

	// Primeiro token do usuário vira padrão mesmo sem pedir
	assert.True(t, cred.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialUpdateTokens(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	expiresAt := time.Now().Add(time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE yandex_tokens SET access_token = $1, refresh_token = $2, token_type = $3, expires_at = $4, updated_at = $5 WHERE id = $6",
	)).
		WithArgs("novo-access", "novo-refresh", "Bearer", expiresAt, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pair := &domain.TokenPair{
		AccessToken:  "novo-access",
		RefreshToken: "novo-refresh",
		TokenType:    "Bearer",
	}

	err := repo.UpdateTokens(5, pair, expiresAt)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialSetLastStatus(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE yandex_tokens SET last_status = $1, last_used = $2 WHERE id = $3",
	)).
		WithArgs("sincronização concluída", sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetLastStatus(5, "sincronização concluída")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialSetDefault(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE yandex_tokens SET is_default = $1 WHERE user_id = $2",
	)).
		WithArgs(false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE yandex_tokens SET is_default = $1, updated_at = $2 WHERE id = $3 AND user_id = $4",
	)).
		WithArgs(true, sqlmock.AnyArg(), int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetDefault(context.Background(), 1, 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialSetDefaultNotFound(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE yandex_tokens SET is_default").
		WithArgs(false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Token de outro usuário (ou inexistente) não afeta nenhuma linha
	mock.ExpectExec("UPDATE yandex_tokens SET is_default").
		WithArgs(true, sqlmock.AnyArg(), int64(99), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetDefault(context.Background(), 1, 99)

	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialDelete(t *testing.T) {
	repo, mock := newCredentialRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM yandex_tokens WHERE id = $1",
	)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
