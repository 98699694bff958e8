package direct

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	clientmocks "github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/directclient/mocks"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository/mocks"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

func freshCredential(id int64) *domain.Credential {
	return &domain.Credential{
		ID:           id,
		UserID:       1,
		AccessToken:  "access-old",
		RefreshToken: "refresh-old",
		ExpiresAt:    time.Now().Add(time.Hour),
		IsActive:     true,
	}
}

func expiredCredential(id int64) *domain.Credential {
	cred := freshCredential(id)
	cred.ExpiresAt = time.Now().Add(-time.Hour)
	return cred
}

func TestEnsureFreshSkipsValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)
	cred := freshCredential(1)

	// Token válido: nenhuma chamada ao banco nem à API
	err := manager.EnsureFresh(context.Background(), cred)

	assert.NoError(t, err)
	assert.Equal(t, "access-old", cred.AccessToken)
}

func TestEnsureFreshRenewsExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)
	cred := expiredCredential(1)

	mockCredentials.EXPECT().
		GetByID(int64(1)).
		Return(expiredCredential(1), nil)

	pair := &domain.TokenPair{
		AccessToken:  "access-new",
		RefreshToken: "refresh-new",
		TokenType:    "bearer",
		ExpiresIn:    3600,
	}

	mockClient.EXPECT().
		RefreshToken(gomock.Any(), "refresh-old").
		Return(pair, nil).
		Times(1)

	mockCredentials.EXPECT().
		UpdateTokens(int64(1), pair, gomock.Any()).
		Return(nil)

	err := manager.EnsureFresh(context.Background(), cred)

	assert.NoError(t, err)
	assert.Equal(t, "access-new", cred.AccessToken)
	assert.Equal(t, "refresh-new", cred.RefreshToken)
	assert.True(t, cred.ExpiresAt.After(time.Now()))
}

func TestEnsureFreshReusesConcurrentRenewal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)
	cred := expiredCredential(1)

	// Outra goroutine renovou enquanto esperávamos o lock: o banco já tem
	// tokens frescos e a API não é chamada de novo
	renewed := freshCredential(1)
	renewed.AccessToken = "access-renewed"
	renewed.RefreshToken = "refresh-renewed"

	mockCredentials.EXPECT().
		GetByID(int64(1)).
		Return(renewed, nil)

	err := manager.EnsureFresh(context.Background(), cred)

	assert.NoError(t, err)
	assert.Equal(t, "access-renewed", cred.AccessToken)
	assert.Equal(t, "refresh-renewed", cred.RefreshToken)
}

func TestEnsureFreshRefreshFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)
	cred := expiredCredential(1)

	mockCredentials.EXPECT().
		GetByID(int64(1)).
		Return(expiredCredential(1), nil)

	mockClient.EXPECT().
		RefreshToken(gomock.Any(), "refresh-old").
		Return(nil, domain.ErrTokenRefreshFailed)

	err := manager.EnsureFresh(context.Background(), cred)

	assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
	assert.Equal(t, "access-old", cred.AccessToken)
}

func TestGetConnectionCachesByToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)

	mockCredentials.EXPECT().
		GetByID(int64(7)).
		Return(freshCredential(7), nil).
		Times(1)

	first, err := manager.GetConnection(7)
	assert.NoError(t, err)

	second, err := manager.GetConnection(7)
	assert.NoError(t, err)

	assert.Same(t, first, second)
}

func TestGetConnectionInactiveCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)

	inactive := freshCredential(7)
	inactive.IsActive = false

	mockCredentials.EXPECT().
		GetByID(int64(7)).
		Return(inactive, nil)

	conn, err := manager.GetConnection(7)

	assert.Nil(t, conn)
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestGetConnectionForUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)

	cred := freshCredential(9)

	mockCredentials.EXPECT().
		GetDefaultByUser(int64(1)).
		Return(cred, nil)

	mockCredentials.EXPECT().
		GetByID(int64(9)).
		Return(cred, nil)

	conn, err := manager.GetConnectionForUser(1)

	assert.NoError(t, err)
	assert.Equal(t, int64(9), conn.Credential().ID)
}

func TestGetConnectionForUserWithoutCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)

	mockCredentials.EXPECT().
		GetDefaultByUser(int64(1)).
		Return(nil, nil)

	conn, err := manager.GetConnectionForUser(1)

	assert.Nil(t, conn)
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestInvalidateDropsCachedConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := clientmocks.NewMockClient(ctrl)
	mockCredentials := mocks.NewMockCredentialRepository(ctrl)

	manager := NewManager(mockClient, mockCredentials)

	mockCredentials.EXPECT().
		GetByID(int64(7)).
		Return(freshCredential(7), nil).
		Times(2)

	first, err := manager.GetConnection(7)
	assert.NoError(t, err)

	manager.Invalidate(7)

	second, err := manager.GetConnection(7)
	assert.NoError(t, err)

	assert.NotSame(t, first, second)
}
