package direct

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/directclient"
	"github.com/directpulse/direct-pulse-api/infrastructure/repository"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

// ConnectionManager entrega conexões autenticadas com o Yandex Direct,
// renovando tokens expirados sob demanda
type ConnectionManager interface {
	GetConnection(tokenID int64) (*Connection, error)
	GetConnectionForUser(userID int64) (*Connection, error)
	EnsureFresh(ctx context.Context, cred *domain.Credential) error
	Invalidate(tokenID int64)
	StoreAuthorization(ctx context.Context, userID int64, code, accountName string, clientLogin *string, isDefault bool) (*domain.Credential, error)
	SetDefault(ctx context.Context, userID, tokenID int64) error
	SetActive(tokenID int64, active bool) error
	Delete(tokenID int64) error
}

type Manager struct {
	client      directclient.Client
	credentials repository.CredentialRepository

	// mu protege os dois mapas; a renovação em si usa o mutex por credencial
	// para não serializar renovações de contas diferentes
	mu           sync.Mutex
	connections  map[int64]*Connection
	refreshLocks map[int64]*sync.Mutex
}

func NewManager(client directclient.Client, credentials repository.CredentialRepository) *Manager {
	return &Manager{
		client:       client,
		credentials:  credentials,
		connections:  make(map[int64]*Connection),
		refreshLocks: make(map[int64]*sync.Mutex),
	}
}

func (m *Manager) GetConnection(tokenID int64) (*Connection, error) {
	m.mu.Lock()
	if conn, ok := m.connections[tokenID]; ok {
		m.mu.Unlock()
		return conn, nil
	}
	m.mu.Unlock()

	cred, err := m.credentials.GetByID(tokenID)
	if err != nil {
		return nil, err
	}
	if cred == nil || !cred.IsActive {
		return nil, domain.ErrCredentialNotFound
	}

	conn := NewConnection(m, cred)

	m.mu.Lock()
	m.connections[tokenID] = conn
	m.mu.Unlock()

	return conn, nil
}

// GetConnectionForUser resolve o token padrão do usuário, ou o primeiro ativo
func (m *Manager) GetConnectionForUser(userID int64) (*Connection, error) {
	cred, err := m.credentials.GetDefaultByUser(userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrCredentialNotFound
	}

	return m.GetConnection(cred.ID)
}

// EnsureFresh renova o access token quando já passou da validade. Concorrentes
// esperando no mutex reaproveitam a renovação concluída em vez de repeti-la
func (m *Manager) EnsureFresh(ctx context.Context, cred *domain.Credential) error {
	if !cred.Expired(time.Now()) {
		return nil
	}

	lock := m.refreshLock(cred.ID)
	lock.Lock()
	defer lock.Unlock()

	// Verificar novamente: outra goroutine pode ter renovado enquanto esperávamos
	current, err := m.credentials.GetByID(cred.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrCredentialNotFound
	}
	if !current.Expired(time.Now()) {
		cred.AccessToken = current.AccessToken
		cred.RefreshToken = current.RefreshToken
		cred.ExpiresAt = current.ExpiresAt
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"token_id": cred.ID,
	}).Info("Token expirado, renovando")

	pair, err := m.client.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		return fmt.Errorf("erro ao renovar token da credencial %d: %w", cred.ID, err)
	}

	expiresAt := time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second)
	if err := m.credentials.UpdateTokens(cred.ID, pair, expiresAt); err != nil {
		return fmt.Errorf("erro ao persistir tokens renovados: %w", err)
	}

	cred.AccessToken = pair.AccessToken
	cred.RefreshToken = pair.RefreshToken
	cred.TokenType = pair.TokenType
	cred.ExpiresAt = expiresAt

	logrus.WithFields(logrus.Fields{
		"token_id":   cred.ID,
		"expires_at": expiresAt.Format(time.RFC3339),
	}).Info("Token renovado com sucesso")

	return nil
}

// Invalidate remove a conexão do cache; a próxima chamada recarrega do banco
func (m *Manager) Invalidate(tokenID int64) {
	m.mu.Lock()
	delete(m.connections, tokenID)
	m.mu.Unlock()
}

// StoreAuthorization troca o código OAuth por tokens e os persiste para o usuário
func (m *Manager) StoreAuthorization(
	ctx context.Context,
	userID int64,
	code, accountName string,
	clientLogin *string,
	isDefault bool,
) (*domain.Credential, error) {
	pair, err := m.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("erro ao trocar código de autorização: %w", err)
	}

	cred, err := m.credentials.StoreTokenForUser(ctx, userID, accountName, clientLogin, pair, isDefault)
	if err != nil {
		return nil, err
	}

	m.Invalidate(cred.ID)

	return cred, nil
}

func (m *Manager) SetDefault(ctx context.Context, userID, tokenID int64) error {
	return m.credentials.SetDefault(ctx, userID, tokenID)
}

func (m *Manager) SetActive(tokenID int64, active bool) error {
	if err := m.credentials.SetActive(tokenID, active); err != nil {
		return err
	}

	if !active {
		m.Invalidate(tokenID)
	}

	return nil
}

func (m *Manager) Delete(tokenID int64) error {
	if err := m.credentials.Delete(tokenID); err != nil {
		return err
	}

	m.Invalidate(tokenID)

	return nil
}

func (m *Manager) refreshLock(tokenID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.refreshLocks[tokenID]
	if !ok {
		lock = &sync.Mutex{}
		m.refreshLocks[tokenID] = lock
	}

	return lock
}
