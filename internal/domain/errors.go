package domain

import (
	"errors"
)

// Erros sentinela compartilhados entre camadas
var (
	ErrCredentialNotFound    = errors.New("credencial não encontrada")
	ErrTokenRefreshFailed    = errors.New("falha ao renovar o token de acesso")
	ErrDataSourceUnavailable = errors.New("fonte de dados indisponível")
	ErrEmptyDataset          = errors.New("nenhum dado disponível para o período")
	ErrInvalidCronExpression = errors.New("expressão cron inválida")
	ErrInvalidConditionRule  = errors.New("regra de condição inválida")
	ErrAggregation           = errors.New("falha na agregação do relatório")
	ErrSyncConflict          = errors.New("conflito ao sincronizar campanhas")
	ErrNotificationDelivery  = errors.New("falha no envio da notificação")
)
