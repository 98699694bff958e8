package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/internal/domain"
	"github.com/directpulse/direct-pulse-api/internal/usecases/syncing"
	"github.com/directpulse/direct-pulse-api/pkg/apiErrors"
)

// SyncCampaigns sincroniza os snapshots locais com a lista remota de campanhas
func SyncCampaigns(service syncing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SyncCampaigns")

		tokenID, ok := tokenIDParam(w, r)
		if !ok {
			return
		}

		result, err := service.Sync(r.Context(), tokenID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrCredentialNotFound):
				apiErrors.WriteError(w, apiErrors.ErrCredentialNotFound, "Credencial não encontrada ou inativa", nil)
			case errors.Is(err, domain.ErrTokenRefreshFailed), errors.Is(err, domain.ErrDataSourceUnavailable):
				apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao consultar a API do Yandex Direct", err.Error())
			case errors.Is(err, domain.ErrSyncConflict):
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Sincronização revertida por falha de escrita", err.Error())
			default:
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao sincronizar campanhas", err.Error())
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	})
}

// ListCampaigns retorna os snapshots locais do token com o resumo agregado
func ListCampaigns(service syncing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenID, ok := tokenIDParam(w, r)
		if !ok {
			return
		}

		snapshots, summary, err := service.ListCampaigns(tokenID)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar campanhas", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"summary":   summary,
			"campaigns": snapshots,
		})
	})
}

func tokenIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	params := httprouter.ParamsFromContext(r.Context())

	tokenID, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Identificador de token inválido", nil)
		return 0, false
	}

	return tokenID, true
}
