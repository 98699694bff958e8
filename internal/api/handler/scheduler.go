package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/directpulse/direct-pulse-api/internal/scheduler"
	"github.com/directpulse/direct-pulse-api/pkg/apiErrors"
)

// SchedulerStatus retorna a visão operacional do agendador
func SchedulerStatus(engine *scheduler.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.GetStatus())
	})
}

// SchedulerRefresh força uma reconciliação imediata com o banco
func SchedulerRefresh(engine *scheduler.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SchedulerRefresh")

		if err := engine.Refresh(); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao reconciliar agendamentos", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Reconciliação executada com sucesso",
		})
	})
}

// RunSchedulerJob dispara manualmente um agendamento ou uma condição
func RunSchedulerJob(engine *scheduler.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunSchedulerJob")

		params := httprouter.ParamsFromContext(r.Context())
		kind := params.ByName("kind")

		id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Identificador inválido", nil)
			return
		}

		switch kind {
		case scheduler.JobKindSchedule:
			go engine.RunScheduledReport(id)
		case scheduler.JobKindCondition:
			go engine.RunConditionCheck(id)
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de job inválido. Valores aceitos: schedule, condition", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Job iniciado com sucesso",
			"job_id":  scheduler.JobID(kind, id),
		})
	})
}
