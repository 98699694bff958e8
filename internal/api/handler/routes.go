package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/directpulse/direct-pulse-api/internal/api/handler/router"
	"github.com/directpulse/direct-pulse-api/internal/scheduler"
	"github.com/directpulse/direct-pulse-api/internal/usecases/syncing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Scheduler(engine *scheduler.Engine) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/scheduler/status",
			Method:  http.MethodGet,
			Handler: SchedulerStatus(engine),
		},
		{
			Path:    "/v1/scheduler/refresh",
			Method:  http.MethodPost,
			Handler: SchedulerRefresh(engine),
		},
		{
			// Prefixo estático próprio: httprouter não aceita curinga
			// disputando o segmento com /status e /refresh
			Path:    "/v1/scheduler/jobs/:kind/:id/run",
			Method:  http.MethodPost,
			Handler: RunSchedulerJob(engine),
		},
	}
}

func Tokens(service syncing.Service) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/tokens/:id/sync",
			Method:  http.MethodPost,
			Handler: SyncCampaigns(service),
		},
		{
			Path:    "/v1/tokens/:id/campaigns",
			Method:  http.MethodGet,
			Handler: ListCampaigns(service),
		},
	}
}
