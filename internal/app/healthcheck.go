package app

import (
	"context"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-seat-booking/api"
)

const (
	statusUp   = "UP"
	statusDown = "DOWN"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := api.HealthcheckResponse{
		Status: statusUp,
		Checks: make(map[string]string),
		SystemInfo: api.SystemInfo{
			Version:     version,
			Environment: app.config.Env,
		},
	}

	if app.db != nil {
		resp.Checks["postgres"] = statusUp
		if err := app.db.Ping(ctx); err != nil {
			app.contextGetLogger(r).Error("postgres health check failed", "error", err)
			resp.Checks["postgres"] = statusDown
			resp.Status = statusDown
		}
	}

	if app.redis != nil {
		resp.Checks["redis"] = statusUp
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.contextGetLogger(r).Error("redis health check failed", "error", err)
			resp.Checks["redis"] = statusDown
			resp.Status = statusDown
		}
	}

	status := http.StatusOK
	if resp.Status == statusDown {
		status = http.StatusServiceUnavailable
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetOpenAPIDocument serves the embedded API description.
func (app *Application) GetOpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := api.GetSwagger()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, doc, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
