package controllers

import (
	"context"
	"net/http"

	"github.com/runwaylab/outcomes-lab-backend/api/responses"
	pkgerrors "github.com/runwaylab/outcomes-lab-backend/pkg/errors"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"github.com/runwaylab/outcomes-lab-backend/pkg/version"
)

const bannerMessage = "Runway Outcomes Lab API"

type Pinger interface {
	Ping(ctx context.Context) error
}

func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": bannerMessage, "version": version.Version})
	}
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady pings the database and, when configured, Redis. A nil redis pinger is skipped.
func HealthReady(logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := map[string]string{}
		failed := false

		if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "unavailable"
			failed = true
			if logg != nil {
				logg.Error(logg.WithField(ctx, "dependency", "database"), "health.ready_failed", err)
			}
		} else {
			checks["database"] = "ok"
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				failed = true
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", "redis"), "health.ready_failed", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		if failed {
			responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency check failed").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
