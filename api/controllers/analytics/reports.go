package analytics

import (
	"context"
	"net/http"

	"github.com/runwaylab/outcomes-lab-backend/api/responses"
	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
)

func Summary(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, err := service.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ReturnsByCategory(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return list(logg, service.ReturnsByCategory)
}

func RevenueByDepartment(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return list(logg, service.RevenueByDepartment)
}

func ReturnsByDepartment(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return list(logg, service.ReturnsByDepartment)
}

func AgeDistribution(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return list(logg, service.AgeDistribution)
}

func RevenueByBrand(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return bounded(logg, parseLimit, service.RevenueByBrand)
}

func RevenueByCountry(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return bounded(logg, parseLimit, service.RevenueByCountry)
}

func RevenueOverTime(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return bounded(logg, parseDays, service.RevenueOverTime)
}

func list[T any](logg *logger.Logger, fetch func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := fetch(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, nonNil(rows))
	}
}

func bounded[T any](logg *logger.Logger, parse func(*http.Request) (int, error), fetch func(context.Context, int) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		n, err := parse(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rows, err := fetch(ctx, n)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, nonNil(rows))
	}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
