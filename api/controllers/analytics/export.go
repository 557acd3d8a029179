package analytics

import (
	"fmt"
	"net/http"

	"github.com/runwaylab/outcomes-lab-backend/api/responses"
	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/runwaylab/outcomes-lab-backend/internal/reports"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
)

// Export streams every report as one XLSX attachment.
func Export(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := parseLimit(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		days, err := parseDays(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		book, err := reports.Workbook(ctx, service, reports.Options{Limit: limit, Days: days})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		defer book.Close()

		filename := fmt.Sprintf("outcomes-report-%s.xlsx", timeNowUTC().Format("20060102"))
		w.Header().Set("Content-Type", reports.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.WriteHeader(http.StatusOK)
		if err := book.Write(w); err != nil && logg != nil {
			logg.Error(logg.WithField(ctx, "filename", filename), "analytics.export_write_failed", err)
		}
	}
}
