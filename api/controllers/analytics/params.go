package analytics

import (
	"net/http"
	"time"

	"github.com/runwaylab/outcomes-lab-backend/api/validators"
	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

func parseLimit(r *http.Request) (int, error) {
	return validators.ParseQueryInt(r, "limit", analytics.DefaultLimit, 1, analytics.MaxLimit)
}

func parseDays(r *http.Request) (int, error) {
	return validators.ParseQueryInt(r, "days", analytics.DefaultDays, 1, analytics.MaxDays)
}
