package ml

import (
	"net/http"

	"github.com/runwaylab/outcomes-lab-backend/api/responses"
	"github.com/runwaylab/outcomes-lab-backend/api/validators"
	"github.com/runwaylab/outcomes-lab-backend/internal/risk"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
)

// PredictReturns scores each product's return risk in request order.
func PredictReturns(scorer risk.Scorer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req risk.PredictRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		predictions := scorer.Predict(req.Inputs())
		if predictions == nil {
			predictions = []risk.Prediction{}
		}
		if logg != nil {
			logg.Debug(logg.WithField(ctx, "products", len(predictions)), "ml.predict_returns")
		}
		responses.WriteSuccess(w, risk.PredictResponse{Predictions: predictions})
	}
}
