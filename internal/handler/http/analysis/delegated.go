package analysis

import (
	"errors"
	"log/slog"
	"net/http"

	"credible-backend/internal/domain/entity"
	hhttp "credible-backend/internal/handler/http"
	"credible-backend/internal/handler/http/respond"
	"credible-backend/internal/observability/logging"
	"credible-backend/internal/usecase/delegate"
)

// DelegatedHandler serves one of the delegated analysis endpoints
// (/analyze-bias, /xai-info, /knowledge-gaps). All three share the same
// request shape and orchestration; only the template differs.
type DelegatedHandler struct {
	Svc      *delegate.Service
	Template delegate.Template
}

func (h DelegatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		hhttp.RecordAnalysis(h.Template.Name, false)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.Analyze(r.Context(), h.Template, req.Content, req.SourceURL)
	if err != nil {
		logging.WithRequestID(r.Context(), slog.Default()).Error("delegated analysis failed",
			slog.String("endpoint", h.Template.Name),
			slog.Any("error", err))
		hhttp.RecordAnalysis(h.Template.Name, false)
		respond.SafeErrorV2(w, http.StatusBadGateway, mapDelegateError(err))
		return
	}

	hhttp.RecordAnalysis(h.Template.Name, true)
	respond.JSON(w, http.StatusOK, result)
}

// mapDelegateError converts delegated-flow failures to the transport error
// taxonomy. A missing credential is the operator's problem, not the external
// service's: it maps to 400 with instructions, issued before any external
// call. Everything else is an upstream failure surfaced as 502 with the
// underlying message attached.
func mapDelegateError(err error) *respond.AppError {
	if errors.Is(err, entity.ErrCredentialMissing) {
		return respond.NewAppError(http.StatusBadRequest, entity.ErrCredentialMissing.Error(), nil)
	}
	return respond.NewAppError(http.StatusBadGateway, err.Error(), err)
}
