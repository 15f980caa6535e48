package analysis

import (
	"net/http"

	hhttp "credible-backend/internal/handler/http"
	"credible-backend/internal/handler/http/respond"
	"credible-backend/internal/usecase/assess"
	"credible-backend/internal/usecase/delegate"
)

// VerifyHandler serves POST /verify. Depending on the configured analyzer
// mode it answers from the local heuristic assessor or delegates to the
// external generative service with the verification template.
type VerifyHandler struct {
	Assessor  assess.Service
	Delegate  *delegate.Service
	Delegated bool
}

func (h VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		hhttp.RecordAnalysis("verify", false)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if h.Delegated {
		result, err := h.Delegate.Analyze(r.Context(), delegate.VerifyTemplate, req.Content, req.SourceURL)
		if err != nil {
			hhttp.RecordAnalysis("verify", false)
			respond.SafeErrorV2(w, http.StatusBadGateway, mapDelegateError(err))
			return
		}
		hhttp.RecordAnalysis("verify", true)
		respond.JSON(w, http.StatusOK, result)
		return
	}

	result := h.Assessor.Assess(req.Content, req.SourceURL)
	hhttp.RecordAnalysis("verify", true)
	hhttp.RecordHeuristicScore(result.CredibilityScore)
	respond.JSON(w, http.StatusOK, result)
}
