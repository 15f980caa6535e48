package analysis

import (
	"net/http"

	hhttp "credible-backend/internal/handler/http"
	"credible-backend/internal/handler/http/respond"
	"credible-backend/internal/usecase/repair"
)

// RepairHandler serves POST /repair. The repair engine is a pure local
// transformation, so the handler never touches the external service.
type RepairHandler struct {
	Svc repair.Service
}

func (h RepairHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.Svc.Repair(req.Content)
	hhttp.RecordRepair(result.RepairedText != result.OriginalText)
	respond.JSON(w, http.StatusOK, result)
}
