package analysis

import (
	"net/http"

	"credible-backend/internal/usecase/assess"
	"credible-backend/internal/usecase/delegate"
	"credible-backend/internal/usecase/repair"
)

// Register registers the analysis HTTP handlers with the given mux.
func Register(mux *http.ServeMux, assessor assess.Service, repairer repair.Service, delegateSvc *delegate.Service, delegated bool) {
	mux.Handle("POST /verify", VerifyHandler{
		Assessor:  assessor,
		Delegate:  delegateSvc,
		Delegated: delegated,
	})
	mux.Handle("POST /repair", RepairHandler{Svc: repairer})

	for _, tmpl := range []delegate.Template{
		delegate.BiasTemplate,
		delegate.XAITemplate,
		delegate.KnowledgeGapsTemplate,
	} {
		mux.Handle("POST /"+tmpl.Name, DelegatedHandler{Svc: delegateSvc, Template: tmpl})
	}
}
