package controllers

import (
	"net/http"

	"github.com/hsalves/clinistock-backend/api/responses"
	"github.com/hsalves/clinistock-backend/internal/reports"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
	"github.com/hsalves/clinistock-backend/pkg/logger"
)

// DashboardSummary aggregates warehouse and per-clinic totals.
func DashboardSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		summary, err := svc.DashboardSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// DashboardOpenStatus lists each material with the clinics holding an
// opened unit of it.
func DashboardOpenStatus(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		statuses, err := svc.MaterialsWithOpenStatus(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, statuses)
	}
}
