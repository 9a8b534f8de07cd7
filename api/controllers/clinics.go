package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/api/middleware"
	"github.com/hsalves/clinistock-backend/api/responses"
	"github.com/hsalves/clinistock-backend/api/validators"
	"github.com/hsalves/clinistock-backend/internal/clinics"
	"github.com/hsalves/clinistock-backend/internal/movements"
	"github.com/hsalves/clinistock-backend/internal/stock"
	"github.com/hsalves/clinistock-backend/pkg/db/models"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
	"github.com/hsalves/clinistock-backend/pkg/logger"
)

func ClinicList(svc clinics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clinic service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type clinicDetailResponse struct {
	Clinic          *models.Clinic           `json:"clinic"`
	Stocks          []stock.ClinicStockView  `json:"stocks"`
	RecentMovements []movements.MovementView `json:"recent_movements"`
}

// ClinicDetail composes the clinic record with its balances and the
// newest slice of its movement log.
func ClinicDetail(clinicSvc clinics.Service, stockSvc stock.Service, movementSvc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if clinicSvc == nil || stockSvc == nil || movementSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clinic service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clinic, err := clinicSvc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stocks, err := stockSvc.ListByClinic(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "movement_limit", movements.DefaultRecentLimit, 1, movements.MaxRecentLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recent, err := movementSvc.RecentByClinic(r.Context(), id, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, clinicDetailResponse{
			Clinic:          clinic,
			Stocks:          stocks,
			RecentMovements: recent,
		})
	}
}

func ClinicCreate(svc clinics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clinic service unavailable"))
			return
		}

		var body clinics.CreateClinicInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clinic, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, clinic)
	}
}

func ClinicUpdate(svc clinics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clinic service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body clinics.UpdateClinicInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clinic, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, clinic)
	}
}

func ClinicDelete(svc clinics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clinic service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

type stockOperationRequest struct {
	MaterialID uuid.UUID `json:"material_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
	Note       string    `json:"note,omitempty"`
}

// ClinicAllocate moves warehouse quantity into the clinic's balance.
func ClinicAllocate(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		clinicID, actorID, err := stockOperationScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stockOperationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Allocate(r.Context(), stock.AllocateInput{
			ClinicID:    clinicID,
			MaterialID:  body.MaterialID,
			Quantity:    body.Quantity,
			Note:        validators.SanitizeString(body.Note, 500),
			ActorUserID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ClinicConsume draws quantity down from the clinic's balance.
func ClinicConsume(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		clinicID, actorID, err := stockOperationScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stockOperationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Consume(r.Context(), stock.ConsumeInput{
			ClinicID:    clinicID,
			MaterialID:  body.MaterialID,
			Quantity:    body.Quantity,
			Note:        validators.SanitizeString(body.Note, 500),
			ActorUserID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type openFlagRequest struct {
	Open *bool `json:"open" validate:"required"`
}

// ClinicSetOpenFlag toggles the opened marker on one stocked material.
func ClinicSetOpenFlag(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		clinicID, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		materialID, err := validators.ParseUUIDParam(chi.URLParam(r, "materialId"), "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body openFlagRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.SetOpenFlag(r.Context(), stock.OpenFlagInput{
			ClinicID:   clinicID,
			MaterialID: materialID,
			Open:       *body.Open,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// ClinicClearMovements trims the movement log for one clinic. Balances
// stay as they are.
func ClinicClearMovements(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movement service unavailable"))
			return
		}

		clinicID, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearByClinic(r.Context(), clinicID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

func stockOperationScope(r *http.Request) (clinicID, actorID uuid.UUID, err error) {
	clinicID, err = validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	actorID, parseErr := uuid.Parse(raw)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid user id")
	}
	return clinicID, actorID, nil
}
