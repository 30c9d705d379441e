package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/renomatch/renomatch-backend/api/middleware"
	"github.com/renomatch/renomatch-backend/api/responses"
	"github.com/renomatch/renomatch-backend/api/validators"
	"github.com/renomatch/renomatch-backend/internal/leads"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

type submitLeadRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,be_phone"`

	Address    string `json:"address" validate:"required,max=200"`
	PostalCode string `json:"postalCode" validate:"required,len=4,numeric"`
	City       string `json:"city" validate:"required,max=100"`
	Region     string `json:"region" validate:"omitempty,max=100"`

	ProjectType  string  `json:"projectType" validate:"required,oneof=roof facade insulation solar combo"`
	BuildingType string  `json:"buildingType" validate:"required,oneof=row semi_detached detached apartment"`
	YearBuilt    *int    `json:"yearBuilt" validate:"omitempty,min=1900"`
	Urgency      string  `json:"urgency" validate:"required,oneof=1-3m 3-6m 6-12m exploring"`
	BudgetMin    int     `json:"budgetMin" validate:"min=0"`
	BudgetMax    int     `json:"budgetMax" validate:"required,min=1"`
	Priority     string  `json:"priority" validate:"required,oneof=price balance quality"`
	ExtraInfo    *string `json:"extraInfo" validate:"omitempty,max=500"`
}

// SubmitLead runs the full submission: credit gate, estimate, match, consume,
// persist.
func SubmitLead(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		token := middleware.SessionTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session token required"))
			return
		}

		var req submitLeadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), leads.SubmitInput{
			SessionToken: token,

			FirstName: validators.SanitizeString(req.FirstName, 100),
			LastName:  validators.SanitizeString(req.LastName, 100),
			Email:     strings.ToLower(validators.SanitizeString(req.Email, 254)),
			Phone:     validators.SanitizeString(req.Phone, 20),

			Address:    validators.SanitizeString(req.Address, 200),
			PostalCode: validators.SanitizeString(req.PostalCode, 4),
			City:       validators.SanitizeString(req.City, 100),
			Region:     validators.SanitizeString(req.Region, 100),

			ProjectType:  enums.ProjectType(req.ProjectType),
			BuildingType: enums.BuildingType(req.BuildingType),
			YearBuilt:    req.YearBuilt,
			Urgency:      enums.Urgency(req.Urgency),
			Budget:       types.MoneyRange{Min: req.BudgetMin, Max: req.BudgetMax},
			Priority:     enums.Priority(req.Priority),
			ExtraInfo:    req.ExtraInfo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetLead returns a stored lead with its breakdown recomputed.
func GetLead(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "leadId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead id"))
			return
		}

		detail, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AdminListLeads returns leads for the back office, newest first.
func AdminListLeads(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), leads.ListParams{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type updateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new forwarded contacted won lost"`
}

// AdminUpdateLeadStatus advances a lead through its lifecycle.
func AdminUpdateLeadStatus(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "leadId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead id"))
			return
		}

		var req updateLeadStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.UpdateStatus(r.Context(), id, enums.LeadStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}
